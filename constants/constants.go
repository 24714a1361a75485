package constants

// Document defaults. The builder never reads these directly; they seed
// config.Default and musicxml.DefaultOptions.

// DivisionsPerQuarter is the smallest time unit per quarter note. A quarter
// lasts 16 divisions, an eighth 8, a thirty-second 2.
const DivisionsPerQuarter = 16

// Page dimensions in tenths, used when the large page layout is on. System
// breaks then only happen at recognized staff boundaries, not where a
// letter or A4 page would end.
const (
	PageWidth  = 110
	PageHeight = 300
)

const (
	MusicXMLNamespace = "http://www.musicxml.org/ns/musicxml"
	MusicXMLVersion   = "4.0"
)

const PageSuffix = ".musicxml"

const EnvPrefix = "SCOREXML_"
