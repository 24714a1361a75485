// Package musicxml turns a recognized score into a score-partwise MusicXML
// document and packs documents into compressed .mxl containers.
package musicxml

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/jsphweid/scorexml/midi"
	"github.com/jsphweid/scorexml/model"
	"github.com/jsphweid/scorexml/partlist"
)

type Builder struct {
	opts Options
}

func New(opts Options) *Builder {
	if opts.Divisions <= 0 {
		opts.Divisions = DefaultOptions().Divisions
	}
	return &Builder{opts: opts}
}

func (b *Builder) Options() Options {
	return b.opts
}

// Render prepares a render over score content. siblings are all staffs that
// end up in the same combined document; their lowest octave decides the
// uniform upward shift. A nil slice renders without shifting.
func (b *Builder) Render(siblings []model.Staff) *Render {
	return &Render{opts: b.opts, shift: midi.OctaveShift(siblings)}
}

// GenerateDocument builds the full document for score: work title, layout
// defaults, part list and one part per staff in input order.
func (b *Builder) GenerateDocument(score model.Score, siblings []model.Staff) (*etree.Document, error) {
	if err := score.Validate(); err != nil {
		return nil, err
	}
	r := b.Render(siblings)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("score-partwise")
	if b.opts.Namespace != "" {
		root.CreateAttr("xmlns", b.opts.Namespace)
	}
	if b.opts.Version != "" {
		root.CreateAttr("version", b.opts.Version)
	}

	root.AddChild(b.work(score.Title))
	root.AddChild(b.defaults())
	root.AddChild(partlist.BuildPartRoster(len(score.Staffs), b.opts.Instrument))
	for i, staff := range score.Staffs {
		part, err := r.Part(staff, i)
		if err != nil {
			return nil, err
		}
		root.AddChild(part)
	}

	doc.Indent(2)
	return doc, nil
}

func (b *Builder) work(title string) *etree.Element {
	work := etree.NewElement("work")
	work.CreateElement("work-title").SetText(title)
	return work
}

func (b *Builder) defaults() *etree.Element {
	defaults := etree.NewElement("defaults")
	if !b.opts.LargePage {
		return defaults
	}
	layout := defaults.CreateElement("page-layout")
	layout.CreateElement("page-height").SetText(strconv.Itoa(b.opts.PageHeight))
	layout.CreateElement("page-width").SetText(strconv.Itoa(b.opts.PageWidth))
	return defaults
}
