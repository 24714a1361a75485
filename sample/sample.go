// Package sample renders a score, or its first few measures, as a Standard
// MIDI File so a recognition result can be listened to next to the
// generated MusicXML.
package sample

import (
	"fmt"
	"sort"

	"github.com/jsphweid/scorexml/midi"
	"github.com/jsphweid/scorexml/model"
	"github.com/jsphweid/scorexml/partlist"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const velocity = 90

type Options struct {
	// Divisions per quarter of the score; also the ticks per quarter of
	// the file, so durations carry over unchanged.
	Divisions int
	Tempo     int

	// Measures limits every track to its first n measures, 0 for all.
	Measures int

	// Shift raises every note by this many octaves.
	Shift int
}

type event struct {
	tick uint64
	off  bool
	msg  gomidi.Message
}

// Create renders score with one track per staff. The score is validated
// first, so every duration is positive. Chord notes start
// together and the next symbol starts after the chord's own duration.
func Create(score model.Score, opts Options) (*smf.SMF, error) {
	if opts.Divisions <= 0 || opts.Divisions > 0x7fff {
		return nil, fmt.Errorf("divisions %d out of range", opts.Divisions)
	}
	if err := score.Validate(); err != nil {
		return nil, err
	}
	tempo := opts.Tempo
	if tempo <= 0 {
		tempo = 120
	}

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(uint16(opts.Divisions))

	for i, staff := range score.Staffs {
		channel := uint8(i % 16)
		measures := staff.Measures
		if opts.Measures > 0 && len(measures) > opts.Measures {
			measures = measures[:opts.Measures]
		}

		var events []event
		var cursor uint64
		for _, m := range measures {
			for _, sym := range m.Symbols {
				c, ok := sym.(model.Chord)
				if !ok {
					continue
				}
				if !c.IsRest {
					for _, n := range c.Notes {
						k, err := midiKey(n.Pitch, opts.Shift)
						if err != nil {
							return nil, fmt.Errorf("part %s: %w", partlist.PartID(i), err)
						}
						events = append(events,
							event{tick: cursor, msg: gomidi.NoteOn(channel, k, velocity)},
							event{tick: cursor + uint64(n.Duration.Value), off: true, msg: gomidi.NoteOff(channel, k)},
						)
					}
				}
				cursor += uint64(c.Duration.Value)
			}
		}

		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(partlist.PartID(i)))
		if i == 0 {
			track.Add(0, smf.MetaTempo(float64(tempo)))
		}
		// note offs first so a repeated key is released before it sounds again
		sort.SliceStable(events, func(a, b int) bool {
			if events[a].tick != events[b].tick {
				return events[a].tick < events[b].tick
			}
			return events[a].off && !events[b].off
		})
		var last uint64
		for _, e := range events {
			track.Add(uint32(e.tick-last), e.msg)
			last = e.tick
		}
		track.Close(0)

		if err := res.Add(track); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func midiKey(p model.Pitch, shift int) (uint8, error) {
	shifted := p
	shifted.Octave += shift
	n, err := midi.Note(shifted)
	if err != nil {
		return 0, err
	}
	return uint8(n), nil
}
