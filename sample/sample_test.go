package sample

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jsphweid/scorexml/midi"
	"github.com/jsphweid/scorexml/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type hit struct {
	tick uint64
	key  uint8
	on   bool
}

func hits(track smf.Track) []hit {
	var res []hit
	var abs uint64
	for _, e := range track {
		abs += uint64(e.Delta)
		var channel, key, vel uint8
		switch {
		case e.Message.GetNoteOn(&channel, &key, &vel):
			res = append(res, hit{abs, key, true})
		case e.Message.GetNoteOff(&channel, &key, &vel):
			res = append(res, hit{abs, key, false})
		}
	}
	return res
}

func n(step string, octave, value int) model.Note {
	return model.Note{
		Pitch:    model.Pitch{Step: step, Octave: octave},
		Duration: model.Duration{Value: value, Name: "x"},
	}
}

func exercise() model.Score {
	return model.Score{Staffs: []model.Staff{
		{Measures: []model.Measure{
			{Symbols: []model.Symbol{
				model.Clef{Sign: "G", Line: 2},
				model.Chord{Notes: []model.Note{n("C", 4, 16), n("E", 4, 8)}, Duration: model.Duration{Value: 8, Name: "eighth"}},
				model.Chord{IsRest: true, Duration: model.Duration{Value: 8, Name: "eighth"}},
				model.Chord{Notes: []model.Note{n("G", 4, 16)}, Duration: model.Duration{Value: 16, Name: "quarter"}},
			}},
			{Symbols: []model.Symbol{
				model.Chord{Notes: []model.Note{n("C", 5, 32)}, Duration: model.Duration{Value: 32, Name: "half"}},
			}},
		}},
		{Measures: []model.Measure{
			{Symbols: []model.Symbol{
				model.Chord{Notes: []model.Note{n("C", 3, 32)}, Duration: model.Duration{Value: 32, Name: "half"}},
			}},
		}},
	}}
}

func roundTrip(t *testing.T, s *smf.SMF) *smf.SMF {
	t.Helper()
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	back, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return back
}

func TestCreate(t *testing.T) {
	s, err := Create(exercise(), Options{Divisions: 16, Tempo: 90})
	require.NoError(t, err)

	back := roundTrip(t, s)
	assert.Equal(t, smf.MetricTicks(16), back.TimeFormat)
	require.Len(t, back.Tracks, 2)

	assert.Equal(t, []hit{
		{0, 60, true},
		{0, 64, true},
		{8, 64, false},
		{16, 60, false},
		{16, 67, true},
		{32, 67, false},
		{32, 72, true},
		{64, 72, false},
	}, hits(back.Tracks[0]))

	assert.Equal(t, []hit{{0, 48, true}, {32, 48, false}}, hits(back.Tracks[1]))
}

func TestCreateLimitsMeasures(t *testing.T) {
	s, err := Create(exercise(), Options{Divisions: 16, Measures: 1})
	require.NoError(t, err)

	for _, h := range hits(s.Tracks[0]) {
		assert.NotEqual(t, uint8(72), h.key)
	}
}

func TestCreateShift(t *testing.T) {
	s, err := Create(exercise(), Options{Divisions: 16, Shift: 1})
	require.NoError(t, err)

	assert.Equal(t, uint8(60), hits(s.Tracks[1])[0].key)
}

func TestCreateOutOfRange(t *testing.T) {
	score := model.Score{Staffs: []model.Staff{{Measures: []model.Measure{{Symbols: []model.Symbol{
		model.Chord{Notes: []model.Note{n("C", -2, 16)}, Duration: model.Duration{Value: 16, Name: "quarter"}},
	}}}}}}

	_, err := Create(score, Options{Divisions: 16})

	assert.True(t, errors.Is(err, midi.ErrOutOfRange))
	assert.Contains(t, err.Error(), "part P1")
}

func TestCreateRejectsNegativeDuration(t *testing.T) {
	score := exercise()
	score.Staffs[1].Measures[0].Symbols = append(score.Staffs[1].Measures[0].Symbols,
		model.Chord{IsRest: true, Duration: model.Duration{Value: -16, Name: "quarter"}})

	_, err := Create(score, Options{Divisions: 16})

	assert.True(t, errors.Is(err, model.ErrInvalidScore))
}

func TestCreateRejectsDivisions(t *testing.T) {
	_, err := Create(exercise(), Options{})

	assert.Error(t, err)
}

func TestNoteOnVelocity(t *testing.T) {
	s, err := Create(exercise(), Options{Divisions: 16})
	require.NoError(t, err)

	for _, e := range s.Tracks[0] {
		var channel, key, vel uint8
		if e.Message.GetNoteOn(&channel, &key, &vel) {
			assert.Equal(t, uint8(velocity), vel)
			assert.True(t, e.Message.Is(gomidi.NoteOnMsg))
		}
	}
}
