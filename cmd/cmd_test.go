package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/jsphweid/scorexml/config"
	"github.com/jsphweid/scorexml/logger"
	"github.com/jsphweid/scorexml/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

const treblePage = `
title: Page one
staffs:
  - measures:
      - symbols:
          - clef: {sign: G, line: 2}
          - time: {beats: 4, beat_type: 4}
          - chord:
              duration: {value: 64, name: whole}
              notes: [{step: C, octave: 4, duration: {value: 64, name: whole}}]
`

const bassPage = `
title: Page two
staffs:
  - measures:
      - symbols:
          - chord:
              duration: {value: 64, name: whole}
              notes: [{step: D, octave: 4, duration: {value: 64, name: whole}}]
  - measures:
      - symbols:
          - clef: {sign: F, line: 4}
          - chord:
              duration: {value: 64, name: whole}
              notes: [{step: A, octave: -1, duration: {value: 64, name: whole}}]
`

func testCommand(cfg *config.Config) *cobra.Command {
	ctx := logger.ContextWithLogger(context.Background(), logger.NewLogger(logger.TestConfig()))
	ctx = context.WithValue(ctx, configKey{}, cfg)
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	return cmd
}

func scoreFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in/one.yaml", []byte(treblePage), 0o644))
	require.NoError(t, afero.WriteFile(fs, "in/two.yaml", []byte(bassPage), 0o644))
	return fs
}

func testFlags() *pflag.FlagSet {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Int("divisions", 16, "")
	f.Bool("large-page", true, "")
	f.StringSlice("suffix", nil, "")
	f.String("log-level", "info", "")
	return f
}

func TestLoadConfigFlagsWin(t *testing.T) {
	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--divisions", "32", "--suffix", ".musicxml,.mxl", "--large-page=false"}))

	cfg, err := loadConfig(flags, []string{"SCOREXML_DIVISIONS=96", "SCOREXML_LOG_LEVEL=warn"})
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Divisions)
	assert.Equal(t, []string{".musicxml", ".mxl"}, cfg.Pages.Suffixes)
	assert.False(t, cfg.Layout.Large)
	assert.Equal(t, "warn", cfg.Log.Level, "unset flags leave the environment alone")
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--divisions", "0"}))

	_, err := loadConfig(flags, nil)

	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	fs := scoreFS(t)
	cmd := testCommand(config.Default())

	err := generate(cmd, fs, []string{"in/one.yaml", "in/two.yaml"}, generateArgs{
		out:        "out",
		octaveSafe: true,
		parallel:   2,
		mergeOut:   "out/combined.musicxml",
		mxl:        true,
	})
	require.NoError(t, err)

	for _, p := range []string{"out/page_001.musicxml", "out/page_002.musicxml", "out/page_001.mxl", "out/combined.mxl"} {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}

	data, err := afero.ReadFile(fs, "out/combined.musicxml")
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	parts := doc.Root().SelectElements("part")
	require.Len(t, parts, 2)
	// P1 comes from page two, shifted one octave with the A-1 of its bass
	assert.Equal(t, "D", parts[0].FindElement(".//step").Text())
	assert.Equal(t, "5", parts[0].FindElement(".//octave").Text())
	assert.Equal(t, "0", parts[1].FindElement(".//octave").Text())
	assert.Len(t, doc.FindElements("//part-list/score-part"), 2)
}

func TestGenerateMergesCompressedSuffix(t *testing.T) {
	fs := scoreFS(t)
	cfg := config.Default()
	cfg.Pages.Suffixes = []string{".mxl"}

	err := generate(testCommand(cfg), fs, []string{"in/one.yaml", "in/two.yaml"}, generateArgs{
		out:        "out",
		octaveSafe: true,
		mergeOut:   "out/combined.musicxml",
		mxl:        true,
	})
	require.NoError(t, err)

	for _, p := range []string{"out/page_001.musicxml", "out/page_002.musicxml", "out/page_002.mxl", "out/combined.mxl"} {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}
	data, err := afero.ReadFile(fs, "out/combined.musicxml")
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	assert.Len(t, doc.Root().SelectElements("part"), 2)
}

func TestGenerateBadScore(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("staffs: [{measures: [{symbols: [{}]}]}]"), 0o644))

	err := generate(testCommand(config.Default()), fs, []string{"bad.yaml"}, generateArgs{out: "out"})

	require.ErrorIs(t, err, model.ErrInvalidScore)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestInspect(t *testing.T) {
	one, err := model.DecodeBytes([]byte(treblePage))
	require.NoError(t, err)
	two, err := model.DecodeBytes([]byte(bassPage))
	require.NoError(t, err)

	var buf bytes.Buffer
	inspect(&buf, []string{"one.yaml", "two.yaml"}, []model.Score{one, two}, true)

	out := buf.String()
	assert.Contains(t, out, `one.yaml: "Page one", 1 staffs`)
	assert.Contains(t, out, "  P1: measures=1 chords=1 rests=0 range=C4..C4")
	assert.Contains(t, out, "    1: clef(G2,+0) time(4/4) C4(64)")
	assert.Contains(t, out, "  P2: measures=1 chords=1 rests=0 range=A-1..A-1")
	assert.Contains(t, out, "octave shift: 1")
}

func TestWriteSampleRejectsInvalidScore(t *testing.T) {
	fs := afero.NewMemMapFs()
	bad := "staffs: [{measures: [{symbols: [{chord: {rest: true, duration: {value: -8, name: eighth}}}]}]}]"
	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte(bad), 0o644))

	err := writeSample(testCommand(config.Default()), fs, "bad.yaml", "", 0)

	require.ErrorIs(t, err, model.ErrInvalidScore)
	ok, err := afero.Exists(fs, "bad.mid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteSample(t *testing.T) {
	fs := scoreFS(t)

	require.NoError(t, writeSample(testCommand(config.Default()), fs, "in/two.yaml", "", 0))

	data, err := afero.ReadFile(fs, "in/two.mid")
	require.NoError(t, err)
	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 2)
}
