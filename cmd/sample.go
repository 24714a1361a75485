package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/scorexml/logger"
	"github.com/jsphweid/scorexml/midi"
	"github.com/jsphweid/scorexml/sample"
	"github.com/jsphweid/scorexml/util"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	f := sampleCmd.Flags()
	f.StringP("out", "o", "", "midi file to write (default <score-file> with .mid)")
	f.Int("measures", 0, "only render the first n measures of every staff")
	rootCmd.AddCommand(sampleCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample <score-file>",
	Short: "Renders a recognized score as a MIDI preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		measures, _ := cmd.Flags().GetInt("measures")
		return writeSample(cmd, afero.NewOsFs(), args[0], out, measures)
	},
}

func writeSample(cmd *cobra.Command, fs afero.Fs, path, out string, measures int) error {
	ctx := cmd.Context()
	cfg := configFrom(ctx)

	score, err := readScore(fs, path)
	if err != nil {
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".mid"
	}

	tempo := cfg.Tempo.Sounding
	if tempo == 0 {
		tempo = cfg.Tempo.Metronome
	}
	s, err := sample.Create(score, sample.Options{
		Divisions: cfg.Divisions,
		Tempo:     tempo,
		Measures:  measures,
		Shift:     midi.OctaveShift(score.Staffs),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return err
	}
	if err := util.WriteFileFresh(fs, out, buf.Bytes()); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("wrote midi preview", "path", out, "tracks", len(s.Tracks))
	return nil
}
