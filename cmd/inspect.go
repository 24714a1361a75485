package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/scorexml/chord"
	"github.com/jsphweid/scorexml/midi"
	"github.com/jsphweid/scorexml/model"
	"github.com/jsphweid/scorexml/partlist"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	inspectCmd.Flags().Bool("measures", false, "list the chords of every measure")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <score-file>...",
	Short: "Summarizes recognized score files",
	Long: `Summarizes recognized score files: staffs, measures, chords, pitch
range per staff and the octave shift a combined render would apply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		measures, _ := cmd.Flags().GetBool("measures")
		fs := afero.NewOsFs()

		var scores []model.Score
		for _, path := range args {
			score, err := readScore(fs, path)
			if err != nil {
				return err
			}
			scores = append(scores, score)
		}
		inspect(cmd.OutOrStdout(), args, scores, measures)
		return nil
	},
}

func inspect(w io.Writer, names []string, scores []model.Score, listMeasures bool) {
	var all []model.Staff
	for i, score := range scores {
		all = append(all, score.Staffs...)
		fmt.Fprintf(w, "%s: %q, %d staffs\n", names[i], score.Title, len(score.Staffs))
		for si, staff := range score.Staffs {
			var chords, rests int
			for _, m := range staff.Measures {
				for _, sym := range m.Symbols {
					if c, ok := sym.(model.Chord); ok {
						if c.IsRest {
							rests++
						} else {
							chords++
						}
					}
				}
			}
			rng := "-"
			if low, high, ok := midi.Range(staff); ok {
				rng = midi.Describe(low) + ".." + midi.Describe(high)
			}
			fmt.Fprintf(w, "  %s: measures=%d chords=%d rests=%d range=%s\n",
				partlist.PartID(si), len(staff.Measures), chords, rests, rng)

			if listMeasures {
				for mi, m := range staff.Measures {
					fmt.Fprintf(w, "    %d:", mi+1)
					for _, sym := range m.Symbols {
						fmt.Fprintf(w, " %s", describeSymbol(sym))
					}
					fmt.Fprintln(w)
				}
			}
		}
	}
	fmt.Fprintf(w, "octave shift: %d\n", midi.OctaveShift(all))
}

func describeSymbol(sym model.Symbol) string {
	switch s := sym.(type) {
	case model.Clef:
		return fmt.Sprintf("clef(%s%d,%+d)", s.Sign, s.Line, s.Fifths)
	case model.TimeSignature:
		return fmt.Sprintf("time(%d/%d)", s.Numerator, s.Denominator)
	case model.Chord:
		return fmt.Sprintf("%s(%d)", chord.CreateChordKey(s), s.Duration.Value)
	default:
		return "?"
	}
}
