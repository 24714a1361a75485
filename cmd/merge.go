package cmd

import (
	"path/filepath"
	"time"

	"github.com/jsphweid/scorexml/file"
	"github.com/jsphweid/scorexml/logger"
	"github.com/jsphweid/scorexml/merge"
	"github.com/jsphweid/scorexml/pages"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	f := mergeCmd.Flags()
	f.StringP("out", "o", "", "combined document (default <dir>/combined.musicxml)")
	f.Bool("watch", false, "merge again whenever a page changes")
	f.Duration("debounce", 500*time.Millisecond, "quiet period before a watched merge runs")
	f.Bool("mxl", false, "also write a compressed .mxl of the combined document")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <dir>",
	Short: "Joins per-page MusicXML documents into one score",
	Long: `Joins the page documents in <dir>, in filename order, into one score.
When two pages carry a part with the same id the later page wins.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = filepath.Join(dir, "combined.musicxml")
		}
		watch, _ := cmd.Flags().GetBool("watch")
		delay, _ := cmd.Flags().GetDuration("debounce")
		mxl, _ := cmd.Flags().GetBool("mxl")

		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		cfg := configFrom(ctx)
		fs := afero.NewOsFs()

		once := func() error {
			res, err := merge.Dir(ctx, fs, dir, out, cfg.Pages.Suffixes...)
			if err != nil {
				return err
			}
			if mxl {
				return pages.WriteMXL(fs, res.Doc, file.MXLPath(out))
			}
			return nil
		}
		if !watch {
			return once()
		}
		return merge.Watch(ctx, dir, out, cfg.Pages.Suffixes, delay, func() {
			if err := once(); err != nil {
				log.Error("merge failed", "error", err)
			}
		})
	},
}
