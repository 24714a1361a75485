package cmd

import (
	"fmt"

	"github.com/jsphweid/scorexml/file"
	"github.com/jsphweid/scorexml/logger"
	"github.com/jsphweid/scorexml/merge"
	"github.com/jsphweid/scorexml/model"
	"github.com/jsphweid/scorexml/musicxml"
	"github.com/jsphweid/scorexml/pages"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	f := generateCmd.Flags()
	f.StringP("out", "o", ".", "directory for the page documents")
	f.Bool("octave-safe", true, "shift octaves uniformly across all pages so none is negative")
	f.Int("parallel", 4, "pages built at the same time, 0 for no limit")
	f.String("merge", "", "also merge the pages into this file")
	f.Bool("mxl", false, "also write compressed .mxl containers")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <score-file>...",
	Short: "Builds one MusicXML document per recognized page",
	Long: `Builds one MusicXML document per recognized page. Each score file is
one page, in YAML or JSON, and pages are numbered in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		octaveSafe, _ := cmd.Flags().GetBool("octave-safe")
		parallel, _ := cmd.Flags().GetInt("parallel")
		mergeOut, _ := cmd.Flags().GetString("merge")
		mxl, _ := cmd.Flags().GetBool("mxl")
		return generate(cmd, afero.NewOsFs(), args, generateArgs{
			out:        out,
			octaveSafe: octaveSafe,
			parallel:   parallel,
			mergeOut:   mergeOut,
			mxl:        mxl,
		})
	},
}

type generateArgs struct {
	out        string
	octaveSafe bool
	parallel   int
	mergeOut   string
	mxl        bool
}

func generate(cmd *cobra.Command, fs afero.Fs, scoreFiles []string, a generateArgs) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	cfg := configFrom(ctx)

	scores := make([]model.Score, 0, len(scoreFiles))
	for _, path := range scoreFiles {
		score, err := readScore(fs, path)
		if err != nil {
			return err
		}
		scores = append(scores, score)
	}

	builder := musicxml.New(cfg.BuilderOptions())
	docs, err := pages.Build(ctx, builder, scores, pages.BuildOptions{
		OctaveSafe: a.octaveSafe,
		Parallel:   a.parallel,
	})
	if err != nil {
		return err
	}
	paths, err := pages.Write(ctx, fs, docs, a.out, plainSuffix(cfg.Pages.Suffixes), a.mxl)
	if err != nil {
		return err
	}
	log.Info("generated pages", "count", len(paths), "dir", a.out)

	if a.mergeOut == "" {
		return nil
	}
	res, err := merge.Files(ctx, fs, paths, a.mergeOut)
	if err != nil {
		return err
	}
	if a.mxl {
		return pages.WriteMXL(fs, res.Doc, file.MXLPath(a.mergeOut))
	}
	return nil
}

// plainSuffix is the first suffix naming uncompressed documents; pages.Write
// falls back to .musicxml when there is none.
func plainSuffix(suffixes []string) string {
	for _, s := range suffixes {
		if !file.HasPageSuffix(s, ".mxl") {
			return s
		}
	}
	return ""
}

func readScore(fs afero.Fs, path string) (model.Score, error) {
	f, err := fs.Open(path)
	if err != nil {
		return model.Score{}, fmt.Errorf("could not open score %s: %w", path, err)
	}
	defer f.Close()

	score, err := model.Decode(f)
	if err != nil {
		return model.Score{}, fmt.Errorf("%s: %w", path, err)
	}
	return score, nil
}
