package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/scorexml/config"
	"github.com/jsphweid/scorexml/constants"
	"github.com/jsphweid/scorexml/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "scorexml",
	Short: "Builds and merges MusicXML scores",
	Long: `scorexml turns recognized sheet music into MusicXML documents and
joins per-page documents into one continuous score.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("log-level", "info", "log level: debug, info, warn, error or disabled")
	f.Bool("log-json", false, "log as JSON")
	f.Bool("large-page", true, "use an oversized page so systems only break at recognized lines")
	f.Int("page-width", constants.PageWidth, "page width in tenths when --large-page is on")
	f.Int("page-height", constants.PageHeight, "page height in tenths when --large-page is on")
	f.Int("metronome", 0, "add a quarter = N metronome marking to the first measure")
	f.Int("tempo", 0, "sounding tempo, defaults to the metronome value")
	f.Int("divisions", constants.DivisionsPerQuarter, "divisions per quarter note")
	f.StringSlice("suffix", nil, "page document suffixes, .mxl pages are read as compressed containers; generated pages use the first non-.mxl suffix (default .musicxml)")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	cobra.CheckErr(err)
}

// flagKeys maps command line flags onto configuration keys. Only flags the
// user actually set override defaults and environment.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-json":        "log.json",
	"large-page":      "layout.large",
	"page-width":      "layout.width",
	"page-height":     "layout.height",
	"metronome":       "tempo.metronome",
	"tempo":           "tempo.sounding",
	"divisions":       "divisions",
	"suffix":          "pages.suffixes",
	"addr":            "server.addr",
	"allowed-origins": "server.allowed_origins",
}

func loadConfig(flags *pflag.FlagSet, environ []string) (*config.Config, error) {
	loader := config.NewLoader()
	if err := loader.Load(environ); err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		var value any
		var err error
		switch f.Value.Type() {
		case "bool":
			value, err = flags.GetBool(name)
		case "int":
			value, err = flags.GetInt(name)
		case "stringSlice":
			value, err = flags.GetStringSlice(name)
		default:
			value = f.Value.String()
		}
		if err != nil {
			return nil, err
		}
		if err := loader.Set(key, value); err != nil {
			return nil, err
		}
	}
	return loader.Config()
}

type configKey struct{}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags(), os.Environ())
	if err != nil {
		return err
	}
	log := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Output:     cmd.ErrOrStderr(),
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	ctx := logger.ContextWithLogger(cmd.Context(), log)
	cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
	return nil
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}
