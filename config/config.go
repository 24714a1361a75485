// Package config loads scorexml settings: struct defaults first, then
// SCOREXML_* environment variables, then flags the caller applies on top.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jsphweid/scorexml/constants"
	"github.com/jsphweid/scorexml/musicxml"
	"github.com/jsphweid/scorexml/partlist"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Layout    LayoutConfig `koanf:"layout"`
	Tempo     TempoConfig  `koanf:"tempo"`
	Divisions int          `koanf:"divisions" validate:"min=1"`
	Pages     PagesConfig  `koanf:"pages"`
	Log       LogConfig    `koanf:"log"`
	Server    ServerConfig `koanf:"server"`
}

type LayoutConfig struct {
	Large  bool `koanf:"large"`
	Width  int  `koanf:"width" validate:"gt=0"`
	Height int  `koanf:"height" validate:"gt=0"`
}

type TempoConfig struct {
	Metronome int `koanf:"metronome" validate:"gte=0"`
	Sounding  int `koanf:"sounding" validate:"gte=0"`
}

type PagesConfig struct {
	Suffixes []string `koanf:"suffixes" validate:"min=1,dive,required"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `koanf:"json"`
}

type ServerConfig struct {
	Addr           string   `koanf:"addr" validate:"required"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Large:  true,
			Width:  constants.PageWidth,
			Height: constants.PageHeight,
		},
		Divisions: constants.DivisionsPerQuarter,
		Pages:     PagesConfig{Suffixes: []string{constants.PageSuffix}},
		Log:       LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Loader owns one koanf instance. Overrides set through Set win over
// defaults and environment.
type Loader struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
}

func NewLoader() *Loader {
	return &Loader{
		koanf:     koanf.New("."),
		validator: validator.New(),
	}
}

// Load reads defaults and environ (KEY=VALUE pairs, typically os.Environ()).
func (l *Loader) Load(environ []string) error {
	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := l.koanf.Load(env.Provider(".", env.Opt{
		Prefix:        constants.EnvPrefix,
		TransformFunc: transformEnvKey,
		EnvironFunc:   func() []string { return environ },
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

func (l *Loader) Set(key string, value any) error {
	return l.koanf.Set(key, value)
}

func (l *Loader) Config() (*Config, error) {
	var cfg Config
	if err := l.koanf.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := l.validator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// transformEnvKey maps SCOREXML_TEMPO_METRONOME to tempo.metronome and
// SCOREXML_SERVER_ALLOWED_ORIGINS to server.allowed_origins.
func transformEnvKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, constants.EnvPrefix))
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' })
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], value
	}
	return parts[0] + "." + strings.Join(parts[1:], "_"), value
}

func (c *Config) BuilderOptions() musicxml.Options {
	opts := musicxml.DefaultOptions()
	opts.LargePage = c.Layout.Large
	opts.PageWidth = c.Layout.Width
	opts.PageHeight = c.Layout.Height
	opts.Metronome = c.Tempo.Metronome
	opts.Tempo = c.Tempo.Sounding
	opts.Divisions = c.Divisions
	opts.Instrument = partlist.Piano
	return opts
}
