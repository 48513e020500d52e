// Package config loads quiztick settings from a YAML file and QUIZTICK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/quiztick/internal/apperr"
	"github.com/ensigniasec/quiztick/internal/storage"
	"github.com/ensigniasec/quiztick/internal/subject"
	"github.com/ensigniasec/quiztick/internal/validate"
)

const (
	// DefaultPath is read when --config is not given. A missing file means defaults.
	DefaultPath = "~/.config/quiztick/config.yaml"
	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "QUIZTICK_"
)

// Config holds every user-tunable setting.
type Config struct {
	Subject      string    `yaml:"subject" env:"SUBJECT" validate:"required,subject"`
	Custom       string    `yaml:"custom" env:"CUSTOM"`
	MarkCounting string    `yaml:"mark_counting" env:"MARK_COUNTING" validate:"omitempty,oneof=classic elapsed"`
	LibraryPath  string    `yaml:"library_path" env:"LIBRARY_PATH" validate:"required"`
	LogLevel     string    `yaml:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn warning error"`
	Cues         CueConfig `yaml:"cues" envPrefix:"CUE_"`
}

// CueConfig points at the WAV assets for the audio cues.
type CueConfig struct {
	Mark   string  `yaml:"mark" env:"MARK"`
	Finish string  `yaml:"finish" env:"FINISH"`
	Volume float64 `yaml:"volume" env:"VOLUME" validate:"gte=-10,lte=4"`
	Mute   bool    `yaml:"mute" env:"MUTE"`
	// Bell rings the terminal bell for cues that have no asset.
	Bell bool `yaml:"bell" env:"BELL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Subject:      string(subject.StandardIB),
		MarkCounting: "classic",
		LibraryPath:  storage.DefaultPath,
		LogLevel:     "info",
		Cues:         CueConfig{Bell: true},
	}
}

// Load reads path (if it exists), applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := storage.ExpandTilde(path)
		if err != nil {
			return Config{}, err
		}
		data, err := os.ReadFile(expanded)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, apperr.New("config.load", apperr.ErrInvalidConfiguration, "parse %s: %v", expanded, err)
			}
			logrus.Debugf("loaded config from %s", expanded)
		case errors.Is(err, os.ErrNotExist):
			logrus.Debugf("no config at %s; using defaults", expanded)
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, apperr.New("config.env", apperr.ErrInvalidConfiguration, "%v", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, apperr.New("config.validate", apperr.ErrInvalidConfiguration, "%v", err)
	}

	for _, p := range []*string{&cfg.LibraryPath, &cfg.Cues.Mark, &cfg.Cues.Finish} {
		expanded, err := storage.ExpandTilde(*p)
		if err != nil {
			return Config{}, err
		}
		*p = expanded
	}
	return cfg, nil
}

// DefaultSubject resolves the configured subject identifier or title, e.g.
// "sat-math" or "SAT Math".
func (c Config) DefaultSubject() (subject.Subject, error) {
	return subject.Parse(c.Subject)
}

// Level returns the logrus level for LogLevel, falling back to Info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
