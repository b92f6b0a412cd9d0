// Package logging builds zerolog loggers from configuration.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/holmberd/go-reflectionstore/config"
	"github.com/rs/zerolog"
)

// New returns a timestamped logger writing to w in the configured format and level.
// An empty level means info.
func New(cfg config.Log, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = zerolog.ParseLevel(cfg.Level); err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: %w", err)
		}
	}
	switch cfg.Format {
	case config.LogFormatJSON:
	case config.LogFormatConsole, "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
