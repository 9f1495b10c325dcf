package logging

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger and returns it. format is
// "console" for human readable output or "json".
func Setup(out io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "logging: level %q", level)
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	switch format {
	case "json":
		logger = zerolog.New(out)
	case "console", "":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	default:
		return zerolog.Nop(), errors.Errorf("logging: unknown format %q", format)
	}

	logger = logger.Level(lvl).With().Timestamp().Logger()
	log.Logger = logger
	return logger, nil
}
