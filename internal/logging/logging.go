package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger from the given level string.
// Unknown or empty levels fall back to info.
func Init(levelString string) {
	logLevel := zerolog.InfoLevel
	parsedLevel, err := zerolog.ParseLevel(levelString)
	if err != nil {
		log.Warn().Str("provided_level", levelString).Err(err).Msg("Invalid log level, defaulting to 'info'")
	} else if parsedLevel != zerolog.NoLevel {
		logLevel = parsedLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		// Color only when someone is watching; debug runs are usually interactive.
		NoColor: logLevel > zerolog.DebugLevel,
	}
	log.Logger = log.Output(writer).With().Str("service", "bucket-sweep").Logger()

	log.Debug().Str("log_level", logLevel.String()).Msg("Logger initialized")
}
