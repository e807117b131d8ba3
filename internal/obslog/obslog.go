// Package obslog builds the structured logger that plannerd's components
// take by constructor injection: the HTTP handlers and the auth
// middleware. planctl prints to its command output and the search loop
// does no logging.
package obslog

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/iamthegreatdestroyer/classical-planner/internal/config"
)

// New builds a zerolog.Logger configured from cfg.LogLevel. Unknown levels
// fall back to info, matching the rest of the core's "fail open on
// configuration, fail closed on domain errors" posture.
func New(cfg *config.Config) zerolog.Logger {
	return zerolog.New(os.Stdout).
		Level(parseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
