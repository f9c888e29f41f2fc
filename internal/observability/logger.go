package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/modemlink/internal/logging"
)

// InitLogger configures the process-wide logger with the runtime profile
// and tags it with the application name. Level and output formatting honor
// the MODEMLINK_LOG_* environment overrides.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := log.Logger.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
