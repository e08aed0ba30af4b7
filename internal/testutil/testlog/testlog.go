package testlog

import (
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/multicall/internal/logging"
)

func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Str("test", t.Name()).Msg("start")
}

// Logf records a test progress line at debug level.
func Logf(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}
