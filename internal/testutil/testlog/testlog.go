package testlog

import (
	"testing"

	"github.com/avpack/framehdr/internal/logging"
)

func Start(t *testing.T) {
	t.Helper()
	logger := logging.InitTests()
	logger.Debug().Str("test", t.Name()).Msg("start")
}
