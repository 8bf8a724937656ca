package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

func TestConfigure(t *testing.T) {
	t.Run("configure with json format to stderr", func(t *testing.T) {
		gt.NoError(t, logging.Configure("json", "info", "stderr"))
	})

	t.Run("configure with text format", func(t *testing.T) {
		gt.NoError(t, logging.Configure("text", "debug", "-"))
	})

	t.Run("configure with invalid format returns error", func(t *testing.T) {
		gt.Error(t, logging.Configure("invalid", "info", "stdout"))
	})

	t.Run("configure with invalid level returns error", func(t *testing.T) {
		gt.Error(t, logging.Configure("json", "invalid", "stdout"))
	})
}

func TestNewMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := gt.R1(logging.New("json", "info", &buf)).NoError(t)

	logger.Info("cloning", "token", types.Secret("glpat-very-secret-token"))

	gt.False(t, strings.Contains(buf.String(), "glpat-very-secret-token"))
	gt.S(t, buf.String()).Contains("cloning")
}
