package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
)

func TestStdoutLogger_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStdoutLogger(logging.LevelInfo, &buf).With(map[string]any{"component": "test"})

	logger.Info("payment approved", map[string]any{"payment-id": 99})
	logger.Error("approval failed", map[string]any{"error": errors.New("boom")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "payment approved", entry["msg"])
	require.Equal(t, "test", entry["component"])
	require.EqualValues(t, 99, entry["payment-id"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	require.Equal(t, "boom", entry["error"])
}

func TestStdoutLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStdoutLogger(logging.LevelWarn, &buf)

	logger.Debug("debug", nil)
	logger.Info("info", nil)
	require.Zero(t, buf.Len())

	logger.Warn("warn", nil)
	require.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, logging.LevelDebug, logging.ParseLevel("debug"))
	require.Equal(t, logging.LevelError, logging.ParseLevel("error"))
	require.Equal(t, logging.LevelInfo, logging.ParseLevel("nonsense"))
}
