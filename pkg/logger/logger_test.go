package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-dashboard/pkg/logger"
)

func TestNewLineLogger_WritesMessageOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.log")

	l, stop := logger.NewLineLogger(path)
	l.Info("[2025-06-18T12:00:00.000Z] GET /api/weather from 127.0.0.1")
	l.Info("[2025-06-18T12:00:01.000Z] DELETE /api/weather/Kyiv from 127.0.0.1")
	require.NoError(t, stop())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t,
		"[2025-06-18T12:00:00.000Z] GET /api/weather from 127.0.0.1\n"+
			"[2025-06-18T12:00:01.000Z] DELETE /api/weather/Kyiv from 127.0.0.1\n",
		string(data))
}

func TestNewFileLogger_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	l, err := logger.NewFileLogger(path)
	require.NoError(t, err)

	l.Info("HTTP request completed")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"HTTP request completed"`)
}

func TestNewLogger_ConsoleOnly(t *testing.T) {
	l, err := logger.NewLogger("", "logger_test")
	require.NoError(t, err)

	l.Debug().Msg("console only")
}
