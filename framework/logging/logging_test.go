package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"loud":  zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), "level %q", in)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := logging.NewWithWriter(config.LogConfig{Level: "info", Encoding: "json"}, &buf)

	logger.Debug("hidden")
	logger.Info("service loaded", zap.String("service", "mailer"))
	require.NoError(t, closer.Close())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "service loaded", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "mailer", entry["service"])
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := logging.NewWithWriter(config.LogConfig{Level: "debug", Encoding: "console"}, &buf)

	logger.Debug("parameter set", zap.String("parameter", "db.host"))

	assert.Contains(t, buf.String(), "parameter set")
	assert.Contains(t, buf.String(), `{"parameter": "db.host"}`)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	var console bytes.Buffer
	logger, closer := logging.NewWithWriter(config.LogConfig{
		Level:    "info",
		Encoding: "console",
		File:     path,
		MaxSize:  1,
	}, &console)

	logger.Info("written to both")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to both"`)
	assert.Contains(t, console.String(), "written to both")
}
