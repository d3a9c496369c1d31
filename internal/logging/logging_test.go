package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnsrelay/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{" DeBuG ", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"INVALID", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestNew_StructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{
		Level:            "INFO",
		Structured:       true,
		StructuredFormat: "JSON",
		IncludePID:       true,
		ExtraFields:      map[string]string{"service": "dnsrelay"},
		Output:           &buf,
	})

	logger.Info("relay started", "port", 5353)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "relay started", entry["msg"])
	assert.Equal(t, "dnsrelay", entry["service"])
	assert.EqualValues(t, os.Getpid(), entry["pid"])
	assert.EqualValues(t, 5353, entry["port"])
}

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "INFO", Output: &buf})

	logger.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNew_StructuredNonJSONFallsBackToText(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Structured: true, StructuredFormat: "keyvalue", Output: &buf})

	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "WARN", Output: &buf})

	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := logging.Configure(logging.Config{Level: "DEBUG", Output: &buf})
	require.NotNil(t, logger)

	slog.Debug("via default")
	assert.Contains(t, buf.String(), "via default")
}
