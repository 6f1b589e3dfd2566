package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qualis/pkg/config"
)

// capture returns a logger writing JSON into buf, bypassing stdout.
func capture(buf *bytes.Buffer) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return &Logger{zlog: zerolog.New(buf)}
}

func entry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNew_SetsGlobalLevel(t *testing.T) {
	for _, tt := range []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
	} {
		t.Run(tt.level, func(t *testing.T) {
			log := New(&config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"})
			require.NotNil(t, log)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("WARNING"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("invalid"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel(""))
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := capture(&buf)

	log.Debug("analysis started")
	e := entry(t, &buf)
	assert.Equal(t, "debug", e["level"])
	assert.Equal(t, "analysis started", e["message"])

	buf.Reset()
	log.Warnf("retry attempt %d", 3)
	e = entry(t, &buf)
	assert.Equal(t, "warn", e["level"])
	assert.Equal(t, "retry attempt 3", e["message"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := capture(&buf)

	log.WithFields(map[string]interface{}{
		"ticker": "RELIANCE",
		"score":  8.2,
		"rating": "Excellent",
	}).Info("report generated")

	e := entry(t, &buf)
	assert.Equal(t, "RELIANCE", e["ticker"])
	assert.Equal(t, 8.2, e["score"])
	assert.Equal(t, "report generated", e["message"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := capture(&buf)

	log.WithError(errors.New("fetch financials: timeout")).Error("analysis failed")

	e := entry(t, &buf)
	assert.Equal(t, "fetch financials: timeout", e["error"])
	assert.Equal(t, "analysis failed", e["message"])
}

func TestWithField_DoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	log := capture(&buf)

	_ = log.WithField("ticker", "TCS")
	log.Info("plain")

	e := entry(t, &buf)
	_, present := e["ticker"]
	assert.False(t, present, "derived logger fields must not leak into the parent")
}
