package log_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/stretchr/testify/assert"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)
	defer log.SetLevel(log.LevelInfo)

	t.Run("Info level logs Info, Warn, Error but not Debug", func(t *testing.T) {
		buf.Reset()
		log.SetLevel(log.LevelInfo)

		log.Debug("debug message")
		log.Info("info message")
		log.Warn("warn message")
		log.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.Contains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("Warn level drops progress messages", func(t *testing.T) {
		buf.Reset()
		log.SetLevel(log.LevelWarn)

		log.Info("found 12 stylesheets")
		log.Warn("skipping main.js")

		output := buf.String()
		assert.NotContains(t, output, "found 12 stylesheets")
		assert.Contains(t, output, "skipping main.js")
	})

	t.Run("Debug level logs everything", func(t *testing.T) {
		buf.Reset()
		log.SetLevel(log.LevelDebug)

		log.Debug("debug message")
		log.Error("error message")

		output := buf.String()
		assert.Contains(t, output, "debug message")
		assert.Contains(t, output, "error message")
	})
}

func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetLevel(log.LevelInfo)
	defer log.SetOutput(nil)

	t.Run("Messages include prefix", func(t *testing.T) {
		buf.Reset()
		log.Info("test message")
		assert.True(t, strings.HasPrefix(buf.String(), "[css-shrink] test message"))
	})

	t.Run("Each log message ends with newline", func(t *testing.T) {
		buf.Reset()
		log.Info("Shrink %s", "main.css")
		log.Info("message 2")

		lines := strings.Split(buf.String(), "\n")
		assert.Len(t, lines, 3)
		assert.Contains(t, lines[0], "Shrink main.css")
		assert.Contains(t, lines[1], "message 2")
	})
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetLevel(log.LevelInfo)
	defer log.SetOutput(nil)

	t.Run("field follows the prefix", func(t *testing.T) {
		buf.Reset()
		log.With("asset", "styles.css").Warn("kept %d rules", 3)
		assert.Equal(t, "[css-shrink] asset=styles.css kept 3 rules\n", buf.String())
	})

	t.Run("values with spaces are quoted", func(t *testing.T) {
		buf.Reset()
		log.With("asset", "joined sources").Info("done")
		assert.Equal(t, "[css-shrink] asset=\"joined sources\" done\n", buf.String())
	})

	t.Run("level applies", func(t *testing.T) {
		buf.Reset()
		log.With("asset", "main.js").Debug("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("percent signs in the value are literal", func(t *testing.T) {
		buf.Reset()
		log.With("asset", "100%.css").Error("failed")
		assert.Equal(t, "[css-shrink] asset=100%.css failed\n", buf.String())
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.LevelDebug,
		"DEBUG":   log.LevelDebug,
		"info":    log.LevelInfo,
		"warning": log.LevelWarn,
		" error ": log.LevelError,
		"bogus":   log.LevelInfo,
		"":        log.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, log.ParseLevel(name), "level %q", name)
	}
}

func TestGetLevel(t *testing.T) {
	originalLevel := log.GetLevel()
	defer log.SetLevel(originalLevel)

	log.SetLevel(log.LevelDebug)
	assert.Equal(t, log.LevelDebug, log.GetLevel())

	log.SetLevel(log.LevelError)
	assert.Equal(t, log.LevelError, log.GetLevel())
}
