package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("JSONFormat", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatJSON))
		log.Info("hello", "key", "value")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "value", record["key"])
		assert.Equal(t, "INFO", record["level"])
	})

	t.Run("TextFormat", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))
		log.Info("hello", "key", "value")

		out := buf.String()
		assert.Contains(t, out, "msg=hello")
		assert.Contains(t, out, "key=value")
	})

	t.Run("LevelFiltering", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

		log.Debug("dropped")
		log.Info("dropped")
		log.Warn("kept")
		log.Error("kept")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 2)
		assert.NotContains(t, buf.String(), "dropped")
	})

	t.Run("StaticAttrs", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithAttr(logger.Component("fetcher")))
		log.Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "fetcher", record["component"])
	})

	t.Run("InvalidFormatPanics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			logger.New(logger.WithFormat("xml"))
		})
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("DebugLevel", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewFromConfig(
			logger.Config{Level: "debug", Format: logger.FormatJSON},
			logger.WithOutput(&buf),
		)
		log.Debug("visible")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("UnknownLevelDefaultsToInfo", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewFromConfig(
			logger.Config{Level: "loud"},
			logger.WithOutput(&buf),
		)
		log.Debug("hidden")
		log.Info("visible")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("EmptyFormatDefaultsToJSON", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewFromConfig(logger.Config{}, logger.WithOutput(&buf))
		log.Info("hello")

		var record map[string]any
		assert.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	})
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)

	assert.True(t, logger.Feature("dark-mode").Equal(slog.String("feature", "dark-mode")))
	assert.True(t, logger.Rule("r1").Equal(slog.String("rule", "r1")))
	assert.True(t, logger.Component("client").Equal(slog.String("component", "client")))
	assert.Equal(t, "source", logger.Source("force").Key)
}
