package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"menu-portal/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerInterface_Contract(t *testing.T) {
	var _ Logger = NewLogger()
	var _ Logger = New(Config{Backend: "zap"}, &bytes.Buffer{})
	var _ Logger = NewZapLoggerFrom(nil)
	var _ Logger = NewNopLogger()
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LOG_BACKEND", "zap")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ENVIRONMENT", "staging")

	assert.Equal(t, Config{Backend: "zap", Level: "debug", Format: "json", Environment: "staging"}, LoadConfig())
}

func TestNewLogger_SelectsBackend(t *testing.T) {
	t.Setenv("LOG_BACKEND", "zap")
	_, ok := NewLogger().(*ZapLogger)
	assert.True(t, ok)

	t.Setenv("LOG_BACKEND", "logrus")
	_, ok = NewLogger().(*LogrusLogger)
	assert.True(t, ok)
}

func TestConfig_JSON(t *testing.T) {
	assert.True(t, Config{Format: "json"}.JSON())
	assert.True(t, Config{Format: "text", Environment: "production"}.JSON())
	assert.True(t, Config{Environment: "PROD"}.JSON())
	assert.False(t, Config{Format: "text", Environment: "development"}.JSON())
}

func TestLogrusLogger_JSONWithCorrelationFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Config{Level: "debug", Format: "json"}, buf)

	ctx := context.WithValue(context.Background(), contextkeys.RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, contextkeys.OperationKey, "list_menu_items")
	log.WithContext(ctx).WithComponent("menu").Debug("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "list_menu_items", entry["operation"])
	assert.Equal(t, "menu", entry["component"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "debug", entry["level"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogrusLogger_LevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Config{Level: "warn"}, buf)

	log.Info("dropped")
	log.Warnf("kept %d", 1)

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept 1")
}

func TestZapLogger_WritesJSONToWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Config{Backend: "zap", Level: "info", Format: "json"}, buf)

	log.Debug("dropped")
	log.WithComponent("menu_facade").Infof("cached %d items", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "cached 2 items", entry["message"])
	assert.Equal(t, "menu_facade", entry["component"])
}

func TestZapLogger_WithFieldsAndContext(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	ctx := context.WithValue(context.Background(), contextkeys.RequestIDKey, "req-2")
	log.WithContext(ctx).WithFields(map[string]interface{}{"items": 3}).Warnf("saved %d items", 3)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "saved 3 items", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-2", fields["request_id"])
	assert.EqualValues(t, 3, fields["items"])
}

func TestZapLogger_ContextComponentReplacesEarlierComponent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	ctx := context.WithValue(context.Background(), contextkeys.ComponentKey, "http")
	log.WithComponent("menu_http").WithFields(map[string]interface{}{"items": 1}).WithContext(ctx).Info("saved")

	entries := recorded.All()
	require.Len(t, entries, 1)
	var components []string
	for _, field := range entries[0].Context {
		if field.Key == "component" {
			components = append(components, field.String)
		}
	}
	assert.Equal(t, []string{"http"}, components)
	assert.EqualValues(t, 1, entries[0].ContextMap()["items"])
}

func TestLoggers_AgreeOnRepeatedComponent(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextkeys.ComponentKey, "http")

	for _, backend := range []string{"logrus", "zap"} {
		t.Run(backend, func(t *testing.T) {
			buf := &bytes.Buffer{}
			New(Config{Backend: backend, Format: "json"}, buf).WithComponent("menu_http").WithContext(ctx).Info("saved")

			line := strings.TrimSpace(buf.String())
			assert.Equal(t, 1, strings.Count(line, `"component"`), line)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(line), &entry))
			assert.Equal(t, "http", entry["component"])
		})
	}
}

func TestParseZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseZapLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseZapLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseZapLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseZapLevel("nonsense"))
}
