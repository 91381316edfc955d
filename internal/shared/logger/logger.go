package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"menu-portal/internal/shared/contextkeys"

	"github.com/caarlos0/env/v6"
	"github.com/sirupsen/logrus"
)

const (
	logFormatJSON = "json"
	backendZap    = "zap"

	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
	textTimestamp   = "2006-01-02 15:04:05"
)

// Logger defines the interface for structured logging operations
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// Config selects the backend and output of a logger
type Config struct {
	Backend     string `env:"LOG_BACKEND" envDefault:"logrus"`
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Format      string `env:"LOG_FORMAT" envDefault:"text"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// LoadConfig reads the logging environment. Unparsable input leaves the defaults in place.
func LoadConfig() Config {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{Backend: "logrus", Level: "info", Format: "text", Environment: "development"}
	}
	return cfg
}

// JSON reports whether records should be encoded as JSON. Production always logs JSON.
func (c Config) JSON() bool {
	switch strings.ToLower(c.Environment) {
	case "production", "prod":
		return true
	}
	return strings.EqualFold(c.Format, logFormatJSON)
}

// NewLogger builds the process logger from the environment, writing to stdout
func NewLogger() Logger {
	return New(LoadConfig(), os.Stdout)
}

// New builds a logger for cfg writing to w
func New(cfg Config, w io.Writer) Logger {
	if strings.EqualFold(cfg.Backend, backendZap) {
		return newZapLogger(cfg, w)
	}
	return newLogrusLogger(cfg, w)
}

// LogrusLogger implements Logger on a logrus entry
type LogrusLogger struct {
	entry *logrus.Entry
}

func newLogrusLogger(cfg Config, w io.Writer) *LogrusLogger {
	base := logrus.New()
	base.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if cfg.JSON() {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: textTimestamp,
		})
	}

	return &LogrusLogger{entry: logrus.NewEntry(base)}
}

func (l *LogrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *LogrusLogger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *LogrusLogger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *LogrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *LogrusLogger) Fatal(args ...interface{}) { l.entry.Fatal(args...) }

func (l *LogrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

// WithFields adds structured fields to the logger
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithContext adds the request correlation values carried by ctx
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	fields := logrus.Fields{}
	for name, value := range contextFields(ctx) {
		fields[name] = value
	}
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}

// WithComponent tags records with the emitting component
func (l *LogrusLogger) WithComponent(component string) Logger {
	return &LogrusLogger{entry: l.entry.WithField("component", component)}
}

// contextFields maps the correlation values in ctx to log field names
func contextFields(ctx context.Context) map[string]string {
	keys := []struct {
		key  interface{}
		name string
	}{
		{contextkeys.RequestIDKey, "request_id"},
		{contextkeys.ComponentKey, "component"},
		{contextkeys.OperationKey, "operation"},
	}

	fields := make(map[string]string, len(keys))
	for _, k := range keys {
		if value, ok := ctx.Value(k.key).(string); ok && value != "" {
			fields[k.name] = value
		}
	}
	return fields
}
