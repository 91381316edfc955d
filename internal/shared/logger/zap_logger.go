package logger

import (
	"context"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface on top of a zap SugaredLogger.
// Fields are kept by key so a later value replaces an earlier one.
type ZapLogger struct {
	base   *zap.SugaredLogger
	sugar  *zap.SugaredLogger
	fields map[string]interface{}
}

func newZapLogger(cfg Config, w io.Writer) *ZapLogger {
	var encoderCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if cfg.JSON() {
		encoderCfg = zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.MessageKey = "message"
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timestampFormat)
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(textTimestamp)
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), parseZapLevel(cfg.Level))
	sugar := zap.New(core).Sugar()
	return &ZapLogger{base: sugar, sugar: sugar}
}

// NewZapLoggerFrom wraps an existing zap logger
func NewZapLoggerFrom(base *zap.Logger) Logger {
	if base == nil {
		base = zap.NewNop()
	}
	sugar := base.Sugar()
	return &ZapLogger{base: sugar, sugar: sugar}
}

func parseZapLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zapcore.WarnLevel
	case "":
		return zapcore.InfoLevel
	}
	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

func (l *ZapLogger) Debug(args ...interface{}) { l.sugar.Debug(args...) }
func (l *ZapLogger) Info(args ...interface{})  { l.sugar.Info(args...) }
func (l *ZapLogger) Warn(args ...interface{})  { l.sugar.Warn(args...) }
func (l *ZapLogger) Error(args ...interface{}) { l.sugar.Error(args...) }
func (l *ZapLogger) Fatal(args ...interface{}) { l.sugar.Fatal(args...) }

func (l *ZapLogger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *ZapLogger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// WithFields adds structured fields to the logger
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	return l.with(fields)
}

// WithContext adds request correlation fields carried by ctx
func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	fields := make(map[string]interface{})
	for key, value := range contextFields(ctx) {
		fields[key] = value
	}
	return l.with(fields)
}

// WithComponent adds component name to the logger
func (l *ZapLogger) WithComponent(component string) Logger {
	return l.with(map[string]interface{}{"component": component})
}

func (l *ZapLogger) with(fields map[string]interface{}) *ZapLogger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	keysAndValues := make([]interface{}, 0, len(merged)*2)
	for _, key := range keys {
		keysAndValues = append(keysAndValues, key, merged[key])
	}
	return &ZapLogger{base: l.base, sugar: l.base.With(keysAndValues...), fields: merged}
}
