package observability

import (
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps LOG_LEVEL values to zap levels. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// NewLogger returns a JSON logger writing to w. With otlp set, records are also sent through
// the global OpenTelemetry logger provider, so Setup must run first.
func NewLogger(w io.Writer, level zapcore.Level, otlp bool) *zap.Logger {
	if w == nil {
		w = os.Stdout
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	if otlp {
		core = zapcore.NewTee(core, otelzap.NewCore(ServiceName,
			otelzap.WithLoggerProvider(global.GetLoggerProvider()),
		))
	}
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service.name", ServiceName)),
	)
}
