package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestLogFlushInterval = time.Second

// NewFileLogger returns a JSON zap logger writing to a rotated file.
func NewFileLogger(filePath string) (*zap.Logger, error) {
	writer := zapcore.AddSync(newRotator(filePath))

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		writer,
		zap.InfoLevel,
	)
	return zap.New(core), nil
}

// NewLineLogger returns a zap logger that writes each message verbatim, one per line,
// through a buffered writer. Writes never wait on disk; call the returned stop
// function on shutdown to flush.
func NewLineLogger(filePath string) (*zap.Logger, func() error) {
	ws := &zapcore.BufferedWriteSyncer{
		WS:            zapcore.AddSync(newRotator(filePath)),
		FlushInterval: requestLogFlushInterval,
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), ws, zap.InfoLevel)
	return zap.New(core), ws.Stop
}
