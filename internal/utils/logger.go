package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewApplicationLogger builds the console logger shared by every twiggy
// command. Diagnostics print as bare messages so they read cleanly next to
// the styled status lines on stdout; warnings and errors go to stderr.
func NewApplicationLogger() (*zap.Logger, error) {
	encoderConfiguration := zapcore.EncoderConfig{
		MessageKey:  "message",
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: zapcore.CapitalLevelEncoder,
	}
	loggerConfiguration := zap.Config{
		Level:             zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding:          "console",
		EncoderConfig:     encoderConfiguration,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	return loggerConfiguration.Build()
}
