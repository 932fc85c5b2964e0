package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Log at debug level.
	Verbose bool

	// Append to this file rather than writing to Output.
	File string

	// Defaults to stderr, keeping stdout for reports.
	Output io.Writer
}

// Builds a console logger. The returned function flushes and closes
// whatever the logger writes to.
func New(opts Options) (*zap.SugaredLogger, func(), error) {
	var sink zapcore.WriteSyncer
	closeSink := func() {}

	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		sink = zapcore.AddSync(f)
		closeSink = func() { f.Close() }
	case opts.Output != nil:
		sink = zapcore.AddSync(opts.Output)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		MessageKey:     "M",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.0000"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		sink,
		level,
	)

	logger := zap.New(core).Sugar()

	return logger, func() {
		_ = logger.Sync()
		closeSink()
	}, nil
}
