package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// log stays a no-op until Initialize is called.
var log = zap.NewNop()

type Config struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

func Initialize(cfg Config) error {
	built, err := build(cfg)
	if err != nil {
		return err
	}

	log = built
	return nil
}

func build(cfg Config) (*zap.Logger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	zLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "json"
	}

	config := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(zLevel),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			TimeKey:      "time",
			CallerKey:    "caller",
			EncodeLevel:  zapcore.LowercaseLevelEncoder,
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return config.Build()
}

func Logger() *zap.Logger {
	return log
}

func Sync() error {
	return log.Sync()
}
