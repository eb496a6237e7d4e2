// Package logging configures the logrus loggers used by the binaries.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-gym/internal/config"
)

func New(cfg config.LogConfig, development bool) (*logrus.Logger, error) {
	log := logrus.New()
	if err := Setup(log, cfg, development); err != nil {
		return nil, err
	}
	return log, nil
}

// Setup applies cfg to an existing logger, e.g. mines.Log. Development mode
// lowers the level to debug and colors the console output. When cfg.File is
// set, entries are also written there through a size-rotated hook.
func Setup(log *logrus.Logger, cfg config.LogConfig, development bool) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if development {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetFormatter(formatter(cfg.Format, development))

	if cfg.File == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Level:      level,
		Formatter:  formatter(cfg.Format, false),
	})
	if err != nil {
		return fmt.Errorf("unable to create log file hook: %w", err)
	}
	log.AddHook(hook)
	return nil
}

func formatter(format string, colors bool) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{
		ForceColors:   colors,
		DisableColors: !colors,
		FullTimestamp: true,
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
