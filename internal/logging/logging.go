package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/lifesweeper/internal/config"
)

// New builds the process logger. Development mode logs coloured text at
// debug level, production logs JSON. A configured file gets every entry
// up to the same level, rotated by size.
func New(cfg config.Config, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	level := logrus.InfoLevel
	if cfg.Development() {
		level = logrus.DebugLevel
	}
	if cfg.Log.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	log.SetLevel(level)

	if cfg.Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Log.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		log.AddHook(hook)
	}

	return log, nil
}

// Mirror makes dst log the way src does: same output, level, formatter
// and hooks. Packages that keep their own logger are pointed at the
// process logger this way.
func Mirror(dst, src *logrus.Logger) {
	hooks := make(logrus.LevelHooks, len(src.Hooks))
	for level, hs := range src.Hooks {
		hooks[level] = append([]logrus.Hook(nil), hs...)
	}

	dst.SetOutput(src.Out)
	dst.SetLevel(src.GetLevel())
	dst.SetFormatter(src.Formatter)
	dst.ReplaceHooks(hooks)
}
