package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const logFilePrefix = "chronoatlas-"

// NewLogger builds the JSON slog logger for the environment. When LogDir is
// set, records are also written to a fresh log file; the returned closer
// releases it and is never nil.
func NewLogger(cfg *Config, stdout io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if cfg.Environment == "dev" {
		level = slog.LevelDebug
	}

	out := stdout
	closer := func() error { return nil }
	if cfg.LogDir != "" {
		f, err := SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(stdout, f)
		closer = f.Close
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

// SetupLogFile creates a timestamped log file in dir and prunes all but the
// newest maxFiles files.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, logFilePrefix+time.Now().Format("2006-01-02T15-04-05.000")+".log")
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := pruneLogs(dir, maxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}
	return f, nil
}

// pruneLogs deletes the oldest log files beyond maxFiles. Names sort
// chronologically because of the timestamp layout.
func pruneLogs(dir string, maxFiles int) error {
	files, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if err != nil {
		return err
	}
	if maxFiles < 1 || len(files) <= maxFiles {
		return nil
	}

	sort.Strings(files)
	for _, name := range files[:len(files)-maxFiles] {
		if err := os.Remove(name); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
