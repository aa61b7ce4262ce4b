package logging

import (
	"io"
	"log/slog"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thoreinstein/mcpsync/internal/paths"
)

// Rotation defaults for --log-file.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// FileConfig configures a rotating JSON log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewFileHandler returns a JSON handler writing to a rotating log file and
// the closer that releases it. The parent directory is created if needed.
func NewFileHandler(cfg FileConfig, level slog.Leveler) (slog.Handler, io.Closer, error) {
	if err := paths.EnsureDir(filepath.Dir(cfg.Path), 0); err != nil {
		return nil, nil, err
	}
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    orDefault(cfg.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: orDefault(cfg.MaxBackups, DefaultMaxBackups),
		MaxAge:     orDefault(cfg.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   cfg.Compress,
	}
	return NewFormatHandler(w, FormatJSON, level), w, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
