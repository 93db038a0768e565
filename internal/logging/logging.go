package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/stationops/shareclean/internal/config"
)

// New creates the process logger. Log lines go to stderr so styled user
// output owns stdout; when a log file is configured they are also written
// to a size/age-rotated file.
func New(cfg config.LoggingCfg) *log.Logger {
	var w io.Writer = os.Stderr
	if cfg.FilePath != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		w = io.MultiWriter(os.Stderr, rotated)
	}
	return log.New(w, "", log.LstdFlags|log.Lmicroseconds)
}
