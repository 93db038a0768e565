package scan

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Logger interface for structured logging
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// stdLogger wraps standard log.Logger to implement Logger interface
type stdLogger struct {
	*log.Logger
	verbose bool
}

func (l *stdLogger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *stdLogger) Warn(msg string, args ...interface{}) {
	l.logWithLevel("WARN", msg, args...)
}

func (l *stdLogger) Debug(msg string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.logWithLevel("DEBUG", msg, args...)
}

func (l *stdLogger) logWithLevel(level, msg string, args ...interface{}) {
	// Format key-value pairs
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// Scanner walks directory trees for age and emptiness candidates
type Scanner struct {
	logger Logger
}

// NewScanner creates a new Scanner with the given logger.
// Debug output is suppressed unless verbose is set.
func NewScanner(logger *log.Logger, verbose bool) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{
		logger: &stdLogger{Logger: logger, verbose: verbose},
	}
}

// Candidate is one file whose age exceeded the threshold at scan time.
// AgeDays is a snapshot computed against the scan start instant.
type Candidate struct {
	Path    string
	Size    int64
	ModTime time.Time
	AgeDays float64
}

// excluded reports whether path carries the exclusion token.
// An empty token excludes nothing.
func excluded(path, skip string) bool {
	return skip != "" && strings.Contains(path, skip)
}

// OldFiles returns every regular file under root whose age in days is
// strictly greater than days and whose path does not contain skip.
// The result is fully materialized so callers know the total up front.
func (s *Scanner) OldFiles(ctx context.Context, root string, days float64, skip string) ([]Candidate, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}

	now := time.Now()
	var candidates []Candidate

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			// Log and continue on permission errors
			if os.IsPermission(err) {
				s.logger.Warn("Permission denied", "path", path)
				return nil
			}
			// Files can vanish between the directory listing and the stat
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		if excluded(path, skip) {
			return nil
		}

		ageDays := now.Sub(info.ModTime()).Hours() / 24
		if ageDays > days {
			candidates = append(candidates, Candidate{
				Path:    path,
				Size:    info.Size(),
				ModTime: info.ModTime(),
				AgeDays: ageDays,
			})
			s.logger.Debug("File selected for deletion",
				"path", path,
				"size", info.Size(),
				"age_days", fmt.Sprintf("%.1f", ageDays),
			)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan path %s: %w", root, err)
	}

	s.logger.Info("Age scan complete",
		"path", root,
		"candidates_found", len(candidates),
	)
	return candidates, nil
}

// EmptyDirs visits every currently-empty directory under root, deepest
// first, and calls fn for each one. Emptiness is evaluated by a live
// directory read at visit time, so a directory whose only children fn
// removed earlier in the same pass is still detected. root itself is
// never visited.
func (s *Scanner) EmptyDirs(ctx context.Context, root, skip string, fn func(dir string)) error {
	var dirs []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if os.IsPermission(err) {
				s.logger.Warn("Permission denied", "path", path)
				return nil
			}
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() || path == root {
			return nil
		}
		if excluded(path, skip) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan path %s: %w", root, err)
	}

	// Deepest directories first, so removals cascade upward within one pass
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(os.PathSeparator)) > strings.Count(dirs[j], string(os.PathSeparator))
	})

	for _, dir := range dirs {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Already removed, or unreadable: either way not a candidate
			if !os.IsNotExist(err) {
				s.logger.Warn("Failed to read directory", "path", dir, "error", err)
			}
			continue
		}
		if len(entries) == 0 {
			fn(dir)
		}
	}
	return nil
}
