package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeAged creates a file whose modification time is ageDays in the past.
func writeAged(t *testing.T, path string, ageDays float64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-time.Duration(ageDays * 24 * float64(time.Hour)))
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestOldFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeAged(t, filepath.Join(tmpDir, "old.tif"), 100)
	writeAged(t, filepath.Join(tmpDir, "fresh.tif"), 10)
	writeAged(t, filepath.Join(tmpDir, "sub", "deep.tif"), 90)
	writeAged(t, filepath.Join(tmpDir, "keep-delete-me.tif"), 100) // carries the token

	s := NewScanner(nil, false)
	got, err := s.OldFiles(context.Background(), tmpDir, 60, "delete")
	if err != nil {
		t.Fatalf("OldFiles failed: %v", err)
	}

	want := map[string]bool{
		filepath.Join(tmpDir, "old.tif"):         true,
		filepath.Join(tmpDir, "sub", "deep.tif"): true,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d: %+v", len(got), len(want), got)
	}
	for _, c := range got {
		if !want[c.Path] {
			t.Errorf("unexpected candidate %q", c.Path)
		}
		if c.AgeDays <= 60 {
			t.Errorf("candidate %q age %.1f not above threshold", c.Path, c.AgeDays)
		}
	}
}

func TestOldFilesThresholdIsStrict(t *testing.T) {
	tmpDir := t.TempDir()
	writeAged(t, filepath.Join(tmpDir, "young.txt"), 5)

	s := NewScanner(nil, false)
	// A 5-day-old file is not strictly older than 5.1 days
	got, err := s.OldFiles(context.Background(), tmpDir, 5.1, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no candidates at fractional threshold, got %+v", got)
	}

	got, err = s.OldFiles(context.Background(), tmpDir, 4.9, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 candidate below threshold, got %d", len(got))
	}
}

func TestOldFilesEmptyTokenExcludesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	writeAged(t, filepath.Join(tmpDir, "a.txt"), 100)

	s := NewScanner(nil, false)
	got, err := s.OldFiles(context.Background(), tmpDir, 60, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("empty token must exclude nothing, got %d candidates", len(got))
	}
}

func TestOldFilesMissingRoot(t *testing.T) {
	s := NewScanner(nil, false)
	_, err := s.OldFiles(context.Background(), "/nonexistent/path/shareclean-test", 60, "")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestOldFilesIgnoresDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	old := filepath.Join(tmpDir, "olddir")
	if err := os.Mkdir(old, 0o755); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-100 * 24 * time.Hour)
	if err := os.Chtimes(old, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	s := NewScanner(nil, false)
	got, err := s.OldFiles(context.Background(), tmpDir, 60, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("directories must never be age candidates, got %+v", got)
	}
}

func TestEmptyDirsBottomUpCascade(t *testing.T) {
	tmpDir := t.TempDir()
	// a/b/c: only c is empty on disk, but removing c empties b, and
	// removing b empties a. One pass must yield all three.
	leaf := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(leaf, 0o755); err != nil {
		t.Fatal(err)
	}

	s := NewScanner(nil, false)
	var removed []string
	err := s.EmptyDirs(context.Background(), tmpDir, "", func(dir string) {
		removed = append(removed, dir)
		if err := os.Remove(dir); err != nil {
			t.Fatalf("remove %s: %v", dir, err)
		}
	})
	if err != nil {
		t.Fatalf("EmptyDirs failed: %v", err)
	}

	want := []string{
		leaf,
		filepath.Join(tmpDir, "a", "b"),
		filepath.Join(tmpDir, "a"),
	}
	if len(removed) != len(want) {
		t.Fatalf("removed %v, want %v", removed, want)
	}
	for i := range want {
		if removed[i] != want[i] {
			t.Errorf("removed[%d] = %q, want %q", i, removed[i], want[i])
		}
	}
}

func TestEmptyDirsSkipsRootAndNonEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, "full"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "full", "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := NewScanner(nil, false)
	var yielded []string
	err := s.EmptyDirs(context.Background(), tmpDir, "", func(dir string) {
		yielded = append(yielded, dir)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(yielded) != 1 || yielded[0] != filepath.Join(tmpDir, "empty") {
		t.Errorf("yielded %v, want only the empty subdirectory", yielded)
	}
}

func TestEmptyDirsExclusionToken(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, "no-delete-zone"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := NewScanner(nil, false)
	var yielded []string
	err := s.EmptyDirs(context.Background(), tmpDir, "delete", func(dir string) {
		yielded = append(yielded, dir)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(yielded) != 0 {
		t.Errorf("excluded directory yielded: %v", yielded)
	}
}

func TestScanCanceledContext(t *testing.T) {
	tmpDir := t.TempDir()
	writeAged(t, filepath.Join(tmpDir, "a.txt"), 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScanner(nil, false)
	if _, err := s.OldFiles(ctx, tmpDir, 60, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("OldFiles: expected context.Canceled, got %v", err)
	}
	if err := s.EmptyDirs(ctx, tmpDir, "", func(string) {}); !errors.Is(err, context.Canceled) {
		t.Errorf("EmptyDirs: expected context.Canceled, got %v", err)
	}
}
