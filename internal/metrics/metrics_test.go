package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitIsIdempotent(t *testing.T) {
	// Double registration would panic in MustRegister
	Init()
	Init()

	if FilesDeletedTotal == nil || RunsTotal == nil {
		t.Fatal("metrics not initialized")
	}
}

func TestWriteTextfile(t *testing.T) {
	Init()
	FilesDeletedTotal.Inc()
	BytesFreedTotal.Add(1024)
	RecordRun("success", 0.5)

	path := filepath.Join(t.TempDir(), "textfile", "shareclean.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(b)

	for _, want := range []string{
		"shareclean_files_deleted_total",
		"shareclean_bytes_freed_total",
		`shareclean_runs_total{status="success"}`,
		"# TYPE shareclean_run_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}
