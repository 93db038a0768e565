package smb

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stationops/shareclean/internal/target"
)

func TestMountBuildsPlatformCommand(t *testing.T) {
	tests := []struct {
		goos    string
		wantArg string // substring expected somewhere in the call
	}{
		{goos: "darwin", wantArg: "smbfs"},
		{goos: "linux", wantArg: "cifs"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			fake := &FakeRunner{}
			m := &Mounter{runner: fake, goos: tt.goos}

			sess, err := m.Mount(context.Background(), "10.0.0.5", "data", "Admin", "hunter2")
			if err != nil {
				t.Fatalf("Mount failed: %v", err)
			}
			defer sess.Close()

			if len(fake.Calls) != 1 {
				t.Fatalf("expected 1 mount call, got %d", len(fake.Calls))
			}
			call := fake.Calls[0]
			if call[0] != "mount" {
				t.Errorf("command = %q, want mount", call[0])
			}
			found := false
			for _, a := range call {
				if a == tt.wantArg {
					found = true
				}
				if tt.goos == "linux" && a == "hunter2" {
					t.Error("password leaked into mount arguments")
				}
			}
			if !found {
				t.Errorf("call %v missing %q", call, tt.wantArg)
			}

			if _, err := os.Stat(sess.Path()); err != nil {
				t.Errorf("mountpoint %s not usable: %v", sess.Path(), err)
			}
		})
	}
}

func TestMountFailureLeavesNothing(t *testing.T) {
	fake := &FakeRunner{Fail: map[string]error{"mount": errors.New("host unreachable")}}
	m := &Mounter{runner: fake, goos: "linux"}

	sess, err := m.Mount(context.Background(), "10.0.0.5", "data", "Admin", "pw")
	if sess != nil {
		t.Fatal("expected no session on mount failure")
	}
	if !errors.Is(err, ErrMount) {
		t.Fatalf("expected ErrMount, got %v", err)
	}
	// No umount attempted: nothing was acquired
	for _, call := range fake.Calls {
		if call[0] == "umount" {
			t.Errorf("unexpected umount call: %v", call)
		}
	}
}

func TestMountRejectsColonUsername(t *testing.T) {
	fake := &FakeRunner{}
	m := &Mounter{runner: fake, goos: "linux"}

	_, err := m.Mount(context.Background(), "10.0.0.5", "data", "bad:user", "pw")
	if !errors.Is(err, target.ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("no command should run for an invalid username, got %v", fake.Calls)
	}
}

func TestMountUnsupportedPlatform(t *testing.T) {
	m := &Mounter{runner: &FakeRunner{}, goos: "windows"}
	_, err := m.Mount(context.Background(), "10.0.0.5", "data", "Admin", "pw")
	if !errors.Is(err, ErrMount) {
		t.Fatalf("expected ErrMount, got %v", err)
	}
}

func TestCloseUnmountsExactlyOnce(t *testing.T) {
	fake := &FakeRunner{}
	m := &Mounter{runner: fake, goos: "linux"}

	sess, err := m.Mount(context.Background(), "10.0.0.5", "data", "Admin", "pw")
	if err != nil {
		t.Fatal(err)
	}
	mountpoint := sess.Path()

	if err := sess.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	umounts := 0
	for _, call := range fake.Calls {
		if call[0] == "umount" {
			umounts++
		}
	}
	if umounts != 1 {
		t.Errorf("expected exactly 1 umount, got %d", umounts)
	}
	if _, err := os.Stat(mountpoint); !os.IsNotExist(err) {
		t.Errorf("mountpoint %s not removed", mountpoint)
	}
}
