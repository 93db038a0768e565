package smb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"runtime"
	"sync"

	"github.com/stationops/shareclean/internal/target"
)

// ErrMount is returned when the share cannot be mounted: unreachable host,
// rejected credentials, or a missing share.
var ErrMount = errors.New("failed to mount SMB share")

// Mounter mounts SMB shares onto temporary local mountpoints.
type Mounter struct {
	runner Runner
	goos   string
}

// NewMounter creates a Mounter that shells out to the platform mount tools.
func NewMounter(runner Runner) *Mounter {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Mounter{runner: runner, goos: runtime.GOOS}
}

// Session is one live mount of //server/share. Its local path is valid
// until Close.
type Session struct {
	path   string
	runner Runner

	once     sync.Once
	closeErr error
}

// Path returns the local directory through which the share is accessible.
func (s *Session) Path() string {
	return s.path
}

// Close unmounts the share and removes the mountpoint. It is safe to call
// from multiple exit paths; the unmount runs exactly once. A background
// context is used so teardown still proceeds after cancellation.
func (s *Session) Close() error {
	s.once.Do(func() {
		err := s.runner.Run(context.Background(), "umount", []string{s.path}, nil)
		if rmErr := os.Remove(s.path); rmErr != nil && err == nil {
			err = rmErr
		}
		s.closeErr = err
	})
	return s.closeErr
}

// Mount exposes //server/share as a local directory. On failure no session
// exists and nothing needs tearing down.
func (m *Mounter) Mount(ctx context.Context, server, share, user, password string) (*Session, error) {
	if err := target.ValidateUsername(user); err != nil {
		return nil, err
	}

	mountpoint, err := os.MkdirTemp("", "shareclean-")
	if err != nil {
		return nil, fmt.Errorf("create mountpoint: %w", err)
	}

	name, args, env, err := m.mountCommand(server, share, user, password, mountpoint)
	if err != nil {
		os.Remove(mountpoint)
		return nil, err
	}

	if err := m.runner.Run(ctx, name, args, env); err != nil {
		os.Remove(mountpoint)
		return nil, fmt.Errorf("%w: //%s/%s: %v", ErrMount, server, share, err)
	}

	return &Session{path: mountpoint, runner: m.runner}, nil
}

// mountCommand builds the platform mount invocation. The password never
// appears in process arguments on linux; it is passed through the child's
// environment instead.
func (m *Mounter) mountCommand(server, share, user, password, mountpoint string) (string, []string, []string, error) {
	switch m.goos {
	case "darwin":
		src := fmt.Sprintf("//%s:%s@%s/%s",
			url.QueryEscape(user), url.QueryEscape(password), server, url.QueryEscape(share))
		return "mount", []string{"-t", "smbfs", src, mountpoint}, nil, nil
	case "linux":
		src := fmt.Sprintf("//%s/%s", server, share)
		opts := fmt.Sprintf("username=%s", user)
		return "mount", []string{"-t", "cifs", src, mountpoint, "-o", opts},
			[]string{"PASSWD=" + password}, nil
	default:
		return "", nil, nil, fmt.Errorf("%w: unsupported platform %s", ErrMount, m.goos)
	}
}
