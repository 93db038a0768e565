package smb

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Runner abstracts mount/umount command execution
// Enables mocking in tests so no real mounts are attempted
type Runner interface {
	Run(ctx context.Context, name string, args []string, env []string) error
}

// ExecRunner runs commands through os/exec. Extra env entries are appended
// to the parent environment of the child process only.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string, env []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// FakeRunner implements Runner for testing
// Records every command and returns injected errors by command name.
type FakeRunner struct {
	Calls [][]string
	Fail  map[string]error
}

func (f *FakeRunner) Run(ctx context.Context, name string, args []string, env []string) error {
	call := append([]string{name}, args...)
	f.Calls = append(f.Calls, call)
	if err, ok := f.Fail[name]; ok {
		return err
	}
	return nil
}
