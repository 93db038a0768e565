package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stationops/shareclean/internal/exitcodes"
	"github.com/stationops/shareclean/internal/fleet"
	"github.com/stationops/shareclean/internal/target"
)

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid address", err: fmt.Errorf("x: %w", target.ErrInvalidAddress), want: exitcodes.BadInput},
		{name: "invalid username", err: target.ErrInvalidUsername, want: exitcodes.BadInput},
		{name: "bad manifest", err: fmt.Errorf("x: %w", fleet.ErrManifestFormat), want: exitcodes.BadInput},
		{name: "mount failure", err: errors.New("failed to mount SMB share"), want: exitcodes.DeletionsFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runExit(tt.err); got.code != tt.want {
				t.Errorf("runExit(%v).code = %d, want %d", tt.err, got.code, tt.want)
			}
		})
	}
}

func TestCommandTree(t *testing.T) {
	root := New("1.2.3")

	for _, name := range []string{"clean", "clean-many", "update"} {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	if root.Version != "1.2.3" {
		t.Errorf("Version = %q", root.Version)
	}
}
