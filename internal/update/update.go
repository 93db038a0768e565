package update

import (
	"context"
	"os/exec"
)

// installTarget is the public module path the tool reinstalls itself from.
const installTarget = "github.com/stationops/shareclean/cmd/shareclean@latest"

// Run reinstalls shareclean from its public module path. Best effort: all
// command output is discarded and the returned error is informational only
// — callers treat self-update as silent on failure.
func Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "go", "install", installTarget)
	return cmd.Run()
}
