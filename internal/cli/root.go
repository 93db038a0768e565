package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stationops/shareclean/internal/exitcodes"
	"github.com/stationops/shareclean/internal/fleet"
	"github.com/stationops/shareclean/internal/target"
)

// exitError carries the process exit code for a failed run. Commands print
// their own styled error output before returning one.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// runExit wraps a run error with its exit code: malformed input exits 2,
// everything else 1.
func runExit(err error) *exitError {
	code := exitcodes.DeletionsFailed
	if errors.Is(err, target.ErrInvalidAddress) ||
		errors.Is(err, target.ErrInvalidUsername) ||
		errors.Is(err, fleet.ErrManifestFormat) {
		code = exitcodes.BadInput
	}
	return &exitError{code: code, err: err}
}

// New builds the shareclean command tree.
func New(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "shareclean",
		Short:         "Delete aged files from local directories and lab station shares",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("shareclean v{{.Version}}\n")

	root.PersistentFlags().String("config", "", "Path to configuration file")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(newCleanCmd())
	root.AddCommand(newCleanManyCmd())
	root.AddCommand(newUpdateCmd())

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, version string) int {
	err := New(version).ExecuteContext(ctx)
	if err == nil {
		return exitcodes.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument parse errors from cobra itself
	fmt.Fprintln(os.Stderr, "Error:", err)
	return exitcodes.BadInput
}
