package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/stationops/shareclean/internal/cleanup"
	"github.com/stationops/shareclean/internal/exitcodes"
	"github.com/stationops/shareclean/internal/limiter"
	"github.com/stationops/shareclean/internal/logging"
	"github.com/stationops/shareclean/internal/metrics"
	"github.com/stationops/shareclean/internal/target"
	"github.com/stationops/shareclean/internal/ui"
)

// passwordEnv is the process-wide credential source for remote mounts.
const passwordEnv = "SMB_PASSWORD"

func newCleanCmd() *cobra.Command {
	var (
		days            float64
		dryRun          bool
		force           bool
		deleteEmptyDirs bool
		skip            string
	)

	cmd := &cobra.Command{
		Use:   "clean <directory>",
		Short: "Delete files in a directory older than a certain age",
		Long: "Delete files in a directory older than a certain age.\n\n" +
			"The directory may be a local path or an smb:// path. For smb:// paths\n" +
			"the user name defaults to 'Admin' unless specified in the path\n" +
			"(e.g. 'Admin@server'). Set the password in the SMB_PASSWORD\n" +
			"environment variable, e.g.:\n\n" +
			"  SMB_PASSWORD='mypassword' shareclean clean smb://Admin@10.10.10.10/share",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := ui.New()

			cfg, err := resolveConfig(cmd)
			if err != nil {
				printer.Errorf("%v", err)
				return &exitError{code: exitcodes.BadInput, err: err}
			}
			if cmd.Flags().Changed("days") {
				cfg.Days = days
			}
			if cmd.Flags().Changed("skip") {
				cfg.Skip = skip
			}
			if cmd.Flags().Changed("delete-empty-dirs") {
				cfg.DeleteEmptyDirs = deleteEmptyDirs
			}
			if err := cfg.Validate(); err != nil {
				printer.Errorf("%v", err)
				return &exitError{code: exitcodes.BadInput, err: err}
			}

			tgt, err := target.Parse(args[0], cfg.Share, cfg.User)
			if err != nil {
				printer.Errorf("%v", err)
				return runExit(err)
			}

			if tgt.Scheme == target.Remote {
				cfg.Password = os.Getenv(passwordEnv)
				if cfg.Password == "" && ui.StdinIsTerminal() {
					cfg.Password, err = ui.ReadPassword("SMB Password: ")
					if err != nil {
						printer.Errorf("%v", err)
						return runExit(err)
					}
				}
			}

			logger := logging.New(cfg.Logging)
			metrics.Init()

			runner := cleanup.NewRunner(cfg, dryRun, force, logger)
			runner.SetPrinter(printer)
			runner.SetPrompter(ui.NewPrompter(nil, nil))
			runner.SetMounter(newSMBMounter())
			runner.SetLimiter(limiter.New(cfg.Throttle))

			report, err := runner.Run(cmd.Context(), tgt)
			if err != nil {
				printer.Errorf("%v", err)
				return runExit(err)
			}

			if cfg.Metrics.Textfile != "" {
				if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
					logger.Printf("metrics export failed: %v", err)
				}
			}

			if code := report.ExitCode(); code != exitcodes.Success {
				return &exitError{code: code, err: errors.New(string(report.Status))}
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&days, "days", "d", 60, "Number of days old a file must be to be deleted")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Don't delete anything. Just print what would be deleted and exit")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation (otherwise a prompt is shown with the number of files that would be deleted)")
	cmd.Flags().BoolVar(&deleteEmptyDirs, "delete-empty-dirs", true, "Delete empty directories")
	cmd.Flags().StringVar(&skip, "skip", "delete", "Don't delete files with this string in their path")

	return cmd
}
