package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/stationops/shareclean/internal/cleanup"
	"github.com/stationops/shareclean/internal/config"
	"github.com/stationops/shareclean/internal/exitcodes"
	"github.com/stationops/shareclean/internal/fleet"
	"github.com/stationops/shareclean/internal/limiter"
	"github.com/stationops/shareclean/internal/logging"
	"github.com/stationops/shareclean/internal/metrics"
	"github.com/stationops/shareclean/internal/ui"
)

func newCleanManyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean-many <manifest.json>",
		Short: "Clean many stations at once from a JSON manifest",
		Long: "Clean many stations at once from a JSON manifest.\n\n" +
			"The file must be a single JSON object with station names as keys and\n" +
			"host addresses as values. Stations with a null address are skipped.\n" +
			"Every station is cleaned as smb://<address>/data with the default age\n" +
			"threshold.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := ui.New()

			cfg, err := resolveConfig(cmd)
			if err != nil {
				printer.Errorf("%v", err)
				return &exitError{code: exitcodes.BadInput, err: err}
			}
			// Fleet runs use the fixed defaults regardless of config overrides:
			// same threshold and reaping policy on every station.
			cfg.Days = config.DefaultDays
			cfg.Skip = config.DefaultSkip
			cfg.DeleteEmptyDirs = true
			cfg.Password = os.Getenv(passwordEnv)

			stations, skipped, err := fleet.LoadManifest(args[0])
			if err != nil {
				printer.Errorf("%v", err)
				return runExit(err)
			}

			logger := logging.New(cfg.Logging)
			metrics.Init()

			for _, name := range skipped {
				printer.Mutedf("skipping %s: no address", name)
			}

			runner := cleanup.NewRunner(cfg, false, force, logger)
			runner.SetPrinter(printer)
			runner.SetPrompter(ui.NewPrompter(nil, nil))
			runner.SetMounter(newSMBMounter())
			runner.SetLimiter(limiter.New(cfg.Throttle))

			dispatcher := fleet.NewDispatcher(runner, cfg.Share, cfg.User, logger)
			results := dispatcher.Dispatch(cmd.Context(), stations)

			failed := 0
			for _, res := range results {
				if res.Err != nil {
					printer.Errorf("Failed to clean %s (%s): %v", res.Station, res.Address, res.Err)
					failed++
					continue
				}
				if res.Report.ExitCode() != exitcodes.Success {
					failed++
				}
			}

			if cfg.Metrics.Textfile != "" {
				if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
					logger.Printf("metrics export failed: %v", err)
				}
			}

			if failed > 0 {
				return &exitError{
					code: exitcodes.DeletionsFailed,
					err:  errors.New("one or more stations failed"),
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation (otherwise a prompt is shown per station)")

	return cmd
}
