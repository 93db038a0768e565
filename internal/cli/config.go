package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stationops/shareclean/internal/cleanup"
	"github.com/stationops/shareclean/internal/config"
	"github.com/stationops/shareclean/internal/smb"
)

// resolveConfig loads the configuration file (explicit --config path, else
// the conventional location when a file exists there, else compiled
// defaults) and applies the persistent flag overrides.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.Load(path)
	default:
		if p, ok := config.DefaultPath(); ok {
			cfg, err = config.Load(p)
		} else {
			cfg = config.Default()
		}
	}
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	return cfg, nil
}

// smbMounter adapts *smb.Mounter to the orchestrator's Mounter interface.
// The explicit nil return keeps a failed mount from surfacing as a non-nil
// interface holding a nil *smb.Session.
type smbMounter struct {
	m *smb.Mounter
}

func (a smbMounter) Mount(ctx context.Context, server, share, user, password string) (cleanup.Session, error) {
	sess, err := a.m.Mount(ctx, server, share, user, password)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func newSMBMounter() smbMounter {
	return smbMounter{m: smb.NewMounter(nil)}
}
