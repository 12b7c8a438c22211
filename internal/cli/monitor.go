package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nightsky30/polychromatic/internal/config"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/triggers"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor-triggers",
	Short: "Watch trigger definitions until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New("triggers")
		if err := config.EnsureDirs(); err != nil {
			return fmt.Errorf("failed to prepare directories: %w", err)
		}

		dir, err := config.TriggersDir()
		if err != nil {
			return err
		}
		monitor, err := triggers.NewMonitor(log, dir)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
