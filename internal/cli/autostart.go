package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nightsky30/polychromatic/internal/bootstrap"
	"github.com/nightsky30/polychromatic/internal/config"
	"github.com/nightsky30/polychromatic/internal/logging"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Resume saved effects and launch the tray applet",
	Long: `Runs the login bootstrap: waits for device backends to come up,
clears stale preset markers, resumes the effects recorded in the
software state, and launches the tray applet if enabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New("autostart")
		if err := config.EnsureDirs(); err != nil {
			return fmt.Errorf("failed to prepare directories: %w", err)
		}

		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		store, err := newStore()
		if err != nil {
			return err
		}

		return bootstrap.New(log, newResolver(log), store, settings).Run()
	},
}
