// Package cli implements the polychromatic-helper CLI commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/nightsky30/polychromatic/internal/config"
	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/internal/device/openrazer"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/state"
)

var rootCmd = &cobra.Command{
	Use:   "polychromatic-helper",
	Short: "Background helper for Razer device lighting",
	Long: `The helper plays lighting effects on Razer devices managed by the
OpenRazer daemon, resumes saved device state on login, and monitors
trigger conditions. One helper process plays one effect on one device.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(autostartCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(runFXCmd)
	rootCmd.AddCommand(versionCmd)
}

// newResolver connects the available backends. A backend that fails to
// connect is skipped; resolution errors surface later as "not found".
func newResolver(log *logging.Logger) *device.Resolver {
	var backends []device.Backend
	if b, err := openrazer.Connect(); err != nil {
		log.Warnf("openrazer backend unavailable: %v", err)
	} else {
		backends = append(backends, b)
	}
	return device.NewResolver(log, backends...)
}

// newStore opens the software state store.
func newStore() (*state.Store, error) {
	dir, err := config.StatesDir()
	if err != nil {
		return nil, err
	}
	return state.NewStore(dir), nil
}
