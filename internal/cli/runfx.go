package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nightsky30/polychromatic/internal/config"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/playback"
)

var (
	runFXSerial string
	runFXName   string
)

var runFXCmd = &cobra.Command{
	Use:   "run-fx <path>",
	Short: "Play an effect file on a device",
	Long: `Plays the effect file at <path> on the device selected by
--device-serial or --device-name. The serial takes priority when both
are given. The process runs until the effect completes or is terminated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runFXSerial == "" && runFXName == "" {
			return errors.New("one of --device-serial or --device-name is required")
		}

		log := logging.New("helper")
		if err := config.EnsureDirs(); err != nil {
			return fmt.Errorf("failed to prepare directories: %w", err)
		}

		store, err := newStore()
		if err != nil {
			return err
		}

		supervisor := playback.NewSupervisor(log, newResolver(log), store)
		supervisor.RecordPID = config.SaveHelperInfo
		supervisor.RemovePID = config.RemoveHelperInfo

		result := supervisor.Run(playback.Options{
			Path:   args[0],
			Serial: runFXSerial,
			Name:   runFXName,
		})
		if result.Status != playback.StatusCompleted {
			fmt.Fprintln(cmd.ErrOrStderr(), styleError.Render(result.Diagnostic))
			fmt.Fprintln(cmd.ErrOrStderr(), styleHint.Render("Run with POLYCHROMATIC_DEBUG=1 for session details."))
			return result.Err
		}
		return nil
	},
}

func init() {
	runFXCmd.Flags().StringVar(&runFXSerial, "device-serial", "", "Target device serial number")
	runFXCmd.Flags().StringVar(&runFXName, "device-name", "", "Target device name")
}
