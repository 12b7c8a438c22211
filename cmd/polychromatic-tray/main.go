// Package main is the entry point for the polychromatic tray applet.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nightsky30/polychromatic/internal/config"
	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/internal/device/openrazer"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/state"
	"github.com/nightsky30/polychromatic/internal/tray"
)

// refreshInterval is how often the tray menu re-reads helper state.
const refreshInterval = 5 * time.Second

func main() {
	foreground := flag.Bool("foreground", false, "Run without a system tray (for development)")
	flag.Parse()

	logger := logging.New("tray")

	if err := config.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create config directories: %v", err)
	}

	statesDir, err := config.StatesDir()
	if err != nil {
		log.Fatalf("Failed to locate state directory: %v", err)
	}
	store := state.NewStore(statesDir)

	var backends []device.Backend
	if b, err := openrazer.Connect(); err != nil {
		logger.Warnf("openrazer backend unavailable: %v", err)
	} else {
		backends = append(backends, b)
	}
	resolver := device.NewResolver(logger, backends...)

	applet := tray.NewApplet(logger, resolver, store)

	if *foreground {
		runForeground(logger, applet)
		return
	}
	runWithTray(applet)
}

// runForeground logs applet state without a tray, blocking on signals.
func runForeground(logger *logging.Logger, applet *tray.Applet) {
	logger.Infof("running in foreground mode (no system tray)")
	logger.Infof("%s", applet.BackendStatus())
	for _, effect := range applet.ActiveEffects() {
		logger.Infof("active: %s on %s", effect.EffectName, effect.Serial)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infof("received signal %v, exiting", sig)
}

// runWithTray runs the applet with a system tray on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(applet *tray.Applet) {
	stop := make(chan struct{})

	onStart := func() {
		// Handle OS signals, quit tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			tray.Quit()
		}()

		// Periodic menu refresh
		go func() {
			ticker := time.NewTicker(refreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					tray.UpdateEffects(applet.ActiveEffects())
				}
			}
		}()
	}

	onExit := func() {
		close(stop)
		fmt.Println("Tray applet stopped")
	}

	// This blocks the main goroutine until tray exits.
	tray.Run(applet, onStart, onExit)
}
