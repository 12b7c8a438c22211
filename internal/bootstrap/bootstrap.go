// Package bootstrap implements the login-time session bootstrap: wait for
// device backends to come up, resume the effects recorded in the software
// state, and launch the tray applet.
package bootstrap

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/models"
	"github.com/nightsky30/polychromatic/internal/state"
)

// Backend availability poll budget.
const (
	pollAttempts = 10
	pollInterval = 2 * time.Second
)

// Bootstrap runs the login-time startup sequence.
type Bootstrap struct {
	log      *logging.Logger
	resolver *device.Resolver
	store    *state.Store
	settings *models.Settings

	// Spawn launches a detached subordinate process. Replaceable by tests.
	Spawn func(name string, args ...string) error

	// Sleep is the poll/delay function, replaceable by tests.
	Sleep func(time.Duration)
}

// New creates a bootstrap.
func New(log *logging.Logger, resolver *device.Resolver, store *state.Store, settings *models.Settings) *Bootstrap {
	return &Bootstrap{
		log:      log,
		resolver: resolver,
		store:    store,
		settings: settings,
		Spawn:    spawnDetached,
		Sleep:    time.Sleep,
	}
}

// Run executes the full bootstrap: backend poll, effect resume, tray spawn.
// Only resume errors are fatal; an unavailable backend degrades to "resume
// whatever the available backends can serve", possibly nothing.
func (b *Bootstrap) Run() error {
	b.WaitForBackends()

	if err := b.Resume(); err != nil {
		return err
	}

	return b.StartTray()
}

// WaitForBackends polls until at least one backend can enumerate devices,
// up to a fixed retry budget. A timeout is logged, not returned: the
// bootstrap proceeds with whatever backends are available.
func (b *Bootstrap) WaitForBackends() {
	for attempt := 1; attempt <= pollAttempts; attempt++ {
		if b.resolver.Available() {
			b.log.Debugf("backend available after %d attempt(s)", attempt)
			return
		}
		b.log.Debugf("no backend available, attempt %d/%d", attempt, pollAttempts)
		b.Sleep(pollInterval)
	}
	b.log.Warnf("no device backend became available after %d attempts, continuing anyway", pollAttempts)
}

// Resume walks all software state records, unconditionally clears preset
// markers (hardware cannot be assumed to still match a stale preset), and
// spawns one helper per record naming an active effect, unless a login
// trigger command is configured to take over instead.
func (b *Bootstrap) Resume() error {
	records, err := b.store.List()
	if err != nil {
		return fmt.Errorf("failed to enumerate software state: %w", err)
	}

	for _, record := range records {
		record.ClearPreset()
		if err := b.store.Put(record); err != nil {
			b.log.Warnf("failed to clear preset for %s: %v", record.Serial, err)
		}
	}

	if cmd := b.settings.Login.TriggerCommand; cmd != "" {
		b.log.Infof("login trigger configured, skipping effect resume")
		return b.Spawn(cmd)
	}

	for _, record := range records {
		if !record.HasEffect() {
			continue
		}
		b.log.Infof("resuming %q on %s", record.Effect.Name, record.Serial)
		err := b.Spawn(helperBinary(), "run-fx", record.Effect.Path, "--device-serial", record.Serial)
		if err != nil {
			b.log.Warnf("failed to resume effect on %s: %v", record.Serial, err)
		}
	}
	return nil
}

// StartTray launches the tray applet after the configured delay, if the
// tray is enabled.
func (b *Bootstrap) StartTray() error {
	if !b.settings.Tray.Enabled {
		b.log.Debugf("tray disabled, not launching")
		return nil
	}
	if delay := b.settings.Tray.DelaySeconds; delay > 0 {
		b.Sleep(time.Duration(delay) * time.Second)
	}
	return b.Spawn("polychromatic-tray")
}

// helperBinary returns the path of the running helper binary so resumed
// sessions use the same build.
func helperBinary() string {
	path, err := os.Executable()
	if err != nil {
		return "polychromatic-helper"
	}
	return path
}

// spawnDetached starts a background process with no attached stdio.
func spawnDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	// Detach: the child outlives this process.
	return cmd.Process.Release()
}
