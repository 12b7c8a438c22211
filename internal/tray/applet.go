package tray

import (
	"fmt"
	"syscall"

	"github.com/nightsky30/polychromatic/internal/config"
	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/state"
)

// Applet implements AppletState over the software state store, the helper
// PID records and the device backends.
type Applet struct {
	log      *logging.Logger
	resolver *device.Resolver
	store    *state.Store
}

// NewApplet creates the tray applet state.
func NewApplet(log *logging.Logger, resolver *device.Resolver, store *state.Store) *Applet {
	return &Applet{log: log, resolver: resolver, store: store}
}

// BackendStatus summarizes backend availability for the menu.
func (a *Applet) BackendStatus() string {
	devices := a.resolver.All()
	if !a.resolver.Available() {
		return "No device backend available"
	}
	return fmt.Sprintf("%d device(s) connected", len(devices))
}

// ActiveEffects lists the effects of all live helper instances.
func (a *Applet) ActiveEffects() []EffectInfo {
	helpers, err := config.ListHelpers()
	if err != nil {
		a.log.Warnf("failed to list helpers: %v", err)
		return nil
	}

	names := make(map[string]string)
	for _, info := range a.resolver.All() {
		names[info.Serial] = info.Name
	}

	effects := make([]EffectInfo, 0, len(helpers))
	for _, h := range helpers {
		effects = append(effects, EffectInfo{
			Serial:     h.Serial,
			DeviceName: names[h.Serial],
			EffectName: h.Effect,
		})
	}
	return effects
}

// StopEffect terminates the helper playing on the given serial and clears
// its software state record.
func (a *Applet) StopEffect(serial string) {
	running, info, err := config.IsHelperRunning(serial)
	if err != nil {
		a.log.Warnf("failed to check helper for %s: %v", serial, err)
		return
	}
	if running {
		a.log.Infof("stopping helper pid=%d for %s", info.PID, serial)
		if err := syscall.Kill(info.PID, syscall.SIGTERM); err != nil {
			a.log.Warnf("failed to signal helper %d: %v", info.PID, err)
		}
	}
	_ = config.RemoveHelperInfo(serial)

	record, err := a.store.Get(serial)
	if err != nil {
		a.log.Warnf("failed to read state for %s: %v", serial, err)
		return
	}
	record.Effect = nil
	if err := a.store.Put(record); err != nil {
		a.log.Warnf("failed to clear state for %s: %v", serial, err)
	}

	UpdateEffects(a.ActiveEffects())
}

// RequestQuit closes the tray.
func (a *Applet) RequestQuit() {
	Quit()
}
