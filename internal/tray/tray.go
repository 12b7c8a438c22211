package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

const maxDeviceSlots = 10

var (
	state   AppletState
	onStart func()
	onExit  func()

	backendItem *systray.MenuItem

	// Pre-allocated device menu slots
	deviceSlots  [maxDeviceSlots]*systray.MenuItem
	deviceStop   [maxDeviceSlots]*systray.MenuItem
	noEffectItem *systray.MenuItem
	quitItem     *systray.MenuItem

	// Maps slot index → device serial for stop actions
	slotMu      sync.RWMutex
	slotSerials [maxDeviceSlots]string
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready; onExitFn on exit.
func Run(s AppletState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip(formatTooltip(0))

	// Header
	header := systray.AddMenuItem("Polychromatic", "")
	header.Disable()

	// Backend status
	backendItem = systray.AddMenuItem("Checking backends...", "")
	backendItem.Disable()

	systray.AddSeparator()

	// Pre-allocate device slots (hidden by default)
	for i := 0; i < maxDeviceSlots; i++ {
		deviceSlots[i] = systray.AddMenuItem("", "")
		deviceStop[i] = deviceSlots[i].AddSubMenuItem("Stop effect", "")
		deviceSlots[i].Hide()
	}

	// "No active effects" placeholder
	noEffectItem = systray.AddMenuItem("No active effects", "")
	noEffectItem.Disable()

	systray.AddSeparator()

	quitItem = systray.AddMenuItem("Quit", "Close the Polychromatic tray applet")

	if onStart != nil {
		onStart()
	}

	if state != nil {
		backendItem.SetTitle(state.BackendStatus())
		UpdateEffects(state.ActiveEffects())
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestQuit()
			}

		// Device slot clicks
		case <-deviceStop[0].ClickedCh:
			stopEffectAtSlot(0)
		case <-deviceStop[1].ClickedCh:
			stopEffectAtSlot(1)
		case <-deviceStop[2].ClickedCh:
			stopEffectAtSlot(2)
		case <-deviceStop[3].ClickedCh:
			stopEffectAtSlot(3)
		case <-deviceStop[4].ClickedCh:
			stopEffectAtSlot(4)
		case <-deviceStop[5].ClickedCh:
			stopEffectAtSlot(5)
		case <-deviceStop[6].ClickedCh:
			stopEffectAtSlot(6)
		case <-deviceStop[7].ClickedCh:
			stopEffectAtSlot(7)
		case <-deviceStop[8].ClickedCh:
			stopEffectAtSlot(8)
		case <-deviceStop[9].ClickedCh:
			stopEffectAtSlot(9)
		}
	}
}

// stopEffectAtSlot stops the effect assigned to the given menu slot.
func stopEffectAtSlot(slot int) {
	slotMu.RLock()
	serial := slotSerials[slot]
	slotMu.RUnlock()

	if serial == "" || state == nil {
		return
	}
	go state.StopEffect(serial)
}

// UpdateEffects refreshes the device menu items and tooltip.
func UpdateEffects(effects []EffectInfo) {
	// Update slot → serial mapping
	slotMu.Lock()
	for i := 0; i < maxDeviceSlots; i++ {
		slotSerials[i] = ""
	}
	for i, effect := range effects {
		if i >= maxDeviceSlots {
			break
		}
		slotSerials[i] = effect.Serial
	}
	slotMu.Unlock()

	// Hide all slots first
	for i := 0; i < maxDeviceSlots; i++ {
		deviceSlots[i].Hide()
	}

	if len(effects) == 0 {
		noEffectItem.Show()
	} else {
		noEffectItem.Hide()
		for i, effect := range effects {
			if i >= maxDeviceSlots {
				break
			}
			deviceSlots[i].SetTitle(formatEffectTitle(effect))
			deviceSlots[i].Show()
		}
	}

	systray.SetTooltip(formatTooltip(len(effects)))
}

func formatTooltip(active int) string {
	return fmt.Sprintf("Polychromatic: %d active effect(s)", active)
}

func formatEffectTitle(effect EffectInfo) string {
	if effect.DeviceName != "" {
		return fmt.Sprintf("● %s: %s", effect.DeviceName, effect.EffectName)
	}
	return fmt.Sprintf("● %s: %s", effect.Serial, effect.EffectName)
}
