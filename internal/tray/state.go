// Package tray implements the system tray icon and menu for the applet.
package tray

// AppletState provides read-only access to helper state for the tray, plus
// the actions the menu exposes.
type AppletState interface {
	BackendStatus() string
	ActiveEffects() []EffectInfo
	StopEffect(serial string)
	RequestQuit()
}

// EffectInfo describes a playing effect for display in the tray menu.
type EffectInfo struct {
	Serial     string
	DeviceName string
	EffectName string
}
