package models

// TrayConfig holds settings for the tray applet.
type TrayConfig struct {
	Enabled      bool `yaml:"enabled"`
	DelaySeconds int  `yaml:"delay_seconds"`
}

// LoginConfig holds settings for the login bootstrap.
type LoginConfig struct {
	// TriggerCommand, when set, is run at login instead of resuming the
	// saved effects. The saved software state is left untouched for it.
	TriggerCommand string `yaml:"trigger_command,omitempty"`
}

// BackendsConfig holds settings for the device backend boundary.
type BackendsConfig struct {
	// Preferred lists backend names to try first when resolving devices.
	Preferred []string `yaml:"preferred,omitempty"`
}

// Settings represents global application settings.
// This corresponds to <config dir>/polychromatic/settings.yaml.
type Settings struct {
	Version  int            `yaml:"version"`
	Tray     TrayConfig     `yaml:"tray"`
	Login    LoginConfig    `yaml:"login"`
	Backends BackendsConfig `yaml:"backends"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Tray: TrayConfig{
			Enabled:      true,
			DelaySeconds: 0,
		},
	}
}
