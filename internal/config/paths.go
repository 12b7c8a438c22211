// Package config handles configuration loading, saving, path management and
// helper PID bookkeeping.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppDirName is the name of the application directory under the user
	// config and cache directories.
	AppDirName = "polychromatic"

	// StatesDirName holds per-device software state records.
	StatesDirName = "states"

	// EffectsDirName holds user effect files.
	EffectsDirName = "effects"

	// TriggersDirName holds trigger definition files.
	TriggersDirName = "triggers"

	// PidsDirName holds per-serial helper PID files.
	PidsDirName = "pids"
)

// File names
const (
	SettingsFileName = "settings.yaml"
	TrayPidFileName  = "tray.pid.yaml"
)

// ConfigDir returns the application config directory
// (e.g. ~/.config/polychromatic).
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDirName), nil
}

// StatesDir returns the software state directory.
func StatesDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, StatesDirName), nil
}

// EffectsDir returns the user effects directory.
func EffectsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, EffectsDirName), nil
}

// TriggersDir returns the trigger definitions directory.
func TriggersDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TriggersDirName), nil
}

// RunDir returns the runtime directory for PID files
// (e.g. ~/.cache/polychromatic/pids).
func RunDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDirName, PidsDirName), nil
}

// SettingsFile returns the path to settings.yaml.
func SettingsFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// EnsureDirs creates the config, state, effects, trigger and run directories.
func EnsureDirs() error {
	for _, fn := range []func() (string, error){ConfigDir, StatesDir, EffectsDir, TriggersDir, RunDir} {
		dir, err := fn()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
