package config

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nightsky30/polychromatic/internal/models"
)

// helperFile returns the PID file path for a device serial.
func helperFile(serial string) (string, error) {
	dir, err := RunDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, serial+".yaml"), nil
}

// SaveHelperInfo records a running helper instance for a serial.
func SaveHelperInfo(info *models.HelperInfo) error {
	path, err := helperFile(info.Serial)
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// LoadHelperInfo loads the helper record for a serial.
// Returns nil if no record exists.
func LoadHelperInfo(serial string) (*models.HelperInfo, error) {
	path, err := helperFile(serial)
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return nil, nil
	}

	var info models.HelperInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RemoveHelperInfo removes the helper record for a serial.
func RemoveHelperInfo(serial string) error {
	path, err := helperFile(serial)
	if err != nil {
		return err
	}
	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// IsHelperRunning checks whether a helper instance is alive for a serial.
// Returns true if a record exists and its PID responds to signal 0. Stale
// records are cleaned up on the way.
func IsHelperRunning(serial string) (bool, *models.HelperInfo, error) {
	info, err := LoadHelperInfo(serial)
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		// On Unix, FindProcess always succeeds
		return false, info, nil
	}

	if err := process.Signal(syscall.Signal(0)); err != nil {
		// Process doesn't exist, clean up stale file
		_ = RemoveHelperInfo(serial)
		return false, info, nil
	}

	return true, info, nil
}

// ListHelpers returns the helper records of all live helper instances.
func ListHelpers() ([]*models.HelperInfo, error) {
	dir, err := RunDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var helpers []*models.HelperInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") || name == TrayPidFileName {
			continue
		}
		serial := strings.TrimSuffix(name, ".yaml")
		running, info, err := IsHelperRunning(serial)
		if err != nil || !running {
			continue
		}
		helpers = append(helpers, info)
	}
	return helpers, nil
}
