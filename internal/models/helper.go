package models

import "time"

// HelperInfo records a running helper instance for one device.
// This corresponds to a per-serial PID file under the run directory.
type HelperInfo struct {
	Version   int       `yaml:"version"`
	Serial    string    `yaml:"serial"`
	PID       int       `yaml:"pid"`
	Effect    string    `yaml:"effect,omitempty"`
	SessionID string    `yaml:"session_id"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewHelperInfo creates a helper info record with current values.
func NewHelperInfo(serial string, pid int, effect, sessionID string) *HelperInfo {
	return &HelperInfo{
		Version:   1,
		Serial:    serial,
		PID:       pid,
		Effect:    effect,
		SessionID: sessionID,
		StartedAt: time.Now().UTC(),
	}
}
