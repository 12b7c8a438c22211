package models

import "time"

// ActiveEffect identifies the effect currently playing on a device.
type ActiveEffect struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
	Path string `json:"path"`
}

// SoftwareState is the persisted per-device record of what this software
// last applied to the device. One record per physical device serial, stored
// as a whole JSON document that is read and replaced, never appended.
type SoftwareState struct {
	Version int           `json:"version"`
	Serial  string        `json:"serial"`
	Effect  *ActiveEffect `json:"effect,omitempty"`
	Preset  string        `json:"preset,omitempty"`
	SavedAt time.Time     `json:"saved_at"`
}

// NewSoftwareState creates an empty state record for a serial.
func NewSoftwareState(serial string) *SoftwareState {
	return &SoftwareState{
		Version: 1,
		Serial:  serial,
		SavedAt: time.Now().UTC(),
	}
}

// SetEffect records the effect that is about to start playing.
func (s *SoftwareState) SetEffect(name, icon, path string) {
	s.Effect = &ActiveEffect{Name: name, Icon: icon, Path: path}
	s.SavedAt = time.Now().UTC()
}

// ClearPreset removes the preset marker. Clearing a record that has no
// preset set is a no-op.
func (s *SoftwareState) ClearPreset() {
	if s.Preset == "" {
		return
	}
	s.Preset = ""
	s.SavedAt = time.Now().UTC()
}

// HasEffect reports whether the record names an active effect.
func (s *SoftwareState) HasEffect() bool {
	return s.Effect != nil
}
