// Package device resolves logical devices through one or more backends and
// hands out render targets for effect playback. Backends wrap the external
// daemon that owns the actual hardware; this package only speaks to their
// boundary: enumerate devices, obtain a render target.
package device

import (
	"errors"
	"fmt"

	"github.com/nightsky30/polychromatic/pkg/effectapi"
)

// Resolution errors.
var (
	// ErrNotFound means no backend knows the requested serial or name.
	ErrNotFound = errors.New("device not found")

	// ErrUnsupported means the device exists but has no render-capable
	// matrix, so it cannot play custom effects.
	ErrUnsupported = errors.New("device does not support custom effects")
)

// LoadError carries a diagnostic from a backend that failed to enumerate
// or open a device.
type LoadError struct {
	Backend string
	Detail  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("backend %s: %s", e.Backend, e.Detail)
}

// Info describes one device as reported by a backend.
type Info struct {
	Backend    string
	DeviceID   string
	Serial     string
	Name       string
	Type       string // keyboard, mouse, mousepad, ...
	MatrixRows int
	MatrixCols int
	HasMatrix  bool
}

// Backend is the external daemon boundary. Each method distinguishes three
// outcomes: a usable result, a diagnostic error, or "not found" (expressed
// as ErrNotFound / an empty device list).
type Backend interface {
	// Name identifies the backend (e.g. "openrazer").
	Name() string
	// Devices enumerates the devices the backend currently manages.
	Devices() ([]Info, error)
	// RenderTarget opens the lighting matrix of a managed device.
	// Returns ErrUnsupported if the device has no matrix.
	RenderTarget(deviceID string) (effectapi.RenderTarget, error)
}

// Handle is a resolved device ready for playback: the device record plus an
// open render target. Created fresh per invocation, never persisted.
type Handle struct {
	Info   Info
	Target effectapi.RenderTarget
}
