package device

import (
	"fmt"
	"strings"

	"github.com/nightsky30/polychromatic/internal/logging"
)

// Resolver finds devices across the registered backends.
type Resolver struct {
	backends []Backend
	log      *logging.Logger
}

// NewResolver creates a resolver over the given backends.
func NewResolver(log *logging.Logger, backends ...Backend) *Resolver {
	return &Resolver{backends: backends, log: log}
}

// Backends returns the registered backends.
func (r *Resolver) Backends() []Backend {
	return r.backends
}

// Available reports whether at least one backend can currently enumerate.
func (r *Resolver) Available() bool {
	for _, b := range r.backends {
		if _, err := b.Devices(); err == nil {
			return true
		}
	}
	return false
}

// BySerial resolves a device by its serial number and opens its render
// target. Returns ErrNotFound, ErrUnsupported or a *LoadError.
func (r *Resolver) BySerial(serial string) (*Handle, error) {
	return r.resolve(func(info Info) bool {
		return info.Serial == serial
	})
}

// ByName resolves a device by its human-readable name (case-insensitive)
// and opens its render target. The serial in the returned handle is
// back-filled from the matched record so downstream state tracking always
// keys on serial.
func (r *Resolver) ByName(name string) (*Handle, error) {
	return r.resolve(func(info Info) bool {
		return strings.EqualFold(info.Name, name)
	})
}

// All enumerates every device across all backends. Backends that fail to
// enumerate are logged and skipped.
func (r *Resolver) All() []Info {
	var all []Info
	for _, b := range r.backends {
		devices, err := b.Devices()
		if err != nil {
			r.log.Warnf("backend %s enumeration failed: %v", b.Name(), err)
			continue
		}
		all = append(all, devices...)
	}
	return all
}

func (r *Resolver) resolve(match func(Info) bool) (*Handle, error) {
	var lastLoadErr error

	for _, b := range r.backends {
		devices, err := b.Devices()
		if err != nil {
			lastLoadErr = &LoadError{Backend: b.Name(), Detail: err.Error()}
			continue
		}

		for _, info := range devices {
			if !match(info) {
				continue
			}
			if !info.HasMatrix {
				return nil, fmt.Errorf("%s (%s): %w", info.Name, info.Serial, ErrUnsupported)
			}

			target, err := b.RenderTarget(info.DeviceID)
			if err != nil {
				return nil, &LoadError{Backend: b.Name(), Detail: err.Error()}
			}

			r.log.Debugf("resolved device serial=%s backend=%s matrix=%dx%d",
				info.Serial, info.Backend, info.MatrixRows, info.MatrixCols)
			return &Handle{Info: info, Target: target}, nil
		}
	}

	if lastLoadErr != nil {
		return nil, lastLoadErr
	}
	return nil, ErrNotFound
}
