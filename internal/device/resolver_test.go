package device_test

import (
	"errors"
	"testing"

	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/internal/device/devicetest"
	"github.com/nightsky30/polychromatic/internal/logging"
)

func newBackend() *devicetest.Backend {
	b := devicetest.New()
	b.AddDevice(device.Info{
		DeviceID:   "kbd0",
		Serial:     "ABC123",
		Name:       "Razer BlackWidow Chroma",
		Type:       "keyboard",
		MatrixRows: 6,
		MatrixCols: 22,
		HasMatrix:  true,
	})
	b.AddDevice(device.Info{
		DeviceID: "mouse0",
		Serial:   "XYZ789",
		Name:     "Razer Basic Mouse",
		Type:     "mouse",
		// no matrix
	})
	return b
}

func TestResolveBySerial(t *testing.T) {
	resolver := device.NewResolver(logging.New("test"), newBackend())

	handle, err := resolver.BySerial("ABC123")
	if err != nil {
		t.Fatalf("BySerial() error: %v", err)
	}
	if handle.Info.Serial != "ABC123" {
		t.Errorf("Serial = %q, want ABC123", handle.Info.Serial)
	}
	if handle.Target == nil {
		t.Error("Target is nil")
	}
	if handle.Target.Rows() != 6 || handle.Target.Cols() != 22 {
		t.Errorf("matrix = %dx%d, want 6x22", handle.Target.Rows(), handle.Target.Cols())
	}
}

func TestResolveByNameBackfillsSerial(t *testing.T) {
	resolver := device.NewResolver(logging.New("test"), newBackend())

	handle, err := resolver.ByName("razer blackwidow chroma")
	if err != nil {
		t.Fatalf("ByName() error: %v", err)
	}
	if handle.Info.Serial != "ABC123" {
		t.Errorf("Serial = %q, want ABC123 (back-filled from record)", handle.Info.Serial)
	}
}

func TestResolveNotFound(t *testing.T) {
	resolver := device.NewResolver(logging.New("test"), newBackend())

	tests := []struct {
		name    string
		resolve func() (*device.Handle, error)
	}{
		{name: "unknown serial", resolve: func() (*device.Handle, error) { return resolver.BySerial("NOPE") }},
		{name: "unknown name", resolve: func() (*device.Handle, error) { return resolver.ByName("Razer Unicorn") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.resolve()
			if !errors.Is(err, device.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestResolveUnsupportedDevice(t *testing.T) {
	resolver := device.NewResolver(logging.New("test"), newBackend())

	_, err := resolver.BySerial("XYZ789")
	if !errors.Is(err, device.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestResolveBackendDiagnostic(t *testing.T) {
	failing := devicetest.New()
	failing.EnumerateErr = errors.New("daemon socket refused")

	resolver := device.NewResolver(logging.New("test"), failing)

	_, err := resolver.BySerial("ABC123")
	var loadErr *device.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error = %v, want *LoadError", err)
	}
	if loadErr.Backend != "fake" {
		t.Errorf("Backend = %q, want fake", loadErr.Backend)
	}
}

func TestResolveAcrossBackends(t *testing.T) {
	// A failing backend before a healthy one must not mask the match.
	failing := devicetest.New()
	failing.EnumerateErr = errors.New("daemon socket refused")

	resolver := device.NewResolver(logging.New("test"), failing, newBackend())

	handle, err := resolver.BySerial("ABC123")
	if err != nil {
		t.Fatalf("BySerial() error: %v", err)
	}
	if handle.Info.Serial != "ABC123" {
		t.Errorf("Serial = %q, want ABC123", handle.Info.Serial)
	}
}

func TestAvailable(t *testing.T) {
	log := logging.New("test")

	if device.NewResolver(log).Available() {
		t.Error("Available() = true with no backends")
	}

	failing := devicetest.New()
	failing.EnumerateErr = errors.New("down")
	if device.NewResolver(log, failing).Available() {
		t.Error("Available() = true with only a failing backend")
	}

	if !device.NewResolver(log, newBackend()).Available() {
		t.Error("Available() = false with a healthy backend")
	}
}
