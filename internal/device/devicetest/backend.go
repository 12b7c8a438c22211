// Package devicetest provides an in-memory backend and a counting render
// target for headless tests.
package devicetest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/pkg/effectapi"
)

// CellWrite records one Set call on a Target.
type CellWrite struct {
	Row, Col int
	R, G, B  uint8
}

// Target is an effectapi.RenderTarget that records every write and commit.
type Target struct {
	mu      sync.Mutex
	rows    int
	cols    int
	Writes  []CellWrite
	Commits int
	Clears  int

	// Grid holds the last committed frame; nil cells are "off".
	Grid map[[2]int][3]uint8

	pending map[[2]int][3]uint8
}

// NewTarget creates a target with the given matrix dimensions.
func NewTarget(rows, cols int) *Target {
	return &Target{
		rows:    rows,
		cols:    cols,
		Grid:    make(map[[2]int][3]uint8),
		pending: make(map[[2]int][3]uint8),
	}
}

func (t *Target) Rows() int { return t.rows }
func (t *Target) Cols() int { return t.cols }

func (t *Target) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Clears++
	t.pending = make(map[[2]int][3]uint8)
}

func (t *Target) Set(row, col int, r, g, b uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return fmt.Errorf("cell (%d,%d) outside %dx%d matrix", row, col, t.rows, t.cols)
	}
	t.Writes = append(t.Writes, CellWrite{Row: row, Col: col, R: r, G: g, B: b})
	t.pending[[2]int{row, col}] = [3]uint8{r, g, b}
	return nil
}

func (t *Target) Draw() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Commits++
	t.Grid = make(map[[2]int][3]uint8, len(t.pending))
	for k, v := range t.pending {
		t.Grid[k] = v
	}
	return nil
}

// Backend is an in-memory device.Backend.
type Backend struct {
	BackendName string
	Infos       []device.Info
	Targets     map[string]*Target // keyed by device ID

	// EnumerateErr, when set, makes Devices fail with this diagnostic.
	EnumerateErr error
}

// New creates a backend named "fake" with no devices.
func New() *Backend {
	return &Backend{
		BackendName: "fake",
		Targets:     make(map[string]*Target),
	}
}

// AddDevice registers a device and, if it has a matrix, a fresh Target.
func (b *Backend) AddDevice(info device.Info) *Target {
	info.Backend = b.BackendName
	b.Infos = append(b.Infos, info)
	if !info.HasMatrix {
		return nil
	}
	target := NewTarget(info.MatrixRows, info.MatrixCols)
	b.Targets[info.DeviceID] = target
	return target
}

func (b *Backend) Name() string { return b.BackendName }

func (b *Backend) Devices() ([]device.Info, error) {
	if b.EnumerateErr != nil {
		return nil, b.EnumerateErr
	}
	return b.Infos, nil
}

func (b *Backend) RenderTarget(deviceID string) (effectapi.RenderTarget, error) {
	target, ok := b.Targets[deviceID]
	if !ok {
		return nil, errors.New("device has no lighting matrix")
	}
	return target, nil
}
