// Package openrazer implements the device backend boundary over the
// OpenRazer daemon's session D-Bus interface. Only the calls the helper
// needs are bound: enumerate devices and drive a custom lighting matrix.
package openrazer

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/pkg/effectapi"
)

const (
	busName    = "org.razer"
	rootPath   = dbus.ObjectPath("/org/razer")
	devicePath = "/org/razer/device/"

	ifaceDevices = "razer.devices"
	ifaceMisc    = "razer.device.misc"
	ifaceChroma  = "razer.device.lighting.chroma"
)

// Backend talks to the OpenRazer daemon over the session bus.
type Backend struct {
	conn *dbus.Conn
}

// Connect opens a session bus connection to the daemon.
func Connect() (*Backend, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus unavailable: %w", err)
	}
	return &Backend{conn: conn}, nil
}

// Name identifies this backend.
func (b *Backend) Name() string { return "openrazer" }

// Devices enumerates the devices the daemon manages. The daemon reports
// devices by serial; the serial doubles as the device ID.
func (b *Backend) Devices() ([]device.Info, error) {
	root := b.conn.Object(busName, rootPath)

	var serials []string
	if err := root.Call(ifaceDevices+".getDevices", 0).Store(&serials); err != nil {
		return nil, fmt.Errorf("getDevices: %w", err)
	}

	infos := make([]device.Info, 0, len(serials))
	for _, serial := range serials {
		obj := b.conn.Object(busName, dbus.ObjectPath(devicePath+serial))

		var name, devType string
		if err := obj.Call(ifaceMisc+".getDeviceName", 0).Store(&name); err != nil {
			return nil, fmt.Errorf("device %s: getDeviceName: %w", serial, err)
		}
		if err := obj.Call(ifaceMisc+".getDeviceType", 0).Store(&devType); err != nil {
			return nil, fmt.Errorf("device %s: getDeviceType: %w", serial, err)
		}

		info := device.Info{
			Backend:  b.Name(),
			DeviceID: serial,
			Serial:   serial,
			Name:     name,
			Type:     devType,
		}

		// Devices without a custom matrix fail this call; that is the
		// supported signal for "no custom effects", not an error.
		var dims []int32
		if err := obj.Call(ifaceMisc+".getMatrixDimensions", 0).Store(&dims); err == nil && len(dims) == 2 && dims[0] > 0 && dims[1] > 0 {
			info.HasMatrix = true
			info.MatrixRows = int(dims[0])
			info.MatrixCols = int(dims[1])
		}

		infos = append(infos, info)
	}
	return infos, nil
}

// RenderTarget opens the custom lighting matrix of a device.
func (b *Backend) RenderTarget(deviceID string) (effectapi.RenderTarget, error) {
	devices, err := b.Devices()
	if err != nil {
		return nil, err
	}
	for _, info := range devices {
		if info.DeviceID != deviceID {
			continue
		}
		if !info.HasMatrix {
			return nil, fmt.Errorf("device %s has no lighting matrix", deviceID)
		}
		return &matrix{
			obj:  b.conn.Object(busName, dbus.ObjectPath(devicePath+deviceID)),
			rows: info.MatrixRows,
			cols: info.MatrixCols,
			buf:  make([][3]uint8, info.MatrixRows*info.MatrixCols),
		}, nil
	}
	return nil, fmt.Errorf("device %s not managed by daemon", deviceID)
}

// matrix buffers per-cell writes and commits them one row at a time.
type matrix struct {
	obj  dbus.BusObject
	rows int
	cols int
	buf  [][3]uint8
}

func (m *matrix) Rows() int { return m.rows }
func (m *matrix) Cols() int { return m.cols }

func (m *matrix) Clear() {
	for i := range m.buf {
		m.buf[i] = [3]uint8{}
	}
}

func (m *matrix) Set(row, col int, r, g, b uint8) error {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return fmt.Errorf("cell (%d,%d) outside %dx%d matrix", row, col, m.rows, m.cols)
	}
	m.buf[row*m.cols+col] = [3]uint8{r, g, b}
	return nil
}

// Draw pushes every row with setKeyRow and then commits with setCustom.
// Row payload format: row index, start column, end column, then RGB triples.
func (m *matrix) Draw() error {
	for row := 0; row < m.rows; row++ {
		payload := make([]byte, 0, 3+m.cols*3)
		payload = append(payload, byte(row), 0, byte(m.cols-1))
		for col := 0; col < m.cols; col++ {
			c := m.buf[row*m.cols+col]
			payload = append(payload, c[0], c[1], c[2])
		}
		if err := m.obj.Call(ifaceChroma+".setKeyRow", 0, payload).Err; err != nil {
			return fmt.Errorf("setKeyRow %d: %w", row, err)
		}
	}
	if err := m.obj.Call(ifaceChroma+".setCustom", 0).Err; err != nil {
		return fmt.Errorf("setCustom: %w", err)
	}
	return nil
}
