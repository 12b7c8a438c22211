// Package effectapi defines the contract between the helper process and
// compiled effect plugins. Plugins are built with -buildmode=plugin against
// this package and must export a symbol named PlayEffect whose type is
// EntryPoint. The helper validates the plugin before loading it and invokes
// the entry point exactly once; the plugin decides whether to loop internally.
package effectapi

// EntrySymbol is the exported symbol name the helper looks up in a plugin.
const EntrySymbol = "PlayEffect"

// Params carries the resolved effect parameters, keyed by parameter name.
// Values are the declared defaults overlaid with any values set in the
// effect file.
type Params map[string]interface{}

// RenderTarget is a device's addressable lighting surface. Cell writes are
// buffered; Draw commits the buffer to hardware in one frame.
type RenderTarget interface {
	// Rows returns the matrix height.
	Rows() int
	// Cols returns the matrix width.
	Cols() int
	// Clear resets every cell in the buffer to off.
	Clear()
	// Set writes one cell's color into the buffer.
	Set(row, col int, r, g, b uint8) error
	// Draw commits the buffered frame to the device.
	Draw() error
}

// EntryPoint is the signature of the PlayEffect symbol.
type EntryPoint func(target RenderTarget, params Params) error
