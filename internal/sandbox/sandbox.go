// Package sandbox validates and executes scripted effects. A scripted
// effect is a compiled plugin declared by an effect file; before any plugin
// code is loaded it has to pass a fixed sequence of gates, and once running
// it is supervised so a faulting plugin can never take the helper down
// undetected.
package sandbox

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"plugin"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/models"
	"github.com/nightsky30/polychromatic/pkg/effectapi"
)

// Gate names, in check order.
const (
	GateIntegrity    = "integrity"
	GatePlatform     = "platform"
	GateDevice       = "device"
	GateDependencies = "dependencies"
)

// GateFailure reports which gate rejected the script and why. For the
// dependency gate, Missing lists every unavailable module, not just the
// first one found.
type GateFailure struct {
	Gate    string
	Detail  string
	Missing []string
}

func (e *GateFailure) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s gate failed: %s: %s", e.Gate, e.Detail, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s gate failed: %s", e.Gate, e.Detail)
}

// RuntimeFault wraps a panic raised by plugin code during execution.
type RuntimeFault struct {
	Value interface{}
	Stack []byte
}

func (e *RuntimeFault) Error() string {
	return fmt.Sprintf("script raised a runtime fault: %v", e.Value)
}

// Sandbox supervises one scripted effect.
type Sandbox struct {
	log     *logging.Logger
	payload *models.ScriptPayload
	dir     string // directory of the effect file; relative paths resolve against it

	// Test seams. Zero values select the real implementations.
	goos     string
	lookPath func(string) (string, error)
	entry    effectapi.EntryPoint
}

// New creates a sandbox for the script declared by the effect file at
// effectPath.
func New(log *logging.Logger, effectPath string, payload *models.ScriptPayload) *Sandbox {
	return &Sandbox{
		log:     log,
		payload: payload,
		dir:     filepath.Dir(effectPath),
	}
}

// ScriptPath returns the absolute path of the plugin file.
func (s *Sandbox) ScriptPath() string {
	if filepath.IsAbs(s.payload.Script) {
		return s.payload.Script
	}
	return filepath.Join(s.dir, s.payload.Script)
}

// Validate runs the gates in order: integrity, platform, device,
// dependencies. The first failing gate aborts; later gates are not
// evaluated. No plugin code is loaded here.
func (s *Sandbox) Validate(dev device.Info) *GateFailure {
	if failure := s.checkIntegrity(); failure != nil {
		return failure
	}
	if failure := s.checkPlatform(); failure != nil {
		return failure
	}
	if failure := s.checkDevice(dev); failure != nil {
		return failure
	}
	return s.checkDependencies()
}

// checkIntegrity verifies the plugin file against the declared checksum.
// When this fails the declared module list cannot be trusted either, so
// the failure is fatal before anything else is inspected.
func (s *Sandbox) checkIntegrity() *GateFailure {
	if s.payload.Checksum == "" {
		return &GateFailure{Gate: GateIntegrity, Detail: "script declares no checksum"}
	}

	f, err := os.Open(s.ScriptPath())
	if err != nil {
		return &GateFailure{Gate: GateIntegrity, Detail: fmt.Sprintf("script unreadable: %v", err)}
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return &GateFailure{Gate: GateIntegrity, Detail: fmt.Sprintf("script unreadable: %v", err)}
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(sum, s.payload.Checksum) {
		return &GateFailure{Gate: GateIntegrity, Detail: "checksum mismatch"}
	}
	return nil
}

func (s *Sandbox) checkPlatform() *GateFailure {
	goos := s.goos
	if goos == "" {
		goos = runtime.GOOS
	}

	for _, p := range s.payload.Platforms {
		if strings.EqualFold(p, goos) {
			return nil
		}
	}
	return &GateFailure{
		Gate:   GatePlatform,
		Detail: fmt.Sprintf("script supports %v, not %s", s.payload.Platforms, goos),
	}
}

// checkDevice verifies the resolved device's type is among the declared
// device classes. An empty declaration means any device.
func (s *Sandbox) checkDevice(dev device.Info) *GateFailure {
	if len(s.payload.Devices) == 0 {
		return nil
	}
	for _, d := range s.payload.Devices {
		if strings.EqualFold(d, dev.Type) {
			return nil
		}
	}
	return &GateFailure{
		Gate:   GateDevice,
		Detail: fmt.Sprintf("script requires %v, device is %s", s.payload.Devices, dev.Type),
	}
}

// checkDependencies verifies every declared required module is available.
// All missing modules are collected before reporting; this gate never
// stops at the first miss.
func (s *Sandbox) checkDependencies() *GateFailure {
	lookPath := s.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var missing []string
	for _, req := range s.payload.Requires {
		if strings.ContainsRune(req, os.PathSeparator) || strings.HasSuffix(req, ".so") {
			path := req
			if !filepath.IsAbs(path) {
				path = filepath.Join(s.dir, path)
			}
			if _, err := os.Stat(path); err != nil {
				missing = append(missing, req)
			}
			continue
		}
		if _, err := lookPath(req); err != nil {
			missing = append(missing, req)
		}
	}

	if len(missing) > 0 {
		return &GateFailure{
			Gate:    GateDependencies,
			Detail:  "missing required modules",
			Missing: missing,
		}
	}
	return nil
}

// ResolveParams builds the parameter map from the declared schema, filling
// defaults for parameters with no set value.
func (s *Sandbox) ResolveParams() effectapi.Params {
	params := make(effectapi.Params, len(s.payload.Params))
	for _, spec := range s.payload.Params {
		if spec.Value != nil {
			params[spec.Key] = spec.Value
			continue
		}
		params[spec.Key] = spec.Default
	}
	return params
}

// load opens the plugin and resolves the entry-point symbol.
func (s *Sandbox) load() (effectapi.EntryPoint, error) {
	p, err := plugin.Open(s.ScriptPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}

	sym, err := p.Lookup(effectapi.EntrySymbol)
	if err != nil {
		return nil, fmt.Errorf("script exports no %s entry point: %w", effectapi.EntrySymbol, err)
	}

	switch fn := sym.(type) {
	case effectapi.EntryPoint:
		return fn, nil
	case *effectapi.EntryPoint:
		return *fn, nil
	case func(effectapi.RenderTarget, effectapi.Params) error:
		return fn, nil
	default:
		return nil, fmt.Errorf("%s has wrong type %T", effectapi.EntrySymbol, sym)
	}
}

// Run loads the plugin and invokes its entry point with the render target
// and resolved parameters. A panic inside the plugin is recovered, logged
// with its full stack, and returned as a *RuntimeFault; the helper process
// itself never crashes from plugin code.
func (s *Sandbox) Run(target effectapi.RenderTarget, params effectapi.Params) (err error) {
	entry := s.entry
	if entry == nil {
		entry, err = s.load()
		if err != nil {
			return err
		}
	}

	defer func() {
		if r := recover(); r != nil {
			fault := &RuntimeFault{Value: r, Stack: debug.Stack()}
			s.log.Errorf("script fault: %v\n%s", r, fault.Stack)
			err = fault
		}
	}()

	s.log.Infof("executing script %s", s.ScriptPath())
	if err := entry(target, params); err != nil {
		return fmt.Errorf("script returned an error: %w", err)
	}
	s.log.Infof("script completed")
	return nil
}
