package playback

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/internal/effects"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/models"
	"github.com/nightsky30/polychromatic/internal/sandbox"
	"github.com/nightsky30/polychromatic/internal/state"
)

// State identifies where a playback session is in its lifecycle.
type State string

// Session states.
const (
	StateIdle        State = "idle"
	StateResolving   State = "resolving"
	StateLoading     State = "loading"
	StateDispatching State = "dispatching"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

// Status is the terminal outcome of a session, mapped to the process exit
// code by the caller.
type Status int

// Session outcomes.
const (
	StatusCompleted Status = 0
	StatusFailed    Status = 1
)

// Result is what a session run hands back to the single top-level exit
// point.
type Result struct {
	Status     Status
	Diagnostic string
	Err        error
}

// Options select the effect and device for one session.
type Options struct {
	Path   string // effect file
	Serial string // takes priority over Name when both are set
	Name   string
}

// Supervisor owns one playback session per process invocation: it resolves
// the device, loads the effect descriptor, records the software state and
// dispatches to the renderer matching the declared type.
type Supervisor struct {
	log      *logging.Logger
	resolver *device.Resolver
	store    *state.Store

	// RecordPID and RemovePID maintain the per-serial helper PID record.
	// Either may be nil (tests, non-tracking invocations).
	RecordPID func(*models.HelperInfo) error
	RemovePID func(serial string) error

	// Sleep overrides the frame player's sleep function when non-nil.
	Sleep func(time.Duration)

	state     State
	sessionID string
}

// NewSupervisor creates a supervisor.
func NewSupervisor(log *logging.Logger, resolver *device.Resolver, store *state.Store) *Supervisor {
	return &Supervisor{
		log:       log,
		resolver:  resolver,
		store:     store,
		state:     StateIdle,
		sessionID: uuid.NewString(),
	}
}

// State returns the session's current lifecycle state.
func (s *Supervisor) State() State {
	return s.state
}

func (s *Supervisor) transition(next State) {
	s.log.Debugf("session %s: %s -> %s", s.sessionID, s.state, next)
	s.state = next
}

func (s *Supervisor) fail(diagnostic string, err error) *Result {
	s.transition(StateFailed)
	s.log.Errorf("%s: %v", diagnostic, err)
	return &Result{Status: StatusFailed, Diagnostic: diagnostic, Err: err}
}

// Run executes the session to completion and returns its result. Resolver
// and loader failures are terminal before any state is written.
func (s *Supervisor) Run(opts Options) *Result {
	// Resolving
	s.transition(StateResolving)
	handle, err := s.resolveDevice(opts)
	if err != nil {
		return s.fail("could not resolve device", err)
	}
	serial := handle.Info.Serial
	log := s.log.With("serial", serial)

	// Loading
	s.transition(StateLoading)
	desc, err := effects.Load(opts.Path)
	if err != nil {
		return s.fail("could not load effect", err)
	}

	// Dispatching: record what is about to play, then hand off by type.
	s.transition(StateDispatching)
	record, err := s.store.Get(serial)
	if err != nil {
		return s.fail("could not read software state", err)
	}
	record.SetEffect(desc.Name, desc.Icon, desc.Path)
	if err := s.store.Put(record); err != nil {
		return s.fail("could not write software state", err)
	}

	if s.RecordPID != nil {
		info := models.NewHelperInfo(serial, os.Getpid(), desc.Name, s.sessionID)
		if err := s.RecordPID(info); err != nil {
			log.Warnf("could not record helper PID: %v", err)
		}
	}
	defer func() {
		if s.RemovePID != nil {
			_ = s.RemovePID(serial)
		}
	}()

	s.transition(StateRunning)
	log.Infof("playing %q (%s) on %s", desc.Name, desc.Type, handle.Info.Name)

	if err := s.dispatch(handle, desc); err != nil {
		return s.fail(fmt.Sprintf("effect %q failed", desc.Name), err)
	}

	s.transition(StateCompleted)
	log.Infof("effect %q completed", desc.Name)
	return &Result{Status: StatusCompleted}
}

func (s *Supervisor) resolveDevice(opts Options) (*device.Handle, error) {
	switch {
	case opts.Serial != "":
		return s.resolver.BySerial(opts.Serial)
	case opts.Name != "":
		return s.resolver.ByName(opts.Name)
	default:
		return nil, errors.New("no device serial or name given")
	}
}

func (s *Supervisor) dispatch(handle *device.Handle, desc *models.Descriptor) error {
	switch desc.Type {
	case models.EffectTypeSequence:
		player, err := NewPlayer(s.log, handle.Target, desc.Sequence)
		if err != nil {
			return err
		}
		if s.Sleep != nil {
			player.Sleep = s.Sleep
		}
		return player.Play()

	case models.EffectTypeScripted:
		sb := sandbox.New(s.log, desc.Path, desc.Script)
		if failure := sb.Validate(handle.Info); failure != nil {
			return failure
		}
		return sb.Run(handle.Target, sb.ResolveParams())

	case models.EffectTypeLayered:
		// Layer composition is not implemented; dispatching here is a
		// no-op that completes without error.
		s.log.Warnf("layered effects are not implemented, nothing to play")
		return nil

	default:
		return fmt.Errorf("unknown effect type %q", desc.Type)
	}
}
