// Package playback drives effect playback for one device: the sequence
// frame player and the supervisor that owns a playback session.
package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/nightsky30/polychromatic/internal/effects"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/models"
	"github.com/nightsky30/polychromatic/pkg/effectapi"
)

// ErrInvalidParameters rejects an effect whose numeric parameters cannot
// drive the render loop (e.g. a non-positive frame rate).
var ErrInvalidParameters = errors.New("invalid effect parameters")

// Player plays a sequence effect frame by frame at a fixed rate.
//
// The frame index starts at -1 and advances at the top of each step, so the
// first step renders frame 0. When the final frame has been rendered and
// slept, a looping player wraps the index back to -1 (the next step lands
// on frame 0 again) and a non-looping player reports done.
type Player struct {
	frames []models.Frame
	loop   bool
	delay  time.Duration
	target effectapi.RenderTarget
	log    *logging.Logger

	// Sleep is the inter-frame delay function, replaceable by tests.
	Sleep func(time.Duration)

	idx int
}

// NewPlayer validates the payload and creates a player. A zero or negative
// frame rate is rejected here, before any device write.
func NewPlayer(log *logging.Logger, target effectapi.RenderTarget, payload *models.SequencePayload) (*Player, error) {
	if payload.FPS <= 0 {
		return nil, fmt.Errorf("%w: frame rate must be positive, got %d", ErrInvalidParameters, payload.FPS)
	}
	return &Player{
		frames: payload.Frames,
		loop:   payload.Loop,
		delay:  time.Duration(float64(time.Second) / float64(payload.FPS)),
		target: target,
		log:    log,
		Sleep:  time.Sleep,
		idx:    -1,
	}, nil
}

// FrameIndex returns the index of the last rendered frame (-1 before the
// first step and right after a loop wrap).
func (p *Player) FrameIndex() int {
	return p.idx
}

// Step renders the next frame: clear the target, write every populated
// cell, commit, sleep for one frame period. Returns done=true when a
// non-looping sequence has rendered its final frame. A looping sequence is
// never done; termination is external.
func (p *Player) Step() (done bool, err error) {
	if len(p.frames) == 0 {
		return true, nil
	}

	p.idx++
	frame := p.frames[p.idx]

	p.target.Clear()
	for row, cols := range frame {
		for col, color := range cols {
			r, g, b, err := effects.ParseHexColor(color)
			if err != nil {
				return false, err
			}
			if err := p.target.Set(row, col, r, g, b); err != nil {
				// Out-of-range cells are skipped, not defaulted.
				p.log.Debugf("skipping cell (%d,%d): %v", row, col, err)
			}
		}
	}
	if err := p.target.Draw(); err != nil {
		return false, err
	}
	p.Sleep(p.delay)

	if p.idx == len(p.frames)-1 {
		if !p.loop {
			return true, nil
		}
		p.idx = -1
	}
	return false, nil
}

// Play runs the render loop until a non-looping sequence completes or a
// device write fails. For a looping sequence this blocks forever.
func (p *Player) Play() error {
	for {
		done, err := p.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
