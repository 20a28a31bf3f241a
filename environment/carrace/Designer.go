package carrace

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"
)

// DesignPhase shapes a track before it is frozen. Design blocks until
// the track is finished or ctx is done.
type DesignPhase interface {
	Design(ctx context.Context, b *Builder) error
}

// DesignFunc adapts a function to the DesignPhase interface
type DesignFunc func(ctx context.Context, b *Builder) error

// Design calls f(ctx, b)
func (f DesignFunc) Design(ctx context.Context, b *Builder) error {
	return f(ctx, b)
}

// Chain returns a DesignPhase that runs each phase in order, skipping
// nil phases
func Chain(phases ...DesignPhase) DesignPhase {
	return DesignFunc(func(ctx context.Context, b *Builder) error {
		for _, p := range phases {
			if p == nil {
				continue
			}
			if err := p.Design(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

// PointerState is the state of the operator's pointer on one frame.
// Commit is set once the operator asks to finish the design.
type PointerState struct {
	X, Y    float64
	Pressed bool
	Commit  bool
}

// Pointer is polled once per frame by the Designer. Poll returns io.EOF
// when no more input will arrive.
type Pointer interface {
	Poll(ctx context.Context) (PointerState, error)
}

// ScriptedPointer replays a fixed sequence of pointer states, then
// reports io.EOF
type ScriptedPointer struct {
	states []PointerState
	next   int
}

// NewScriptedPointer returns a pointer replaying states in order
func NewScriptedPointer(states ...PointerState) *ScriptedPointer {
	return &ScriptedPointer{states: states}
}

// Poll returns the next scripted state
func (s *ScriptedPointer) Poll(ctx context.Context) (PointerState, error) {
	if err := ctx.Err(); err != nil {
		return PointerState{}, err
	}
	if s.next >= len(s.states) {
		return PointerState{}, io.EOF
	}
	state := s.states[s.next]
	s.next++
	return state, nil
}

// Designer carves the cell under a pressed pointer, frame after frame,
// until the pointer commits
type Designer struct {
	pointer Pointer
	logger  *log.Logger
}

// NewDesigner returns a Designer reading from p. A nil logger discards
// all output.
func NewDesigner(p Pointer, logger *log.Logger) *Designer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Designer{pointer: p, logger: logger}
}

// Apply applies a single frame of pointer input to b and returns
// whether the design is finished
func (d *Designer) Apply(b *Builder, s PointerState) (bool, error) {
	if s.Pressed {
		i, carved, err := b.CarveAt(r2.Vec{X: s.X, Y: s.Y})
		if err != nil {
			return false, fmt.Errorf("apply: %w", err)
		}
		if carved {
			d.logger.Debug("carved cell", "index", i)
		}
	}
	return s.Commit, nil
}

// Design polls the pointer until it commits or runs out of input
func (d *Designer) Design(ctx context.Context, b *Builder) error {
	frames := 0
	for {
		state, err := d.pointer.Poll(ctx)
		if errors.Is(err, io.EOF) {
			d.logger.Info("pointer closed, committing track", "frames", frames)
			return nil
		} else if err != nil {
			return fmt.Errorf("design: could not poll pointer: %w", err)
		}
		frames++

		done, err := d.Apply(b, state)
		if err != nil {
			return fmt.Errorf("design: %w", err)
		}
		if done {
			d.logger.Info("track committed", "frames", frames)
			return nil
		}
	}
}
