package carrace

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

var (
	// ErrNotInitialized is returned when stepping before Reset
	ErrNotInitialized = errors.New("track has not been reset")

	// ErrNoCar is returned when stepping a track without cars
	ErrNoCar = errors.New("track has no cars")
)

// Track owns a grid and the cars driving on it. A Track starts in its
// design phase; Reset runs the designer, freezes the grid, and puts the
// cars on it.
//
// Only the first car added is ever stepped. Further cars are kept so
// they can be drawn, but they do not move.
type Track struct {
	builder     *Builder
	grid        *Grid
	designer    DesignPhase
	cars        []*Car
	initialized bool
	logger      *log.Logger
}

// TrackOption configures a Track
type TrackOption func(*Track)

// WithLogger sets the logger of a Track
func WithLogger(l *log.Logger) TrackOption {
	return func(t *Track) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTrack returns a track of nx × ny interior cells of size bw × bh.
// The designer carves the track when Reset is first called; a nil
// designer leaves every cell a wall.
func NewTrack(nx, ny int, bw, bh float64, designer DesignPhase,
	opts ...TrackOption) (*Track, error) {
	b, err := NewBuilder(nx, ny, bw, bh)
	if err != nil {
		return nil, fmt.Errorf("newTrack: %w", err)
	}

	t := &Track{
		builder:  b,
		designer: designer,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// AddCar puts c on the track. Cars added after the track is frozen are
// placed on the grid immediately.
func (t *Track) AddCar(c *Car) {
	c.bind(t.grid)
	t.cars = append(t.cars, c)
}

// Cars returns the cars on the track, in the order they were added
func (t *Track) Cars() []*Car {
	cars := make([]*Car, len(t.cars))
	copy(cars, t.cars)
	return cars
}

// Car returns the car that Step drives
func (t *Track) Car() (*Car, error) {
	if len(t.cars) == 0 {
		return nil, ErrNoCar
	}
	return t.cars[0], nil
}

// Builder returns the track's builder, which is frozen after Reset
func (t *Track) Builder() *Builder {
	return t.builder
}

// Grid returns the frozen grid, or nil before Reset
func (t *Track) Grid() *Grid {
	return t.grid
}

// Initialized returns whether Reset has completed
func (t *Track) Initialized() bool {
	return t.initialized
}

// Reset runs the design phase to completion and freezes the grid. The
// design phase only runs once; later calls only make sure every car is
// on the frozen grid. Reset does not move the cars or clear their
// crashed flags, use Car.Reset for that.
func (t *Track) Reset(ctx context.Context) error {
	if !t.initialized {
		if t.designer != nil {
			t.logger.Info("designing track")
			if err := t.designer.Design(ctx, t.builder); err != nil {
				return fmt.Errorf("reset: could not design track: %w", err)
			}
		}

		t.grid = t.builder.Freeze()
		t.initialized = true
		t.logger.Info("track frozen", "grid", t.grid)
	}

	for _, c := range t.cars {
		if c.grid != t.grid {
			c.bind(t.grid)
		}
	}
	return nil
}

// Step steps the first car with action a and returns its outcome
// unchanged
func (t *Track) Step(a Action) (Outcome, error) {
	if !t.initialized {
		return Outcome{}, fmt.Errorf("step: %w", ErrNotInitialized)
	}
	c, err := t.Car()
	if err != nil {
		return Outcome{}, fmt.Errorf("step: %w", err)
	}
	return c.Step(a)
}
