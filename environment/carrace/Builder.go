package carrace

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrFrozen is returned when a builder is changed after Freeze
	ErrFrozen = errors.New("track is frozen")

	// ErrBorderCell is returned when trying to change the wall ring
	ErrBorderCell = errors.New("border cells are always walls")

	// ErrOutOfRange is returned for indices outside the grid
	ErrOutOfRange = errors.New("cell index out of range")
)

// Builder is a grid in its design phase. Every cell starts as a wall;
// the designer carves drivable tiles out of the interior and then calls
// Freeze to obtain the immutable Grid used for driving.
type Builder struct {
	geometry
	active []bool
	frozen *Grid
}

// NewBuilder returns a builder for a track of nx × ny interior cells,
// each bw wide and bh high, surrounded by a ring of wall cells
func NewBuilder(nx, ny int, bw, bh float64) (*Builder, error) {
	g, err := newGeometry(nx, ny, bw, bh)
	if err != nil {
		return nil, fmt.Errorf("newBuilder: %w", err)
	}

	active := make([]bool, g.size())
	for i := range active {
		active[i] = true
	}
	return &Builder{geometry: g, active: active}, nil
}

// Dims returns the number of interior columns and rows
func (b *Builder) Dims() (nx, ny int) {
	return b.nx, b.ny
}

// BlockSize returns the width and height of each cell
func (b *Builder) BlockSize() (w, h float64) {
	return b.bw, b.bh
}

// Frozen returns whether Freeze has been called
func (b *Builder) Frozen() bool {
	return b.frozen != nil
}

// Active returns whether the cell at i is currently a wall
func (b *Builder) Active(i Index) bool {
	if !b.inRange(i) {
		return true
	}
	return b.active[b.offset(i)]
}

// SetActive sets whether the interior cell at i is a wall
func (b *Builder) SetActive(i Index, active bool) error {
	if b.Frozen() {
		return fmt.Errorf("setActive %v: %w", i, ErrFrozen)
	}
	if !b.inRange(i) {
		return fmt.Errorf("setActive %v: %w", i, ErrOutOfRange)
	}
	if b.isBorder(i) {
		return fmt.Errorf("setActive %v: %w", i, ErrBorderCell)
	}

	b.active[b.offset(i)] = active
	return nil
}

// Carve turns the interior cell at i into a drivable tile
func (b *Builder) Carve(i Index) error {
	return b.SetActive(i, false)
}

// CarveAt carves the cell under p if it is an interior wall and returns
// whether anything changed. Points on the wall ring, on tiles, or
// outside the grid are ignored.
func (b *Builder) CarveAt(p r2.Vec) (Index, bool, error) {
	if b.Frozen() {
		return Index{}, false, fmt.Errorf("carveAt %v: %w", p, ErrFrozen)
	}

	i, ok := b.locate(p)
	if !ok || b.isBorder(i) || !b.active[b.offset(i)] {
		return i, false, nil
	}
	b.active[b.offset(i)] = false
	return i, true, nil
}

// Snapshot returns a Grid holding a copy of the cells as they are now.
// The builder stays mutable; this is used to draw the track while it
// is being designed.
func (b *Builder) Snapshot() *Grid {
	active := make([]bool, len(b.active))
	copy(active, b.active)
	return &Grid{geometry: b.geometry, active: active}
}

// Freeze ends the design phase and returns the finished Grid. Later
// calls return the same Grid.
func (b *Builder) Freeze() *Grid {
	if b.frozen == nil {
		b.frozen = b.Snapshot()
	}
	return b.frozen
}
