// Package carrace implements a single car driving around a track carved
// out of a rectangular grid of wall cells. The car perceives the track
// through a fan of ray-marched distance sensors and is rewarded for
// reaching tiles it has not visited before.
package carrace

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Index identifies a cell in a grid. Interior cells have columns in
// [0, nx) and rows in [0, ny); the wall ring around them uses column
// -1 and nx, and row -1 and ny.
type Index struct {
	Col, Row int
}

func (i Index) String() string {
	return fmt.Sprintf("(%d, %d)", i.Col, i.Row)
}

// Cell is a single rectangle of the grid. Active cells are walls, and
// inactive cells are drivable tiles.
type Cell struct {
	Index
	Min    r2.Vec // top-left corner
	Width  float64
	Height float64
	Active bool
}

// Contains returns whether p lies in the cell. Cells are half-open,
// [x, x+w) × [y, y+h), so that no point lies in two cells.
func (c Cell) Contains(p r2.Vec) bool {
	return p.X >= c.Min.X && p.X < c.Min.X+c.Width &&
		p.Y >= c.Min.Y && p.Y < c.Min.Y+c.Height
}

// Center returns the center point of the cell
func (c Cell) Center() r2.Vec {
	return r2.Vec{X: c.Min.X + c.Width/2, Y: c.Min.Y + c.Height/2}
}

// geometry holds the dimensions shared by Builder and Grid
type geometry struct {
	nx, ny int
	bw, bh float64
}

func newGeometry(nx, ny int, bw, bh float64) (geometry, error) {
	if nx < 1 || ny < 1 {
		return geometry{}, fmt.Errorf("newGeometry: grid must have at least "+
			"one interior cell, have %d × %d", nx, ny)
	}
	if !(bw > 0) || !(bh > 0) || math.IsInf(bw, 0) || math.IsInf(bh, 0) {
		return geometry{}, fmt.Errorf("newGeometry: block size must be "+
			"positive and finite, have %v × %v", bw, bh)
	}
	return geometry{nx, ny, bw, bh}, nil
}

// size returns the number of cells including the wall ring
func (g geometry) size() int {
	return (g.nx + 2) * (g.ny + 2)
}

func (g geometry) inRange(i Index) bool {
	return i.Col >= -1 && i.Col <= g.nx && i.Row >= -1 && i.Row <= g.ny
}

func (g geometry) isBorder(i Index) bool {
	return i.Col == -1 || i.Col == g.nx || i.Row == -1 || i.Row == g.ny
}

// offset returns the row-major position of a cell in the backing slice
func (g geometry) offset(i Index) int {
	return (i.Row+1)*(g.nx+2) + i.Col + 1
}

func (g geometry) indexOf(offset int) Index {
	return Index{Col: offset%(g.nx+2) - 1, Row: offset/(g.nx+2) - 1}
}

// locate returns the index of the cell containing p, or false if p is
// outside the padded grid
func (g geometry) locate(p r2.Vec) (Index, bool) {
	col := math.Floor(p.X / g.bw)
	row := math.Floor(p.Y / g.bh)

	// NaN fails every comparison, so it is rejected here as well
	if !(col >= -1 && col <= float64(g.nx) && row >= -1 &&
		row <= float64(g.ny)) {
		return Index{}, false
	}
	return Index{Col: int(col), Row: int(row)}, true
}

func (g geometry) cell(i Index, active bool) Cell {
	return Cell{
		Index:  i,
		Min:    r2.Vec{X: float64(i.Col) * g.bw, Y: float64(i.Row) * g.bh},
		Width:  g.bw,
		Height: g.bh,
		Active: active,
	}
}

// Grid is a frozen track. Its cells can no longer change, so a Grid is
// safe to share between readers. Grids are produced by Builder.Freeze.
type Grid struct {
	geometry
	active []bool
}

// Dims returns the number of interior columns and rows
func (g *Grid) Dims() (nx, ny int) {
	return g.nx, g.ny
}

// BlockSize returns the width and height of each cell
func (g *Grid) BlockSize() (w, h float64) {
	return g.bw, g.bh
}

// Bounds returns the rectangle covered by the grid, wall ring included
func (g *Grid) Bounds() (min, max r2.Vec) {
	min = r2.Vec{X: -g.bw, Y: -g.bh}
	max = r2.Vec{X: float64(g.nx+1) * g.bw, Y: float64(g.ny+1) * g.bh}
	return min, max
}

// Active returns whether the cell at i is a wall. Indices outside the
// grid are reported as walls.
func (g *Grid) Active(i Index) bool {
	if !g.inRange(i) {
		return true
	}
	return g.active[g.offset(i)]
}

// Cell returns the cell at index i
func (g *Grid) Cell(i Index) (Cell, bool) {
	if !g.inRange(i) {
		return Cell{}, false
	}
	return g.cell(i, g.active[g.offset(i)]), true
}

// Cells returns every cell of the grid in row-major order, starting at
// index (-1, -1)
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, len(g.active))
	for off, active := range g.active {
		cells[off] = g.cell(g.indexOf(off), active)
	}
	return cells
}

// ActiveCells returns every wall cell in row-major order
func (g *Grid) ActiveCells() []Cell {
	var cells []Cell
	for off, active := range g.active {
		if active {
			cells = append(cells, g.cell(g.indexOf(off), true))
		}
	}
	return cells
}

// Tiles returns the number of drivable cells
func (g *Grid) Tiles() int {
	n := 0
	for _, active := range g.active {
		if !active {
			n++
		}
	}
	return n
}

// CollidingCell returns the index of the active cell containing p. If
// p lies in a drivable cell or outside the grid, CollidingCell returns
// false.
func (g *Grid) CollidingCell(p r2.Vec) (Index, bool) {
	i, ok := g.locate(p)
	if !ok || !g.active[g.offset(i)] {
		return Index{}, false
	}
	return i, true
}

// TileAt returns the index of the cell containing p, whether the cell
// is a wall or not. Points outside the padded grid have no tile.
func (g *Grid) TileAt(p r2.Vec) (Index, bool) {
	return g.locate(p)
}

// Blocked returns whether p lies in a wall or outside the grid
// altogether. Nothing can drive or see through a blocked point.
func (g *Grid) Blocked(p r2.Vec) bool {
	i, ok := g.locate(p)
	return !ok || g.active[g.offset(i)]
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid | Blocks: %d × %d  |  Block Size: %v × %v  |  "+
		"Tiles: %d", g.nx, g.ny, g.bw, g.bh, g.Tiles())
}
