package carrace

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// newScenarioBuilder returns a 3 × 3 builder with 10 × 10 blocks whose
// only tile is the center cell
func newScenarioBuilder(t *testing.T) *Builder {
	t.Helper()

	b, err := NewBuilder(3, 3, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Carve(Index{1, 1}); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNewBuilderRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		nx, ny int
		bw, bh float64
	}{
		{0, 3, 10, 10},
		{3, -1, 10, 10},
		{3, 3, 0, 10},
		{3, 3, 10, -2},
	}

	for _, test := range tests {
		if _, err := NewBuilder(test.nx, test.ny, test.bw, test.bh); err == nil {
			t.Errorf("NewBuilder(%d, %d, %v, %v): expected an error",
				test.nx, test.ny, test.bw, test.bh)
		}
	}
}

func TestTilingCompleteness(t *testing.T) {
	g := newScenarioBuilder(t).Freeze()
	min, max := g.Bounds()

	for x := min.X; x < max.X; x += 0.5 {
		for y := min.Y; y < max.Y; y += 0.5 {
			p := r2.Vec{X: x, Y: y}
			i, ok := g.TileAt(p)
			if !ok {
				t.Fatalf("TileAt(%v): no tile inside the grid", p)
			}

			cell, _ := g.Cell(i)
			if !cell.Contains(p) {
				t.Errorf("TileAt(%v) = %v, which does not contain the point",
					p, i)
			}

			// Exactly one cell contains each point
			n := 0
			for _, c := range g.Cells() {
				if c.Contains(p) {
					n++
				}
			}
			if n != 1 {
				t.Fatalf("point %v lies in %d cells", p, n)
			}
		}
	}
}

func TestTileAtOutOfBounds(t *testing.T) {
	g := newScenarioBuilder(t).Freeze()

	for _, p := range []r2.Vec{{X: -10.5, Y: 0}, {X: 0, Y: 40}, {X: 1e300, Y: 1}} {
		if i, ok := g.TileAt(p); ok {
			t.Errorf("TileAt(%v) = %v outside the grid", p, i)
		}
		if !g.Blocked(p) {
			t.Errorf("Blocked(%v) = false outside the grid", p)
		}
	}
}

func TestCollisionExclusivity(t *testing.T) {
	g := newScenarioBuilder(t).Freeze()
	min, max := g.Bounds()

	for x := min.X; x < max.X; x += 0.5 {
		for y := min.Y; y < max.Y; y += 0.5 {
			p := r2.Vec{X: x, Y: y}

			inActive := false
			for _, c := range g.ActiveCells() {
				if c.Contains(p) {
					inActive = true
				}
			}

			i, ok := g.CollidingCell(p)
			if ok != inActive {
				t.Fatalf("CollidingCell(%v) = %v, %v; active cell "+
					"contains point: %v", p, i, ok, inActive)
			}
			if ok && !g.Active(i) {
				t.Errorf("CollidingCell(%v) returned tile %v", p, i)
			}
		}
	}
}

func TestHalfOpenCells(t *testing.T) {
	g := newScenarioBuilder(t).Freeze()

	tests := []struct {
		p    r2.Vec
		want Index
	}{
		{r2.Vec{X: 10, Y: 10}, Index{1, 1}},
		{r2.Vec{X: 19.999, Y: 19.999}, Index{1, 1}},
		{r2.Vec{X: 20, Y: 15}, Index{2, 1}},
		{r2.Vec{X: -0.001, Y: 15}, Index{-1, 1}},
		{r2.Vec{X: 39.9, Y: 39.9}, Index{3, 3}},
	}

	for _, test := range tests {
		if have, _ := g.TileAt(test.p); have != test.want {
			t.Errorf("TileAt(%v): want %v, have %v", test.p, test.want, have)
		}
	}
}

func TestBuilderSetActive(t *testing.T) {
	b, err := NewBuilder(3, 2, 5, 5)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.SetActive(Index{-1, 0}, false); !errors.Is(err, ErrBorderCell) {
		t.Errorf("border cell: want ErrBorderCell, have %v", err)
	}
	if err := b.SetActive(Index{0, 2}, false); !errors.Is(err, ErrBorderCell) {
		t.Errorf("border row: want ErrBorderCell, have %v", err)
	}
	if err := b.SetActive(Index{7, 0}, false); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("out of range: want ErrOutOfRange, have %v", err)
	}

	if err := b.Carve(Index{2, 1}); err != nil {
		t.Fatal(err)
	}
	if b.Active(Index{2, 1}) {
		t.Error("carved cell is still active")
	}
	if err := b.SetActive(Index{2, 1}, true); err != nil {
		t.Fatal(err)
	}
	if !b.Active(Index{2, 1}) {
		t.Error("cell was not reactivated")
	}
}

func TestFreeze(t *testing.T) {
	b := newScenarioBuilder(t)
	snapshot := b.Snapshot()
	g := b.Freeze()

	if !b.Frozen() {
		t.Error("builder does not report being frozen")
	}
	if b.Freeze() != g {
		t.Error("second Freeze returned a different grid")
	}
	if err := b.Carve(Index{0, 0}); !errors.Is(err, ErrFrozen) {
		t.Errorf("carve after freeze: want ErrFrozen, have %v", err)
	}
	if _, _, err := b.CarveAt(r2.Vec{X: 5, Y: 5}); !errors.Is(err, ErrFrozen) {
		t.Errorf("carveAt after freeze: want ErrFrozen, have %v", err)
	}

	if g.Tiles() != 1 || snapshot.Tiles() != 1 {
		t.Errorf("tiles: want 1, have %d (snapshot %d)", g.Tiles(),
			snapshot.Tiles())
	}
	if want := 5*5 - 1; len(g.ActiveCells()) != want {
		t.Errorf("active cells: want %d, have %d", want,
			len(g.ActiveCells()))
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	b := newScenarioBuilder(t)
	snapshot := b.Snapshot()

	if err := b.Carve(Index{0, 0}); err != nil {
		t.Fatal(err)
	}
	if !snapshot.Active(Index{0, 0}) {
		t.Error("snapshot changed along with the builder")
	}
}

func TestCarveAt(t *testing.T) {
	b, err := NewBuilder(3, 3, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	i, carved, err := b.CarveAt(r2.Vec{X: 25, Y: 5})
	if err != nil || !carved || i != (Index{2, 0}) {
		t.Errorf("CarveAt interior: have %v, %v, %v", i, carved, err)
	}

	// Carving a tile again changes nothing
	if _, carved, _ := b.CarveAt(r2.Vec{X: 21, Y: 1}); carved {
		t.Error("CarveAt carved a tile twice")
	}

	// The wall ring can never be carved
	if _, carved, err := b.CarveAt(r2.Vec{X: -5, Y: 5}); carved || err != nil {
		t.Errorf("CarveAt border: have %v, %v", carved, err)
	}
	if _, carved, err := b.CarveAt(r2.Vec{X: 500, Y: 5}); carved || err != nil {
		t.Errorf("CarveAt outside: have %v, %v", carved, err)
	}
}
