// Package display shows car race tracks in a window. It provides an
// interactive track designer, where the operator carves tiles with the
// mouse and commits with Escape, and a viewer that shows a policy
// driving the car live.
package display

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
	"gonum.org/v1/gonum/spatial/r2"
)

const sensorRadius = 5

// view maps track coordinates to screen pixels
type view struct {
	min   r2.Vec
	scale float64
}

func newView(g *carrace.Grid, scale float64) view {
	if scale <= 0 {
		scale = 1
	}
	min, _ := g.Bounds()
	return view{min: min, scale: scale}
}

// size returns the window size needed to show all of g
func (v view) size(g *carrace.Grid) (int, int) {
	min, max := g.Bounds()
	return int((max.X - min.X) * v.scale), int((max.Y - min.Y) * v.scale)
}

func (v view) toScreen(p r2.Vec) (float32, float32) {
	return float32((p.X - v.min.X) * v.scale), float32((p.Y - v.min.Y) * v.scale)
}

func (v view) toTrack(x, y int) r2.Vec {
	return r2.Vec{
		X: float64(x)/v.scale + v.min.X,
		Y: float64(y)/v.scale + v.min.Y,
	}
}

func (v view) drawGrid(screen *ebiten.Image, g *carrace.Grid) {
	screen.Fill(carrace.BackgroundColour)

	for _, c := range g.ActiveCells() {
		x, y := v.toScreen(c.Min)
		w, h := float32(c.Width*v.scale), float32(c.Height*v.scale)
		vector.DrawFilledRect(screen, x, y, w, h, carrace.WallColour, false)
		vector.StrokeRect(screen, x, y, w, h, 1, carrace.WallEdgeColour, false)
	}
}

func (v view) drawCar(screen *ebiten.Image, c *carrace.Car) {
	colour := carrace.CarColour
	if c.Crashed() {
		colour = carrace.CrashedColour
	}

	// Outline the rotated box
	center := c.Center()
	half := c.Config().Size / 2
	corners := []r2.Vec{
		{X: center.X - half, Y: center.Y - half},
		{X: center.X + half, Y: center.Y - half},
		{X: center.X + half, Y: center.Y + half},
		{X: center.X - half, Y: center.Y + half},
	}
	rot := r2.NewRotation(-c.Heading()*math.Pi/180, center)
	for i := range corners {
		x0, y0 := v.toScreen(rot.Rotate(corners[i]))
		x1, y1 := v.toScreen(rot.Rotate(corners[(i+1)%len(corners)]))
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, colour, true)
	}

	cx, cy := v.toScreen(center)
	tx, ty := v.toScreen(c.Tip())
	vector.StrokeLine(screen, cx, cy, tx, ty, 2, colour, true)

	if c.Grid() == nil {
		return
	}
	for _, s := range c.Sensors() {
		sx, sy := v.toScreen(s.End)
		vector.DrawFilledCircle(screen, sx, sy, float32(sensorRadius*v.scale),
			carrace.SensorColour, true)
	}
}
