package carrace

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Colours used when drawing a track
var (
	BackgroundColour = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	WallColour       = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	WallEdgeColour   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	CarColour        = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	CrashedColour    = color.RGBA{R: 255, G: 128, B: 0, A: 255}
	SensorColour     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// sensorRadius is the radius of the dot drawn at each sensor's end
const sensorRadius = 5

// Render draws the track: every wall cell, every car, and the end point
// of each car's sensors. The image covers the whole grid including the
// wall ring, magnified by scale. Tracks that have not been frozen yet
// are drawn as currently designed.
func Render(t *Track, scale float64) image.Image {
	if scale <= 0 {
		scale = 1
	}

	g := t.Grid()
	if g == nil {
		g = t.Builder().Snapshot()
	}
	min, max := g.Bounds()

	width := int((max.X - min.X) * scale)
	height := int((max.Y - min.Y) * scale)
	dc := gg.NewContext(width, height)

	dc.SetColor(BackgroundColour)
	dc.Clear()

	// Draw in track coordinates
	dc.Scale(scale, scale)
	dc.Translate(-min.X, -min.Y)

	dc.SetLineWidth(1)
	for _, cell := range g.ActiveCells() {
		dc.DrawRectangle(cell.Min.X, cell.Min.Y, cell.Width, cell.Height)
		dc.SetColor(WallColour)
		dc.FillPreserve()
		dc.SetColor(WallEdgeColour)
		dc.Stroke()
	}

	for _, c := range t.Cars() {
		drawCar(dc, c)
	}
	return dc.Image()
}

// drawCar draws a car as a square with a line from its center to its
// tip, and a dot at the end of every sensor
func drawCar(dc *gg.Context, c *Car) {
	center := c.Center()
	size := c.cfg.Size

	colour := CarColour
	if c.Crashed() {
		colour = CrashedColour
	}

	dc.Push()
	dc.Translate(center.X, center.Y)
	dc.Rotate(gg.Radians(-c.Heading()))
	dc.DrawRectangle(-size/2, -size/2, size, size)
	dc.SetColor(colour)
	dc.Fill()
	dc.Pop()

	tip := c.Tip()
	dc.SetColor(BackgroundColour)
	dc.DrawLine(center.X, center.Y, tip.X, tip.Y)
	dc.Stroke()

	if c.Grid() == nil {
		return
	}
	dc.SetColor(SensorColour)
	for _, s := range c.Sensors() {
		dc.DrawCircle(s.End.X, s.End.Y, sensorRadius)
		dc.Fill()
	}
}

// SavePNG renders the track and writes it to a PNG file at path
func SavePNG(t *Track, path string, scale float64) error {
	if err := gg.SavePNG(path, Render(t, scale)); err != nil {
		return fmt.Errorf("savePNG: could not save %v: %w", path, err)
	}
	return nil
}
