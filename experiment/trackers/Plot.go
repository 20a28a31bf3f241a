package trackers

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Curve is a named learning curve, one value per episode
type Curve struct {
	Name   string
	Values []float64
}

// PlotCurves draws each curve as a line against the episode number and
// saves the figure to filename. The image format is taken from the
// filename's extension.
func PlotCurves(filename, title, yLabel string, curves ...Curve) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = yLabel

	for i, c := range curves {
		if len(c.Values) == 0 {
			continue
		}

		points := make(plotter.XYs, len(c.Values))
		for j, v := range c.Values {
			points[j] = plotter.XY{
				X: float64(j),
				Y: v,
			}
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("plotCurves: could not plot %q: %w", c.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(c.Name, line)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, filename); err != nil {
		return fmt.Errorf("plotCurves: could not save plot: %w", err)
	}
	return nil
}
