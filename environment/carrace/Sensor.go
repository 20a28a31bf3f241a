package carrace

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// marchStep is the distance a ray advances per iteration
const marchStep = 1.0

// direction returns the unit vector at angle degrees. Angles grow
// counter-clockwise on screen, where y points down.
func direction(degrees float64) r2.Vec {
	rad := -degrees * math.Pi / 180
	return r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Sensor is a ray fixed at an angular offset from the car's heading
type Sensor struct {
	Offset   float64 // degrees from the heading
	End      r2.Vec  // where the ray stopped on the last reading
	Distance float64 // length of the ray on the last reading
}

// newSensors returns n+1 sensors fanned evenly over 180°. With n == 0
// a single sensor looks along the heading.
func newSensors(n int) []Sensor {
	if n == 0 {
		return []Sensor{{}}
	}

	sensors := make([]Sensor, n+1)
	for i := range sensors {
		sensors[i].Offset = float64(i) * 180 / float64(n)
	}
	return sensors
}

// read marches the ray from origin in unit steps until it reaches a
// blocked point or maxDistance, and returns the distance travelled.
// A ray starting inside a wall reads 0.
func (s *Sensor) read(g *Grid, origin r2.Vec, heading,
	maxDistance float64) float64 {
	step := r2.Scale(marchStep, direction(heading+s.Offset))

	p := origin
	for marched := 0.0; !g.Blocked(p) && marched < maxDistance; marched += marchStep {
		p = r2.Add(p, step)
	}

	s.End = p
	s.Distance = math.Min(r2.Norm(r2.Sub(p, origin)), maxDistance)
	return s.Distance
}
