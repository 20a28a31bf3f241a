// Package schedule implements step-size schedules for learners
package schedule

import (
	"fmt"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/utils/floatutils"
)

// Schedule returns the value of a hyperparameter at a given update
type Schedule interface {
	At(step int) float64
	fmt.Stringer
}

// Constant is a Schedule that never changes
type Constant float64

// At returns the constant value
func (c Constant) At(int) float64 {
	return float64(c)
}

func (c Constant) String() string {
	return fmt.Sprintf("Constant(%v)", float64(c))
}

// Linear interpolates from Start to End over Steps updates and holds
// End afterwards
type Linear struct {
	Start float64
	End   float64
	Steps int
}

// NewLinear returns a new Linear schedule
func NewLinear(start, end float64, steps int) (*Linear, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("newLinear: steps must be positive, have %d",
			steps)
	}
	return &Linear{Start: start, End: end, Steps: steps}, nil
}

// At returns the interpolated value at the given step
func (l *Linear) At(step int) float64 {
	frac := floatutils.Clip(float64(step)/float64(l.Steps), 0, 1)
	return l.Start + frac*(l.End-l.Start)
}

func (l *Linear) String() string {
	return fmt.Sprintf("Linear(%v -> %v over %d)", l.Start, l.End, l.Steps)
}
