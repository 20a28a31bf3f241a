// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes should be ended in an environment
type Ender interface {
	// End determines whether the argument timestep is the last in an
	// episode. If so, End() should set the StepType of the TimeStep to
	// timestep.Last and record the reason with SetEnd.
	End(*ts.TimeStep) bool
}

// Task implements the starting and ending conditions of an environment
// as well as the range of rewards an agent may see
type Task interface {
	Starter
	Ender

	// Min returns the minimum reward possible in a single step
	Min() float64

	// Max returns the maximum reward possible in a single step
	Max() float64
}

// Environment implements a simualted environment, which includes a
// Task to complete
type Environment interface {
	Task

	// Reset resets the environment between episodes and returns the
	// first TimeStep of the next episode
	Reset() (ts.TimeStep, error)

	// Step takes a single environmental step. The returned bool
	// indicates whether the episode ended on this step.
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)

	// CurrentTimeStep returns the last TimeStep produced
	CurrentTimeStep() ts.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
