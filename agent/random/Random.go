// Package random implements an agent that acts uniformly at random and
// never learns
package random

import (
	"fmt"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random selects discrete actions uniformly at random
type Random struct {
	dist distuv.Categorical
	eval bool
}

// New returns a new Random agent for the environment's discrete action
// set. Actions are the integers in [lower, upper] of the action spec.
func New(env environment.Environment, seed uint64) (*Random, error) {
	spec := env.ActionSpec()
	if spec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: random agent requires discrete actions")
	}
	if spec.Shape.Len() != 1 {
		return nil, fmt.Errorf("new: random agent requires 1-dimensional "+
			"actions, have %d", spec.Shape.Len())
	}

	actions := int(spec.UpperBound.AtVec(0)) + 1
	weights := make([]float64, actions)
	for i := range weights {
		weights[i] = 1
	}

	return &Random{
		dist: distuv.NewCategorical(weights, rand.NewSource(seed)),
	}, nil
}

// SelectAction returns a uniformly random action
func (r *Random) SelectAction(timestep.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{r.dist.Rand()})
}

// Eval sets the agent to evaluation mode
func (r *Random) Eval() { r.eval = true }

// Train sets the agent to training mode
func (r *Random) Train() { r.eval = false }

// IsEval returns whether the agent is in evaluation mode
func (r *Random) IsEval() bool { return r.eval }

// Step is a no-op
func (r *Random) Step() error { return nil }

// Observe is a no-op
func (r *Random) Observe(mat.Vector, timestep.TimeStep) error { return nil }

// ObserveFirst is a no-op
func (r *Random) ObserveFirst(timestep.TimeStep) error { return nil }

// EndEpisode is a no-op
func (r *Random) EndEpisode() {}
