// Package policy implements policies using linear function
// approximation
package policy

import (
	"fmt"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/utils/floatutils"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/utils/matutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	WeightsKey string = "weights"
)

// EGreedy implements an ε-greedy policy using linear function
// approximation.
//
// Observations are divided by the observation spec's upper bound and a
// bias unit is appended before taking the dot product with the weights,
// so the weight matrix has one row per action and one column per
// observation feature plus one. Ties between greedy actions are broken
// uniformly at random.
type EGreedy struct {
	weights *mat.Dense
	scale   *mat.VecDense
	epsilon float64
	seed    rand.Source // Seed for random number generation
	eval    bool
}

// NewEGreedy constructs a new EGreedy policy, where e=epislon is the
// probability with which a random action is selected. The environment
// must have 1-dimensional discrete actions.
func NewEGreedy(e float64, seed uint64,
	env environment.Environment) (*EGreedy, error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon must be in [0, 1], "+
			"have %v", e)
	}

	// Ensure actions are 1-dimensional
	if env.ActionSpec().Shape.Len() != 1 {
		return nil, fmt.Errorf("newEGreedy: actions must be 1-dimensional")
	}

	// Ensure actions are discrete
	if env.ActionSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newEGreedy: actions must be discrete")
	}

	// Calculate the number of actions
	actions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1

	// Observation features plus bias
	obsSpec := env.ObservationSpec()
	features := obsSpec.Shape.Len() + 1

	scale := mat.VecDenseCopyOf(obsSpec.UpperBound)

	// Create the weight matrix: rows = actions, cols = features
	weights := mat.NewDense(actions, features, nil)

	return &EGreedy{
		weights: weights,
		scale:   scale,
		epsilon: e,
		seed:    rand.NewSource(seed),
	}, nil
}

// Weights gets and returns the weights of the EGreedy policy as a
// string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SetWeights sets the weight pointers to point to a new set of weights.
// The SetWeights function can take the output of a call to Weights()
// on another EGreedy Policy directly
func (p *EGreedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named %q", WeightsKey)
	}

	r, c := p.weights.Dims()
	if nr, nc := newWeights.Dims(); nr != r || nc != c {
		return fmt.Errorf("setWeights: expected %dx%d weights, have %dx%d",
			r, c, nr, nc)
	}

	p.weights = newWeights
	return nil
}

// Epsilon returns the probability of selecting a random action
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// Features returns the feature vector of an observation
func (p *EGreedy) Features(obs mat.Vector) *mat.VecDense {
	return matutils.ScaleBias(obs, p.scale)
}

// ActionValues returns the value of every action for an observation
func (p *EGreedy) ActionValues(obs mat.Vector) *mat.VecDense {
	numActions, _ := p.weights.Dims()
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, p.Features(obs))
	return actionValues
}

// SelectAction selects an action from an ε-greedy policy. In
// evaluation mode the policy is greedy.
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	actionValues := p.ActionValues(t.Observation)
	numActions := actionValues.Len()

	epsilon := p.epsilon
	if p.eval {
		epsilon = 0
	}

	// Find the greedy actions
	_, greedy := floatutils.ArgMax(actionValues.RawVector().Data)

	// Calculate the ε probability of choosing any action at random
	prob := epsilon / float64(numActions)
	actionProbabilites := make([]float64, numActions)
	for i := range actionProbabilites {
		actionProbabilites[i] = prob
	}

	// Split the remaining probability over the greedy actions
	for _, a := range greedy {
		actionProbabilites[a] += (1.0 - epsilon) / float64(len(greedy))
	}

	// Construct a categorical distribution over actions using action
	// probabilities
	dist := distuv.NewCategorical(actionProbabilites, p.seed)

	// Sample an action given the action probabilites and return
	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Eval sets the policy to evaluation mode
func (p *EGreedy) Eval() { p.eval = true }

// Train sets the policy to training mode
func (p *EGreedy) Train() { p.eval = false }

// IsEval returns whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool { return p.eval }
