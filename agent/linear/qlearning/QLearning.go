// Package qlearning implements the Q-Learning algorithm with linear
// function approximation
package qlearning

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/linear/policy"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"gonum.org/v1/gonum/mat"
)

// QLearning implements the Q-Learning algorithm. Actions are selected
// ε-greedily while training and greedily in evaluation mode.
type QLearning struct {
	*QLearner
	behaviour *policy.EGreedy
	target    *policy.EGreedy
	seed      uint64
}

// New creates a new QLearning agent for the environment
func New(env environment.Environment, c Config,
	seed uint64) (*QLearning, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	behaviour, err := policy.NewEGreedy(c.Epsilon, seed, env)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	target, err := policy.NewGreedy(seed, env)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	// Both policies share the same weights
	if err := target.SetWeights(behaviour.Weights()); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	learner := NewQLearner(behaviour, c.LearningRate)

	return &QLearning{learner, behaviour, target, seed}, nil
}

// SelectAction selects an action from the behaviour policy, or from the
// greedy target policy in evaluation mode
func (q *QLearning) SelectAction(t timestep.TimeStep) *mat.VecDense {
	if q.behaviour.IsEval() {
		return q.target.SelectAction(t)
	}
	return q.behaviour.SelectAction(t)
}

// Eval sets the agent to evaluation mode
func (q *QLearning) Eval() {
	q.behaviour.Eval()
	q.target.Eval()
}

// Train sets the agent to training mode
func (q *QLearning) Train() {
	q.behaviour.Train()
	q.target.Train()
}

// IsEval returns whether the agent is in evaluation mode
func (q *QLearning) IsEval() bool {
	return q.behaviour.IsEval()
}

// Weights returns the learned weights
func (q *QLearning) Weights() *mat.Dense {
	return q.behaviour.Weights()[policy.WeightsKey]
}

// Save gob encodes the weights of the agent to filename
func (q *QLearning) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	enc := gob.NewEncoder(file)
	if err := enc.Encode(q.Weights()); err != nil {
		return fmt.Errorf("save: could not encode weights: %w", err)
	}
	return nil
}

// Load replaces the weights of the agent with those saved to filename
// by Save
func (q *QLearning) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load: could not open weights file: %w", err)
	}
	defer file.Close()

	weights := &mat.Dense{}
	if err := gob.NewDecoder(file).Decode(weights); err != nil {
		return fmt.Errorf("load: could not decode weights: %w", err)
	}

	m := map[string]*mat.Dense{policy.WeightsKey: weights}
	if err := q.behaviour.SetWeights(m); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := q.target.SetWeights(m); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

func (q *QLearning) String() string {
	return fmt.Sprintf("QLearning | ε: %v  |  Learning Rate: %v  |  "+
		"Updates: %d", q.behaviour.Epsilon(), q.learningRate, q.updates)
}
