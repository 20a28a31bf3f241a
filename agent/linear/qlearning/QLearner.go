package qlearning

import (
	"fmt"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/linear/policy"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/schedule"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"gonum.org/v1/gonum/mat"
)

// QLearner implements the update functionality for the Q-Learning
// algorithm.
type QLearner struct {
	behaviour    *policy.EGreedy
	step         timestep.TimeStep
	action       int
	nextStep     timestep.TimeStep
	learningRate schedule.Schedule
	updates      int
}

// NewQLearner creates a new QLearner struct which updates the weights
// of the behaviour policy
func NewQLearner(behaviour *policy.EGreedy,
	learningRate schedule.Schedule) *QLearner {
	return &QLearner{
		behaviour:    behaviour,
		action:       -1,
		learningRate: learningRate,
	}
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep %d is not the first "+
			"in an episode", t.Number)
	}
	q.step = timestep.TimeStep{}
	q.action = -1
	q.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first timestep
func (q *QLearner) Observe(action mat.Vector, nextStep timestep.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods cannot have "+
			"multi-dimensional actions (action dim = %d)", action.Len())
	}
	if q.nextStep.Observation == nil {
		return fmt.Errorf("observe: ObserveFirst was not called")
	}

	q.step = q.nextStep
	q.action = int(action.AtVec(0))
	q.nextStep = nextStep
	return nil
}

// Step updates the weights of the Agent's Learner and Policy
func (q *QLearner) Step() error {
	if q.action < 0 || q.step.Observation == nil {
		return fmt.Errorf("step: no transition has been observed")
	}

	weights := q.behaviour.Weights()[policy.WeightsKey]
	numActions, _ := weights.Dims()
	if q.action >= numActions {
		return fmt.Errorf("step: action %d out of range [0, %d)", q.action,
			numActions)
	}

	// Create the update target. Crashing ends the episode for good, so
	// nothing is bootstrapped from a terminal state; an episode cut off
	// by the step limit still bootstraps.
	target := q.nextStep.Reward
	if q.nextStep.EndType() != timestep.TerminalStateReached {
		actionValues := q.behaviour.ActionValues(q.nextStep.Observation)
		target += q.nextStep.Discount * mat.Max(actionValues)
	}

	// Find the current estimate of the taken action
	state := q.behaviour.Features(q.step.Observation)
	row := weights.RowView(q.action)
	currentEstimate := mat.Dot(row, state)

	// Construct the scaling factor of the gradient
	scale := q.learningRate.At(q.updates) * (target - currentEstimate)
	q.updates++

	// Perform gradient descent: ∇weights = scale * state
	newWeights := mat.NewVecDense(row.Len(), nil)
	newWeights.AddScaledVec(row, scale, state)
	weights.SetRow(q.action, newWeights.RawVector().Data)

	return nil
}

// EndEpisode performs cleanup at the end of an episode
func (q *QLearner) EndEpisode() {
	q.action = -1
}

// Updates returns the number of updates performed so far
func (q *QLearner) Updates() int {
	return q.updates
}
