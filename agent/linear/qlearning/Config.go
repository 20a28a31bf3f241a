package qlearning

import (
	"fmt"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/schedule"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
)

// Config represents a configuration for the QLearning agent
type Config struct {
	Epsilon      float64 // epislon for behaviour policy
	LearningRate schedule.Schedule
}

// CreateAgent creates the agent from the Config. Agent weights are
// always initialized to zero.
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epislon must be in [0, 1], have %v", c.Epsilon)
	}
	if c.LearningRate == nil {
		return fmt.Errorf("no learning rate schedule")
	}
	return nil
}
