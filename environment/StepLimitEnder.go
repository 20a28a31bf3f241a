package environment

import ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit. A limit of zero
// or less never ends an episode.
func NewStepLimit(episodeSteps int) *StepLimit {
	return &StepLimit{episodeSteps}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is TimestepLimitReached.
func (s *StepLimit) End(t *ts.TimeStep) bool {
	if s.episodeSteps > 0 && t.Number >= s.episodeSteps {
		t.StepType = ts.Last
		t.SetEnd(ts.TimestepLimitReached)
		return true
	}
	return false
}

// Limit returns the number of steps after which episodes are cut off
func (s *StepLimit) Limit() int {
	return s.episodeSteps
}
