package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent"
	env "github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/experiment/checkpointer"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/experiment/trackers"
	ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      uint
	currentSteps  uint
	episodes      int
	trackers      []trackers.Tracker
	checkpointers []checkpointer.Checkpointer
	logger        *log.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, t determines what data is
// saved, and c determines when the agent is checkpointed. A nil logger
// discards all output.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t []trackers.Tracker, c []checkpointer.Checkpointer,
	logger *log.Logger) *Online {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Online{
		Environment:   e,
		Agent:         a,
		maxSteps:      steps,
		trackers:      t,
		checkpointers: c,
		logger:        logger,
	}
}

// Register registers a trackers.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of timesteps run so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Episodes returns the number of episodes finished so far
func (o *Online) Episodes() int {
	return o.episodes
}

// RunEpisode runs a single episode of the experiment. An episode cut
// short by the step limit is not counted as finished.
func (o *Online) RunEpisode(ctx context.Context) (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: could not reset: %w", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.track(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}

	episodeReturn := 0.0

	// Run the next timestep
	for !step.Last() && o.currentSteps < o.maxSteps {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not step: %w", err)
		}
		episodeReturn += step.Reward

		// Cache the environment step in each Tracker
		if err := o.track(step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
	}

	if step.Last() {
		o.episodes++
		o.logger.Debug("episode finished", "episode", o.episodes,
			"return", episodeReturn, "length", step.Number,
			"end", step.EndType())
	}
	o.Agent.EndEpisode()

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run(ctx context.Context) error {
	for {
		ended, err := o.RunEpisode(ctx)
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// track sends the current timestep to each tracker and checkpointer
func (o *Online) track(t ts.TimeStep) error {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return fmt.Errorf("could not checkpoint: %w", err)
		}
	}
	return nil
}
