package carrace

import (
	"context"
	"fmt"

	env "github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"gonum.org/v1/gonum/mat"
)

// StartDims is the length of starting state vectors: x, y and heading
const StartDims = 3

// Discrete exposes a Track as an environment.Environment with discrete
// actions. Actions are 1-dimensional vectors holding an action index in
// [0, 8] (see Action); observations are the car's sensor readings.
//
// Unlike Track.Reset, Discrete.Reset starts a new episode: the car is
// moved to a pose drawn from the task's Starter, comes to rest, and
// forgets its crash and visited tiles.
//
// Episodes end with timestep.TerminalStateReached when the car crashes,
// or with timestep.TimestepLimitReached when the task's step limit is
// reached.
type Discrete struct {
	env.Task
	track    *Track
	car      *Car
	discount float64
	lastStep ts.TimeStep
}

// NewDiscrete freezes the track, running its design phase if needed,
// and returns the environment with the first timestep of an episode
func NewDiscrete(ctx context.Context, track *Track, task env.Task,
	discount float64) (*Discrete, ts.TimeStep, error) {
	if err := track.Reset(ctx); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %w", err)
	}

	car, err := track.Car()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %w", err)
	}

	d := &Discrete{
		Task:     task,
		track:    track,
		car:      car,
		discount: discount,
	}

	step, err := d.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %w", err)
	}
	return d, step, nil
}

// Track returns the underlying track
func (d *Discrete) Track() *Track {
	return d.track
}

// Car returns the car being driven
func (d *Discrete) Car() *Car {
	return d.car
}

// Reset starts a new episode and returns its first timestep
func (d *Discrete) Reset() (ts.TimeStep, error) {
	start := d.Start()
	if start.Len() != StartDims {
		return ts.TimeStep{}, fmt.Errorf("reset: starting states should "+
			"have length %d, have %d", StartDims, start.Len())
	}

	d.car.ResetTo(Pose{
		X:       start.AtVec(0),
		Y:       start.AtVec(1),
		Heading: start.AtVec(2),
	})

	obs := d.car.Observation()
	d.lastStep = ts.New(ts.First, 0, d.discount,
		mat.NewVecDense(len(obs), obs), 0)
	return d.lastStep, nil
}

// Step takes one environmental step given action a and returns the
// next timestep and whether the episode has ended
func (d *Discrete) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	action, err := ActionFromVec(a)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	out, err := d.track.Step(action)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	obs := mat.NewVecDense(len(out.Observation), out.Observation)
	next := ts.New(ts.Mid, out.Reward, d.discount, obs,
		d.lastStep.Number+1)

	if out.Done {
		next.StepType = ts.Last
		next.SetEnd(ts.TerminalStateReached)
	} else {
		d.End(&next)
	}

	d.lastStep = next
	return next, next.Last(), nil
}

// CurrentTimeStep returns the last timestep of the environment
func (d *Discrete) CurrentTimeStep() ts.TimeStep {
	return d.lastStep
}

// ActionSpec returns the action specification of the environment
func (d *Discrete) ActionSpec() env.Spec {
	return env.NewScalarSpec(env.Action, 0, NumActions-1, env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment. Every reading is a distance in [0, MaxDistance].
func (d *Discrete) ObservationSpec() env.Spec {
	n := len(d.car.sensors)
	upper := make([]float64, n)
	for i := range upper {
		upper[i] = d.car.cfg.MaxDistance
	}

	return env.NewSpec(mat.NewVecDense(n, nil), env.Observation,
		mat.NewVecDense(n, nil), mat.NewVecDense(n, upper), env.Continuous)
}

// RewardSpec returns the reward specification of the environment
func (d *Discrete) RewardSpec() env.Spec {
	return env.NewScalarSpec(env.Reward, d.Min(), d.Max(), env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (d *Discrete) DiscountSpec() env.Spec {
	return env.NewScalarSpec(env.Discount, d.discount, d.discount,
		env.Continuous)
}

func (d *Discrete) String() string {
	return fmt.Sprintf("CarRace | %v  |  %v", d.car, d.lastStep)
}
