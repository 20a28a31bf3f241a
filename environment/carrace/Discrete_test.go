package carrace

import (
	"context"
	"errors"
	"testing"

	env "github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// newDiscreteCorridor returns an environment on a corridor of 10 tiles
// with a point car starting at (5, 5) facing +x
func newDiscreteCorridor(t *testing.T, cutoff int) *Discrete {
	t.Helper()

	layout, err := ParseLayout([]string{".........."})
	if err != nil {
		t.Fatal(err)
	}
	track, err := NewTrack(10, 1, 10, 10, layout)
	if err != nil {
		t.Fatal(err)
	}

	car, err := NewCar(0, 0, pointCar(2, 5))
	if err != nil {
		t.Fatal(err)
	}
	track.AddCar(car)

	starter := env.NewUniformStarter([]r1.Interval{
		{Min: 5, Max: 5}, {Min: 5, Max: 5}, {Min: 270, Max: 270},
	}, 1)
	task := NewTileNovelty(starter, cutoff, DefaultRewards())

	d, step, err := NewDiscrete(context.Background(), track, task, 0.99)
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() || step.Number != 0 {
		t.Fatalf("first timestep: have %v", step)
	}
	return d
}

func index(i int) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(i)})
}

func TestDiscreteImplementsEnvironment(t *testing.T) {
	var _ env.Environment = &Discrete{}
}

func TestDiscreteSpecs(t *testing.T) {
	d := newDiscreteCorridor(t, 0)

	action := d.ActionSpec()
	if action.Cardinality != env.Discrete || action.UpperBound.AtVec(0) != 8 {
		t.Errorf("action spec: have %v with upper bound %v",
			action.Cardinality, action.UpperBound.AtVec(0))
	}

	obs := d.ObservationSpec()
	if obs.Shape.Len() != 3 {
		t.Errorf("observation length: want 3, have %d", obs.Shape.Len())
	}
	for i := 0; i < obs.Shape.Len(); i++ {
		if obs.LowerBound.AtVec(i) != 0 ||
			obs.UpperBound.AtVec(i) != DefaultMaxDistance {
			t.Errorf("observation %d bounds: have [%v, %v]", i,
				obs.LowerBound.AtVec(i), obs.UpperBound.AtVec(i))
		}
	}

	reward := d.RewardSpec()
	if reward.LowerBound.AtVec(0) != DefaultCrashReward ||
		reward.UpperBound.AtVec(0) != DefaultNewTileReward {
		t.Errorf("reward bounds: have [%v, %v]", reward.LowerBound.AtVec(0),
			reward.UpperBound.AtVec(0))
	}

	if discount := d.DiscountSpec(); discount.LowerBound.AtVec(0) != 0.99 {
		t.Errorf("discount: want 0.99, have %v", discount.LowerBound.AtVec(0))
	}
}

func TestDiscreteStepUntilCrash(t *testing.T) {
	d := newDiscreteCorridor(t, 0)
	accelerate := (Action{Accelerate, HoldTurn}).Index()

	var (
		step ts.TimeStep
		last bool
		err  error
	)
	for i := 0; i < 100 && !last; i++ {
		step, last, err = d.Step(index(accelerate))
		if err != nil {
			t.Fatal(err)
		}
		if step.Number != i+1 {
			t.Fatalf("step number: want %d, have %d", i+1, step.Number)
		}
		if step.Observation.Len() != 3 {
			t.Fatalf("observation length: want 3, have %d",
				step.Observation.Len())
		}
	}

	if !last {
		t.Fatal("car never crashed")
	}
	if step.EndType() != ts.TerminalStateReached {
		t.Errorf("end type: want %v, have %v", ts.TerminalStateReached,
			step.EndType())
	}
	if step.Reward != DefaultCrashReward {
		t.Errorf("last reward: want %v, have %v", DefaultCrashReward,
			step.Reward)
	}
	if current := d.CurrentTimeStep(); current.Number != step.Number {
		t.Errorf("current timestep: want %d, have %d", step.Number,
			current.Number)
	}

	// A new episode starts from the starting pose
	first, err := d.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if !first.First() || d.Car().Crashed() || len(d.Car().Visited()) != 0 {
		t.Errorf("reset did not start a new episode: %v", d)
	}
	if p := d.Car().Position(); p.X != 5 || p.Y != 5 {
		t.Errorf("reset position: want (5, 5), have %v", p)
	}
}

func TestDiscreteStepLimit(t *testing.T) {
	d := newDiscreteCorridor(t, 3)
	hold := (Action{HoldSpeed, HoldTurn}).Index()

	for i := 1; i <= 3; i++ {
		step, last, err := d.Step(index(hold))
		if err != nil {
			t.Fatal(err)
		}
		if last != (i == 3) {
			t.Fatalf("step %d: last = %v", i, last)
		}
		if i == 3 && step.EndType() != ts.TimestepLimitReached {
			t.Errorf("end type: want %v, have %v", ts.TimestepLimitReached,
				step.EndType())
		}
	}
}

func TestDiscreteIllegalAction(t *testing.T) {
	d := newDiscreteCorridor(t, 0)

	if _, _, err := d.Step(index(9)); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("want ErrIllegalAction, have %v", err)
	}
	if d.CurrentTimeStep().Number != 0 {
		t.Error("illegal action advanced the environment")
	}
}

func TestNewDiscreteWithoutCar(t *testing.T) {
	track, err := NewTrack(2, 2, 10, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	task := NewTileNovelty(env.NewUniformStarter([]r1.Interval{
		{Min: 0, Max: 0}, {Min: 0, Max: 0}, {Min: 0, Max: 0},
	}, 1), 0, DefaultRewards())

	if _, _, err := NewDiscrete(context.Background(), track, task, 1); !errors.Is(err, ErrNoCar) {
		t.Errorf("want ErrNoCar, have %v", err)
	}
}
