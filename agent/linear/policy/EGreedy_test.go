package policy

import (
	"context"
	"testing"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/envconfig"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"gonum.org/v1/gonum/mat"
)

// newCorridor returns a 10-tile corridor environment whose car has 3
// sensor rays
func newCorridor(t *testing.T) (environment.Environment, timestep.TimeStep) {
	t.Helper()

	c := envconfig.Default()
	c.BlocksX, c.BlocksY = 10, 1
	c.Layout = []string{"S........."}
	c.Sensors = 2

	env, step, err := c.Create(context.Background(), nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	return env, step
}

func TestNewEGreedyRejectsEpsilon(t *testing.T) {
	env, _ := newCorridor(t)
	for _, e := range []float64{-0.1, 1.1} {
		if _, err := NewEGreedy(e, 1, env); err == nil {
			t.Errorf("expected an error for epsilon %v", e)
		}
	}
}

func TestFeatures(t *testing.T) {
	env, step := newCorridor(t)
	p, err := NewEGreedy(0.1, 1, env)
	if err != nil {
		t.Fatal(err)
	}

	features := p.Features(step.Observation)
	if features.Len() != step.Observation.Len()+1 {
		t.Fatalf("expected %d features, got %d", step.Observation.Len()+1,
			features.Len())
	}

	upper := env.ObservationSpec().UpperBound
	for i := 0; i < step.Observation.Len(); i++ {
		want := step.Observation.AtVec(i) / upper.AtVec(i)
		if got := features.AtVec(i); got != want {
			t.Errorf("feature %d: expected %v, got %v", i, want, got)
		}
	}
	if features.AtVec(features.Len()-1) != 1 {
		t.Error("expected a trailing bias unit of 1")
	}

	rows, cols := p.Weights()[WeightsKey].Dims()
	if rows != carrace.NumActions || cols != features.Len() {
		t.Errorf("expected %dx%d weights, got %dx%d", carrace.NumActions,
			features.Len(), rows, cols)
	}
}

func TestGreedyBreaksTiesAmongBest(t *testing.T) {
	env, step := newCorridor(t)
	p, err := NewGreedy(1, env)
	if err != nil {
		t.Fatal(err)
	}

	// Bias weights make actions 2 and 6 equally best
	weights := p.Weights()[WeightsKey]
	_, cols := weights.Dims()
	weights.Set(2, cols-1, 5)
	weights.Set(6, cols-1, 5)

	seen := make(map[int]int)
	for i := 0; i < 500; i++ {
		seen[int(p.SelectAction(step).AtVec(0))]++
	}

	if len(seen) != 2 || seen[2] == 0 || seen[6] == 0 {
		t.Errorf("expected only actions 2 and 6, got %v", seen)
	}
}

func TestEpsilonOneExplores(t *testing.T) {
	env, step := newCorridor(t)
	p, err := NewEGreedy(1, 1, env)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		seen[int(p.SelectAction(step).AtVec(0))] = true
	}
	if len(seen) != carrace.NumActions {
		t.Errorf("expected all %d actions, got %v", carrace.NumActions, seen)
	}
}

func TestEvalIsGreedy(t *testing.T) {
	env, step := newCorridor(t)
	p, err := NewEGreedy(1, 1, env)
	if err != nil {
		t.Fatal(err)
	}

	weights := p.Weights()[WeightsKey]
	_, cols := weights.Dims()
	weights.Set(4, cols-1, 1)

	p.Eval()
	if !p.IsEval() {
		t.Fatal("expected evaluation mode")
	}
	for i := 0; i < 100; i++ {
		if a := p.SelectAction(step).AtVec(0); a != 4 {
			t.Fatalf("expected greedy action 4, got %v", a)
		}
	}

	p.Train()
	if p.IsEval() {
		t.Error("expected training mode")
	}
}

func TestSetWeights(t *testing.T) {
	env, _ := newCorridor(t)
	p, err := NewEGreedy(0.1, 1, env)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.SetWeights(map[string]*mat.Dense{}); err == nil {
		t.Error("expected an error for missing weights")
	}

	bad := map[string]*mat.Dense{WeightsKey: mat.NewDense(2, 2, nil)}
	if err := p.SetWeights(bad); err == nil {
		t.Error("expected an error for mis-shaped weights")
	}

	rows, cols := p.Weights()[WeightsKey].Dims()
	good := map[string]*mat.Dense{WeightsKey: mat.NewDense(rows, cols, nil)}
	if err := p.SetWeights(good); err != nil {
		t.Error(err)
	}
	if p.Weights()[WeightsKey] != good[WeightsKey] {
		t.Error("expected the weights to be shared, not copied")
	}
}
