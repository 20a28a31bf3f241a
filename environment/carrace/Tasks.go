package carrace

import (
	"fmt"

	env "github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	"gonum.org/v1/gonum/floats"
)

// TileNovelty implements the tile novelty task. The car is rewarded
// for every step that ends on a tile it has not reached before, pays a
// small cost for revisiting tiles, and receives a large penalty once it
// crashes.
//
// Starting states are (x, y, heading) vectors drawn from the Starter.
// Episodes end when the car crashes or after a step limit.
type TileNovelty struct {
	env.Starter
	*env.StepLimit
	rewards Rewards
}

// NewTileNovelty returns a new TileNovelty task. An episodeSteps of
// zero or less means episodes only end by crashing.
func NewTileNovelty(s env.Starter, episodeSteps int,
	r Rewards) *TileNovelty {
	return &TileNovelty{s, env.NewStepLimit(episodeSteps), r}
}

// Rewards returns the reward magnitudes of the task
func (t *TileNovelty) Rewards() Rewards {
	return t.rewards
}

// Min returns the minimum possible reward of a single step
func (t *TileNovelty) Min() float64 {
	return floats.Min([]float64{t.rewards.NewTile, t.rewards.SameTile,
		t.rewards.Crash})
}

// Max returns the maximum possible reward of a single step
func (t *TileNovelty) Max() float64 {
	return floats.Max([]float64{t.rewards.NewTile, t.rewards.SameTile,
		t.rewards.Crash})
}

// RewardSpec returns the reward specification of the task
func (t *TileNovelty) RewardSpec() env.Spec {
	return env.NewScalarSpec(env.Reward, t.Min(), t.Max(), env.Continuous)
}

func (t *TileNovelty) String() string {
	return fmt.Sprintf("TileNovelty | New Tile: %v  |  Same Tile: %v  |  "+
		"Crash: %v  |  Step Limit: %d", t.rewards.NewTile,
		t.rewards.SameTile, t.rewards.Crash, t.Limit())
}
