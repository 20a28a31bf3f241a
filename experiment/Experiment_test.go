package experiment

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/random"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/envconfig"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/experiment/trackers"
)

// corridor returns a configuration of a 10-tile corridor with short
// episodes
func corridor() envconfig.Config {
	c := envconfig.Default()
	c.BlocksX, c.BlocksY = 10, 1
	c.Layout = []string{"S........."}
	c.Sensors = 2
	c.EpisodeCutoff = 20
	return c
}

func TestOnlineRunsAllSteps(t *testing.T) {
	env, _, err := corridor().Create(context.Background(), nil, 1)
	require.NoError(t, err)

	a, err := random.New(env, 1)
	require.NoError(t, err)

	dir := t.TempDir()
	ret := trackers.NewReturn(filepath.Join(dir, "return.bin"))
	length := trackers.NewEpisodeLength(filepath.Join(dir, "length.bin"))

	exp := NewOnline(env, a, 100, []trackers.Tracker{ret}, nil, nil)
	exp.Register(length)
	require.NoError(t, exp.Run(context.Background()))

	assert.Equal(t, uint(100), exp.Steps())
	assert.Equal(t, exp.Episodes(), len(ret.Data()))
	assert.Equal(t, exp.Episodes(), len(length.Data()))
	assert.Positive(t, exp.Episodes())

	total := 0.0
	for _, l := range length.Data() {
		assert.LessOrEqual(t, l, 20.0)
		total += l
	}
	assert.LessOrEqual(t, total, 100.0)

	require.NoError(t, exp.Save())
	saved, err := trackers.LoadData(filepath.Join(dir, "length.bin"))
	require.NoError(t, err)
	assert.Equal(t, length.Data(), saved)
}

func TestOnlineStopsOnCancel(t *testing.T) {
	env, _, err := corridor().Create(context.Background(), nil, 1)
	require.NoError(t, err)

	a, err := random.New(env, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := NewOnline(env, a, 100, nil, nil, nil)
	assert.ErrorIs(t, exp.Run(ctx), context.Canceled)
}

func TestBenchValidate(t *testing.T) {
	require.NoError(t, DefaultBench().Validate())

	b := DefaultBench()
	b.Tests = append(b.Tests, b.Tests[0])
	assert.Error(t, b.Validate(), "duplicate names")

	b = DefaultBench()
	b.Trials = 0
	assert.Error(t, b.Validate(), "no trials")

	b = DefaultBench()
	b.Tests[0].Epsilon = 2
	assert.Error(t, b.Validate(), "bad epsilon")

	b = DefaultBench()
	b.Tests[0].DecaySteps = -1
	require.NoError(t, b.Validate(), "negative decay means constant")
}

func TestBenchSchedule(t *testing.T) {
	lr, err := BenchTest{LearningRate: .01}.Schedule()
	require.NoError(t, err)
	assert.Equal(t, .01, lr.At(1000))

	lr, err = BenchTest{LearningRate: .01, FinalLearningRate: .001,
		DecaySteps: 10}.Schedule()
	require.NoError(t, err)
	assert.InDelta(t, .001, lr.At(1000), 1e-12)
}

func TestLoadBench(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	contents := "trials: 3\ntests:\n  - name: decay\n    learningRate: 0.1\n" +
		"    finalLearningRate: 0.01\n    decaySteps: 100\n    epsilon: 0.2\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	b, err := LoadBench(path)
	require.NoError(t, err)

	assert.Equal(t, 3, b.Trials)
	assert.Equal(t, DefaultBench().Timesteps, b.Timesteps)
	assert.Equal(t, DefaultBench().Dir, b.Dir)
	assert.Equal(t, []BenchTest{{Name: "decay", LearningRate: 0.1,
		FinalLearningRate: 0.01, DecaySteps: 100, Epsilon: 0.2}}, b.Tests)
}

func TestBenchWriteThenLoad(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DefaultBench().WriteYAML(&buf))

	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	b, err := LoadBench(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBench(), b)
}

func TestResultMeans(t *testing.T) {
	r := Result{
		Returns: [][]float64{{10, 20, 30}, {30, 40}},
		Lengths: [][]float64{{1}, {}},
	}
	assert.Equal(t, []float64{20, 30}, r.MeanReturns())
	assert.Nil(t, r.MeanLengths())
}

func TestBenchRun(t *testing.T) {
	dir := t.TempDir()
	cfg := BenchConfig{
		Tests: []BenchTest{
			{Name: "fast", LearningRate: .01, Epsilon: .1},
			{Name: "slow", LearningRate: .001, Epsilon: .1},
		},
		Timesteps:  200,
		Trials:     2,
		Dir:        dir,
		Workers:    2,
		Checkpoint: 100,
	}

	var progress bytes.Buffer
	b, err := NewBench(cfg, corridor(), nil, &progress)
	require.NoError(t, err)

	results, err := b.Run(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		require.Len(t, r.Returns, 2)
		for trial := 0; trial < 2; trial++ {
			trialDir := filepath.Join(dir, r.Name, []string{"0", "1"}[trial])
			for _, f := range []string{ReturnFile, EpisodeLengthFile,
				WeightsFile, "checkpoint-1.bin", "checkpoint-2.bin"} {
				assert.FileExists(t, filepath.Join(trialDir, f))
			}

			saved, err := trackers.LoadData(filepath.Join(trialDir, ReturnFile))
			require.NoError(t, err)
			assert.Equal(t, r.Returns[trial], saved)
		}
	}

	assert.FileExists(t, filepath.Join(dir, "returns.png"))
	assert.FileExists(t, filepath.Join(dir, "lengths.png"))
	assert.Contains(t, progress.String(), "100.00%")
}

func TestNewBenchRejectsConfig(t *testing.T) {
	_, err := NewBench(BenchConfig{}, corridor(), nil, nil)
	assert.Error(t, err)

	env := corridor()
	env.Discount = 2
	_, err = NewBench(DefaultBench(), env, nil, nil)
	assert.Error(t, err)
}
