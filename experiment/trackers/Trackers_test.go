package trackers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
)

// episode returns the timesteps of an episode with the given rewards
// after the first step
func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, 1, nil, 0)}
	for i, r := range rewards {
		t := ts.Mid
		if i == len(rewards)-1 {
			t = ts.Last
		}
		steps = append(steps, ts.New(t, r, 1, nil, i+1))
	}
	return steps
}

func TestReturnAndLength(t *testing.T) {
	dir := t.TempDir()
	ret := NewReturn(filepath.Join(dir, "return.bin"))
	length := NewEpisodeLength(filepath.Join(dir, "length.bin"))

	var steps []ts.TimeStep
	steps = append(steps, episode(10, -1, -100)...)
	steps = append(steps, episode(10, 10)...)
	steps = append(steps, ts.New(ts.First, 0, 1, nil, 0),
		ts.New(ts.Mid, 10, 1, nil, 1))

	for _, step := range steps {
		ret.Track(step)
		length.Track(step)
	}

	assert.Equal(t, []float64{-91, 20}, ret.Data())
	assert.Equal(t, []float64{3, 2}, length.Data())

	require.NoError(t, ret.Save())
	require.NoError(t, length.Save())

	returns, err := LoadData(filepath.Join(dir, "return.bin"))
	require.NoError(t, err)
	assert.Equal(t, ret.Data(), returns)

	lengths, err := LoadData(filepath.Join(dir, "length.bin"))
	require.NoError(t, err)
	assert.Equal(t, length.Data(), lengths)
}

func TestReturnPanicsOnGap(t *testing.T) {
	ret := NewReturn("")
	ret.Track(ts.New(ts.First, 0, 1, nil, 0))
	assert.Panics(t, func() { ret.Track(ts.New(ts.Mid, 0, 1, nil, 2)) })
}

func TestSaveToMissingDirectory(t *testing.T) {
	ret := NewReturn(filepath.Join(t.TempDir(), "missing", "return.bin"))
	assert.Error(t, ret.Save())

	_, err := LoadData(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestPlotCurves(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.png")
	err := PlotCurves(filename, "Return", "Mean return",
		Curve{Name: "a", Values: []float64{1, 2, 3}},
		Curve{Name: "b", Values: []float64{3, 1, 2}},
		Curve{Name: "empty"})
	require.NoError(t, err)

	info, err := os.Stat(filename)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
