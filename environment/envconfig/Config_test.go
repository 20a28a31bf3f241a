package envconfig

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(*Config){
		"no blocks":         func(c *Config) { c.BlocksX = 0 },
		"negative block":    func(c *Config) { c.BlockHeight = -1 },
		"negative jitter":   func(c *Config) { c.StartJitter = -1 },
		"discount":          func(c *Config) { c.Discount = 1.5 },
		"crash check":       func(c *Config) { c.CrashCheck = "sideways" },
		"max distance":      func(c *Config) { c.MaxDistance = 0 },
		"layout dimensions": func(c *Config) { c.BlocksX = 10 },
		"layout character":  func(c *Config) { c.Layout[0] = "x" + c.Layout[0][1:] },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestStartPoseFromLayout(t *testing.T) {
	c := Default()
	c.Size = 10
	c.Layout[0] = ".S" + c.Layout[0][2:]

	pose, err := c.StartPose()
	require.NoError(t, err)
	assert.InDelta(t, 70, pose.X, 1e-9)
	assert.InDelta(t, 20, pose.Y, 1e-9)
	assert.Equal(t, DefaultStartHeading, pose.Heading)
}

func TestStartPoseWithoutLayout(t *testing.T) {
	c := Default()
	c.Layout = nil
	c.StartX, c.StartY = 3, 4

	pose, err := c.StartPose()
	require.NoError(t, err)
	assert.Equal(t, carrace.Pose{X: 3, Y: 4, Heading: DefaultStartHeading},
		pose)
}

func TestCreate(t *testing.T) {
	c := Default()
	d, step, err := c.Create(context.Background(), nil, 1)
	require.NoError(t, err)

	assert.True(t, step.First())
	assert.Equal(t, c.Sensors+1, step.Observation.Len())
	assert.True(t, d.Track().Initialized())

	// The default start faces open track
	car := d.Car()
	assert.False(t, d.Track().Grid().Blocked(car.Tip()))

	tile, ok := d.Track().Grid().TileAt(car.Center())
	require.True(t, ok)
	assert.Equal(t, carrace.Index{Col: 0, Row: 0}, tile)

	next, last, err := d.Step(carrace.Action{Long: carrace.Accelerate}.Vec())
	require.NoError(t, err)
	assert.False(t, last)
	assert.Equal(t, 1, next.Number)
}

func TestCreateRunsDesigner(t *testing.T) {
	c := Default()
	c.Layout = nil

	carved := false
	designer := carrace.DesignFunc(func(ctx context.Context,
		b *carrace.Builder) error {
		carved = true
		return b.Carve(carrace.Index{Col: 0, Row: 0})
	})

	d, _, err := c.Create(context.Background(), designer, 1)
	require.NoError(t, err)
	assert.True(t, carved)
	assert.Equal(t, 1, d.Track().Grid().Tiles())
}

func TestCreateInvalid(t *testing.T) {
	c := Default()
	c.Discount = -1
	_, _, err := c.Create(context.Background(), nil, 1)
	assert.Error(t, err)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	contents := "sensors: 4\ncrashCheck: post-move\nepisodeCutoff: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Sensors = 4
	want.CrashCheck = "post-move"
	want.EpisodeCutoff = 50
	assert.Equal(t, want, c)
}

func TestWriteThenLoad(t *testing.T) {
	c := Default()
	c.Layout = []string{"S.", "#."}
	c.BlocksX, c.BlocksY = 2, 2
	c.NewTile = 5

	var buf bytes.Buffer
	require.NoError(t, c.WriteYAML(&buf))

	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
