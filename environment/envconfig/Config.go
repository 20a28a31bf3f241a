// Package envconfig provides configuration structs for configuring
// car race environments with default physical parameters and tasks.
// Environment configurations in this package are YAML serializable.
package envconfig

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"
	env "github.com/tse-jeff/OpenAI-Gym-Car-Race/environment"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
	ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
	"gonum.org/v1/gonum/spatial/r1"
	"gopkg.in/yaml.v3"
)

// Defaults for the track
const (
	DefaultBlocksX       int     = 16
	DefaultBlocksY       int     = 12
	DefaultBlockWidth    float64 = 50
	DefaultBlockHeight   float64 = 50
	DefaultStartHeading  float64 = 270
	DefaultEpisodeCutoff int     = 1000
	DefaultDiscount      float64 = 0.99
)

// DefaultLayout is a ring two tiles wide around the edge of the default
// track, starting in the top-left corner facing +x
var DefaultLayout = []string{
	"S...............",
	"................",
	"..############..",
	"..############..",
	"..############..",
	"..############..",
	"..############..",
	"..############..",
	"..############..",
	"..############..",
	"................",
	"................",
}

// Config implements a specific configuration of a car race environment
// and its tile novelty task
type Config struct {
	// Track
	BlocksX     int     `mapstructure:"blocksX" yaml:"blocksX" json:"blocksX"`
	BlocksY     int     `mapstructure:"blocksY" yaml:"blocksY" json:"blocksY"`
	BlockWidth  float64 `mapstructure:"blockWidth" yaml:"blockWidth" json:"blockWidth"`
	BlockHeight float64 `mapstructure:"blockHeight" yaml:"blockHeight" json:"blockHeight"`

	// Car
	Sensors      int     `mapstructure:"sensors" yaml:"sensors" json:"sensors"`
	Size         float64 `mapstructure:"size" yaml:"size" json:"size"`
	Acceleration float64 `mapstructure:"acceleration" yaml:"acceleration" json:"acceleration"`
	MaxSpeed     float64 `mapstructure:"maxSpeed" yaml:"maxSpeed" json:"maxSpeed"`
	TurnRate     float64 `mapstructure:"turnRate" yaml:"turnRate" json:"turnRate"`
	MaxTurn      float64 `mapstructure:"maxTurn" yaml:"maxTurn" json:"maxTurn"`
	MaxDistance  float64 `mapstructure:"maxDistance" yaml:"maxDistance" json:"maxDistance"`
	CrashCheck   string  `mapstructure:"crashCheck" yaml:"crashCheck" json:"crashCheck"`

	// Starting pose. A start tile in the layout overrides StartX and
	// StartY. StartJitter widens the x and y sampling intervals.
	StartX       float64 `mapstructure:"startX" yaml:"startX" json:"startX"`
	StartY       float64 `mapstructure:"startY" yaml:"startY" json:"startY"`
	StartHeading float64 `mapstructure:"startHeading" yaml:"startHeading" json:"startHeading"`
	StartJitter  float64 `mapstructure:"startJitter" yaml:"startJitter" json:"startJitter"`

	// Task
	NewTile       float64 `mapstructure:"newTile" yaml:"newTile" json:"newTile"`
	SameTile      float64 `mapstructure:"sameTile" yaml:"sameTile" json:"sameTile"`
	Crash         float64 `mapstructure:"crash" yaml:"crash" json:"crash"`
	EpisodeCutoff int     `mapstructure:"episodeCutoff" yaml:"episodeCutoff" json:"episodeCutoff"`
	Discount      float64 `mapstructure:"discount" yaml:"discount" json:"discount"`

	// Layout rows, see carrace.Layout. Empty means the track is carved
	// only by the designer passed to Create.
	Layout []string `mapstructure:"layout" yaml:"layout,omitempty" json:"layout,omitempty"`
}

// Default returns the default configuration
func Default() Config {
	car := carrace.DefaultCarConfig()
	rewards := carrace.DefaultRewards()

	layout := make([]string, len(DefaultLayout))
	copy(layout, DefaultLayout)

	return Config{
		BlocksX:     DefaultBlocksX,
		BlocksY:     DefaultBlocksY,
		BlockWidth:  DefaultBlockWidth,
		BlockHeight: DefaultBlockHeight,

		Sensors:      car.Sensors,
		Size:         car.Size,
		Acceleration: car.Acceleration,
		MaxSpeed:     car.MaxSpeed,
		TurnRate:     car.TurnRate,
		MaxTurn:      car.MaxTurn,
		MaxDistance:  car.MaxDistance,
		CrashCheck:   car.CrashCheck.String(),

		StartHeading: DefaultStartHeading,

		NewTile:       rewards.NewTile,
		SameTile:      rewards.SameTile,
		Crash:         rewards.Crash,
		EpisodeCutoff: DefaultEpisodeCutoff,
		Discount:      DefaultDiscount,

		Layout: layout,
	}
}

// Rewards returns the reward magnitudes of the configuration
func (c Config) Rewards() carrace.Rewards {
	return carrace.Rewards{
		NewTile:  c.NewTile,
		SameTile: c.SameTile,
		Crash:    c.Crash,
	}
}

// CarConfig returns the car parameters of the configuration
func (c Config) CarConfig() (carrace.CarConfig, error) {
	check, err := carrace.ParseCrashCheck(c.CrashCheck)
	if err != nil {
		return carrace.CarConfig{}, err
	}

	return carrace.CarConfig{
		Sensors:      c.Sensors,
		Size:         c.Size,
		Acceleration: c.Acceleration,
		MaxSpeed:     c.MaxSpeed,
		TurnRate:     c.TurnRate,
		MaxTurn:      c.MaxTurn,
		MaxDistance:  c.MaxDistance,
		CrashCheck:   check,
		Rewards:      c.Rewards(),
	}, nil
}

// ParseLayout returns the parsed layout, or nil if there is none
func (c Config) ParseLayout() (*carrace.Layout, error) {
	if len(c.Layout) == 0 {
		return nil, nil
	}

	l, err := carrace.ParseLayout(c.Layout)
	if err != nil {
		return nil, err
	}

	if nx, ny := l.Dims(); nx != c.BlocksX || ny != c.BlocksY {
		return nil, fmt.Errorf("layout is %d × %d but track is %d × %d",
			nx, ny, c.BlocksX, c.BlocksY)
	}
	return l, nil
}

// StartPose returns the car's starting pose. If the layout marks a
// start tile, the car is centred on it.
func (c Config) StartPose() (carrace.Pose, error) {
	p := carrace.Pose{X: c.StartX, Y: c.StartY, Heading: c.StartHeading}

	l, err := c.ParseLayout()
	if err != nil {
		return p, err
	}
	if l == nil {
		return p, nil
	}

	if start, ok := l.Start(); ok {
		p.X = (float64(start.Col)+0.5)*c.BlockWidth - c.Size/2
		p.Y = (float64(start.Row)+0.5)*c.BlockHeight - c.Size/2
	}
	return p, nil
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	switch {
	case c.BlocksX <= 0 || c.BlocksY <= 0:
		return fmt.Errorf("validate: track must have at least one block, "+
			"have %d × %d", c.BlocksX, c.BlocksY)
	case c.BlockWidth <= 0 || c.BlockHeight <= 0:
		return fmt.Errorf("validate: blocks must have positive size, "+
			"have %v × %v", c.BlockWidth, c.BlockHeight)
	case c.StartJitter < 0:
		return fmt.Errorf("validate: start jitter must be non-negative, "+
			"have %v", c.StartJitter)
	case c.Discount < 0 || c.Discount > 1:
		return fmt.Errorf("validate: discount must be in [0, 1], have %v",
			c.Discount)
	}

	car, err := c.CarConfig()
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := car.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if _, err := c.ParseLayout(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. The track is carved by the
// configured layout followed by designer; either may be absent.
// Create blocks until the design phase finishes.
func (c Config) Create(ctx context.Context, designer carrace.DesignPhase,
	seed uint64, opts ...carrace.TrackOption) (*carrace.Discrete,
	ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	layout, _ := c.ParseLayout()
	var phases []carrace.DesignPhase
	if layout != nil {
		phases = append(phases, layout)
	}
	if designer != nil {
		phases = append(phases, designer)
	}

	var phase carrace.DesignPhase
	if len(phases) > 0 {
		phase = carrace.Chain(phases...)
	}

	track, err := carrace.NewTrack(c.BlocksX, c.BlocksY, c.BlockWidth,
		c.BlockHeight, phase, opts...)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	carConfig, _ := c.CarConfig()
	pose, _ := c.StartPose()
	car, err := carrace.NewCarAt(pose, carConfig)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	track.AddCar(car)

	starter := env.NewUniformStarter([]r1.Interval{
		{Min: pose.X - c.StartJitter, Max: pose.X + c.StartJitter},
		{Min: pose.Y - c.StartJitter, Max: pose.Y + c.StartJitter},
		{Min: pose.Heading, Max: pose.Heading},
	}, seed)
	task := carrace.NewTileNovelty(starter, c.EpisodeCutoff, c.Rewards())

	d, step, err := carrace.NewDiscrete(ctx, track, task, c.Discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return d, step, nil
}

// Load reads a YAML configuration file. Keys missing from the file take
// their values from Default.
func Load(path string) (Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")

	defaults, err := defaultMap()
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	for key, value := range defaults {
		vp.SetDefault(key, value)
	}

	if err := vp.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("load: could not read config: %w", err)
	}

	var c Config
	if err := vp.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode config: %w", err)
	}
	return c, nil
}

// defaultMap returns Default as a map keyed by the YAML field names
func defaultMap() (map[string]any, error) {
	bytes, err := yaml.Marshal(Default())
	if err != nil {
		return nil, err
	}

	m := make(map[string]any)
	if err := yaml.Unmarshal(bytes, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteYAML writes the Config to w as YAML
func (c Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("writeYAML: %w", err)
	}
	return enc.Close()
}
