package carrace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tse-jeff/OpenAI-Gym-Car-Race/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrNoTrack is returned when a car that is not on a frozen track is
// stepped
var ErrNoTrack = errors.New("car is not on a frozen track")

const (
	// Defaults for the car's physical parameters
	DefaultSize         float64 = 50
	DefaultAcceleration float64 = 0.4
	DefaultMaxSpeed     float64 = 10
	DefaultTurnRate     float64 = 0.2
	DefaultMaxTurn      float64 = 3
	DefaultHeading      float64 = 90
	DefaultSensors      int     = 9
	DefaultMaxDistance  float64 = 10000

	// Default rewards
	DefaultNewTileReward  float64 = 10
	DefaultSameTileReward float64 = -1
	DefaultCrashReward    float64 = -100
)

// CrashCheck selects when a step checks whether the car has hit a wall
type CrashCheck int

const (
	// PreMove checks the car's tip before it moves. The step that drives
	// the car into a wall still moves and is rewarded normally; the
	// crash is reported by the following step, which does not move.
	PreMove CrashCheck = iota

	// PostMove additionally checks the tip after moving, so the step
	// that hits the wall reports the crash itself
	PostMove
)

func (c CrashCheck) String() string {
	if c == PostMove {
		return "post-move"
	}
	return "pre-move"
}

// ParseCrashCheck parses the names returned by CrashCheck.String
func ParseCrashCheck(s string) (CrashCheck, error) {
	switch strings.ToLower(s) {
	case "", "pre-move", "premove":
		return PreMove, nil
	case "post-move", "postmove":
		return PostMove, nil
	}
	return PreMove, fmt.Errorf("parseCrashCheck: unknown crash check %q", s)
}

// Rewards holds the reward magnitudes of the tile novelty policy
type Rewards struct {
	NewTile  float64 // first visit to a tile
	SameTile float64 // any later visit
	Crash    float64 // every step once crashed
}

// DefaultRewards returns the default reward magnitudes
func DefaultRewards() Rewards {
	return Rewards{
		NewTile:  DefaultNewTileReward,
		SameTile: DefaultSameTileReward,
		Crash:    DefaultCrashReward,
	}
}

// CarConfig holds the construction-time parameters of a Car
type CarConfig struct {
	Sensors      int
	Size         float64
	Acceleration float64
	MaxSpeed     float64
	TurnRate     float64
	MaxTurn      float64
	MaxDistance  float64
	CrashCheck   CrashCheck
	Rewards      Rewards
}

// DefaultCarConfig returns the default car parameters
func DefaultCarConfig() CarConfig {
	return CarConfig{
		Sensors:      DefaultSensors,
		Size:         DefaultSize,
		Acceleration: DefaultAcceleration,
		MaxSpeed:     DefaultMaxSpeed,
		TurnRate:     DefaultTurnRate,
		MaxTurn:      DefaultMaxTurn,
		MaxDistance:  DefaultMaxDistance,
		CrashCheck:   PreMove,
		Rewards:      DefaultRewards(),
	}
}

// Validate returns an error describing the first invalid parameter
func (c CarConfig) Validate() error {
	switch {
	case c.Sensors < 0:
		return fmt.Errorf("sensors must be non-negative, have %d", c.Sensors)
	case c.Size < 0:
		return fmt.Errorf("size must be non-negative, have %v", c.Size)
	case c.Acceleration < 0 || c.TurnRate < 0:
		return fmt.Errorf("increments must be non-negative, have "+
			"acceleration %v and turn rate %v", c.Acceleration, c.TurnRate)
	case c.MaxSpeed < 0 || c.MaxTurn < 0:
		return fmt.Errorf("maxima must be non-negative, have max speed %v "+
			"and max turn %v", c.MaxSpeed, c.MaxTurn)
	case !(c.MaxDistance > 0):
		return fmt.Errorf("max distance must be positive, have %v",
			c.MaxDistance)
	case c.CrashCheck != PreMove && c.CrashCheck != PostMove:
		return fmt.Errorf("unknown crash check %d", c.CrashCheck)
	}
	return nil
}

// Pose is a car's position (top-left of its box) and heading in degrees
type Pose struct {
	X, Y    float64
	Heading float64
}

// Outcome is the result of a single step
type Outcome struct {
	Observation []float64
	Reward      float64
	Done        bool
	Info        map[string]any
}

// Car is a square vehicle driving on a Grid. Its state is a position,
// heading, speed and rotation rate, a crashed flag, and the tiles it
// has visited in the order it reached them.
//
// A heading of 0 points the car up the screen; headings grow
// counter-clockwise. The car's sensors are anchored at its tip, half a
// car length ahead of its center.
type Car struct {
	cfg   CarConfig
	grid  *Grid
	start Pose

	pos      r2.Vec
	heading  float64
	speed    float64
	rotation float64

	speedBounds r1.Interval
	turnBounds  r1.Interval

	crashed bool
	visited []Index
	seen    map[Index]struct{}

	sensors     []Sensor
	observation []float64
}

// NewCar returns a car at position (x, y) with the default heading
func NewCar(x, y float64, cfg CarConfig) (*Car, error) {
	return NewCarAt(Pose{X: x, Y: y, Heading: DefaultHeading}, cfg)
}

// NewCarAt returns a car starting at pose p
func NewCarAt(p Pose, cfg CarConfig) (*Car, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("newCar: %w", err)
	}

	c := &Car{
		cfg:         cfg,
		start:       p,
		speedBounds: r1.Interval{Min: 0, Max: cfg.MaxSpeed},
		turnBounds:  r1.Interval{Min: -cfg.MaxTurn, Max: cfg.MaxTurn},
		sensors:     newSensors(cfg.Sensors),
	}
	c.observation = make([]float64, len(c.sensors))
	c.ResetTo(p)

	return c, nil
}

// Config returns the parameters the car was built with
func (c *Car) Config() CarConfig {
	return c.cfg
}

// bind places the car on a frozen grid and takes its first readings
func (c *Car) bind(g *Grid) {
	c.grid = g
	if g != nil {
		c.sense()
	}
}

// Grid returns the track the car drives on, or nil before the track is
// frozen
func (c *Car) Grid() *Grid {
	return c.grid
}

// Reset returns the car to its starting pose
func (c *Car) Reset() {
	c.ResetTo(c.start)
}

// ResetTo places the car at pose p at rest, clears the crashed flag and
// the visited tiles, and makes p the new starting pose
func (c *Car) ResetTo(p Pose) {
	c.start = p
	c.pos = r2.Vec{X: p.X, Y: p.Y}
	c.heading = p.Heading
	c.speed, c.rotation = 0, 0
	c.crashed = false
	c.visited = nil
	c.seen = make(map[Index]struct{})

	if c.grid != nil {
		c.sense()
	}
}

// Position returns the top-left corner of the car's box
func (c *Car) Position() r2.Vec { return c.pos }

// Heading returns the car's heading in degrees
func (c *Car) Heading() float64 { return c.heading }

// Speed returns the distance the car moves per step
func (c *Car) Speed() float64 { return c.speed }

// Rotation returns the change in heading per step
func (c *Car) Rotation() float64 { return c.rotation }

// Crashed returns whether the car has hit a wall
func (c *Car) Crashed() bool { return c.crashed }

// Center returns the center of the car's box
func (c *Car) Center() r2.Vec {
	half := c.cfg.Size / 2
	return r2.Vec{X: c.pos.X + half, Y: c.pos.Y + half}
}

// Forward returns the unit vector the car drives along
func (c *Car) Forward() r2.Vec {
	return direction(c.heading + 90)
}

// Tip returns the front of the car, where its sensors are anchored
func (c *Car) Tip() r2.Vec {
	return r2.Add(c.Center(), r2.Scale(c.cfg.Size/2, c.Forward()))
}

// Visited returns the tiles the car has reached, in order
func (c *Car) Visited() []Index {
	visited := make([]Index, len(c.visited))
	copy(visited, c.visited)
	return visited
}

// Sensors returns the car's sensors as of the last reading
func (c *Car) Sensors() []Sensor {
	sensors := make([]Sensor, len(c.sensors))
	copy(sensors, c.sensors)
	return sensors
}

// Observation returns the last sensor readings
func (c *Car) Observation() []float64 {
	obs := make([]float64, len(c.observation))
	copy(obs, c.observation)
	return obs
}

// Step applies action a for one step.
//
// Once crashed, the car no longer changes: every step returns the last
// observation, the crash reward and done. Otherwise the car is first
// checked for a crash using the tip position from before this step,
// then the action's speed and steering changes are applied. A car that
// has just crashed does not move and receives the crash reward; any
// other car turns, drives forward by its speed, and is rewarded for the
// tile under its center. Finally the sensors are read again.
func (c *Car) Step(a Action) (Outcome, error) {
	if err := a.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("step: %w", err)
	}
	if c.grid == nil {
		return Outcome{}, fmt.Errorf("step: %w", ErrNoTrack)
	}

	if c.crashed {
		return c.outcome(c.cfg.Rewards.Crash), nil
	}

	if c.grid.Blocked(c.Tip()) {
		c.crashed = true
	}

	c.accelerate(a)

	var reward float64
	if c.crashed {
		reward = c.cfg.Rewards.Crash
	} else {
		reward = c.move()

		if c.cfg.CrashCheck == PostMove && c.grid.Blocked(c.Tip()) {
			c.crashed = true
			reward = c.cfg.Rewards.Crash
		}
	}

	c.sense()
	return c.outcome(reward), nil
}

// accelerate applies the speed and steering intents of a
func (c *Car) accelerate(a Action) {
	switch a.Long {
	case Accelerate:
		c.speed = floatutils.ClipInterval(c.speed+c.cfg.Acceleration,
			c.speedBounds)
	case Decelerate:
		c.speed = floatutils.ClipInterval(c.speed-c.cfg.Acceleration,
			c.speedBounds)
	}

	switch a.Lat {
	case TurnLeft:
		c.rotation = floatutils.ClipInterval(c.rotation+c.cfg.TurnRate,
			c.turnBounds)
	case TurnRight:
		c.rotation = floatutils.ClipInterval(c.rotation-c.cfg.TurnRate,
			c.turnBounds)
	}
}

// move turns and drives the car, then returns the tile novelty reward
func (c *Car) move() float64 {
	c.heading += c.rotation
	c.pos = r2.Add(c.pos, r2.Scale(c.speed, c.Forward()))

	tile, ok := c.grid.TileAt(c.Center())
	if !ok {
		return c.cfg.Rewards.SameTile
	}
	if _, seen := c.seen[tile]; seen {
		return c.cfg.Rewards.SameTile
	}

	c.seen[tile] = struct{}{}
	c.visited = append(c.visited, tile)
	return c.cfg.Rewards.NewTile
}

// sense reads every sensor from the car's tip
func (c *Car) sense() {
	tip := c.Tip()
	for i := range c.sensors {
		c.observation[i] = c.sensors[i].read(c.grid, tip, c.heading,
			c.cfg.MaxDistance)
	}
}

func (c *Car) outcome(reward float64) Outcome {
	return Outcome{
		Observation: c.Observation(),
		Reward:      reward,
		Done:        c.crashed,
		Info:        map[string]any{},
	}
}

func (c *Car) String() string {
	return fmt.Sprintf("Car | Position: (%.2f, %.2f)  |  Heading: %.2f  |  "+
		"Speed: %.2f  |  Rotation: %.2f  |  Crashed: %v  |  Visited: %d",
		c.pos.X, c.pos.Y, c.heading, c.speed, c.rotation, c.crashed,
		len(c.visited))
}
