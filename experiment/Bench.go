package experiment

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/linear/qlearning"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/schedule"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/envconfig"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/experiment/checkpointer"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/experiment/trackers"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/utils/matutils"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/utils/progressbar"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Files written for every trial
const (
	ReturnFile        = "return.bin"
	EpisodeLengthFile = "length.bin"
	WeightsFile       = "weights.bin"
)

// BenchTest is a named Q-learning configuration. The learning rate is
// constant unless DecaySteps is positive, in which case it moves
// linearly from LearningRate to FinalLearningRate over DecaySteps
// updates.
type BenchTest struct {
	Name              string  `mapstructure:"name" yaml:"name"`
	LearningRate      float64 `mapstructure:"learningRate" yaml:"learningRate"`
	FinalLearningRate float64 `mapstructure:"finalLearningRate" yaml:"finalLearningRate,omitempty"`
	DecaySteps        int     `mapstructure:"decaySteps" yaml:"decaySteps,omitempty"`
	Epsilon           float64 `mapstructure:"epsilon" yaml:"epsilon"`
}

// Schedule returns the learning rate schedule of the test
func (t BenchTest) Schedule() (schedule.Schedule, error) {
	if t.DecaySteps > 0 {
		return schedule.NewLinear(t.LearningRate, t.FinalLearningRate,
			t.DecaySteps)
	}
	return schedule.Constant(t.LearningRate), nil
}

// Agent returns the agent configuration of the test
func (t BenchTest) Agent() (qlearning.Config, error) {
	lr, err := t.Schedule()
	if err != nil {
		return qlearning.Config{}, err
	}

	c := qlearning.Config{Epsilon: t.Epsilon, LearningRate: lr}
	return c, c.Validate()
}

// BenchConfig configures a test bench: every test is trained from
// scratch Trials times for Timesteps steps each, and its data is saved
// under Dir/<test name>/<trial>/.
type BenchConfig struct {
	Tests     []BenchTest `mapstructure:"tests" yaml:"tests"`
	Timesteps uint        `mapstructure:"timesteps" yaml:"timesteps"`
	Trials    int         `mapstructure:"trials" yaml:"trials"`
	Dir       string      `mapstructure:"dir" yaml:"dir"`

	// Workers bounds the number of trials run at once; zero means one
	// per CPU
	Workers int `mapstructure:"workers" yaml:"workers,omitempty"`

	// Checkpoint saves the agent's weights every Checkpoint steps; zero
	// only saves the final weights
	Checkpoint int `mapstructure:"checkpoint" yaml:"checkpoint,omitempty"`
}

// DefaultBench returns the constant learning rate sweep
func DefaultBench() BenchConfig {
	rates := []struct {
		name string
		lr   float64
	}{
		{"constant-01", .01},
		{"constant-007", .007},
		{"constant-005", .005},
		{"constant-003", .003},
		{"constant-001", .001},
	}

	tests := make([]BenchTest, len(rates))
	for i, r := range rates {
		tests[i] = BenchTest{Name: r.name, LearningRate: r.lr, Epsilon: 0.1}
	}

	return BenchConfig{
		Tests:     tests,
		Timesteps: 50000,
		Trials:    10,
		Dir:       "models",
	}
}

// Validate ensures that the BenchConfig is valid
func (b BenchConfig) Validate() error {
	if len(b.Tests) == 0 {
		return fmt.Errorf("validate: no tests")
	}
	if b.Trials <= 0 {
		return fmt.Errorf("validate: trials must be positive, have %d",
			b.Trials)
	}
	if b.Workers < 0 || b.Checkpoint < 0 {
		return fmt.Errorf("validate: workers and checkpoint must be "+
			"non-negative, have %d and %d", b.Workers, b.Checkpoint)
	}

	names := make(map[string]bool)
	for _, t := range b.Tests {
		if t.Name == "" || names[t.Name] {
			return fmt.Errorf("validate: test names must be unique and "+
				"non-empty, have %q", t.Name)
		}
		names[t.Name] = true

		if _, err := t.Agent(); err != nil {
			return fmt.Errorf("validate: test %q: %w", t.Name, err)
		}
	}
	return nil
}

// LoadBench reads a YAML bench configuration file. Missing scalar keys
// take their values from DefaultBench.
func LoadBench(path string) (BenchConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")

	d := DefaultBench()
	vp.SetDefault("timesteps", d.Timesteps)
	vp.SetDefault("trials", d.Trials)
	vp.SetDefault("dir", d.Dir)

	if err := vp.ReadInConfig(); err != nil {
		return BenchConfig{}, fmt.Errorf("loadBench: could not read "+
			"config: %w", err)
	}

	var b BenchConfig
	if err := vp.Unmarshal(&b); err != nil {
		return BenchConfig{}, fmt.Errorf("loadBench: could not decode "+
			"config: %w", err)
	}
	if len(b.Tests) == 0 {
		b.Tests = d.Tests
	}
	return b, nil
}

// WriteYAML writes the BenchConfig to w as YAML
func (b BenchConfig) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("writeYAML: %w", err)
	}
	return enc.Close()
}

// Result holds the data of every trial of a test
type Result struct {
	Name    string
	Returns [][]float64 // episodic returns per trial
	Lengths [][]float64 // episode lengths per trial
}

// MeanReturns returns the episodic return averaged over trials, up to
// the number of episodes finished by every trial
func (r Result) MeanReturns() []float64 {
	return mean(r.Returns)
}

// MeanLengths returns the episode length averaged over trials, up to
// the number of episodes finished by every trial
func (r Result) MeanLengths() []float64 {
	return mean(r.Lengths)
}

func mean(rows [][]float64) []float64 {
	m := matutils.Stack(rows)
	if m == nil {
		return nil
	}
	return matutils.ColMean(m).RawVector().Data
}

// Bench runs every test of a BenchConfig on the environment described
// by an envconfig.Config
type Bench struct {
	cfg      BenchConfig
	env      envconfig.Config
	logger   *log.Logger
	progress io.Writer
}

// NewBench returns a new Bench. Trials are logged to logger and, if
// progress is not nil, a progress bar is drawn to it.
func NewBench(cfg BenchConfig, env envconfig.Config, logger *log.Logger,
	progress io.Writer) (*Bench, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("newBench: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("newBench: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Bench{cfg: cfg, env: env, logger: logger, progress: progress}, nil
}

// Run runs every trial of every test, saves their data, and plots the
// mean learning curves to Dir/returns.png and Dir/lengths.png. Trial k
// of every test is seeded with seed+k.
func (b *Bench) Run(ctx context.Context, seed uint64) ([]Result, error) {
	results := make([]Result, len(b.cfg.Tests))
	for i, t := range b.cfg.Tests {
		results[i] = Result{
			Name:    t.Name,
			Returns: make([][]float64, b.cfg.Trials),
			Lengths: make([][]float64, b.cfg.Trials),
		}
	}

	var bar *progressbar.ManualProgressBar
	if b.progress != nil {
		bar = progressbar.NewManualProgressBar(b.progress, 50,
			len(b.cfg.Tests)*b.cfg.Trials)
		bar.Display()
	}

	workers := b.cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, test := range b.cfg.Tests {
		i, test := i, test
		for trial := 0; trial < b.cfg.Trials; trial++ {
			trial := trial
			g.Go(func() error {
				ret, length, err := b.runTrial(gctx, test, trial,
					seed+uint64(trial))
				if err != nil {
					return fmt.Errorf("run: test %q trial %d: %w", test.Name,
						trial, err)
				}

				// Each goroutine writes only its own slot
				results[i].Returns[trial] = ret
				results[i].Lengths[trial] = length

				if bar != nil {
					bar.Increment()
					bar.Display()
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		fmt.Fprintln(b.progress)
	}

	if err := b.plot(results); err != nil {
		return results, fmt.Errorf("run: %w", err)
	}
	return results, nil
}

// runTrial trains a fresh agent for one trial and returns its tracked
// returns and episode lengths
func (b *Bench) runTrial(ctx context.Context, test BenchTest, trial int,
	seed uint64) ([]float64, []float64, error) {
	dir := filepath.Join(b.cfg.Dir, test.Name, fmt.Sprint(trial))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("could not create %v: %w", dir, err)
	}

	environment, _, err := b.env.Create(ctx, nil, seed)
	if err != nil {
		return nil, nil, err
	}

	conf, err := test.Agent()
	if err != nil {
		return nil, nil, err
	}
	q, err := qlearning.New(environment, conf, seed)
	if err != nil {
		return nil, nil, err
	}

	var checkpointers []checkpointer.Checkpointer
	if b.cfg.Checkpoint > 0 {
		c, err := checkpointer.NewNStep(b.cfg.Checkpoint, q,
			checkpointer.FilenameEnumerator(0,
				filepath.Join(dir, "checkpoint-"), ".bin"))
		if err != nil {
			return nil, nil, err
		}
		checkpointers = append(checkpointers, c)
	}

	ret := trackers.NewReturn(filepath.Join(dir, ReturnFile))
	length := trackers.NewEpisodeLength(filepath.Join(dir, EpisodeLengthFile))

	logger := b.logger.With("test", test.Name, "trial", trial)
	exp := NewOnline(environment, q, b.cfg.Timesteps,
		[]trackers.Tracker{ret, length}, checkpointers, logger)

	if err := exp.Run(ctx); err != nil {
		return nil, nil, err
	}
	if err := exp.Save(); err != nil {
		return nil, nil, err
	}
	if err := q.Save(filepath.Join(dir, WeightsFile)); err != nil {
		return nil, nil, err
	}

	logger.Info("trial finished", "episodes", exp.Episodes(),
		"steps", exp.Steps())
	return ret.Data(), length.Data(), nil
}

// plot draws the mean learning curves of every test
func (b *Bench) plot(results []Result) error {
	returns := make([]trackers.Curve, len(results))
	lengths := make([]trackers.Curve, len(results))
	for i, r := range results {
		returns[i] = trackers.Curve{Name: r.Name, Values: r.MeanReturns()}
		lengths[i] = trackers.Curve{Name: r.Name, Values: r.MeanLengths()}
	}

	if err := trackers.PlotCurves(filepath.Join(b.cfg.Dir, "returns.png"),
		"Mean episodic return", "Return", returns...); err != nil {
		return err
	}
	return trackers.PlotCurves(filepath.Join(b.cfg.Dir, "lengths.png"),
		"Mean episode length", "Steps", lengths...)
}
