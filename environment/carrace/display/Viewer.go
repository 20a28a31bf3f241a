package display

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
	ts "github.com/tse-jeff/OpenAI-Gym-Car-Race/timestep"
)

// Viewer shows a policy driving the car, one environment step per
// frame. Episodes restart as soon as they end. Escape closes the
// window.
type Viewer struct {
	Env    *carrace.Discrete
	Policy agent.Policy
	Title  string
	Scale  float64
	TPS    int
	Logger *log.Logger
}

// Run runs the window until it is closed or ctx is done
func (v *Viewer) Run(ctx context.Context) error {
	logger := v.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &viewGame{
		ctx:    ctx,
		env:    v.Env,
		policy: v.Policy,
		step:   v.Env.CurrentTimeStep(),
		view:   newView(v.Env.Track().Grid(), v.Scale),
		logger: logger,
	}

	if v.TPS > 0 {
		ebiten.SetTPS(v.TPS)
	}
	ebiten.SetWindowTitle(v.Title)
	ebiten.SetWindowSize(g.view.size(v.Env.Track().Grid()))

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return g.err
}

type viewGame struct {
	ctx      context.Context
	env      *carrace.Discrete
	policy   agent.Policy
	step     ts.TimeStep
	view     view
	logger   *log.Logger
	episode  int
	episodeR float64
	err      error
}

func (g *viewGame) Update() error {
	if err := g.ctx.Err(); err != nil {
		g.err = err
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.step.Last() {
		g.logger.Info("episode finished", "episode", g.episode,
			"return", g.episodeR, "steps", g.step.Number,
			"end", g.step.EndType())
		g.episode++
		g.episodeR = 0

		step, err := g.env.Reset()
		if err != nil {
			return err
		}
		g.step = step
		return nil
	}

	action := g.policy.SelectAction(g.step)
	step, _, err := g.env.Step(action)
	if err != nil {
		return err
	}
	g.step = step
	g.episodeR += step.Reward
	return nil
}

func (g *viewGame) Draw(screen *ebiten.Image) {
	track := g.env.Track()
	g.view.drawGrid(screen, track.Grid())
	for _, c := range track.Cars() {
		g.view.drawCar(screen, c)
	}
}

func (g *viewGame) Layout(_, _ int) (int, int) {
	return g.view.size(g.env.Track().Grid())
}
