package display

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
)

// Designer opens a window showing the track being designed. Holding
// the left mouse button carves the cell under the cursor; Escape
// commits the track and closes the window.
//
// Designer implements carrace.DesignPhase. Like every ebiten game it
// must run on the main goroutine.
type Designer struct {
	Title  string
	Scale  float64
	Logger *log.Logger
}

// Design runs the window until the track is committed or ctx is done
func (d *Designer) Design(ctx context.Context, b *carrace.Builder) error {
	logger := d.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &designGame{
		ctx:      ctx,
		builder:  b,
		designer: carrace.NewDesigner(nil, logger),
		view:     newView(b.Snapshot(), d.Scale),
	}

	ebiten.SetWindowTitle(d.Title)
	ebiten.SetWindowSize(g.view.size(b.Snapshot()))

	logger.Info("designer opened", "help", "hold the left mouse button "+
		"to carve, press escape to commit")
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("design: %w", err)
	}
	return g.err
}

type designGame struct {
	ctx      context.Context
	builder  *carrace.Builder
	designer *carrace.Designer
	view     view
	err      error
}

func (g *designGame) Update() error {
	if err := g.ctx.Err(); err != nil {
		g.err = err
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	p := g.view.toTrack(x, y)
	state := carrace.PointerState{
		X:       p.X,
		Y:       p.Y,
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Commit:  inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}

	done, err := g.designer.Apply(g.builder, state)
	if err != nil {
		return err
	}
	if done {
		return ebiten.Termination
	}
	return nil
}

func (g *designGame) Draw(screen *ebiten.Image) {
	g.view.drawGrid(screen, g.builder.Snapshot())
}

func (g *designGame) Layout(_, _ int) (int, int) {
	return g.view.size(g.builder.Snapshot())
}
