package carrace

import (
	"context"
	"fmt"
	"strings"
)

// Characters used in layouts
const (
	WallRune  = '#'
	TileRune  = '.'
	StartRune = 'S'
)

// Layout describes a track as rows of text, one character per interior
// cell: '#' is a wall, '.' or ' ' is a tile, and 'S' is the tile the
// car starts on. The wall ring is implicit.
//
// A Layout is a DesignPhase that carves its tiles without any operator
// input.
type Layout struct {
	rows  []string
	start Index
	hasS  bool
}

// ParseLayout parses and validates rows of a layout
func ParseLayout(rows []string) (*Layout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parseLayout: layout has no rows")
	}

	width := len(rows[0])
	l := &Layout{rows: make([]string, len(rows))}
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("parseLayout: row %d has width %d, "+
				"expected %d", r, len(row), width)
		}

		for c, ch := range row {
			switch ch {
			case WallRune, TileRune, ' ':
			case StartRune:
				if l.hasS {
					return nil, fmt.Errorf("parseLayout: more than one "+
						"start tile at %v", Index{c, r})
				}
				l.start, l.hasS = Index{Col: c, Row: r}, true
			default:
				return nil, fmt.Errorf("parseLayout: illegal character %q "+
					"at %v", ch, Index{c, r})
			}
		}
		l.rows[r] = row
	}

	if width == 0 {
		return nil, fmt.Errorf("parseLayout: layout has no columns")
	}
	return l, nil
}

// Dims returns the number of interior columns and rows of the layout
func (l *Layout) Dims() (nx, ny int) {
	return len(l.rows[0]), len(l.rows)
}

// Start returns the tile marked as the start, if any
func (l *Layout) Start() (Index, bool) {
	return l.start, l.hasS
}

// Rows returns the text rows of the layout
func (l *Layout) Rows() []string {
	rows := make([]string, len(l.rows))
	copy(rows, l.rows)
	return rows
}

// Design carves every tile of the layout into b. The builder must have
// the same interior dimensions as the layout.
func (l *Layout) Design(ctx context.Context, b *Builder) error {
	nx, ny := l.Dims()
	if bx, by := b.Dims(); bx != nx || by != ny {
		return fmt.Errorf("design: layout is %d × %d but track is %d × %d",
			nx, ny, bx, by)
	}

	for r, row := range l.rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		for c, ch := range row {
			if ch == WallRune {
				continue
			}
			if err := b.Carve(Index{Col: c, Row: r}); err != nil {
				return fmt.Errorf("design: could not carve layout: %w", err)
			}
		}
	}
	return nil
}

// FormatLayout writes the interior of g as layout rows. If start is
// given, that tile is marked with 'S'.
func FormatLayout(g *Grid, start ...Index) []string {
	rows := make([]string, g.ny)

	var sb strings.Builder
	for r := 0; r < g.ny; r++ {
		sb.Reset()
		for c := 0; c < g.nx; c++ {
			i := Index{Col: c, Row: r}
			switch {
			case len(start) > 0 && start[0] == i && !g.Active(i):
				sb.WriteRune(StartRune)
			case g.Active(i):
				sb.WriteRune(WallRune)
			default:
				sb.WriteRune(TileRune)
			}
		}
		rows[r] = sb.String()
	}
	return rows
}
