package visualize

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uilive"
	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/mazerl/environment/maze"
)

// Terminal redraws the maze in place on a terminal. Free cells are
// drawn as '.', blocked cells as a red '#', the goal as a green 'G' and
// the agent as a blue 'A'.
type Terminal struct {
	writer *uilive.Writer
	au     aurora.Aurora
	shown  int
}

// NewTerminal returns a Terminal which writes to out. Colours are only
// used if colour is true.
func NewTerminal(out io.Writer, colour bool) *Terminal {
	writer := uilive.New()
	writer.Out = out

	return &Terminal{
		writer: writer,
		au:     aurora.NewAurora(colour),
	}
}

// Show implements the Visualizer interface
func (t *Terminal) Show(g *maze.Grid, agent maze.Position) error {
	t.shown++
	if _, err := fmt.Fprintln(t.writer, t.draw(g, agent)); err != nil {
		return fmt.Errorf("show: %v", err)
	}
	if _, err := fmt.Fprintf(t.writer, "frame %v\n", t.shown); err != nil {
		return fmt.Errorf("show: %v", err)
	}
	return t.writer.Flush()
}

func (t *Terminal) draw(g *maze.Grid, agent maze.Position) string {
	rows, cols := g.Dims()

	var b strings.Builder
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p := maze.Position{Row: i, Col: j}
			switch {
			case p == agent:
				b.WriteString(t.au.Blue("A").String())
			case g.At(p) == maze.Goal:
				b.WriteString(t.au.Green("G").String())
			case g.At(p) == maze.Blocked:
				b.WriteString(t.au.Red("#").String())
			default:
				b.WriteByte('.')
			}
			if j < cols-1 {
				b.WriteByte(' ')
			}
		}
		if i < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
