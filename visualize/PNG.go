package visualize

import (
	"fmt"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/mazerl/environment/maze"
)

// PNG saves every shown state as a numbered PNG image in a directory
type PNG struct {
	dir      string
	cellSize int
	frame    int
}

// NewPNG returns a new PNG Visualizer which draws each cell with
// cellSize x cellSize pixels
func NewPNG(dir string, cellSize int) (*PNG, error) {
	if cellSize < 1 {
		return nil, fmt.Errorf("newPNG: cell size must be positive, "+
			"have(%v)", cellSize)
	}
	return &PNG{dir: dir, cellSize: cellSize}, nil
}

// Show implements the Visualizer interface
func (p *PNG) Show(g *maze.Grid, agent maze.Position) error {
	p.frame++
	filename := filepath.Join(p.dir, fmt.Sprintf("frame-%04d.png", p.frame))

	if err := Draw(g, agent, p.cellSize).SavePNG(filename); err != nil {
		return fmt.Errorf("show: could not save frame: %v", err)
	}
	return nil
}

// Frames returns the number of frames saved so far
func (p *PNG) Frames() int {
	return p.frame
}

// Draw draws the maze with cellSize x cellSize pixels per cell. Blocked
// cells are black, the goal is green and the agent is a blue disc.
func Draw(g *maze.Grid, agent maze.Position, cellSize int) *gg.Context {
	rows, cols := g.Dims()
	size := float64(cellSize)
	dc := gg.NewContext(cols*cellSize, rows*cellSize)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x, y := float64(j)*size, float64(i)*size
			switch g.At(maze.Position{Row: i, Col: j}) {
			case maze.Blocked:
				dc.SetRGB(0, 0, 0)
			case maze.Goal:
				dc.SetRGB(0, 1, 0)
			default:
				continue
			}
			dc.DrawRectangle(x, y, size, size)
			dc.Fill()
		}
	}

	dc.SetRGB(0.5, 0.5, 0.5)
	dc.SetLineWidth(1)
	for i := 0; i <= rows; i++ {
		dc.DrawLine(0, float64(i)*size, float64(cols)*size, float64(i)*size)
	}
	for j := 0; j <= cols; j++ {
		dc.DrawLine(float64(j)*size, 0, float64(j)*size, float64(rows)*size)
	}
	dc.Stroke()

	dc.SetRGB(0, 0, 1)
	dc.DrawCircle(float64(agent.Col)*size+size/2,
		float64(agent.Row)*size+size/2, size/3)
	dc.Fill()

	return dc
}
