package maze

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// BlockedProbability is the probability that a non-corner cell of a
	// test maze is blocked
	BlockedProbability float64 = 0.3

	// TestMazeSeed is the seed used to generate the default test maze.
	// The 6 x 6 maze it generates has a path from the start to the goal.
	TestMazeSeed uint64 = 9002
)

// Cell labels a single cell of a Grid
type Cell int

const (
	Free Cell = iota
	Blocked
	Goal
)

// String implements the fmt.Stringer interface
func (c Cell) String() string {
	switch c {
	case Blocked:
		return "Blocked"
	case Goal:
		return "Goal"
	default:
		return "Free"
	}
}

// Position is a (row, column) pair on a Grid
type Position struct {
	Row int
	Col int
}

// String implements the fmt.Stringer interface
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Grid is an immutable rectangular maze layout. Exactly one cell is
// the Goal, which is always the bottom-right corner, and the four
// corners of the grid are never Blocked.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// NewGrid returns a new Grid with the given dimensions. The goal is
// placed at the bottom-right corner and every position in blocked is
// labelled Blocked. An error is returned if a blocked position lies
// outside the grid or on one of its corners.
func NewGrid(rows, cols int, blocked []Position) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("newgrid: grid must have positive "+
			"dimensions\n\thave(%v x %v)", rows, cols)
	}
	if rows == 1 && cols == 1 {
		return nil, fmt.Errorf("newgrid: start and goal cannot share " +
			"a 1 x 1 grid")
	}

	g := &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
	for _, p := range blocked {
		if !g.InBounds(p) {
			return nil, fmt.Errorf("newgrid: blocked cell %v outside grid "+
				"of size %v x %v", p, rows, cols)
		}
		if g.isCorner(p) {
			return nil, fmt.Errorf("newgrid: corner cell %v cannot be "+
				"blocked", p)
		}
		g.cells[g.index(p)] = Blocked
	}
	g.cells[g.index(g.Goal())] = Goal

	return g, nil
}

// MakeTestMaze returns a size x size Grid where each non-corner cell is
// independently Blocked with probability BlockedProbability. The
// layout depends only on seed, so repeated calls with the same seed
// return identical grids. Cells are visited in row-major order.
func MakeTestMaze(size int, seed uint64) (*Grid, error) {
	if size < 2 {
		return nil, fmt.Errorf("maketestmaze: size must be at least 2, "+
			"have(%v)", size)
	}

	rng := distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(seed)}

	var blocked []Position
	g := &Grid{rows: size, cols: size}
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			p := Position{i, j}
			if g.isCorner(p) {
				continue
			}
			if rng.Rand() < BlockedProbability {
				blocked = append(blocked, p)
			}
		}
	}

	return NewGrid(size, size, blocked)
}

// Dims returns the number of rows and columns in the Grid
func (g *Grid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// Len returns the number of cells in the Grid
func (g *Grid) Len() int {
	return len(g.cells)
}

// At returns the label of the cell at position p. At panics if p is
// outside the Grid.
func (g *Grid) At(p Position) Cell {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("at: position %v outside grid of size %v x %v",
			p, g.rows, g.cols))
	}
	return g.cells[g.index(p)]
}

// InBounds returns whether p lies inside the Grid
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Goal returns the position of the goal cell
func (g *Grid) Goal() Position {
	return Position{g.rows - 1, g.cols - 1}
}

// Blocked returns the positions of all Blocked cells in row-major order
func (g *Grid) Blocked() []Position {
	var blocked []Position
	for i, c := range g.cells {
		if c == Blocked {
			blocked = append(blocked, Position{i / g.cols, i % g.cols})
		}
	}
	return blocked
}

// Cells returns a copy of the cell labels in row-major order
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return cells
}

// Index returns the row-major index of p, which is used as the state
// index by tabular learners
func (g *Grid) Index(p Position) int {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("index: position %v outside grid of size %v x %v",
			p, g.rows, g.cols))
	}
	return g.index(p)
}

// Reachable returns whether the goal can be reached from p by moving
// between adjacent non-Blocked cells
func (g *Grid) Reachable(p Position) bool {
	if !g.InBounds(p) || g.At(p) == Blocked {
		return false
	}

	seen := make([]bool, len(g.cells))
	seen[g.index(p)] = true
	queue := []Position{p}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == g.Goal() {
			return true
		}

		for _, next := range []Position{
			{current.Row + 1, current.Col},
			{current.Row - 1, current.Col},
			{current.Row, current.Col + 1},
			{current.Row, current.Col - 1},
		} {
			if !g.InBounds(next) || seen[g.index(next)] ||
				g.At(next) == Blocked {
				continue
			}
			seen[g.index(next)] = true
			queue = append(queue, next)
		}
	}
	return false
}

// Equal returns whether two Grids have the same dimensions and labels
func (g *Grid) Equal(other *Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String implements the fmt.Stringer interface. Free cells are printed
// as '.', Blocked cells as '#', and the Goal as 'G'.
func (g *Grid) String() string {
	var b strings.Builder
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			switch g.cells[i*g.cols+j] {
			case Blocked:
				b.WriteByte('#')
			case Goal:
				b.WriteByte('G')
			default:
				b.WriteByte('.')
			}
		}
		if i < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (g *Grid) index(p Position) int {
	return p.Row*g.cols + p.Col
}

func (g *Grid) isCorner(p Position) bool {
	return (p.Row == 0 || p.Row == g.rows-1) &&
		(p.Col == 0 || p.Col == g.cols-1)
}
