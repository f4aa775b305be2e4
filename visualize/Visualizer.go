// Package visualize displays the state of a maze during evaluation
// rollouts
package visualize

import (
	"github.com/samuelfneumann/mazerl/environment/maze"
)

// Visualizer shows the agent's position on a maze Grid
type Visualizer interface {
	Show(g *maze.Grid, agent maze.Position) error
}

// Nop is a Visualizer which shows nothing
type Nop struct{}

// Show implements the Visualizer interface
func (Nop) Show(*maze.Grid, maze.Position) error { return nil }
