package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/mazerl/visualize"
	"github.com/spf13/cobra"
)

func newRenderCommand(opts *options) *cobra.Command {
	var (
		size     int
		cellSize int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Save the observation and a drawing of the test maze",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("size") {
				size = c.Experiment.ImageSize
			}
			if size < 1 || cellSize < 1 {
				return fmt.Errorf("render: size and cell size must be " +
					"positive")
			}

			m, err := newMaze(c)
			if err != nil {
				return fmt.Errorf("render: %v", err)
			}

			observation := filepath.Join(c.OutputDir, "observation.png")
			if err := gg.SavePNG(observation, m.Render(size).Image()); err != nil {
				return fmt.Errorf("render: could not save observation: %v",
					err)
			}

			drawing := filepath.Join(c.OutputDir, "maze.png")
			dc := visualize.Draw(m.Grid(), m.Position(), cellSize)
			if err := dc.SavePNG(drawing); err != nil {
				return fmt.Errorf("render: could not save maze: %v", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), m)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 64, "Side length of the observation")
	cmd.Flags().IntVar(&cellSize, "cell-size", 64,
		"Side length of each cell in the maze drawing")
	return cmd
}
