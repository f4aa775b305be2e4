package cli

import (
	"fmt"
	"path/filepath"

	"github.com/samuelfneumann/mazerl/experiment"
	"github.com/samuelfneumann/mazerl/experiment/trackers"
	"github.com/samuelfneumann/mazerl/utils/intutils"
	"github.com/samuelfneumann/mazerl/utils/progressbar"
	"github.com/samuelfneumann/mazerl/visualize"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

func newTabularCommand(opts *options) *cobra.Command {
	var episodes int

	cmd := &cobra.Command{
		Use:   "tabular",
		Short: "Train a tabular Q-learning agent on the test maze",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if episodes < 1 {
				return fmt.Errorf("tabular: episodes must be positive, "+
					"have(%v)", episodes)
			}

			logger, err := newLogger(cmd.ErrOrStderr(), c)
			if err != nil {
				return err
			}

			m, err := newMaze(c)
			if err != nil {
				return fmt.Errorf("tabular: %v", err)
			}

			q, err := c.Tabular.Create(m.Grid().Len(), m.NumActions(),
				c.Experiment.Seed)
			if err != nil {
				return fmt.Errorf("tabular: %v", err)
			}

			runner, err := experiment.NewTabularRunner(m, q, c.Tabular.Epsilon,
				c.Tabular.MaxSteps, c.Experiment.Seed, logger)
			if err != nil {
				return fmt.Errorf("tabular: %v", err)
			}
			runner.Register(trackers.NewEpisodeLength(
				filepath.Join(c.OutputDir, "tabular-lengths.bin")))

			bar := progressbar.New(cmd.ErrOrStderr(), 40, episodes)
			returns := make([]float64, 0, episodes)
			for i := 0; i < episodes; i++ {
				result := runner.RunEpisode()
				returns = append(returns, result.Return)

				bar.Increment()
				bar.SetStatus("return: %.1f", result.Return)
				if err := bar.Display(); err != nil {
					return fmt.Errorf("tabular: %v", err)
				}
			}
			if err := runner.Save(); err != nil {
				return fmt.Errorf("tabular: %v", err)
			}

			tail := returns[len(returns)-intutils.Min(len(returns), 100):]
			logger.Info().
				Int("episodes", episodes).
				Float64("meanReturn", stat.Mean(tail, nil)).
				Msg("finished tabular training")

			term := visualize.NewTerminal(cmd.OutOrStdout(), false)
			path := runner.GreedyPath(m.Grid().Len())
			for _, p := range path {
				if err := term.Show(m.Grid(), p); err != nil {
					return fmt.Errorf("tabular: %v", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "greedy path: %v\n", path)

			return plotReturns(c.OutputDir, "Tabular Q-learning returns",
				returns)
		},
	}

	cmd.Flags().IntVar(&episodes, "episodes", 500, "Number of episodes")
	return cmd
}
