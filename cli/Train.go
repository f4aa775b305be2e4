package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/samuelfneumann/mazerl/experiment"
	"github.com/samuelfneumann/mazerl/experiment/checkpointer"
	"github.com/samuelfneumann/mazerl/experiment/trackers"
	ts "github.com/samuelfneumann/mazerl/timestep"
	"github.com/samuelfneumann/mazerl/visualize"
	"github.com/spf13/cobra"
)

// plotWindow is the window of the moving average drawn over returns
const plotWindow = 10

func newTrainCommand(opts *options) *cobra.Command {
	var (
		iterations int
		warmUp     int
		batchSize  int
		imageSize  int
		evalDelay  time.Duration
		visualizer string
		checkpoint int
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a deep Q-learning agent on the test maze",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("iterations") {
				c.Experiment.Iterations = iterations
			}
			if flags.Changed("warm-up") {
				c.Experiment.WarmUp = warmUp
			}
			if flags.Changed("batch-size") {
				c.Experiment.BatchSize = batchSize
			}
			if flags.Changed("image-size") {
				c.Experiment.ImageSize = imageSize
			}
			if flags.Changed("checkpoint-every") {
				c.Experiment.CheckpointEvery = checkpoint
			}
			if flags.Changed("eval-delay") {
				c.Experiment.EvalDelay = evalDelay
			}

			logger, err := newLogger(cmd.ErrOrStderr(), c)
			if err != nil {
				return err
			}

			m, err := newMaze(c)
			if err != nil {
				return fmt.Errorf("train: %v", err)
			}

			features := c.Experiment.ImageSize * c.Experiment.ImageSize *
				ts.Channels
			model, err := c.DeepQ.Create(features, m.NumActions(),
				c.Experiment.Seed)
			if err != nil {
				return fmt.Errorf("train: could not create model: %v", err)
			}
			defer model.Close()
			model.SetLogger(logger)

			trainer, err := experiment.NewTrainer(m, model, c.Experiment,
				logger)
			if err != nil {
				return fmt.Errorf("train: %v", err)
			}

			switch visualizer {
			case "terminal":
				trainer.SetVisualizer(visualize.NewTerminal(cmd.OutOrStdout(),
					true))
			case "png":
				png, err := visualize.NewPNG(c.OutputDir, 32)
				if err != nil {
					return fmt.Errorf("train: %v", err)
				}
				trainer.SetVisualizer(png)
			case "none":
			default:
				return fmt.Errorf("train: unknown visualizer %q", visualizer)
			}

			returns := trackers.NewReturn(filepath.Join(c.OutputDir,
				"returns.bin"))
			lengths := trackers.NewEpisodeLength(filepath.Join(c.OutputDir,
				"lengths.bin"))
			trainer.Register(returns)
			trainer.Register(lengths)

			if c.Experiment.CheckpointEvery > 0 {
				filename := checkpointer.FilenameEnumerator(0,
					filepath.Join(c.OutputDir, "deepq-"), ".bin")
				cp, err := checkpointer.NewNStep(c.Experiment.CheckpointEvery,
					model, filename)
				if err != nil {
					return fmt.Errorf("train: %v", err)
				}
				trainer.AddCheckpointer(cp)
			}

			logger.Info().
				Str("maze", m.Grid().String()).
				Int("features", features).
				Msg("starting training")

			// An interrupt stops training after the current iteration
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			if err := trainer.RunContext(ctx); err != nil {
				return fmt.Errorf("train: %w", err)
			}

			if err := trainer.Save(); err != nil {
				return fmt.Errorf("train: %v", err)
			}
			if err := checkpointer.Save(filepath.Join(c.OutputDir,
				"deepq-final.bin"), model); err != nil {
				return fmt.Errorf("train: %v", err)
			}
			return plotReturns(c.OutputDir, "Deep Q-learning returns",
				returns.Data())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&iterations, "iterations", 0,
		"Number of training iterations, 0 to train forever")
	flags.IntVar(&warmUp, "warm-up", 500,
		"Transitions needed in the buffer before training")
	flags.IntVar(&batchSize, "batch-size", 256, "Batch size of updates")
	flags.IntVar(&imageSize, "image-size", 64,
		"Side length of rendered observations")
	flags.DurationVar(&evalDelay, "eval-delay", 100*time.Millisecond,
		"Pause between steps of evaluation rollouts")
	flags.StringVar(&visualizer, "visualizer", "terminal",
		"Visualizer of evaluation rollouts (terminal, png, none)")
	flags.IntVar(&checkpoint, "checkpoint-every", 0,
		"Iterations between model checkpoints, 0 to disable")

	return cmd
}

// plotReturns plots the per-episode returns and their moving average
func plotReturns(dir, title string, returns []float64) error {
	if len(returns) == 0 {
		return nil
	}

	return trackers.Plot(filepath.Join(dir, "returns.png"), title, "Return",
		trackers.Series{Name: "return", Data: returns},
		trackers.Series{
			Name: "moving average",
			Data: trackers.MovingAverage(returns, plotWindow),
		})
}
