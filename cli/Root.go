// Package cli implements the mazerl command line interface
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/mazerl/config"
	"github.com/samuelfneumann/mazerl/environment/maze"
	"github.com/spf13/cobra"
)

// options are the flags shared by all commands
type options struct {
	configPath string
	envFile    string
	logLevel   string
	outputDir  string
	seed       uint64
	mazeSize   int
}

// NewRootCommand returns the mazerl root command with all of its
// subcommands
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "mazerl",
		Short:         "Train agents to navigate grid mazes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "JSON configuration file")
	flags.StringVar(&opts.envFile, "env-file", ".env",
		"File of MAZERL_* environment variables")
	flags.StringVar(&opts.logLevel, "log-level", "info",
		"Log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.outputDir, "output-dir", ".",
		"Directory for saved data, plots, and checkpoints")
	flags.Uint64Var(&opts.seed, "seed", maze.TestMazeSeed,
		"Seed of the maze and learners")
	flags.IntVar(&opts.mazeSize, "maze-size", 6, "Side length of the maze")

	cmd.AddCommand(newTrainCommand(opts))
	cmd.AddCommand(newTabularCommand(opts))
	cmd.AddCommand(newRenderCommand(opts))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load loads the configuration, with flags set on the command line
// taking precedence over the configuration file and environment
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	c, err := config.Load(o.envFile, o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = o.logLevel
	}
	if flags.Changed("output-dir") {
		c.OutputDir = o.outputDir
	}
	if flags.Changed("seed") {
		c.Experiment.Seed = o.seed
	}
	if flags.Changed("maze-size") {
		c.Experiment.MazeSize = o.mazeSize
	}

	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return config.Config{}, fmt.Errorf("load: could not create output "+
			"directory: %v", err)
	}
	return c, nil
}

// newLogger returns a console logger writing to out
func newLogger(out io.Writer, c config.Config) (zerolog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return zerolog.Nop(), err
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger(), nil
}

// newMaze returns the test maze described by c
func newMaze(c config.Config) (*maze.Maze, error) {
	g, err := maze.MakeTestMaze(c.Experiment.MazeSize, c.Experiment.Seed)
	if err != nil {
		return nil, err
	}
	return maze.New(g, c.Experiment.Discount)
}
