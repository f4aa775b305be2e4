// Package config loads the configuration of mazerl experiments from
// JSON files, .env files, and MAZERL_* environment variables
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/samuelfneumann/mazerl/agent/nonlinear/discrete/deepq"
	"github.com/samuelfneumann/mazerl/agent/tabular/qlearning"
	"github.com/samuelfneumann/mazerl/experiment"
)

// Environment variables which override the loaded configuration
const (
	EnvSeed       = "MAZERL_SEED"
	EnvOutputDir  = "MAZERL_OUTPUT_DIR"
	EnvLogLevel   = "MAZERL_LOG_LEVEL"
	EnvIterations = "MAZERL_ITERATIONS"
	EnvMazeSize   = "MAZERL_MAZE_SIZE"
)

// Config holds the full configuration of the deep and tabular learners
// and the experiments which train them
type Config struct {
	Experiment experiment.Config
	DeepQ      deepq.Config
	Tabular    qlearning.Config

	OutputDir string // Directory of trackers, plots, and checkpoints
	LogLevel  string
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Experiment: experiment.DefaultConfig(),
		DeepQ:      deepq.DefaultConfig(),
		Tabular:    qlearning.DefaultConfig(),
		OutputDir:  ".",
		LogLevel:   zerolog.InfoLevel.String(),
	}
}

// Load returns the default configuration overwritten by the JSON file
// at path and then by the MAZERL_* environment variables. Variables in
// envFile are loaded into the environment first, without replacing
// variables which are already set. Empty paths and a missing envFile
// are skipped.
func Load(envFile, path string) (Config, error) {
	c := Default()

	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load: could not load env file: %v",
				err)
		}
	}

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load: could not read config: %v",
				err)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("load: could not decode config: %v",
				err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}
	return c, nil
}

// Validate ensures that every part of the Config is valid
func (c Config) Validate() error {
	if err := c.Experiment.Validate(); err != nil {
		return fmt.Errorf("validate: experiment: %v", err)
	}
	if err := c.DeepQ.Validate(); err != nil {
		return fmt.Errorf("validate: deepq: %v", err)
	}
	if err := c.Tabular.Validate(); err != nil {
		return fmt.Errorf("validate: tabular: %v", err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	return nil
}

// Level returns the zerolog level named by LogLevel
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("level: unknown log level %q",
			c.LogLevel)
	}
	return level, nil
}

// Save writes the Config as indented JSON to path
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("save: could not encode config: %v", err)
	}
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save: could not write config: %v", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if value, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("applyEnv: %v must be an unsigned integer: %v",
				EnvSeed, err)
		}
		c.Experiment.Seed = seed
	}

	if value, ok := os.LookupEnv(EnvIterations); ok {
		iterations, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("applyEnv: %v must be an integer: %v",
				EnvIterations, err)
		}
		c.Experiment.Iterations = iterations
	}

	if value, ok := os.LookupEnv(EnvMazeSize); ok {
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("applyEnv: %v must be an integer: %v",
				EnvMazeSize, err)
		}
		c.Experiment.MazeSize = size
	}

	if value, ok := os.LookupEnv(EnvOutputDir); ok {
		c.OutputDir = value
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = value
	}
	return nil
}
