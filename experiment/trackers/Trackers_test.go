package trackers

import (
	"os"
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/mazerl/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// episode returns the timesteps of an episode with the given rewards
func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, 1, ts.Frame{}, 0)}
	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		steps = append(steps, ts.New(stepType, r, 1, ts.Frame{}, i+1))
	}
	return steps
}

func TestReturn(t *testing.T) {
	dir := t.TempDir()
	r := NewReturn(filepath.Join(dir, "return.bin"))

	for _, step := range episode(-0.1, -0.5, 100) {
		r.Track(step)
	}
	for _, step := range episode(-0.1, -10) {
		r.Track(step)
	}

	assert.InDeltaSlice(t, []float64{99.4, -10.1}, r.Data(), 1e-9)

	require.NoError(t, r.Save())
	data, err := LoadData(filepath.Join(dir, "return.bin"))
	require.NoError(t, err)
	assert.InDeltaSlice(t, r.Data(), data, 1e-12)
}

func TestReturnNonSequential(t *testing.T) {
	r := NewReturn("")
	r.Track(ts.New(ts.First, 0, 1, ts.Frame{}, 0))
	assert.Panics(t, func() {
		r.Track(ts.New(ts.Mid, 0, 1, ts.Frame{}, 2))
	})
}

func TestEpisodeLength(t *testing.T) {
	dir := t.TempDir()
	e := NewEpisodeLength(filepath.Join(dir, "length.bin"))

	for _, step := range episode(1, 2, 3) {
		e.Track(step)
	}
	for _, step := range episode(1) {
		e.Track(step)
	}
	assert.Equal(t, []float64{3, 1}, e.Data())

	require.NoError(t, e.Save())
	data, err := LoadData(filepath.Join(dir, "length.bin"))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, data)
}

func TestLoadDataMissing(t *testing.T) {
	_, err := LoadData(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestMovingAverage(t *testing.T) {
	avg := MovingAverage([]float64{1, 3, 5, 7}, 2)
	assert.InDeltaSlice(t, []float64{1, 2, 4, 6}, avg, 1e-12)
	assert.Equal(t, []float64{1, 3}, MovingAverage([]float64{1, 3}, 0))
}

func TestPlot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.png")
	data := []float64{-10, -5, 20, 99.5}

	err := Plot(filename, "Returns", "Return",
		Series{Name: "return", Data: data},
		Series{Name: "average", Data: MovingAverage(data, 2)})
	require.NoError(t, err)

	info, err := os.Stat(filename)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
