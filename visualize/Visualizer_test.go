package visualize

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/mazerl/environment/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(t *testing.T) *maze.Grid {
	g, err := maze.NewGrid(3, 3, []maze.Position{{Row: 1, Col: 1}})
	require.NoError(t, err)
	return g
}

func TestTerminal(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, false)

	require.NoError(t, term.Show(testGrid(t), maze.Position{Row: 0, Col: 1}))
	assert.Contains(t, out.String(), ". A .\n. # .\n. . G")
	assert.Contains(t, out.String(), "frame 1")

	require.NoError(t, term.Show(testGrid(t), maze.Position{Row: 2, Col: 2}))
	assert.Contains(t, out.String(), "frame 2")
}

func TestTerminalAgentOnGoal(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, false)
	drawn := term.draw(testGrid(t), maze.Position{Row: 2, Col: 2})
	lines := strings.Split(drawn, "\n")
	assert.Equal(t, ". . A", lines[2])
}

func TestDraw(t *testing.T) {
	dc := Draw(testGrid(t), maze.Position{}, 10)
	im := dc.Image()

	assert.Equal(t, 30, im.Bounds().Dx())
	assert.Equal(t, 30, im.Bounds().Dy())

	r, g, b, _ := im.At(15, 15).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b}, "blocked")

	assert.Equal(t, color.RGBA{0, 255, 0, 255},
		color.RGBAModel.Convert(im.At(25, 25)), "goal")

	r, g, b, _ = im.At(5, 5).RGBA()
	assert.Zero(t, r, "agent")
	assert.Zero(t, g, "agent")
	assert.NotZero(t, b, "agent")
}

func TestPNG(t *testing.T) {
	dir := t.TempDir()
	_, err := NewPNG(dir, 0)
	assert.Error(t, err)

	p, err := NewPNG(dir, 8)
	require.NoError(t, err)

	require.NoError(t, p.Show(testGrid(t), maze.Position{}))
	require.NoError(t, p.Show(testGrid(t), maze.Position{Row: 1, Col: 0}))
	assert.Equal(t, 2, p.Frames())

	_, err = os.Stat(filepath.Join(dir, "frame-0002.png"))
	assert.NoError(t, err)
}

func TestNop(t *testing.T) {
	var v Visualizer = Nop{}
	assert.NoError(t, v.Show(testGrid(t), maze.Position{}))
}
