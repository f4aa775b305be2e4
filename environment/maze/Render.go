package maze

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	ts "github.com/samuelfneumann/mazerl/timestep"
	xdraw "golang.org/x/image/draw"
)

// Render draws the Maze with one pixel per cell and resamples the
// drawing to a size x size Frame using nearest neighbour interpolation.
//
// Free cells are white and Blocked cells are black. The red and green
// channels of the agent's cell are cleared, and the red and blue
// channels of the goal cell are cleared after that, so that an agent on
// the goal keeps the goal's colour.
func (m *Maze) Render(size int) ts.Frame {
	if size < 1 {
		panic(fmt.Sprintf("render: size must be positive, have(%v)", size))
	}

	rows, cols := m.Dims()
	im := image.NewRGBA(image.Rect(0, 0, cols, rows))
	dc := gg.NewContextForRGBA(im)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	for _, p := range m.grid.Blocked() {
		dc.SetPixel(p.Col, p.Row)
	}

	maskPixel(im, m.agent, true, true, false)
	maskPixel(im, m.grid.Goal(), true, false, true)

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), im, im.Bounds(),
		xdraw.Src, nil)

	return ts.FrameFromImage(out)
}

// maskPixel zeroes the selected colour channels of the pixel at p
func maskPixel(im *image.RGBA, p Position, r, g, b bool) {
	i := im.PixOffset(p.Col, p.Row)
	if r {
		im.Pix[i] = 0
	}
	if g {
		im.Pix[i+1] = 0
	}
	if b {
		im.Pix[i+2] = 0
	}
}
