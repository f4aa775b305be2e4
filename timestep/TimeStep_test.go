package timestep

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepType(t *testing.T) {
	step := New(First, 0, 0.9, Frame{}, 0)
	assert.True(t, step.First())
	assert.False(t, step.Last())

	step.StepType = Last
	assert.True(t, step.Last())
	assert.Equal(t, "Last", step.StepType.String())
	assert.Equal(t, "Mid", Mid.String())
}

func TestFrameFromImage(t *testing.T) {
	im := image.NewRGBA(image.Rect(0, 0, 2, 2))
	im.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	im.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	im.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	im.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})

	f := FrameFromImage(im)
	assert.Equal(t, 2, f.Size)
	assert.Equal(t, 12, f.Len())

	r, g, b := f.At(0, 1)
	assert.Equal(t, []uint8{0, 255, 0}, []uint8{r, g, b})
	r, g, b = f.At(1, 0)
	assert.Equal(t, []uint8{0, 0, 255}, []uint8{r, g, b})

	assert.Equal(t, im.Pix, f.Image().Pix)
}

func TestFrameFromImageNotSquare(t *testing.T) {
	assert.Panics(t, func() {
		FrameFromImage(image.NewRGBA(image.Rect(0, 0, 2, 3)))
	})
	assert.Panics(t, func() { NewFrame(0) })
}

func TestFeatures(t *testing.T) {
	f := NewFrame(1)
	f.Pix[0], f.Pix[1], f.Pix[2] = 255, 0, 51

	assert.InDeltaSlice(t, []float64{1, 0, 0.2}, f.Features(), 1e-12)
}

func TestFrameEqual(t *testing.T) {
	a, b := NewFrame(2), NewFrame(2)
	assert.True(t, a.Equal(b))

	b.Pix[5] = 1
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(NewFrame(3)))

	assert.True(t, Frame{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestNewTransition(t *testing.T) {
	state, next := NewFrame(1), NewFrame(1)
	tr := NewTransition(state, 2, -0.1, next, false)

	assert.Equal(t, 2, tr.Action)
	assert.Equal(t, -0.1, tr.Reward)
	assert.False(t, tr.Done)
	assert.Contains(t, tr.String(), "Action: 2")
}
