package timestep

import (
	"fmt"
	"image"
	"image/color"
)

// Channels is the number of colour channels stored per pixel of a Frame
const Channels = 3

// Frame is a square RGB raster observation of an environment. Pixels are
// stored in row major order with Channels bytes per pixel.
//
// Frames are treated as immutable once created: environments hand out
// fresh Frames on every render, and Transitions keep references to them.
type Frame struct {
	Size int
	Pix  []uint8
}

// NewFrame returns a new, black Frame of the given side length
func NewFrame(size int) Frame {
	if size < 1 {
		panic(fmt.Sprintf("newframe: frame size must be positive, have(%v)",
			size))
	}
	return Frame{Size: size, Pix: make([]uint8, size*size*Channels)}
}

// FrameFromImage copies the RGB channels of a square image into a
// new Frame. The alpha channel is discarded.
func FrameFromImage(im *image.RGBA) Frame {
	bounds := im.Bounds()
	if bounds.Dx() != bounds.Dy() {
		panic(fmt.Sprintf("framefromimage: image must be square\n\t"+
			"have(%v x %v)", bounds.Dx(), bounds.Dy()))
	}

	f := NewFrame(bounds.Dx())
	for y := 0; y < f.Size; y++ {
		row := im.Pix[y*im.Stride:]
		for x := 0; x < f.Size; x++ {
			copy(f.Pix[(y*f.Size+x)*Channels:], row[x*4:x*4+Channels])
		}
	}
	return f
}

// IsZero returns whether the Frame holds no data
func (f Frame) IsZero() bool {
	return f.Size == 0 && f.Pix == nil
}

// At returns the RGB value of the pixel at row y and column x
func (f Frame) At(y, x int) (r, g, b uint8) {
	i := (y*f.Size + x) * Channels
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Len returns the number of features in the Frame, that is the length
// of the vector returned by Features()
func (f Frame) Len() int {
	return len(f.Pix)
}

// Features returns the Frame as a flat feature vector with every
// channel value scaled to [0, 1]. This is the input given to function
// approximators.
func (f Frame) Features() []float64 {
	features := make([]float64, len(f.Pix))
	for i, v := range f.Pix {
		features[i] = float64(v) / 255.0
	}
	return features
}

// Image returns the Frame as an image.RGBA, for saving or display
func (f Frame) Image() *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, f.Size, f.Size))
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			r, g, b := f.At(y, x)
			im.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return im
}

// Equal returns whether two Frames hold identical pixels
func (f Frame) Equal(other Frame) bool {
	if f.Size != other.Size || len(f.Pix) != len(other.Pix) {
		return false
	}
	for i := range f.Pix {
		if f.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}
