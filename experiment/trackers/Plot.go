package trackers

import (
	"fmt"

	"github.com/samuelfneumann/mazerl/utils/intutils"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is a named sequence of per-episode values
type Series struct {
	Name string
	Data []float64
}

// MovingAverage returns the trailing mean of data over windows of the
// given size. The first window-1 values average over fewer elements.
func MovingAverage(data []float64, window int) []float64 {
	window = intutils.Max(window, 1)

	out := make([]float64, len(data))
	for i := range data {
		start := intutils.Max(i-window+1, 0)
		out[i] = stat.Mean(data[start:i+1], nil)
	}
	return out
}

// Plot draws each series as a line against the episode number and saves
// the figure to filename. The image format is determined by the
// extension of filename.
func Plot(filename, title, yLabel string, series ...Series) error {
	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = yLabel

	for i, s := range series {
		points := make(plotter.XYs, len(s.Data))
		for j, v := range s.Data {
			points[j] = plotter.XY{
				X: float64(j),
				Y: v,
			}
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("plot: could not plot series %v: %v", s.Name,
				err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, filename); err != nil {
		return fmt.Errorf("plot: could not save figure: %v", err)
	}
	return nil
}
