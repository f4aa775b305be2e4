// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosuri/uilive"
)

// ProgressBar implements a progress bar that must be manually managed.
// That is, Display must be called whenever an updated progress bar
// should be printed. The bar is redrawn in place.
//
// ProgressBar does not use concurrency.
type ProgressBar struct {
	width           int
	maxProgress     int
	currentProgress int
	status          string
	startTime       time.Time
	writer          *uilive.Writer
}

// New returns a new ProgressBar that is width characters wide and
// reaches 100% after max calls to Increment
func New(out io.Writer, width, max int) *ProgressBar {
	if width < 1 || max < 1 {
		panic(fmt.Sprintf("new: width and max must be positive, "+
			"have(%v, %v)", width, max))
	}

	writer := uilive.New()
	writer.Out = out

	return &ProgressBar{
		width:       width,
		maxProgress: max,
		startTime:   time.Now(),
		writer:      writer,
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// SetStatus sets a message which is displayed after the bar
func (p *ProgressBar) SetStatus(format string, args ...interface{}) {
	p.status = fmt.Sprintf(format, args...)
}

// Progress returns the fraction of the bar which is complete
func (p *ProgressBar) Progress() float64 {
	return float64(p.currentProgress) / float64(p.maxProgress)
}

// String returns the current progress bar
func (p *ProgressBar) String() string {
	var bar strings.Builder
	filled := p.currentProgress * p.width / p.maxProgress

	bar.WriteString("|")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))
	bar.WriteString(fmt.Sprintf("| [%.2f%% | elapsed: %v]",
		p.Progress()*100, time.Since(p.startTime).Truncate(time.Second)))

	if p.status != "" {
		bar.WriteString(" ")
		bar.WriteString(p.status)
	}
	return bar.String()
}

// Display redraws the progress bar
func (p *ProgressBar) Display() error {
	if _, err := fmt.Fprintln(p.writer, p.String()); err != nil {
		return fmt.Errorf("display: %v", err)
	}
	return p.writer.Flush()
}
