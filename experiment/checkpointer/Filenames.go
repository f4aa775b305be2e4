package checkpointer

import (
	"fmt"
	"time"
)

// FilenameEnumerator returns a function which returns filenames with an
// integer counter suffix, starting at start+1. Each call increments the
// counter, so consecutive checkpoints are saved as, for example,
// model1.bin, model2.bin, and so on. The filename parameter is the full
// filename with its path, and extension includes the leading dot.
func FilenameEnumerator(start int, filename, extension string) func() string {
	i := start
	return func() string {
		i++
		return fmt.Sprintf("%v%v%v", filename, i, extension)
	}
}

// FileTimer returns a function which appends the current Unix time in
// nanoseconds to filename
func FileTimer(filename, extension string) func() string {
	return func() string {
		return fmt.Sprintf("%v-%v%v", filename, time.Now().UnixNano(),
			extension)
	}
}
