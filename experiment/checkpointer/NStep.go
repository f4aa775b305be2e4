package checkpointer

import "fmt"

// nStep implements checkpointing every N iterations
type nStep struct {
	interval int
	object   Serializable // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each serialized object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.bin, file2.bin, ..., fileK.bin), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	//
	// Otherwise, if each serialized object should be saved in a
	// separate file, but the filename does not matter, use the
	// static function FileTimer to generate the required naming
	// function. For example:
	//
	// n := NewNStep(10, object, FileTimer("filename", ".bin"))
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n iterations.
func NewNStep(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNStep: checkpoint interval must be "+
			"positive, have(%v)", n)
	}
	if object == nil || filename == nil {
		return nil, fmt.Errorf("newNStep: object and filename function " +
			"must be non-nil")
	}

	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the Checkpointer's tracked object if iteration is a
// multiple of the checkpoint interval. Iteration 0 is never saved.
func (n *nStep) Checkpoint(iteration int) error {
	if iteration > 0 && iteration%n.interval == 0 {
		return Save(n.filename(), n.object)
	}
	return nil
}
