// Package checkpointer saves serializable objects, such as learned
// models, to disk at regular intervals during an experiment
package checkpointer

import (
	"encoding/gob"
	"fmt"
	"io/ioutil"
)

// Serializable is an object that can be saved/serialized
type Serializable interface {
	gob.GobEncoder
	gob.GobDecoder
}

// Checkpointer checkpoints/saves serializable objects based on the
// current iteration of an experiment
type Checkpointer interface {
	Checkpoint(iteration int) error
}

// Save gob encodes object and writes it to filename
func Save(filename string, object Serializable) error {
	data, err := object.GobEncode()
	if err != nil {
		return fmt.Errorf("save: could not encode object: %v", err)
	}

	if err := ioutil.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("save: could not write checkpoint: %v", err)
	}
	return nil
}

// Load restores object from a checkpoint saved in filename
func Load(filename string, object Serializable) error {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("load: could not read checkpoint: %v", err)
	}

	if err := object.GobDecode(data); err != nil {
		return fmt.Errorf("load: could not decode checkpoint: %v", err)
	}
	return nil
}
