// Package trackers implements Trackers, which track and save data
// generated by the episodes of an experiment
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/mazerl/timestep"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)

	// Data returns one value per finished episode
	Data() []float64

	// Save saves the tracked data to disk
	Save() error
}

// save gob encodes data to a new file called filename
func save(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %v", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loaddata: could not open data file: %v", err)
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loaddata: could not decode data: %v", err)
	}
	return data, nil
}
