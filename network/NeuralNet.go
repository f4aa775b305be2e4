// Package network implements feed forward neural networks on Gorgonia
// computational graphs.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a function approximator built into a computational
// graph. A NeuralNet does not own a VM: the caller compiles Graph() into
// a VM, calls SetInput(), runs the VM, and then reads Output().
type NeuralNet interface {
	Graph() *G.ExprGraph

	// CloneWithBatch returns a copy of the network in a new graph
	// which takes batches of the given size as input
	CloneWithBatch(int) (NeuralNet, error)

	BatchSize() int
	Features() int
	Outputs() int

	// SetInput sets the input of the network to a row major batch of
	// BatchSize() feature vectors
	SetInput([]float64) error

	// Set copies the weights of another network of the same
	// architecture into this network
	Set(NeuralNet) error

	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Output returns the value of Prediction() computed by the last run
	// of a VM on Graph()
	Output() G.Value
	Prediction() *G.Node
}
