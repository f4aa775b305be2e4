package network

import (
	"bytes"
	"encoding/gob"
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Layer is a single layer of a feed forward network
type Layer interface {
	fwd(*G.Node) (*G.Node, error)

	// CloneTo clones the layer, including its weights, to a new graph
	CloneTo(g *G.ExprGraph) Layer

	Weights() *G.Node
	Bias() *G.Node
	Activation() *Activation
}

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// newFCLayer adds the weights of a new fully connected layer to g
func newFCLayer(g *G.ExprGraph, in, out int, bias bool, act *Activation,
	init G.InitWFn, name string) *fcLayer {
	weights := G.NewMatrix(g, tensor.Float64, G.WithShape(in, out),
		G.WithName(name+"W"), G.WithInit(init))

	var b *G.Node
	if bias {
		b = G.NewMatrix(g, tensor.Float64, G.WithShape(1, out),
			G.WithName(name+"B"), G.WithInit(G.Zeroes()))
	}

	return &fcLayer{weights: weights, bias: b, act: act}
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x, err := G.Mul(x, f.weights)
	if err != nil {
		return nil, err
	}

	if f.bias != nil {
		// Broadcast the bias weights to all samples along the batch
		// dimension
		x, err = G.BroadcastAdd(x, f.bias, nil, []byte{0})
		if err != nil {
			return nil, err
		}
	}

	if f.act == nil || f.act.IsIdentity() {
		return x, nil
	}
	return f.act.fwd(x)
}

// CloneTo clones an fcLayer to a new computational graph
func (f *fcLayer) CloneTo(g *G.ExprGraph) Layer {
	var bias *G.Node
	if f.bias != nil {
		bias = f.bias.CloneTo(g)
	}

	return &fcLayer{
		weights: f.weights.CloneTo(g),
		bias:    bias,
		act:     f.act,
	}
}

// Activation returns the activation function of the layer
func (f *fcLayer) Activation() *Activation {
	return f.act
}

// Bias returns the bias node of the layer, which is nil if the layer
// has no bias
func (f *fcLayer) Bias() *G.Node {
	return f.bias
}

// Weights returns the weight node of the layer
func (f *fcLayer) Weights() *G.Node {
	return f.weights
}

// GobEncode implements the gob.GobEncoder interface. Only the weight
// values are encoded; the architecture is encoded by the network.
func (f *fcLayer) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(nodeData(f.weights)); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode weights: %v", err)
	}

	var bias []float64
	if f.bias != nil {
		bias = nodeData(f.bias)
	}
	if err := enc.Encode(bias); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode bias: %v", err)
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The layer must
// already exist in a graph with the encoded architecture; its weight
// values are overwritten in place.
func (f *fcLayer) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var weights []float64
	if err := dec.Decode(&weights); err != nil {
		return fmt.Errorf("gobdecode: could not decode weights: %v", err)
	}
	if err := setNodeData(f.weights, weights); err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}

	var bias []float64
	if err := dec.Decode(&bias); err != nil {
		return fmt.Errorf("gobdecode: could not decode bias: %v", err)
	}
	if f.bias != nil {
		if err := setNodeData(f.bias, bias); err != nil {
			return fmt.Errorf("gobdecode: %v", err)
		}
	} else if len(bias) != 0 {
		return fmt.Errorf("gobdecode: bias encoded for layer without bias")
	}

	return nil
}

// nodeData returns the backing data of a float64 node
func nodeData(n *G.Node) []float64 {
	return n.Value().Data().([]float64)
}

// setNodeData copies data into the value bound to node n
func setNodeData(n *G.Node, data []float64) error {
	dst := nodeData(n)
	if len(dst) != len(data) {
		return fmt.Errorf("setnodedata: node %v holds %v values, have(%v)",
			n.Name(), len(dst), len(data))
	}
	copy(dst, data)
	return nil
}
