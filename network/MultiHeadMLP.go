package network

import (
	"bytes"
	"encoding/gob"
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// multiHeadMLP implements a multi-layered perceptron with multiple
// output nodes, one for each value that should be predicted. For the
// maze learners, each output head predicts the value of one action.
type multiHeadMLP struct {
	g          *G.ExprGraph
	layers     []Layer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	// Data needed for gobbing
	hiddenSizes []int
	biases      []bool
	activations []*Activation

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewMultiHeadMLP creates and returns a new multi-layered perceptron
// that has outputs output nodes. The graph parameter g is populated
// with the MLP.
//
// The MLP has len(hiddenSizes) + 1 layers. For index i, hiddenSizes[i]
// is the number of nodes in hidden layer i, biases[i] is whether that
// layer has a bias unit, and activations[i] is its activation. A final
// linear layer with a bias unit is always added so that the network
// has outputs outputs. The parameter init determines the weight
// initialization scheme.
//
// A linear function approximator is created by setting hiddenSizes,
// biases, and activations to empty slices.
func NewMultiHeadMLP(features, batch, outputs int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*Activation) (NeuralNet, error) {
	if len(hiddenSizes) != len(activations) {
		msg := "newmultiheadmlp: invalid number of activations" +
			"\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		msg := "newmultiheadmlp: invalid number of biases\n\twant(%d)" +
			"\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(biases))
	}
	if features < 1 || batch < 1 || outputs < 1 {
		return nil, fmt.Errorf("newmultiheadmlp: features, batch, and "+
			"outputs must be positive\n\thave(%v, %v, %v)", features, batch,
			outputs)
	}

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Add the final linear layer without modifying the caller's slices
	sizes := append(append([]int{}, hiddenSizes...), outputs)
	bias := append(append([]bool{}, biases...), true)
	acts := append(append([]*Activation{}, activations...), Identity())

	layers := make([]Layer, len(sizes))
	in := features
	for i := range sizes {
		layers[i] = newFCLayer(g, in, sizes[i], bias[i], acts[i], init,
			fmt.Sprintf("L%d", i))
		in = sizes[i]
	}

	network := &multiHeadMLP{
		g:           g,
		layers:      layers,
		input:       input,
		numOutputs:  outputs,
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: sizes,
		biases:      bias,
		activations: acts,
	}
	if _, err := network.fwd(input); err != nil {
		msg := "newmultiheadmlp: could not compute forward pass: %v"
		return nil, fmt.Errorf(msg, err)
	}

	return network, nil
}

// Graph returns the computational graph of the multiHeadMLP.
func (e *multiHeadMLP) Graph() *G.ExprGraph {
	return e.g
}

// CloneWithBatch clones a multiHeadMLP, including its current weights,
// to a new graph with a new input batch size.
func (e *multiHeadMLP) CloneWithBatch(batchSize int) (NeuralNet, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("clonewithbatch: batch size must be "+
			"positive, have(%v)", batchSize)
	}

	graph := G.NewGraph()
	input := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(batchSize, e.numInputs),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	layers := make([]Layer, len(e.layers))
	for i := range e.layers {
		layers[i] = e.layers[i].CloneTo(graph)
	}

	network := &multiHeadMLP{
		g:           graph,
		layers:      layers,
		input:       input,
		numOutputs:  e.numOutputs,
		numInputs:   e.numInputs,
		batchSize:   batchSize,
		hiddenSizes: e.hiddenSizes,
		biases:      e.biases,
		activations: e.activations,
	}
	if _, err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("clonewithbatch: could not clone: %v", err)
	}

	return network, nil
}

// BatchSize returns the batch size of inputs to the network
func (e *multiHeadMLP) BatchSize() int {
	return e.batchSize
}

// Features returns the number of features in a single input vector
func (e *multiHeadMLP) Features() int {
	return e.numInputs
}

// Outputs returns the number of outputs from the network
func (e *multiHeadMLP) Outputs() int {
	return e.numOutputs
}

// SetInput sets the value of the input node before running the forward
// pass.
func (e *multiHeadMLP) SetInput(input []float64) error {
	if len(input) != e.numInputs*e.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", e.numInputs*e.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(e.input.Shape()...),
	)
	return G.Let(e.input, inputTensor)
}

// Set sets the weights of a multiHeadMLP to be equal to the
// weights of another multiHeadMLP. Weights are copied in place so that
// VMs already compiled on either graph remain valid.
func (e *multiHeadMLP) Set(source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := e.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("set: incompatible networks\n\twant(%v "+
			"learnables)\n\thave(%v)", len(nodes), len(sourceNodes))
	}

	for i := range nodes {
		if err := setNodeData(nodes[i], nodeData(sourceNodes[i])); err != nil {
			return fmt.Errorf("set: %v", err)
		}
	}
	return nil
}

// Learnables returns the learnable nodes in a multiHeadMLP
func (e *multiHeadMLP) Learnables() G.Nodes {
	if e.learnables == nil {
		learnables := make([]*G.Node, 0, 2*len(e.layers))
		for i := range e.layers {
			learnables = append(learnables, e.layers[i].Weights())
			if bias := e.layers[i].Bias(); bias != nil {
				learnables = append(learnables, bias)
			}
		}
		e.learnables = G.Nodes(learnables)
	}
	return e.learnables
}

// Model returns the learnables nodes with their gradients.
func (e *multiHeadMLP) Model() []G.ValueGrad {
	if e.model == nil {
		e.model = G.NodesToValueGrads(e.Learnables())
	}
	return e.model
}

// fwd performs the forward pass of the multiHeadMLP on the input
// node
func (e *multiHeadMLP) fwd(input *G.Node) (*G.Node, error) {
	if features := input.Shape()[1]; features != e.numInputs {
		return nil, fmt.Errorf("fwd: invalid shape for input to neural net:"+
			" \n\twant(%v) \n\thave(%v)", e.numInputs, features)
	}

	pred := input
	var err error
	for i, l := range e.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	e.prediction = pred
	G.Read(e.prediction, &e.predVal)

	return pred, nil
}

// Output returns the output of the multiHeadMLP computed by the last
// run of a VM
func (e *multiHeadMLP) Output() G.Value {
	return e.predVal
}

// Prediction returns the node of the computational graph the stores
// the output of the multiHeadMLP
func (e *multiHeadMLP) Prediction() *G.Node {
	return e.prediction
}

// GobEncode implements the gob.GobEncoder interface
func (e *multiHeadMLP) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	header := []interface{}{e.numInputs, e.BatchSize(), e.numOutputs,
		e.hiddenSizes, e.biases, e.activations}
	for _, field := range header {
		if err := enc.Encode(field); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode "+
				"architecture: %v", err)
		}
	}

	for i, layer := range e.layers {
		if err := enc.Encode(layer); err != nil {
			msg := "gobencode: could not encode layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The decoded
// network lives in a new computational graph.
func (e *multiHeadMLP) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var numInputs, batchSize, numOutputs int
	var hiddenSizes []int
	var biases []bool
	var activations []*Activation
	header := []interface{}{&numInputs, &batchSize, &numOutputs,
		&hiddenSizes, &biases, &activations}
	for _, field := range header {
		if err := dec.Decode(field); err != nil {
			return fmt.Errorf("gobdecode: could not decode "+
				"architecture: %v", err)
		}
	}
	if len(hiddenSizes) == 0 || len(hiddenSizes) != len(biases) ||
		len(hiddenSizes) != len(activations) {
		return fmt.Errorf("gobdecode: corrupt architecture")
	}

	// The final layer is re-added by NewMultiHeadMLP
	last := len(hiddenSizes) - 1
	newNet, err := NewMultiHeadMLP(numInputs, batchSize, numOutputs,
		G.NewGraph(), hiddenSizes[:last], biases[:last], G.Zeroes(),
		activations[:last])
	if err != nil {
		return fmt.Errorf("gobdecode: could not construct new MLP: %v", err)
	}
	newMLP := newNet.(*multiHeadMLP)

	for i := range newMLP.layers {
		if err := dec.Decode(newMLP.layers[i]); err != nil {
			return fmt.Errorf("gobdecode: could not decode layer %v: %v", i,
				err)
		}
	}

	*e = *newMLP
	return nil
}

// NewFromGob decodes a network encoded with gob
func NewFromGob(data []byte) (NeuralNet, error) {
	net := &multiHeadMLP{}
	if err := net.GobDecode(data); err != nil {
		return nil, err
	}
	return net, nil
}
