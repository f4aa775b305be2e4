// Package deepq implements an action-value Model trained by regression
// onto externally computed targets, as in deep Q-learning with the MSE
// loss.
package deepq

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/mazerl/agent"
	"github.com/samuelfneumann/mazerl/agent/nonlinear/discrete/policy"
	"github.com/samuelfneumann/mazerl/network"
	"github.com/samuelfneumann/mazerl/solver"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// trainer is a copy of the policy network which takes batches of a
// fixed size, together with the MSE loss and the VM to compute its
// gradient
type trainer struct {
	net     network.NeuralNet
	targets *G.Node
	lossVal G.Value
	vm      G.VM
}

// DeepQ implements an agent.Model with a feed forward neural network.
// Action values are predicted by a network taking a single observation,
// and Fit performs one gradient step of the MSE between the predicted
// and target action values over the whole batch.
//
// Training networks are created lazily, one for each batch size passed
// to Fit, and share weights with the policy network.
type DeepQ struct {
	policy *policy.GreedyMLP

	trainers map[int]*trainer
	solver   *solver.Solver

	features   int
	numActions int
	seed       uint64

	updates  int
	lastLoss float64

	logger zerolog.Logger
}

var _ agent.Model = &DeepQ{}

// New creates and returns a new DeepQ model taking observations with
// features features and predicting the values of actions actions.
func New(features, actions int, config Config, seed uint64) (*DeepQ,
	error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	p, err := policy.NewGreedyMLP(features, actions, config.PolicyLayers,
		config.Biases, config.InitWFn.InitWFn(), config.Activations, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &DeepQ{
		policy:     p,
		trainers:   make(map[int]*trainer),
		solver:     config.Solver,
		features:   features,
		numActions: actions,
		seed:       seed,
		logger:     zerolog.Nop(),
	}, nil
}

// SetLogger sets the logger used to report training progress
func (d *DeepQ) SetLogger(logger zerolog.Logger) {
	d.logger = logger
}

// SelectAction returns the greedy action in obs
func (d *DeepQ) SelectAction(obs []float64) (int, error) {
	return d.policy.SelectAction(obs)
}

// ActionValues returns the predicted action values in obs
func (d *DeepQ) ActionValues(obs []float64) ([]float64, error) {
	return d.policy.ActionValues(obs)
}

// Fit performs a single gradient step on the mean squared error
// between the predicted action values of states and targets.
func (d *DeepQ) Fit(states, targets [][]float64) error {
	if len(states) != len(targets) {
		return fmt.Errorf("fit: number of states (%v) != number of "+
			"targets (%v)", len(states), len(targets))
	}
	if len(states) == 0 {
		return fmt.Errorf("fit: cannot fit an empty batch")
	}

	batch := len(states)
	inputs := make([]float64, 0, batch*d.features)
	outputs := make([]float64, 0, batch*d.numActions)
	for i := range states {
		if len(states[i]) != d.features {
			return fmt.Errorf("fit: invalid number of features in state %v"+
				"\n\twant(%v)\n\thave(%v)", i, d.features, len(states[i]))
		}
		if len(targets[i]) != d.numActions {
			return fmt.Errorf("fit: invalid number of targets in row %v"+
				"\n\twant(%v)\n\thave(%v)", i, d.numActions, len(targets[i]))
		}
		inputs = append(inputs, states[i]...)
		outputs = append(outputs, targets[i]...)
	}

	t, err := d.trainer(batch)
	if err != nil {
		return fmt.Errorf("fit: %v", err)
	}

	// Start from the current policy weights
	if err := t.net.Set(d.policy.Network()); err != nil {
		return fmt.Errorf("fit: could not sync training network: %v", err)
	}
	if err := t.net.SetInput(inputs); err != nil {
		return fmt.Errorf("fit: %v", err)
	}
	targetTensor := tensor.New(
		tensor.WithShape(batch, d.numActions),
		tensor.WithBacking(outputs),
	)
	if err := G.Let(t.targets, targetTensor); err != nil {
		return fmt.Errorf("fit: could not set targets: %v", err)
	}

	if err := t.vm.RunAll(); err != nil {
		t.vm.Reset()
		return fmt.Errorf("fit: could not compute gradient: %v", err)
	}
	if err := d.solver.Step(t.net.Model()); err != nil {
		t.vm.Reset()
		return fmt.Errorf("fit: could not step solver: %v", err)
	}
	t.vm.Reset()

	if err := d.policy.Network().Set(t.net); err != nil {
		return fmt.Errorf("fit: could not sync policy network: %v", err)
	}

	d.updates++
	d.lastLoss = t.lossVal.Data().(float64)
	d.logger.Debug().
		Int("update", d.updates).
		Int("batch", batch).
		Float64("loss", d.lastLoss).
		Msg("fit")

	return nil
}

// trainer returns the training network for batches of size batch,
// creating it if needed
func (d *DeepQ) trainer(batch int) (*trainer, error) {
	if t, ok := d.trainers[batch]; ok {
		return t, nil
	}

	net, err := d.policy.Network().CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("could not create training network: %v", err)
	}
	g := net.Graph()

	targets := G.NewMatrix(g, tensor.Float64,
		G.WithShape(batch, d.numActions), G.WithName("targets"),
		G.WithInit(G.Zeroes()))

	// Mean squared error over all outputs. Entries of the target equal
	// to the prediction contribute no gradient.
	loss := G.Must(G.Sub(net.Prediction(), targets))
	loss = G.Must(G.Square(loss))
	loss = G.Must(G.Mean(loss))

	t := &trainer{net: net, targets: targets}
	G.Read(loss, &t.lossVal)

	if _, err := G.Grad(loss, net.Learnables()...); err != nil {
		return nil, fmt.Errorf("could not compute gradient: %v", err)
	}
	t.vm = G.NewTapeMachine(g, G.BindDualValues(net.Learnables()...))

	d.trainers[batch] = t
	d.logger.Debug().Int("batch", batch).Msg("created training network")

	return t, nil
}

// Loss returns the loss of the most recent call to Fit
func (d *DeepQ) Loss() float64 {
	return d.lastLoss
}

// Updates returns the number of calls to Fit that succeeded
func (d *DeepQ) Updates() int {
	return d.updates
}

// Features returns the number of features in an observation
func (d *DeepQ) Features() int {
	return d.features
}

// NumActions returns the number of actions whose values are predicted
func (d *DeepQ) NumActions() int {
	return d.numActions
}

// Close releases the resources held by the VMs of the model
func (d *DeepQ) Close() error {
	for batch, t := range d.trainers {
		if err := t.vm.Close(); err != nil {
			return fmt.Errorf("close: could not close training VM for "+
				"batch %v: %v", batch, err)
		}
	}
	return d.policy.Close()
}

// GobEncode implements the gob.GobEncoder interface. Only the network
// weights are encoded; the solver state is not.
func (d *DeepQ) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	net, ok := d.policy.Network().(gob.GobEncoder)
	if !ok {
		return nil, fmt.Errorf("gobencode: network not serializable")
	}
	data, err := net.GobEncode()
	if err != nil {
		return nil, fmt.Errorf("gobencode: could not encode network: %v", err)
	}
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode network: %v", err)
	}
	if err := enc.Encode(d.updates); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode updates: %v", err)
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The receiver must
// have been created with New so that it has a solver; its weights are
// replaced by the decoded ones.
func (d *DeepQ) GobDecode(in []byte) error {
	if d.solver == nil {
		return fmt.Errorf("gobdecode: model must be created with New")
	}

	dec := gob.NewDecoder(bytes.NewReader(in))

	var data []byte
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("gobdecode: could not decode network: %v", err)
	}
	net, err := network.NewFromGob(data)
	if err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}
	if net.Features() != d.features || net.Outputs() != d.numActions {
		return fmt.Errorf("gobdecode: decoded network has shape (%v, %v), "+
			"want(%v, %v)", net.Features(), net.Outputs(), d.features,
			d.numActions)
	}

	if err := dec.Decode(&d.updates); err != nil {
		return fmt.Errorf("gobdecode: could not decode updates: %v", err)
	}

	p, err := policy.FromNetwork(net, d.seed)
	if err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}
	if err := d.Close(); err != nil {
		d.logger.Warn().Err(err).Msg("could not close replaced VMs")
	}

	d.policy = p
	d.trainers = make(map[int]*trainer)
	d.solver.Reset()
	return nil
}
