// Package policy implements action selection with neural network
// action-value functions built with Gorgonia.
package policy

import (
	"fmt"

	"github.com/samuelfneumann/mazerl/network"
	"github.com/samuelfneumann/mazerl/utils/floatutils"
	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
)

// GreedyMLP implements a greedy policy using a feedforward neural
// network/MLP. Given an environment with N actions, the neural network
// produces N outputs, each predicting the value of a distinct action.
//
// Unlike the networks in package network, a GreedyMLP owns the VM that
// runs its computational graph. Action values are computed for a single
// observation at a time:
//
//	Set input to policy's network:	net.SetInput(obs)
//	Predict the action values:		vm.RunAll()
//	Select an action:				argmax over the action values
type GreedyMLP struct {
	net network.NeuralNet
	vm  G.VM

	rng *rand.Rand
}

// NewGreedyMLP creates and returns a new GreedyMLP. The hiddenSizes
// parameter defines the number of nodes in each hidden layer. The
// biases parameter outlines which layers should include bias units.
// The activations parameter determines the activation function for
// each layer. A final linear layer with one output per action is
// always added.
func NewGreedyMLP(features, actions int, hiddenSizes []int, biases []bool,
	init G.InitWFn, activations []*network.Activation,
	seed uint64) (*GreedyMLP, error) {
	net, err := network.NewMultiHeadMLP(features, 1, actions, G.NewGraph(),
		hiddenSizes, biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newgreedymlp: could not create policy: %v",
			err)
	}

	return FromNetwork(net, seed)
}

// FromNetwork returns a GreedyMLP that selects actions with net. The
// network must take a batch of a single observation.
func FromNetwork(net network.NeuralNet, seed uint64) (*GreedyMLP, error) {
	if net.BatchSize() != 1 {
		return nil, fmt.Errorf("fromnetwork: policy network must have "+
			"batch size 1, have(%v)", net.BatchSize())
	}

	return &GreedyMLP{
		net: net,
		vm:  G.NewTapeMachine(net.Graph()),
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// Network returns the neural network function approximator that the
// policy uses.
func (g *GreedyMLP) Network() network.NeuralNet {
	return g.net
}

// ActionValues runs the network on a single observation and returns
// the predicted action values
func (g *GreedyMLP) ActionValues(obs []float64) ([]float64, error) {
	if err := g.net.SetInput(obs); err != nil {
		return nil, fmt.Errorf("actionvalues: %v", err)
	}
	defer g.vm.Reset()

	if err := g.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("actionvalues: could not run policy: %v", err)
	}

	values := g.net.Output().Data().([]float64)
	return append([]float64{}, values...), nil
}

// SelectAction returns the action of maximum predicted value in the
// observation. Ties are broken uniformly at random.
func (g *GreedyMLP) SelectAction(obs []float64) (int, error) {
	values, err := g.ActionValues(obs)
	if err != nil {
		return 0, fmt.Errorf("selectaction: %v", err)
	}

	_, maxIndices := floatutils.MaxSlice(values)
	return maxIndices[g.rng.Intn(len(maxIndices))], nil
}

// Close releases the resources held by the policy's VM
func (g *GreedyMLP) Close() error {
	return g.vm.Close()
}
