package network

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

type activationType string

const (
	relu     activationType = "relu"
	identity activationType = "identity"
	tanh     activationType = "tanh"
	sigmoid  activationType = "sigmoid"
)

// Activation is an element-wise activation function applied to the
// output of a layer
type Activation struct {
	activationType
	f func(x *G.Node) (*G.Node, error)
}

func (a *Activation) fwd(x *G.Node) (*G.Node, error) {
	return a.f(x)
}

// String implements the fmt.Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// IsIdentity returns whether or not the Activation is the identity
// function.
func (a *Activation) IsIdentity() bool {
	return a.activationType == identity
}

// newActivation returns the Activation of the given type
func newActivation(t activationType) (*Activation, error) {
	switch t {
	case relu:
		return ReLU(), nil
	case identity:
		return Identity(), nil
	case tanh:
		return TanH(), nil
	case sigmoid:
		return Sigmoid(), nil
	default:
		return nil, fmt.Errorf("illegal Activation type %q", string(t))
	}
}

// GobEncode implements the gob.GobEncoder interface
func (a *Activation) GobEncode() ([]byte, error) {
	return []byte(a.activationType), nil
}

// GobDecode implements the gob.GobDecoder interface
func (a *Activation) GobDecode(encoded []byte) error {
	decoded, err := newActivation(activationType(encoded))
	if err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}
	*a = *decoded
	return nil
}

// MarshalJSON implements the json.Marshaler interface
func (a *Activation) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a.activationType))
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (a *Activation) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	decoded, err := newActivation(activationType(name))
	if err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}
	*a = *decoded
	return nil
}

// Identity returns an identity *Activation
func Identity() *Activation {
	return &Activation{
		activationType: identity,
		f: func(x *G.Node) (*G.Node, error) {
			return x, nil
		},
	}
}

// ReLU returns a ReLU *Activation
func ReLU() *Activation {
	return &Activation{
		activationType: relu,
		f:              G.Rectify,
	}
}

// TanH returns a tanh *Activation
func TanH() *Activation {
	return &Activation{
		activationType: tanh,
		f:              G.Tanh,
	}
}

// Sigmoid returns a logistic sigmoid *Activation
func Sigmoid() *Activation {
	return &Activation{
		activationType: sigmoid,
		f:              G.Sigmoid,
	}
}
