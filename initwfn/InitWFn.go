// Package initwfn wraps Gorgonia InitWFn so that weight initializers
// can be described in a JSON configuration file.
package initwfn

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Zeroes   Type = "Zeroes"
	Constant Type = "Constant"
	Uniform  Type = "Uniform"
	Gaussian Type = "Gaussian"
)

// Config describes a Gorgonia InitWFn
type Config interface {
	// Create returns the Gorgonia InitWFn that the Config describes
	Create() G.InitWFn

	// Type returns the type of Gorgonia InitWFn that is returned
	Type() Type
}

// InitWFn wraps Gorgonia InitWFn so that they can be JSON marshalled and
// unmarshalled.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

func newInitWFn(c Config) *InitWFn {
	return &InitWFn{initWFn: c.Create(), Type: c.Type(), Config: c}
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.initWFn
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	var config Config
	var err error
	switch raw.Type {
	case GlorotU:
		c := GlorotUConfig{}
		err = unmarshalConfig(raw.Config, &c)
		config = c
	case GlorotN:
		c := GlorotNConfig{}
		err = unmarshalConfig(raw.Config, &c)
		config = c
	case HeU:
		c := HeUConfig{}
		err = unmarshalConfig(raw.Config, &c)
		config = c
	case HeN:
		c := HeNConfig{}
		err = unmarshalConfig(raw.Config, &c)
		config = c
	case Zeroes:
		config = ZeroesConfig{}
	case Constant:
		c := ConstantConfig{}
		err = unmarshalConfig(raw.Config, &c)
		config = c
	case Uniform:
		c := UniformConfig{}
		err = unmarshalConfig(raw.Config, &c)
		config = c
	case Gaussian:
		c := GaussianConfig{}
		err = unmarshalConfig(raw.Config, &c)
		config = c
	default:
		return fmt.Errorf("unmarshaljson: unknown initializer type %q",
			raw.Type)
	}
	if err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	*i = *newInitWFn(config)
	return nil
}

// unmarshalConfig decodes data into config, leaving config untouched if
// data is empty
func unmarshalConfig(data json.RawMessage, config interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, config)
}

// GlorotUConfig describes the Glorot uniform initializer
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) *InitWFn {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type implements the Config interface
func (g GlorotUConfig) Type() Type { return GlorotU }

// Create implements the Config interface
func (g GlorotUConfig) Create() G.InitWFn { return G.GlorotU(g.Gain) }

// GlorotNConfig describes the Glorot normal initializer
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a new Glorot Normal weight initializer
func NewGlorotN(gain float64) *InitWFn {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type implements the Config interface
func (g GlorotNConfig) Type() Type { return GlorotN }

// Create implements the Config interface
func (g GlorotNConfig) Create() G.InitWFn { return G.GlorotN(g.Gain) }

// HeUConfig describes the He uniform initializer
type HeUConfig struct {
	Gain float64
}

// NewHeU returns a new He Uniform weight initializer
func NewHeU(gain float64) *InitWFn {
	return newInitWFn(HeUConfig{Gain: gain})
}

// Type implements the Config interface
func (h HeUConfig) Type() Type { return HeU }

// Create implements the Config interface
func (h HeUConfig) Create() G.InitWFn { return G.HeU(h.Gain) }

// HeNConfig describes the He normal initializer
type HeNConfig struct {
	Gain float64
}

// NewHeN returns a new He Normal weight initializer
func NewHeN(gain float64) *InitWFn {
	return newInitWFn(HeNConfig{Gain: gain})
}

// Type implements the Config interface
func (h HeNConfig) Type() Type { return HeN }

// Create implements the Config interface
func (h HeNConfig) Create() G.InitWFn { return G.HeN(h.Gain) }

// ZeroesConfig describes an initializer setting all weights to 0
type ZeroesConfig struct{}

// NewZeroes returns a new zero weight intializer
func NewZeroes() *InitWFn {
	return newInitWFn(ZeroesConfig{})
}

// Type implements the Config interface
func (z ZeroesConfig) Type() Type { return Zeroes }

// Create implements the Config interface
func (z ZeroesConfig) Create() G.InitWFn { return G.Zeroes() }

// ConstantConfig describes an initializer setting all weights to Value
type ConstantConfig struct {
	Value float64
}

// NewConstant returns a new constant weight intializer
func NewConstant(value float64) *InitWFn {
	return newInitWFn(ConstantConfig{Value: value})
}

// Type implements the Config interface
func (c ConstantConfig) Type() Type { return Constant }

// Create implements the Config interface
func (c ConstantConfig) Create() G.InitWFn { return G.ValuesOf(c.Value) }

// UniformConfig describes an initializer drawing weights from
// U[Low, High)
type UniformConfig struct {
	Low, High float64
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64) *InitWFn {
	return newInitWFn(UniformConfig{Low: low, High: high})
}

// Type implements the Config interface
func (u UniformConfig) Type() Type { return Uniform }

// Create implements the Config interface
func (u UniformConfig) Create() G.InitWFn { return G.Uniform(u.Low, u.High) }

// GaussianConfig describes an initializer drawing weights from
// N(Mean, StdDev²)
type GaussianConfig struct {
	Mean, StdDev float64
}

// NewGaussian returns a new gaussian weight initializer
func NewGaussian(mean, stddev float64) *InitWFn {
	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev})
}

// Type implements the Config interface
func (g GaussianConfig) Type() Type { return Gaussian }

// Create implements the Config interface
func (g GaussianConfig) Create() G.InitWFn {
	return G.Gaussian(g.Mean, g.StdDev)
}
