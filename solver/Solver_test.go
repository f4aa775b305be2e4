package solver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
)

func TestUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		want   Type
		config Config
	}{
		{
			name: "Adam",
			data: `{"Type": "Adam", "Config": {"StepSize": 0.001, ` +
				`"Epsilon": 1e-8, "Beta1": 0.9, "Beta2": 0.999, "Batch": 256}}`,
			want:   Adam,
			config: AdamConfig{0.001, 1e-8, 0.9, 0.999, 256},
		},
		{
			name: "Vanilla",
			data: `{"Type": "Vanilla", "Config": {"StepSize": 0.01, ` +
				`"Batch": 32, "Clip": 1}}`,
			want:   Vanilla,
			config: VanillaConfig{0.01, 32, 1},
		},
		{
			name: "RMSProp",
			data: `{"Type": "RMSProp", "Config": {"StepSize": 0.01, ` +
				`"Epsilon": 1e-6, "Rho": 0.9, "Batch": 1}}`,
			want:   RMSProp,
			config: RMSPropConfig{0.01, 1e-6, 0.9, 1, 0},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var s Solver
			require.NoError(t, json.Unmarshal([]byte(test.data), &s))
			assert.Equal(t, test.want, s.Type)
			assert.Equal(t, test.config, s.Config)
			assert.NotNil(t, s.Solver)
		})
	}
}

func TestUnmarshalJSONUnknown(t *testing.T) {
	var s Solver
	err := json.Unmarshal([]byte(`{"Type": "SGD", "Config": {}}`), &s)
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	s, err := NewDefaultAdam(1e-3, 64)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Solver
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s.Type, decoded.Type)
	assert.Equal(t, s.Config, decoded.Config)
	_, ok := decoded.Solver.(*G.AdamSolver)
	assert.True(t, ok)
}

func TestNewSolverInvalidType(t *testing.T) {
	_, err := newSolver(Adam, VanillaConfig{})
	assert.Error(t, err)
}
