package initwfn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestUnmarshalJSON(t *testing.T) {
	tests := []struct {
		data string
		want Config
	}{
		{`{"Type": "GlorotU", "Config": {"Gain": 1}}`, GlorotUConfig{1}},
		{`{"Type": "GlorotN", "Config": {"Gain": 2}}`, GlorotNConfig{2}},
		{`{"Type": "HeU", "Config": {"Gain": 1}}`, HeUConfig{1}},
		{`{"Type": "HeN", "Config": {"Gain": 1}}`, HeNConfig{1}},
		{`{"Type": "Zeroes"}`, ZeroesConfig{}},
		{`{"Type": "Constant", "Config": {"Value": 0.5}}`,
			ConstantConfig{0.5}},
		{`{"Type": "Uniform", "Config": {"Low": -1, "High": 1}}`,
			UniformConfig{-1, 1}},
		{`{"Type": "Gaussian", "Config": {"Mean": 0, "StdDev": 0.1}}`,
			GaussianConfig{0, 0.1}},
	}

	for _, test := range tests {
		t.Run(string(test.want.Type()), func(t *testing.T) {
			var i InitWFn
			require.NoError(t, json.Unmarshal([]byte(test.data), &i))
			assert.Equal(t, test.want, i.Config)
			assert.Equal(t, test.want.Type(), i.Type)
			assert.NotNil(t, i.InitWFn())
		})
	}
}

func TestUnmarshalJSONUnknown(t *testing.T) {
	var i InitWFn
	err := json.Unmarshal([]byte(`{"Type": "Orthogonal"}`), &i)
	assert.Error(t, err)
}

func TestConstantCreate(t *testing.T) {
	init := NewConstant(0.25).InitWFn()
	values := init(tensor.Float64, 2, 3).([]float64)

	require.Len(t, values, 6)
	for _, v := range values {
		assert.Equal(t, 0.25, v)
	}
}
