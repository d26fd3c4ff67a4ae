package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioMix_CompileEqualWeights(t *testing.T) {
	result := compile(t, &AudioMixOperator{}, 2, map[string]interface{}{})

	assert.Equal(t, "[0:a][1:a]amix=inputs=2[aout]", result.FilterExpression)
	assert.Equal(t, []string{"0:v?", "[aout]"}, result.MapStreams,
		"video passes through from the first input")
}

func TestAudioMix_CompileWeighted(t *testing.T) {
	result := compile(t, &AudioMixOperator{}, 2, map[string]interface{}{
		"weights": "0.7,0.3",
	})

	assert.Equal(t, "[0:a][1:a]amix=inputs=2:weights='0.7 0.3'[aout]",
		result.FilterExpression)
}

func TestAudioMix_ValidateWeights(t *testing.T) {
	op := &AudioMixOperator{}

	assert.NoError(t, op.ValidateParams(map[string]interface{}{"weights": "0.5 0.5"}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{"weights": ""}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{"weights": "0.5,-0.5"}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{"weights": "loud,quiet"}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{"weights": 0.5}))
}

func TestAudioMix_ValidateParamsForInputs(t *testing.T) {
	op := &AudioMixOperator{}

	assert.NoError(t, op.ValidateParamsForInputs(map[string]interface{}{
		"weights": "0.5 0.3 0.2",
	}, 3))
	assert.NoError(t, op.ValidateParamsForInputs(map[string]interface{}{}, 5),
		"omitted weights fit any input count")

	err := op.ValidateParamsForInputs(map[string]interface{}{
		"weights": "0.5,0.5",
	}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 weights given for 3 inputs")
}

func TestParseWeights(t *testing.T) {
	weights, err := parseWeights("0.7, 0.2\t0.1")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.7, 0.2, 0.1}, weights)

	_, err = parseWeights("  ")
	assert.Error(t, err)
}
