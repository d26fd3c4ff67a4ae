package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossfade_Compile(t *testing.T) {
	result := compile(t, &CrossfadeOperator{}, 2, map[string]interface{}{
		"duration":         "2s",
		"stream1_duration": "10s",
	})

	// The transition starts 2s before the first clip ends
	assert.Equal(t,
		"[0:v]fps=30[xf0];[1:v]fps=30[xf1];"+
			"[xf0][xf1]xfade=transition=fade:offset=8.000:duration=2.000[vout];"+
			"[0:a][1:a]acrossfade=d=2.000[aout]",
		result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "[aout]"}, result.MapStreams)
}

func TestCrossfade_CompileTransitionName(t *testing.T) {
	result := compile(t, &CrossfadeOperator{}, 2, map[string]interface{}{
		"duration":         "1s",
		"stream1_duration": "5s",
		"transition":       "wipeleft",
	})

	assert.Contains(t, result.FilterExpression, "xfade=transition=wipeleft:offset=4.000:duration=1.000")
}

func TestCrossfade_Validate(t *testing.T) {
	op := &CrossfadeOperator{}

	assert.NoError(t, op.ValidateParams(map[string]interface{}{
		"duration": "2s", "stream1_duration": "10s",
	}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"duration": "2s",
	}), "stream1_duration is required")
	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"duration": "12s", "stream1_duration": "10s",
	}), "transition cannot outlast the first clip")
	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"duration": 0, "stream1_duration": "10s",
	}))
}
