package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// compile runs an operation against n conventionally-labeled inputs
func compile(t *testing.T, op operators.Operator, n int, params map[string]interface{}) *operators.CompileResult {
	t.Helper()
	result, err := op.Compile(&operators.CompileContext{
		Inputs: operators.InputStreamsFor(n),
		Params: params,
	})
	require.NoError(t, err)
	return result
}

func TestCatalogRegistered(t *testing.T) {
	expected := []string{
		"audio_mix", "audio_resample", "blur", "change_volume", "concat",
		"crossfade", "cut", "fade", "overlay", "rotate", "scale",
		"set_fps", "speed", "trim",
	}
	for _, name := range expected {
		_, err := operators.GlobalRegistry().Get(name)
		assert.NoError(t, err, name)
	}
}

func TestTrim_Compile(t *testing.T) {
	result := compile(t, &TrimOperator{}, 1, map[string]interface{}{
		"start":    "10s",
		"duration": 5,
	})

	assert.Equal(t,
		"[0:v]trim=start=10.000:duration=5.000,setpts=PTS-STARTPTS[vout];"+
			"[0:a]atrim=start=10.000:duration=5.000,asetpts=PTS-STARTPTS[aout]",
		result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "[aout]"}, result.MapStreams)
}

func TestTrim_Validate(t *testing.T) {
	op := &TrimOperator{}

	assert.NoError(t, op.ValidateParams(map[string]interface{}{
		"start": "00:00:10", "duration": "30s",
	}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"start": "10s",
	}), "duration is required")
	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"start": "10s", "duration": 0,
	}), "zero-length trim")
	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"start": "-5s", "duration": "10s",
	}), "negative start")
}

func TestCut_CompileDefaults(t *testing.T) {
	result := compile(t, &CutOperator{}, 1, map[string]interface{}{
		"width": float64(640), "height": float64(360),
	})

	assert.Equal(t, "[0:v]crop=640:360:0:0[vout]", result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "0:a?"}, result.MapStreams)
}

func TestSpeed_Compile(t *testing.T) {
	result := compile(t, &SpeedOperator{}, 1, map[string]interface{}{
		"factor": float64(2),
	})

	assert.Equal(t, "[0:v]setpts=PTS/2[vout];[0:a]atempo=2[aout]",
		result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "[aout]"}, result.MapStreams)
}

func TestSpeed_ValidateBounds(t *testing.T) {
	op := &SpeedOperator{}

	assert.NoError(t, op.ValidateParams(map[string]interface{}{"factor": 0.5}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{"factor": 0.25}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{"factor": 200.0}))
}

func TestScale_Compile(t *testing.T) {
	result := compile(t, &ScaleOperator{}, 1, map[string]interface{}{
		"width": float64(1280), "height": float64(720),
	})

	assert.Equal(t, "[0:v]scale=1280:720:flags=bicubic[vout]",
		result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "0:a?"}, result.MapStreams)
}

func TestScale_CompileAlgorithm(t *testing.T) {
	result := compile(t, &ScaleOperator{}, 1, map[string]interface{}{
		"width": float64(1920), "height": float64(1080), "algorithm": "lanczos",
	})

	assert.Contains(t, result.FilterExpression, "flags=lanczos")
}

func TestScale_Validate(t *testing.T) {
	op := &ScaleOperator{}

	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"width": float64(0), "height": float64(720),
	}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"width": float64(1280), "height": float64(720), "algorithm": "magic",
	}))
}

func TestRotate_Compile(t *testing.T) {
	result := compile(t, &RotateOperator{}, 1, map[string]interface{}{
		"angle": float64(90),
	})

	assert.Equal(t, "[0:v]rotate=90*PI/180[vout]", result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "0:a?"}, result.MapStreams)
}

func TestBlur_Compile(t *testing.T) {
	result := compile(t, &BlurOperator{}, 1, map[string]interface{}{
		"radius": float64(5),
	})

	assert.Equal(t, "[0:v]gblur=sigma=5[vout]", result.FilterExpression)
}

func TestFPS_CompileDefault(t *testing.T) {
	result := compile(t, &FPSOperator{}, 1, map[string]interface{}{})

	assert.Equal(t, "[0:v]fps=fps=30[vout]", result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "0:a?"}, result.MapStreams)
}

func TestVolume_Compile(t *testing.T) {
	result := compile(t, &VolumeOperator{}, 1, map[string]interface{}{
		"volume": 0.5,
	})

	assert.Equal(t, "[0:a]volume=0.5[aout]", result.FilterExpression)
	assert.Equal(t, []string{"0:v?", "[aout]"}, result.MapStreams)
}

func TestResample_CompileDefault(t *testing.T) {
	result := compile(t, &ResampleOperator{}, 1, map[string]interface{}{})

	assert.Equal(t, "[0:a]aresample=44100[aout]", result.FilterExpression)
	assert.Equal(t, []string{"0:v?", "[aout]"}, result.MapStreams)
}

func TestFade_Compile(t *testing.T) {
	result := compile(t, &FadeOperator{}, 1, map[string]interface{}{
		"type": "in", "duration": "1.5",
	})

	assert.Equal(t,
		"[0:v]fade=type=in:start_time=0.000:duration=1.500[vout];"+
			"[0:a]afade=type=in:start_time=0.000:duration=1.500[aout]",
		result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "[aout]"}, result.MapStreams)
}

func TestFade_ValidateDirection(t *testing.T) {
	op := &FadeOperator{}

	assert.NoError(t, op.ValidateParams(map[string]interface{}{
		"type": "out", "duration": "2s",
	}))
	assert.Error(t, op.ValidateParams(map[string]interface{}{
		"type": "sideways", "duration": "2s",
	}))
}

func TestOverlay_Compile(t *testing.T) {
	result := compile(t, &OverlayOperator{}, 2, map[string]interface{}{
		"x": float64(10), "y": float64(20),
	})

	assert.Equal(t, "[0:v][1:v]overlay=10:20[vout]", result.FilterExpression)
	assert.Equal(t, []string{"[vout]", "0:a?"}, result.MapStreams)
}

func TestOverlay_CompileDefaults(t *testing.T) {
	result := compile(t, &OverlayOperator{}, 2, map[string]interface{}{})

	assert.Equal(t, "[0:v][1:v]overlay=0:0[vout]", result.FilterExpression)
}

func TestSingleInputOperatorsRejectExtraInputs(t *testing.T) {
	for _, op := range []operators.Operator{
		&TrimOperator{}, &ScaleOperator{}, &BlurOperator{}, &VolumeOperator{},
	} {
		_, err := op.Compile(&operators.CompileContext{
			Inputs: operators.InputStreamsFor(2),
			Params: map[string]interface{}{},
		})
		assert.Error(t, err, op.Name())
	}
}
