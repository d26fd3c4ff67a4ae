package builtin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

func TestConcat_Compile(t *testing.T) {
	result := compile(t, &ConcatOperator{}, 3, map[string]interface{}{})

	filter := result.FilterExpression

	// Every input gets normalized before concatenation
	for _, fragment := range []string{
		"[0:v]fps=30,format=yuv420p,setpts=PTS-STARTPTS[cv0]",
		"[1:v]fps=30,format=yuv420p,setpts=PTS-STARTPTS[cv1]",
		"[2:v]fps=30,format=yuv420p,setpts=PTS-STARTPTS[cv2]",
		"[0:a]aresample=44100,asetpts=PTS-STARTPTS[ca0]",
		"[2:a]aresample=44100,asetpts=PTS-STARTPTS[ca2]",
	} {
		assert.Contains(t, filter, fragment)
	}

	assert.True(t, strings.HasSuffix(filter,
		"[cv0][ca0][cv1][ca1][cv2][ca2]concat=n=3:v=1:a=1[vout][aout]"),
		"concatenation must consume inputs in list order: %s", filter)
	assert.Equal(t, []string{"[vout]", "[aout]"}, result.MapStreams)
}

func TestConcat_CompileOrderFollowsInputs(t *testing.T) {
	two := compile(t, &ConcatOperator{}, 2, map[string]interface{}{})

	idx0 := strings.Index(two.FilterExpression, "[cv0][ca0]")
	idx1 := strings.Index(two.FilterExpression, "[cv1][ca1]")
	require.GreaterOrEqual(t, idx0, 0)
	require.GreaterOrEqual(t, idx1, 0)
	assert.Less(t, idx0, idx1)
}

func TestConcat_CompileRejectsSingleInput(t *testing.T) {
	op := &ConcatOperator{}
	_, err := op.Compile(&operators.CompileContext{
		Inputs: operators.InputStreamsFor(1),
		Params: map[string]interface{}{},
	})
	assert.Error(t, err)
}

func TestConcat_Describe(t *testing.T) {
	desc := (&ConcatOperator{}).Describe()

	assert.Equal(t, operators.ArityList, desc.InputArity)
	assert.Equal(t, 2, desc.MinInputs)
	assert.Equal(t, 16, desc.MaxInputs)
}
