package operators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Duration(t *testing.T) {
	tc := NewTypeConverter()

	cases := []struct {
		value    interface{}
		expected time.Duration
	}{
		{"90s", 90 * time.Second},
		{"00:01:30", 90 * time.Second},
		{float64(2.5), 2*time.Second + 500*time.Millisecond},
		{int(15), 15 * time.Second},
		{3 * time.Minute, 3 * time.Minute},
	}

	for _, c := range cases {
		got, err := tc.Convert(c.value, TypeDuration)
		require.NoError(t, err)
		assert.Equal(t, c.expected, got)
	}

	_, err := tc.Convert(true, TypeDuration)
	assert.Error(t, err)
}

func TestConvert_Int(t *testing.T) {
	tc := NewTypeConverter()

	got, err := tc.Convert(float64(1280), TypeInt)
	require.NoError(t, err)
	assert.Equal(t, 1280, got)

	got, err = tc.Convert("720", TypeInt)
	require.NoError(t, err)
	assert.Equal(t, 720, got)

	// JSON numbers arrive as float64; fractional values must not be
	// silently truncated.
	_, err = tc.Convert(float64(1280.5), TypeInt)
	assert.Error(t, err)
}

func TestConvert_Float(t *testing.T) {
	tc := NewTypeConverter()

	got, err := tc.Convert(int(2), TypeFloat)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = tc.Convert("0.75", TypeFloat)
	require.NoError(t, err)
	assert.Equal(t, 0.75, got)

	_, err = tc.Convert([]int{1}, TypeFloat)
	assert.Error(t, err)
}

func TestConvert_Bool(t *testing.T) {
	tc := NewTypeConverter()

	got, err := tc.Convert("true", TypeBool)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	_, err = tc.Convert(1, TypeBool)
	assert.Error(t, err)
}

func TestConvert_EnumRejectsNonString(t *testing.T) {
	tc := NewTypeConverter()

	got, err := tc.Convert("bicubic", TypeEnum)
	require.NoError(t, err)
	assert.Equal(t, "bicubic", got)

	_, err = tc.Convert(42, TypeEnum)
	assert.Error(t, err)
}
