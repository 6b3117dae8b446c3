package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGet_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value int32
	}{
		{name: "zero", value: 0},
		{name: "positive", value: 42},
		{name: "negative", value: -7},
		{name: "max", value: math.MaxInt32},
		{name: "min", value: math.MinInt32},
	}

	buf := make([]byte, Width)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Put(buf, 0, tt.value)
			require.Equal(t, tt.value, Get(buf, 0))
		})
	}
}

func TestPutGet_Offsets(t *testing.T) {
	// Adjacent fields must not overlap.
	buf := make([]byte, 4*Width)
	values := []int32{1, -2, 3, -4}

	for i, v := range values {
		Put(buf, i*Width, v)
	}
	for i, v := range values {
		require.Equal(t, v, Get(buf, i*Width))
	}
}

func TestPut_Overwrite(t *testing.T) {
	buf := make([]byte, 2*Width)
	Put(buf, 0, 100)
	Put(buf, Width, 200)

	Put(buf, 0, -1)
	require.Equal(t, int32(-1), Get(buf, 0))
	require.Equal(t, int32(200), Get(buf, Width), "neighbor field must be untouched")
}

func TestAppend(t *testing.T) {
	var buf []byte
	for _, v := range []int32{10, -20, 30} {
		buf = Append(buf, v)
	}

	require.Len(t, buf, 3*Width)
	require.Equal(t, int32(10), Get(buf, 0))
	require.Equal(t, int32(-20), Get(buf, Width))
	require.Equal(t, int32(30), Get(buf, 2*Width))
}
