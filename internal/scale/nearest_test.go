package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(w, h int) []Colour {
	px := make([]Colour, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px[y*w+x] = Colour{R: uint8(x), G: uint8(y), A: 0xFF}
		}
	}
	return px
}

func TestNearestIdentity(t *testing.T) {
	dst, w, h := Nearest(grid(3, 5), 3, 5, 1)
	assert.Nil(t, dst)
	assert.Equal(t, 3, w)
	assert.Equal(t, 5, h)
}

func TestNearestHalf(t *testing.T) {
	src := grid(4, 4)
	dst, w, h := Nearest(src, 4, 4, 0.5)
	require.Equal(t, 2, w)
	require.Equal(t, 2, h)
	require.Len(t, dst, 4)
	assert.Equal(t, src[0], dst[0])
	assert.Equal(t, src[2*4+2], dst[1*2+1])
	assert.Equal(t, src[0*4+2], dst[0*2+1])
}

func TestNearestDouble(t *testing.T) {
	src := grid(2, 2)
	dst, w, h := Nearest(src, 2, 2, 2)
	require.Equal(t, 4, w)
	require.Equal(t, 4, h)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, src[(y/2)*2+x/2], dst[y*4+x])
		}
	}
}

func TestNearestClampsToSource(t *testing.T) {
	src := grid(3, 3)
	dst, w, h := Nearest(src, 3, 3, 1.5)
	require.Equal(t, 5, w)
	require.Equal(t, 5, h)
	// 4/1.5 = 2.66 -> 2, the last source column.
	assert.Equal(t, src[2*3+2], dst[4*5+4])
}

func TestNearestEmptyOutput(t *testing.T) {
	dst, w, h := Nearest(grid(2, 2), 2, 2, 0.1)
	assert.Nil(t, dst)
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)
}
