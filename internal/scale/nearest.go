// Package scale resizes raw sprite pixel buffers.
package scale

import "math"

// Colour is a 32bpp pixel as stored in sprite buffers.
type Colour struct {
	B, G, R, A uint8
}

// Nearest resamples src (width*height pixels, row major) by factor using
// nearest-neighbour sampling. It returns a nil buffer when factor is exactly 1
// or when the scaled image would be empty; the returned dimensions are valid
// either way.
func Nearest(src []Colour, width, height int, factor float32) (dst []Colour, outWidth, outHeight int) {
	if factor == 1 {
		return nil, width, height
	}

	outWidth = int(math.Round(float64(float32(width) * factor)))
	outHeight = int(math.Round(float64(float32(height) * factor)))
	if outWidth <= 0 || outHeight <= 0 {
		return nil, outWidth, outHeight
	}

	dst = make([]Colour, outWidth*outHeight)
	for y := 0; y < outHeight; y++ {
		sy := min(int(float32(y)/factor), height-1)
		for x := 0; x < outWidth; x++ {
			sx := min(int(float32(x)/factor), width-1)
			dst[y*outWidth+x] = src[sy*width+sx]
		}
	}
	return dst, outWidth, outHeight
}
