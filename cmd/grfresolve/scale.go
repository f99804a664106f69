package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/xtding233/grf-resolver/internal/scale"
)

var errEmptyImage = errors.New("scaled image would be empty")

// scalePNG resamples a PNG sprite by factor with nearest-neighbour sampling.
func scalePNG(r io.Reader, w io.Writer, factor float32) (width, height int, err error) {
	img, err := png.Decode(r)
	if err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}
	b := img.Bounds()
	src := make([]scale.Colour, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			src = append(src, scale.Colour{B: c.B, G: c.G, R: c.R, A: c.A})
		}
	}

	dst, width, height := scale.Nearest(src, b.Dx(), b.Dy(), factor)
	if width <= 0 || height <= 0 {
		return width, height, errEmptyImage
	}
	if dst == nil {
		dst = src
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, c := range dst {
		out.SetNRGBA(i%width, i/width, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}
	if err := png.Encode(w, out); err != nil {
		return 0, 0, fmt.Errorf("encode: %w", err)
	}
	return width, height, nil
}

func scaleFile(in, out string, factor float32) (int, int, error) {
	r, err := os.Open(in)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()
	w, err := os.Create(out)
	if err != nil {
		return 0, 0, err
	}
	width, height, err := scalePNG(r, w, factor)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return width, height, err
}
