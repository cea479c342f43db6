/*
Package quantize implements palette quantizers for use with a
kolor.Transcoder.

Exact keeps every distinct color and fails if there are too many, so it is
lossless. Reduce repeatedly merges the two closest colors, keeping whichever
is more frequent, until the palette fits; it is quadratic in the number of
distinct colors so it suits images that are only slightly over the limit.
MedianCut and ColorQuant handle arbitrary true color images.

Every quantizer sets the progress bound to the number of pixels and
advances it once per pixel.
*/
package quantize

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/kolor"
)

// ErrTooManyColors is returned when an image has more distinct colors than
// the quantizer allows.
var ErrTooManyColors = errors.New("quantize: too many colors")

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// raster lays colors out row-major in an image of the given size, falling
// back to a single row if the count doesn't match
func raster(colors []color.Color, size kolor.Size) *image.NRGBA {
	if len(colors) != size.Points() {
		size = kolor.Size{Width: len(colors), Height: 1}
	}
	m := image.NewNRGBA(size.Rect())
	for i, c := range colors {
		m.Set(i%size.Width, i/size.Width, c)
	}
	return m
}
