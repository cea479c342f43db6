package kolor

import (
	"image"
	"image/color"
	"image/draw"
)

// ComposeImage builds an image of the logical size from colors stored in the
// physical order that s defines over canvas. The canvas must be at least as
// large as the logical size; anything outside the logical size is cropped.
// Pixels with no corresponding color are left transparent.
func ComposeImage(colors []color.Color, logical, canvas Size, s Swizzle) *image.NRGBA {
	m := image.NewNRGBA(logical.Rect())

	pixels := Gather(colors, canvas, s)
	for y := 0; y < min(logical.Height, canvas.Height); y++ {
		for x := 0; x < min(logical.Width, canvas.Width); x++ {
			i := y*canvas.Width + x
			if i >= len(pixels) || pixels[i] == nil {
				continue
			}
			m.Set(x, y, pixels[i])
		}
	}

	return m
}

// DecomposeImage reads every pixel of canvas from m, relative to the bounds
// of m, in logical row-major order. Points outside the bounds of m repeat the
// nearest edge pixel.
func DecomposeImage(m image.Image, canvas Size) []color.Color {
	b := m.Bounds()

	colors := make([]color.Color, 0, canvas.Points())
	for y := 0; y < canvas.Height; y++ {
		sy := b.Min.Y + clamp(y, b.Dy())
		for x := 0; x < canvas.Width; x++ {
			sx := b.Min.X + clamp(x, b.Dx())
			colors = append(colors, m.At(sx, sy))
		}
	}

	return colors
}

// DecomposeSwizzled is DecomposeImage followed by Scatter, returning the
// pixels of canvas in physical storage order.
func DecomposeSwizzled(m image.Image, canvas Size, s Swizzle) []color.Color {
	return Scatter(DecomposeImage(m, canvas), canvas, s)
}

func clamp(v, n int) int {
	if v >= n {
		return max(n-1, 0)
	}
	return v
}

// Copy returns m as an *image.NRGBA with its top-left corner at the origin.
func Copy(m image.Image) *image.NRGBA {
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}
