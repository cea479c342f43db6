/*
Package kolor implements a color transcoding engine that converts between
raw, bit-packed pixel storage and in-memory true color images.

A Transcoder is assembled from pluggable strategies: a color encoding (or an
index encoding plus a palette encoding and a quantizer), an optional swizzle
that maps logical pixel positions to their physical storage positions and an
optional padder that enlarges the canvas to a block aligned size. The
Transcoder only orchestrates these strategies; it knows nothing about any
particular texture or image format.

Decoding loads a flat sequence of colors from the raw bytes, places each one
at its logical position according to the swizzle and crops the padded canvas
back to the requested size. Encoding runs the same steps in reverse,
optionally quantizing the image to a palette first.
*/
package kolor

import (
	"fmt"
	"image"
	"image/color"
	"iter"

	"github.com/bodgit/kolor/progress"
)

// Size is the width and height of an image. The zero value is the empty
// size which, when returned from a Padder, means no padding is applied.
type Size struct {
	Width, Height int
}

// SizeOf returns the size of the rectangle r.
func SizeOf(r image.Rectangle) Size {
	return Size{r.Dx(), r.Dy()}
}

// IsEmpty reports whether s is the empty size.
func (s Size) IsEmpty() bool {
	return s == Size{}
}

// Points returns the number of pixels covered by s.
func (s Size) Points() int {
	return s.Width * s.Height
}

// Rect returns s as a rectangle anchored at the origin.
func (s Size) Rect() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ColorEncoding converts between raw bytes and a flat sequence of colors.
type ColorEncoding interface {
	// BitsPerValue is the number of bits used to store one value.
	BitsPerValue() int
	// ColorsPerValue is the number of colors stored in one value, greater
	// than one for block compressed encodings.
	ColorsPerValue() int
	Load(data []byte, parallelism int) (iter.Seq[color.Color], error)
	Save(colors iter.Seq[color.Color], parallelism int) ([]byte, error)
}

// IndexEncoding converts between raw bytes and palette indices, resolving
// the indices against a palette when loading.
type IndexEncoding interface {
	BitsPerValue() int
	ColorsPerValue() int
	Load(data []byte, palette color.Palette, parallelism int) (iter.Seq[color.Color], error)
	Save(indices iter.Seq[int], palette color.Palette, parallelism int) ([]byte, error)
}

// PaletteEncoding converts between raw bytes and palette entries.
type PaletteEncoding interface {
	BitsPerValue() int
	ColorsPerValue() int
	Load(data []byte, parallelism int) (iter.Seq[color.Color], error)
	Save(colors iter.Seq[color.Color], parallelism int) ([]byte, error)
}

// ColorFormat creates a ColorEncoding for an image of the given size.
type ColorFormat interface {
	ColorEncoding(size Size) ColorEncoding
}

// IndexFormat creates an IndexEncoding for an image of the given size.
type IndexFormat interface {
	IndexEncoding(size Size) IndexEncoding
}

// PaletteFormat creates a PaletteEncoding.
type PaletteFormat interface {
	PaletteEncoding() PaletteEncoding
}

// Swizzle maps a logical, row-major point to the physical point at which it
// is stored. It must be a bijection over the size it was created for.
type Swizzle interface {
	Transform(p image.Point) image.Point
}

// SwizzleFormat creates a Swizzle for the given size.
type SwizzleFormat interface {
	Swizzle(size Size) Swizzle
}

// SwizzleFunc adapts an ordinary function to a SwizzleFormat.
type SwizzleFunc func(size Size) Swizzle

// Swizzle calls f(size).
func (f SwizzleFunc) Swizzle(size Size) Swizzle {
	return f(size)
}

// Quantizer reduces a flat sequence of colors to a palette and one index
// per color. Index i refers to palette[i].
type Quantizer interface {
	Process(colors iter.Seq[color.Color], size Size, p progress.Context) ([]int, color.Palette, error)
}
