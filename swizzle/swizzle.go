/*
Package swizzle implements pixel swizzles, position remappings between the
logical row-major layout of an image and the physical layout used to store
it.

Tiled stores the image as a grid of rectangular tiles, one tile after
another with the pixels of each tile in row-major order. The MegaSD format
for example is 64 by 40 pixels split into forty 8 by 8 tiles, which is
Tiled{8, 8}. ZOrder additionally orders the pixels within each square tile
along a Morton curve.

Every swizzle in this package is a bijection over any size. Tiles clipped by
the right or bottom edge shrink to fit, so callers may pad to a multiple of
the tile size but do not have to.
*/
package swizzle

import (
	"image"

	"github.com/bodgit/kolor"
)

// MegaSD is the tile layout of MegaSD screenshots.
var MegaSD = Tiled{8, 8}

// Tiled is a kolor.SwizzleFormat storing pixels in tile-major order.
type Tiled struct {
	Width, Height int
}

// Swizzle returns the tiled swizzle for size.
func (t Tiled) Swizzle(size kolor.Size) kolor.Swizzle {
	return &tiled{
		size:       size,
		tileWidth:  max(t.Width, 1),
		tileHeight: max(t.Height, 1),
	}
}

type tiled struct {
	size                  kolor.Size
	tileWidth, tileHeight int
	inner                 func(x, y, w, h int) int
}

// offset returns the position of p within the storage of its tile and the
// position of the first pixel of that tile
func (t *tiled) offset(p image.Point) (int, int) {
	w, h := t.size.Width, t.size.Height

	ty := p.Y / t.tileHeight
	tx := p.X / t.tileWidth

	// Tiles on the right and bottom edges may be clipped
	bh := min(t.tileHeight, h-ty*t.tileHeight)
	bw := min(t.tileWidth, w-tx*t.tileWidth)

	x, y := p.X%t.tileWidth, p.Y%t.tileHeight

	inner := y*bw + x
	if t.inner != nil {
		inner = t.inner(x, y, bw, bh)
	}

	return ty*t.tileHeight*w + tx*t.tileWidth*bh, inner
}

func (t *tiled) Transform(p image.Point) image.Point {
	if t.size.Width == 0 {
		return p
	}
	base, inner := t.offset(p)
	k := base + inner
	return image.Pt(k%t.size.Width, k/t.size.Width)
}

// ZOrder is a kolor.SwizzleFormat storing pixels in square tiles of Size by
// Size pixels laid out in row-major order, with the pixels inside each tile
// ordered along a Morton curve. Size must be a power of two; clipped edge
// tiles fall back to row-major order.
type ZOrder struct {
	Size int
}

// Swizzle returns the Z-order swizzle for size.
func (z ZOrder) Swizzle(size kolor.Size) kolor.Swizzle {
	n := max(z.Size, 1)
	t := &tiled{
		size:       size,
		tileWidth:  n,
		tileHeight: n,
	}
	if n&(n-1) == 0 {
		t.inner = func(x, y, w, h int) int {
			if w != n || h != n {
				return y*w + x
			}
			return morton(x, y)
		}
	}
	return t
}

// morton interleaves the bits of x and y, x occupying the even bits
func morton(x, y int) int {
	var m int
	for i := 0; x>>i != 0 || y>>i != 0; i++ {
		m |= (x >> i & 1) << (2 * i)
		m |= (y >> i & 1) << (2*i + 1)
	}
	return m
}

// Linear is a kolor.SwizzleFormat that leaves every point where it is.
type Linear struct{}

// Swizzle returns the identity swizzle.
func (Linear) Swizzle(kolor.Size) kolor.Swizzle {
	return identity{}
}

type identity struct{}

func (identity) Transform(p image.Point) image.Point {
	return p
}

type table struct {
	width  int
	points []image.Point
}

func (t *table) Transform(p image.Point) image.Point {
	i := p.Y*t.width + p.X
	if i < 0 || i >= len(t.points) {
		return p
	}
	return t.points[i]
}

// Inverse returns the inverse of s over size, mapping each physical point
// back to its logical point.
func Inverse(s kolor.Swizzle, size kolor.Size) kolor.Swizzle {
	t := &table{
		width:  size.Width,
		points: make([]image.Point, size.Points()),
	}
	i := 0
	for p := range kolor.PointSequence(size, s) {
		if j := p.Y*size.Width + p.X; j >= 0 && j < len(t.points) {
			t.points[j] = image.Pt(i%size.Width, i/size.Width)
		}
		i++
	}
	return t
}
