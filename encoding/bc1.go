package encoding

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"iter"
	"slices"

	"github.com/bodgit/kolor"
)

const (
	blockSize   = 4
	blockPixels = blockSize * blockSize
	blockBytes  = 8
)

type bc1 struct{}

// BC1 is the 4 by 4 block compression also known as DXT1. Each block stores
// two RGB565 endpoints and a 2-bit selector per pixel. When the first
// endpoint is not greater than the second the block has three colors and
// selector 3 is transparent black.
var BC1 = bc1{}

func (bc1) Name() string {
	return "bc1"
}

func (bc1) BitsPerValue() int {
	return blockBytes * 8
}

func (bc1) ColorsPerValue() int {
	return blockPixels
}

func (f bc1) ColorEncoding(kolor.Size) kolor.ColorEncoding {
	return f
}

func blockPalette(c0, c1 uint16) [4]color.NRGBA {
	p := [4]color.NRGBA{unpack565(c0), unpack565(c1)}
	if c0 > c1 {
		p[2] = mix(p[0], p[1], 2, 1)
		p[3] = mix(p[0], p[1], 1, 2)
	} else {
		p[2] = mix(p[0], p[1], 1, 1)
		p[3] = color.NRGBA{}
	}
	return p
}

// mix returns the weighted average of a and b
func mix(a, b color.NRGBA, wa, wb int) color.NRGBA {
	avg := func(x, y uint8) uint8 {
		return uint8((int(x)*wa + int(y)*wb) / (wa + wb))
	}
	return color.NRGBA{avg(a.R, b.R), avg(a.G, b.G), avg(a.B, b.B), 0xff}
}

func decodeBlock(b []byte, out []color.Color) {
	c0 := binary.LittleEndian.Uint16(b[0:])
	c1 := binary.LittleEndian.Uint16(b[2:])
	code := binary.LittleEndian.Uint32(b[4:])

	p := blockPalette(c0, c1)
	for i := 0; i < blockPixels; i++ {
		out[i] = p[code>>(2*i)&3]
	}
}

func luma(c color.NRGBA) int {
	return 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
}

func sqDiff(x, y uint8) int {
	d := int(x) - int(y)
	return d * d
}

func distance(a, b color.NRGBA) int {
	return sqDiff(a.R, b.R) + sqDiff(a.G, b.G) + sqDiff(a.B, b.B)
}

// encodeBlock picks the darkest and brightest opaque pixels as endpoints and
// maps every pixel to its nearest block color
func encodeBlock(in []color.Color, b []byte) {
	var pixels [blockPixels]color.NRGBA
	var transparent bool
	var lo, hi color.NRGBA
	var opaque int

	for i := range pixels {
		c := toNRGBA(in[i])
		pixels[i] = c
		if c.A < 0x80 {
			transparent = true
			continue
		}
		if opaque == 0 || luma(c) < luma(lo) {
			lo = c
		}
		if opaque == 0 || luma(c) > luma(hi) {
			hi = c
		}
		opaque++
	}

	c0, c1 := pack565(hi), pack565(lo)
	if transparent == (c0 > c1) {
		c0, c1 = c1, c0
	}
	p := blockPalette(c0, c1)

	var code uint32
	for i, c := range pixels {
		sel := 3
		if c.A >= 0x80 {
			best := -1
			for j := 0; j < 4; j++ {
				if c0 <= c1 && j == 3 {
					break
				}
				if d := distance(c, p[j]); best < 0 || d < best {
					best, sel = d, j
				}
			}
		}
		code |= uint32(sel) << (2 * i)
	}

	binary.LittleEndian.PutUint16(b[0:], c0)
	binary.LittleEndian.PutUint16(b[2:], c1)
	binary.LittleEndian.PutUint32(b[4:], code)
}

// Load decodes every whole block in data.
func (bc1) Load(data []byte, parallelism int) (iter.Seq[color.Color], error) {
	blocks := len(data) / blockBytes
	colors := make([]color.Color, blocks*blockPixels)
	if err := parallel(blocks, parallelism, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			decodeBlock(data[i*blockBytes:], colors[i*blockPixels:])
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return slices.Values(colors), nil
}

// Save encodes colors in groups of 16, each group being one 4 by 4 block in
// row-major order.
func (bc1) Save(colors iter.Seq[color.Color], parallelism int) ([]byte, error) {
	in := slices.Collect(colors)
	if len(in)%blockPixels != 0 {
		return nil, fmt.Errorf("%w: %d colors", ErrShortBlock, len(in))
	}

	blocks := len(in) / blockPixels
	out := make([]byte, blocks*blockBytes)
	if err := parallel(blocks, parallelism, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			encodeBlock(in[i*blockPixels:], out[i*blockBytes:])
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
