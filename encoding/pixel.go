package encoding

import (
	"image/color"
	"iter"
	"slices"

	"github.com/bodgit/kolor"
)

// Pixel is a byte aligned encoding storing one color per value. It is size
// independent so it implements kolor.ColorFormat and kolor.PaletteFormat by
// returning itself.
type Pixel struct {
	name      string
	bytes     int
	bigEndian bool
	pack      func(color.NRGBA) uint32
	unpack    func(uint32) color.NRGBA
}

var (
	// RGBA8888 stores 8-bit non-premultiplied R, G, B and A bytes.
	RGBA8888 = &Pixel{
		name:      "rgba8888",
		bytes:     4,
		bigEndian: true,
		pack: func(c color.NRGBA) uint32 {
			return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
		},
		unpack: func(v uint32) color.NRGBA {
			return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
		},
	}

	// RGB888 stores 8-bit R, G and B bytes, dropping alpha.
	RGB888 = &Pixel{
		name:      "rgb888",
		bytes:     3,
		bigEndian: true,
		pack: func(c color.NRGBA) uint32 {
			return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
		},
		unpack: func(v uint32) color.NRGBA {
			return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
		},
	}

	// RGB565 stores a little endian 16-bit value with 5 bits of red, 6 of
	// green and 5 of blue.
	RGB565 = &Pixel{
		name:  "rgb565",
		bytes: 2,
		pack: func(c color.NRGBA) uint32 {
			return uint32(pack565(c))
		},
		unpack: func(v uint32) color.NRGBA {
			return unpack565(uint16(v))
		},
	}

	// ABGR1555 stores a little endian 16-bit value with a 1-bit alpha and
	// 5 bits each of blue, green and red.
	ABGR1555 = &Pixel{
		name:  "abgr1555",
		bytes: 2,
		pack: func(c color.NRGBA) uint32 {
			return uint32(packabgr(c))
		},
		unpack: func(v uint32) color.NRGBA {
			return unpackabgr(uint16(v))
		},
	}

	// BGR333 stores a big endian 16-bit value packed as 0000BBB0GGG0RRR0.
	BGR333 = &Pixel{
		name:      "bgr333",
		bytes:     2,
		bigEndian: true,
		pack: func(c color.NRGBA) uint32 {
			return uint32(c.B)>>4&0x0e<<8 | uint32(c.G)&0xe0 | uint32(c.R)>>4&0x0e
		},
		unpack: func(v uint32) color.NRGBA {
			return color.NRGBA{
				lowerNibble(byte(v)) << 4,
				upperNibble(byte(v)),
				lowerNibble(byte(v>>8)) << 4,
				0xff,
			}
		},
	}

	// L8 stores 8-bit luminance.
	L8 = &Pixel{
		name:  "l8",
		bytes: 1,
		pack: func(c color.NRGBA) uint32 {
			return uint32(color.GrayModel.Convert(c).(color.Gray).Y)
		},
		unpack: func(v uint32) color.NRGBA {
			return color.NRGBA{uint8(v), uint8(v), uint8(v), 0xff}
		},
	}
)

func upperNibble(b byte) byte {
	return b & 0xf0
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

func pack565(c color.NRGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

func unpack565(v uint16) color.NRGBA {
	r := uint8(v >> 11 & 0x1f)
	g := uint8(v >> 5 & 0x3f)
	b := uint8(v & 0x1f)
	return color.NRGBA{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 0xff}
}

// 5 bits -> 8 bits
func fast8(s uint16) uint8 {
	return uint8((s*527 + 23) >> 6)
}

// 16 bits -> 5 bits
func fast5(s uint32) uint16 {
	return uint16((s*31745 + 33538048) >> 26)
}

func packabgr(c color.NRGBA) uint16 {
	var a uint16
	if c.A > 0x80 {
		a = 1
	}
	return a<<15 | fast5(uint32(c.B)*0x101)<<10 | fast5(uint32(c.G)*0x101)<<5 | fast5(uint32(c.R)*0x101)
}

func unpackabgr(v uint16) color.NRGBA {
	var a uint8
	if v>>15 != 0 {
		a = 0xff
	}
	return color.NRGBA{
		R: fast8(v & 0x1f),
		G: fast8(v >> 5 & 0x1f),
		B: fast8(v >> 10 & 0x1f),
		A: a,
	}
}

// Name returns the registry name of f.
func (f *Pixel) Name() string {
	return f.name
}

// BitsPerValue returns the number of bits in each value.
func (f *Pixel) BitsPerValue() int {
	return f.bytes * 8
}

// ColorsPerValue always returns 1.
func (f *Pixel) ColorsPerValue() int {
	return 1
}

// ColorEncoding returns f.
func (f *Pixel) ColorEncoding(kolor.Size) kolor.ColorEncoding {
	return f
}

// PaletteEncoding returns f.
func (f *Pixel) PaletteEncoding() kolor.PaletteEncoding {
	return f
}

func (f *Pixel) read(b []byte) uint32 {
	var v uint32
	for i := 0; i < f.bytes; i++ {
		if f.bigEndian {
			v = v<<8 | uint32(b[i])
		} else {
			v |= uint32(b[i]) << (8 * i)
		}
	}
	return v
}

func (f *Pixel) write(b []byte, v uint32) {
	for i := 0; i < f.bytes; i++ {
		if f.bigEndian {
			b[f.bytes-1-i] = byte(v >> (8 * i))
		} else {
			b[i] = byte(v >> (8 * i))
		}
	}
}

// Load decodes every whole value in data. Any trailing partial value is
// ignored.
func (f *Pixel) Load(data []byte, parallelism int) (iter.Seq[color.Color], error) {
	colors := make([]color.Color, len(data)/f.bytes)
	if err := parallel(len(colors), parallelism, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			colors[i] = f.unpack(f.read(data[i*f.bytes:]))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return slices.Values(colors), nil
}

// Save encodes colors, one value per color.
func (f *Pixel) Save(colors iter.Seq[color.Color], parallelism int) ([]byte, error) {
	in := slices.Collect(colors)
	out := make([]byte, len(in)*f.bytes)
	if err := parallel(len(in), parallelism, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			f.write(out[i*f.bytes:], f.pack(toNRGBA(in[i])))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
