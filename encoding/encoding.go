/*
Package encoding implements concrete color, palette and index encodings for
use with a kolor.Transcoder.

Pixel formats store one color per value in one to four bytes and can be used
both as a color encoding and as a palette encoding:

	RGBA8888  R, G, B, A bytes
	RGB888    R, G, B bytes, opaque
	RGB565    little endian RRRRRGGGGGGBBBBB
	ABGR1555  little endian ABBBBBGGGGGRRRRR as used by the DSi
	BGR333    big endian 0000BBB0GGG0RRR0 as used by the MegaSD
	L8        8-bit luminance

BC1 is a block compressed encoding storing 16 colors, a 4 by 4 block, in
each 64-bit value. The colors of each block are loaded and saved in
block-local row-major order so it should be paired with a 4 by 4 tiled
swizzle and padding to a multiple of 4.

Index encodings store 1, 2, 4 or 8-bit palette indices packed into bytes.
The MegaSD packs two 4-bit indices per byte with the first pixel in the
upper nibble whereas the DSi NPF format puts the first pixel in the lower
nibble.

All encodings split their work into contiguous spans processed by up to
the requested number of workers; the output does not depend on it.
*/
package encoding

import (
	"errors"
	"image/color"
)

var (
	// ErrBadIndex is returned when loading an index that is outside of
	// the palette.
	ErrBadIndex = errors.New("encoding: invalid palette index")

	// ErrIndexOverflow is returned when saving an index that does not fit
	// in the number of bits per value.
	ErrIndexOverflow = errors.New("encoding: index too large")

	// ErrShortBlock is returned when saving a number of colors that is not
	// a multiple of the colors per value.
	ErrShortBlock = errors.New("encoding: incomplete block")

	// ErrUnsupportedBits is returned by index encodings with a bit width
	// other than 1, 2, 4 or 8.
	ErrUnsupportedBits = errors.New("encoding: unsupported bits per value")
)

// Format is implemented by every encoding in this package.
type Format interface {
	Name() string
	BitsPerValue() int
	ColorsPerValue() int
}

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
