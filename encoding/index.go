package encoding

import (
	"fmt"
	"image/color"
	"iter"
	"slices"

	"github.com/bodgit/kolor"
)

// Index stores palette indices of Bits bits each, packed into bytes. By
// default the first index occupies the most significant bits of each byte;
// LowFirst reverses that.
type Index struct {
	Bits     int
	LowFirst bool
}

var (
	// Index1 stores 1-bit indices, most significant bit first.
	Index1 = Index{Bits: 1}
	// Index2 stores 2-bit indices, most significant bits first.
	Index2 = Index{Bits: 2}
	// Index4 stores 4-bit indices with the first pixel in the upper nibble.
	Index4 = Index{Bits: 4}
	// Index4LSB stores 4-bit indices with the first pixel in the lower
	// nibble.
	Index4LSB = Index{Bits: 4, LowFirst: true}
	// Index8 stores one index per byte.
	Index8 = Index{Bits: 8}
)

// Name returns the registry name of f.
func (f Index) Name() string {
	if f.LowFirst && f.Bits < 8 {
		return fmt.Sprintf("i%dlsb", f.Bits)
	}
	return fmt.Sprintf("i%d", f.Bits)
}

// BitsPerValue returns f.Bits.
func (f Index) BitsPerValue() int {
	return f.Bits
}

// ColorsPerValue always returns 1.
func (f Index) ColorsPerValue() int {
	return 1
}

// IndexEncoding returns f.
func (f Index) IndexEncoding(kolor.Size) kolor.IndexEncoding {
	return f
}

func (f Index) valid() error {
	switch f.Bits {
	case 1, 2, 4, 8:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBits, f.Bits)
	}
}

// shift returns the bit offset of slot n within a byte
func (f Index) shift(n int) uint {
	if f.LowFirst {
		return uint(n * f.Bits)
	}
	return uint(8 - f.Bits - n*f.Bits)
}

// Load decodes every index in data and resolves it against palette.
func (f Index) Load(data []byte, palette color.Palette, parallelism int) (iter.Seq[color.Color], error) {
	if err := f.valid(); err != nil {
		return nil, err
	}

	perByte := 8 / f.Bits
	mask := byte(1<<f.Bits - 1)

	colors := make([]color.Color, len(data)*perByte)
	if err := parallel(len(data), parallelism, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			for n := 0; n < perByte; n++ {
				idx := int(data[i] >> f.shift(n) & mask)
				if idx >= len(palette) {
					return fmt.Errorf("%w: %d", ErrBadIndex, idx)
				}
				colors[i*perByte+n] = palette[idx]
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return slices.Values(colors), nil
}

// Save packs indices into bytes. The final byte is padded with zero bits if
// the number of indices does not fill it.
func (f Index) Save(indices iter.Seq[int], palette color.Palette, parallelism int) ([]byte, error) {
	if err := f.valid(); err != nil {
		return nil, err
	}

	in := slices.Collect(indices)
	perByte := 8 / f.Bits
	limit := min(1<<f.Bits, len(palette))

	out := make([]byte, (len(in)+perByte-1)/perByte)
	if err := parallel(len(out), parallelism, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			var b byte
			for n := 0; n < perByte && i*perByte+n < len(in); n++ {
				idx := in[i*perByte+n]
				if idx < 0 || idx >= limit {
					return fmt.Errorf("%w: %d", ErrIndexOverflow, idx)
				}
				b |= byte(idx) << f.shift(n)
			}
			out[i] = b
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return out, nil
}
