package kolor

// Padder returns the canvas size used to store an image of the given
// logical size. Returning the empty Size means the image is not padded.
type Padder interface {
	PaddedSize(size Size) Size
}

// PadFunc adapts an ordinary function to a Padder.
type PadFunc func(size Size) Size

// PaddedSize calls f(size).
func (f PadFunc) PaddedSize(size Size) Size {
	return f(size)
}

func roundUp(v, m int) int {
	if m <= 1 {
		return v
	}
	return (v + m - 1) / m * m
}

// nextPowerOfTwo rounds v up to the nearest power of two
func nextPowerOfTwo(v int) int {
	if v <= 0 {
		return v
	}
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// PadToMultiple pads each dimension up to the next multiple of w and h
// respectively, for block aligned encodings and tiled swizzles.
func PadToMultiple(w, h int) Padder {
	return PadFunc(func(size Size) Size {
		return Size{roundUp(size.Width, w), roundUp(size.Height, h)}
	})
}

// PadToPowerOfTwo pads both dimensions up to the next power of two.
func PadToPowerOfTwo() Padder {
	return PadFunc(func(size Size) Size {
		return Size{nextPowerOfTwo(size.Width), nextPowerOfTwo(size.Height)}
	})
}

// PadWidthToPowerOfTwo pads only the width up to the next power of two, as
// used by the DSi NPF and NTFT formats.
func PadWidthToPowerOfTwo() Padder {
	return PadFunc(func(size Size) Size {
		return Size{nextPowerOfTwo(size.Width), size.Height}
	})
}
