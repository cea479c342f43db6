package tile

import (
	"errors"
	"image"
	"io"

	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/quantize"
)

// ErrWrongSize is returned by Encode for images that are not 64 by 40 pixels.
var ErrWrongSize = errors.New("tile: image is wrong size")

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(pixels, palette []byte) error {
	if _, err := e.w.Write(pixels); err != nil {
		return err
	}

	// Every tile uses the first palette
	var selectors [numTiles]byte
	if _, err := e.w.Write(selectors[:]); err != nil {
		return err
	}

	// Unused palette entries are black
	var tmp [paletteBytes]byte
	copy(tmp[:], palette)
	_, err := e.w.Write(tmp[:])

	return err
}

// transcode stores m exactly if it has no more than 16 colors, otherwise it
// is reduced with median cut
func transcode(m image.Image) ([]byte, []byte, error) {
	t, err := newTranscoder(quantize.Exact{MaxColors: colorsPerPalette})
	if err != nil {
		return nil, nil, err
	}

	pixels, palette, err := t.EncodeIndexed(m, nil)
	if err == nil || !errors.Is(err, quantize.ErrTooManyColors) {
		return pixels, palette, err
	}

	kolor.Logger().Debug("tile: too many colors, using median cut")

	if t, err = newTranscoder(quantize.MedianCut{MaxColors: colorsPerPalette}); err != nil {
		return nil, nil, err
	}

	return t.EncodeIndexed(m, nil)
}

// Encode writes the Image m to w in MegaSD tile format.
func Encode(w io.Writer, m image.Image) error {
	if kolor.SizeOf(m.Bounds()) != size {
		return ErrWrongSize
	}

	pixels, palette, err := transcode(m)
	if err != nil {
		return err
	}

	e := encoder{w: w}

	return e.encode(pixels, palette)
}
