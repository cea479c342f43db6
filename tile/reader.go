package tile

import (
	"errors"
	"image"
	"image/color"
	"io"
	"slices"

	"github.com/bodgit/kolor/encoding"
	"github.com/bodgit/kolor/quantize"
)

var (
	errNotEnough  = errors.New("tile: not enough image data")
	errTooMuch    = errors.New("tile: too much image data")
	errBadPalette = errors.New("tile: invalid palette index")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	tmp [fileBytes]byte
}

func (d *decoder) pixels() []byte {
	return d.tmp[:pixelBytes]
}

func (d *decoder) palette() []byte {
	return d.tmp[pixelBytes+numTiles:]
}

func (d *decoder) read(r io.Reader) error {
	if err := readFull(r, d.tmp[:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	for _, b := range d.tmp[pixelBytes : pixelBytes+numTiles] {
		if b != 0 {
			return errBadPalette
		}
	}

	var extra [1]byte
	switch _, err := io.ReadFull(r, extra[:]); err {
	case io.EOF:
		return nil
	case nil:
		return errTooMuch
	default:
		return err
	}
}

// Decode reads a MegaSD tile from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.read(r); err != nil {
		return nil, err
	}

	t, err := newTranscoder(quantize.Exact{MaxColors: colorsPerPalette})
	if err != nil {
		return nil, err
	}

	m, err := t.DecodeIndexed(d.pixels(), d.palette(), size, nil)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// DecodeConfig returns the color model and dimensions of a MegaSD tile without
// decoding the entire tile.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.read(r); err != nil {
		return image.Config{}, err
	}

	seq, err := encoding.BGR333.Load(d.palette(), 1)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: color.Palette(slices.Collect(seq)),
		Width:      pixelX,
		Height:     pixelY,
	}, nil
}
