/*
Package tile implements a MegaSD tile decoder and encoder.

The format is defined as 64 by 40 pixels exactly which is split into forty 8
by 8 tiles. The file is written as 1280 bytes of pixel information; a 4-bit
index for each pixel stored tile by tile, followed by 40 bytes of palette
selector, one per tile and finally a 32 byte palette of 16 colors where each
color is stored as a packed 16-bit value.

The hardware allows up to three palettes with each tile selecting one of
them. Only a single palette is supported here so every selector is zero and
the file is always 1352 bytes.
*/
package tile

import (
	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/encoding"
	"github.com/bodgit/kolor/swizzle"
)

const (
	tileWidth        = 8
	tileHeight       = tileWidth
	tileX            = 8
	tileY            = 5
	numTiles         = tileX * tileY
	colorsPerPalette = 16
	pixelX           = tileWidth * tileX
	pixelY           = tileHeight * tileY
	numPixels        = pixelX * pixelY
	pixelBytes       = numPixels >> 1
	paletteBytes     = colorsPerPalette * 2
	fileBytes        = pixelBytes + numTiles + paletteBytes
)

var size = kolor.Size{Width: pixelX, Height: pixelY}

func newTranscoder(q kolor.Quantizer) (*kolor.Transcoder, error) {
	return kolor.NewIndexed(encoding.Index4, encoding.BGR333, q, kolor.WithSwizzle(swizzle.MegaSD))
}
