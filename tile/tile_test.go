package tile

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColors = []color.NRGBA{
	{0xe0, 0x00, 0x00, 0xff},
	{0x00, 0xe0, 0x00, 0xff},
	{0x00, 0x00, 0xe0, 0xff},
	{0x20, 0x40, 0x60, 0xff},
}

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, pixelX, pixelY))
	for y := 0; y < pixelY; y++ {
		for x := 0; x < pixelX; x++ {
			m.SetNRGBA(x, y, testColors[(x+y/tileHeight)%len(testColors)])
		}
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	m := testImage()

	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, m))
	require.Equal(t, fileBytes, buf.Len())

	b := buf.Bytes()

	// Pixels (0,0) and (1,0) share the first byte, upper nibble first
	assert.Equal(t, byte(0x01), b[0])
	// The second row of the first tile follows the first row
	assert.Equal(t, byte(0x01), b[tileWidth>>1])
	// Second tile starts at pixel (8,0)
	assert.Equal(t, byte(0x01), b[tileWidth*tileHeight>>1])
	// Palette selectors are all zero
	assert.Equal(t, make([]byte, numTiles), b[pixelBytes:pixelBytes+numTiles])
	// First palette entry is red, packed as 0000BBB0GGG0RRR0
	assert.Equal(t, []byte{0x00, 0x0e}, b[pixelBytes+numTiles:pixelBytes+numTiles+2])

	out, err := Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, m.Bounds(), out.Bounds())

	for y := 0; y < pixelY; y++ {
		for x := 0; x < pixelX; x++ {
			require.Equal(t, m.At(x, y), out.At(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestEncodeManyColors(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, pixelX, pixelY))
	for y := 0; y < pixelY; y++ {
		for x := 0; x < pixelX; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 4), uint8(y * 6), 0x80, 0xff})
		}
	}

	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, m))
	assert.Equal(t, fileBytes, buf.Len())

	_, err := Decode(buf)
	assert.NoError(t, err)
}

func TestEncodeWrongSize(t *testing.T) {
	err := Encode(new(bytes.Buffer), image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	assert.ErrorIs(t, err, ErrWrongSize)
}

func TestDecodeErrors(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, testImage()))
	b := buf.Bytes()

	_, err := Decode(bytes.NewReader(b[:fileBytes-1]))
	assert.ErrorIs(t, err, errNotEnough)

	_, err = Decode(bytes.NewReader(append(bytes.Clone(b), 0)))
	assert.ErrorIs(t, err, errTooMuch)

	bad := bytes.Clone(b)
	bad[pixelBytes] = 1
	_, err = Decode(bytes.NewReader(bad))
	assert.ErrorIs(t, err, errBadPalette)
}

// stallReader returns no data and no error on every other read
type stallReader struct {
	r     io.Reader
	stall bool
}

func (s *stallReader) Read(p []byte) (int, error) {
	if s.stall = !s.stall; s.stall {
		return 0, nil
	}
	return s.r.Read(p)
}

func TestDecodeStallingReader(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, testImage()))
	b := buf.Bytes()

	_, err := Decode(&stallReader{r: bytes.NewReader(b)})
	assert.NoError(t, err)

	_, err = Decode(&stallReader{r: bytes.NewReader(append(bytes.Clone(b), 0))})
	assert.ErrorIs(t, err, errTooMuch)
}

func TestDecodeConfig(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, testImage()))

	cfg, err := DecodeConfig(buf)
	require.NoError(t, err)
	assert.Equal(t, pixelX, cfg.Width)
	assert.Equal(t, pixelY, cfg.Height)

	p, ok := cfg.ColorModel.(color.Palette)
	require.True(t, ok)
	require.Len(t, p, colorsPerPalette)
	assert.Equal(t, color.Color(testColors[0]), p[0])
	assert.Equal(t, color.Color(color.NRGBA{0, 0, 0, 0xff}), p[colorsPerPalette-1])
}
