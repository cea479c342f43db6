package quantize

import (
	"image/color"
	"slices"
	"testing"

	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{0x00, 0x00, 0x00, 0xff}
	white = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	red   = color.NRGBA{0xff, 0x00, 0x00, 0xff}
	dark  = color.NRGBA{0xfe, 0x00, 0x00, 0xff}
)

func checkerboard(size kolor.Size, a, b color.Color) []color.Color {
	colors := make([]color.Color, 0, size.Points())
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			if (x+y)%2 == 0 {
				colors = append(colors, a)
			} else {
				colors = append(colors, b)
			}
		}
	}
	return colors
}

func TestExact(t *testing.T) {
	colors := []color.Color{red, black, red, white, black}
	s := progress.New()

	indices, palette, err := Exact{}.Process(slices.Values(colors), kolor.Size{Width: 5, Height: 1}, s)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 0, 2, 1}, indices)
	assert.Equal(t, color.Palette{red, black, white}, palette)
	assert.Equal(t, int64(5), s.Max())
	assert.Equal(t, int64(5), s.Value())
}

func TestExactTooManyColors(t *testing.T) {
	colors := []color.Color{red, black, white}

	_, _, err := Exact{MaxColors: 2}.Process(slices.Values(colors), kolor.Size{Width: 3, Height: 1}, nil)
	assert.ErrorIs(t, err, ErrTooManyColors)
}

func TestExactNormalizesColors(t *testing.T) {
	colors := []color.Color{color.RGBA{0xff, 0, 0, 0xff}, red}

	indices, palette, err := Exact{}.Process(slices.Values(colors), kolor.Size{Width: 2, Height: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, indices)
	assert.Len(t, palette, 1)
}

func TestReduce(t *testing.T) {
	// red appears three times, dark once; they are the closest pair
	colors := []color.Color{red, red, dark, red, black, white}
	s := progress.New()

	indices, palette, err := Reduce{MaxColors: 3}.Process(slices.Values(colors), kolor.Size{Width: 6, Height: 1}, s)
	require.NoError(t, err)

	assert.Equal(t, color.Palette{red, black, white}, palette)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 2}, indices)
	assert.Equal(t, int64(6), s.Value())
}

func TestReduceNoop(t *testing.T) {
	colors := []color.Color{black, white}

	indices, palette, err := Reduce{MaxColors: 16}.Process(slices.Values(colors), kolor.Size{Width: 2, Height: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, indices)
	assert.Equal(t, color.Palette{black, white}, palette)
}

func TestClosestColors(t *testing.T) {
	i, j := closestColors([]color.NRGBA{black, red, white, dark})
	assert.Equal(t, 1, i)
	assert.Equal(t, 3, j)
}

func TestMedianCut(t *testing.T) {
	size := kolor.Size{Width: 16, Height: 16}
	colors := checkerboard(size, black, white)
	s := progress.New()

	indices, palette, err := MedianCut{MaxColors: 16}.Process(slices.Values(colors), size, s)
	require.NoError(t, err)
	require.Len(t, indices, size.Points())
	require.NotEmpty(t, palette)
	assert.LessOrEqual(t, len(palette), 16)

	for _, i := range indices {
		require.True(t, i >= 0 && i < len(palette))
	}

	// Black and white must not collapse onto the same entry
	assert.NotEqual(t, indices[0], indices[1])
	assert.Equal(t, int64(size.Points()), s.Value())
}

func TestNearest(t *testing.T) {
	colors := []color.Color{black, white, dark, red}
	s := progress.New()

	indices, err := nearest(colors, color.Palette{black, white, red}, s)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 2}, indices)
	assert.Equal(t, int64(len(colors)), s.Value())

	_, err = nearest(colors, nil, s)
	assert.ErrorIs(t, err, errEmptyPalette)
}

func TestColorQuant(t *testing.T) {
	size := kolor.Size{Width: 8, Height: 8}
	colors := checkerboard(size, black, white)
	s := progress.New()

	indices, palette, err := ColorQuant{MaxColors: 16}.Process(slices.Values(colors), size, s)
	require.NoError(t, err)
	require.Len(t, indices, size.Points())
	assert.LessOrEqual(t, len(palette), 16)

	for i, c := range colors {
		require.True(t, indices[i] >= 0 && indices[i] < len(palette))
		assert.Equal(t, c, palette[indices[i]])
	}
	assert.Equal(t, int64(size.Points()), s.Value())
}

func TestColorQuantKeepsFewColors(t *testing.T) {
	size := kolor.Size{Width: 8, Height: 8}
	translucent := color.NRGBA{0xe0, 0x70, 0x10, 0x80}
	colors := checkerboard(size, color.NRGBA{0x10, 0x20, 0x30, 0xff}, translucent)

	indices, palette, err := ColorQuant{MaxColors: 16}.Process(slices.Values(colors), size, nil)
	require.NoError(t, err)
	require.Len(t, palette, 2)

	for i, c := range colors {
		assert.Equal(t, c, palette[indices[i]], "pixel %d", i)
	}
}

func TestColorQuantFillsPalette(t *testing.T) {
	size := kolor.Size{Width: 64, Height: 40}
	colors := make([]color.Color, 0, size.Points())
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			colors = append(colors, color.NRGBA{uint8(x * 4), uint8(y * 6), 0x80, 0xff})
		}
	}

	indices, palette, err := ColorQuant{}.Process(slices.Values(colors), size, nil)
	require.NoError(t, err)
	require.Len(t, indices, size.Points())
	assert.Len(t, palette, 256)

	for _, i := range indices {
		require.True(t, i >= 0 && i < len(palette))
	}
}

func TestEmpty(t *testing.T) {
	for name, q := range map[string]kolor.Quantizer{
		"exact":      Exact{},
		"reduce":     Reduce{MaxColors: 4},
		"mediancut":  MedianCut{MaxColors: 4},
		"colorquant": ColorQuant{MaxColors: 4},
	} {
		t.Run(name, func(t *testing.T) {
			indices, _, err := q.Process(slices.Values([]color.Color(nil)), kolor.Size{}, nil)
			require.NoError(t, err)
			assert.Empty(t, indices)
		})
	}
}
