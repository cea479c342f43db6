package encoding

import (
	"errors"
	"image/color"
	"slices"
	"testing"

	"github.com/bodgit/kolor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, enc kolor.ColorEncoding, data []byte, parallelism int) []color.Color {
	t.Helper()
	seq, err := enc.Load(data, parallelism)
	require.NoError(t, err)
	return slices.Collect(seq)
}

func makeColors(n int, f func(i int) color.NRGBA) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		colors[i] = f(i)
	}
	return colors
}

func TestPixelRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format *Pixel
		colors []color.Color
	}{
		{
			name:   "rgba8888",
			format: RGBA8888,
			colors: makeColors(300, func(i int) color.NRGBA {
				return color.NRGBA{uint8(i), uint8(i * 3), uint8(i * 7), uint8(255 - i)}
			}),
		},
		{
			name:   "rgb888",
			format: RGB888,
			colors: makeColors(300, func(i int) color.NRGBA {
				return color.NRGBA{uint8(i), uint8(i * 5), uint8(i * 11), 0xff}
			}),
		},
		{
			name:   "rgb565",
			format: RGB565,
			colors: makeColors(64, func(i int) color.NRGBA {
				return unpack565(uint16(i * 1021))
			}),
		},
		{
			name:   "abgr1555",
			format: ABGR1555,
			colors: makeColors(64, func(i int) color.NRGBA {
				return unpackabgr(uint16(i*1021) | 0x8000)
			}),
		},
		{
			name:   "bgr333",
			format: BGR333,
			colors: makeColors(8, func(i int) color.NRGBA {
				v := uint8(i) << 5
				return color.NRGBA{v, 0xe0 - v, v, 0xff}
			}),
		},
		{
			name:   "l8",
			format: L8,
			colors: makeColors(256, func(i int) color.NRGBA {
				return color.NRGBA{uint8(i), uint8(i), uint8(i), 0xff}
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.format.Save(slices.Values(tt.colors), 1)
			require.NoError(t, err)
			assert.Len(t, data, len(tt.colors)*tt.format.BitsPerValue()/8)

			assert.Equal(t, tt.colors, load(t, tt.format, data, 1))
		})
	}
}

func TestPixelLayout(t *testing.T) {
	red := color.NRGBA{0xff, 0, 0, 0xff}

	tests := []struct {
		name   string
		format *Pixel
		want   []byte
	}{
		{"rgba8888", RGBA8888, []byte{0xff, 0x00, 0x00, 0xff}},
		{"rgb888", RGB888, []byte{0xff, 0x00, 0x00}},
		{"rgb565", RGB565, []byte{0x00, 0xf8}},
		{"abgr1555", ABGR1555, []byte{0x1f, 0x80}},
		{"bgr333", BGR333, []byte{0x00, 0x0e}},
		{"l8", L8, []byte{0x4c}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.format.Save(slices.Values([]color.Color{red}), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestPixelTruncated(t *testing.T) {
	colors := load(t, RGB565, []byte{0x00, 0xf8, 0x1f}, 1)
	assert.Len(t, colors, 1)
}

func TestParallelMatchesSerial(t *testing.T) {
	colors := makeColors(10000, func(i int) color.NRGBA {
		return color.NRGBA{uint8(i), uint8(i >> 8), uint8(i * 13), uint8(i * 17)}
	})

	serial, err := RGBA8888.Save(slices.Values(colors), 1)
	require.NoError(t, err)

	for _, n := range []int{2, 3, 8, 64} {
		data, err := RGBA8888.Save(slices.Values(colors), n)
		require.NoError(t, err)
		assert.Equal(t, serial, data)
		assert.Equal(t, colors, load(t, RGBA8888, data, n))
	}
}

func TestParallelError(t *testing.T) {
	boom := errors.New("boom")
	err := parallel(100000, 8, func(lo, hi int) error {
		if lo > 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestParallelCoverage(t *testing.T) {
	seen := make([]int, 50000)
	require.NoError(t, parallel(len(seen), 7, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			seen[i]++
		}
		return nil
	}))
	for i, n := range seen {
		if !assert.Equal(t, 1, n, "index %d", i) {
			break
		}
	}
}
