package encoding

import (
	"image/color"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPalette = color.Palette{
	color.NRGBA{0x00, 0x00, 0x00, 0xff},
	color.NRGBA{0xff, 0x00, 0x00, 0xff},
	color.NRGBA{0x00, 0xff, 0x00, 0xff},
	color.NRGBA{0x00, 0x00, 0xff, 0xff},
}

func TestIndexNibbleOrder(t *testing.T) {
	indices := []int{1, 2, 3, 0}

	tests := []struct {
		format Index
		want   []byte
	}{
		{Index4, []byte{0x12, 0x30}},
		{Index4LSB, []byte{0x21, 0x03}},
		{Index8, []byte{0x01, 0x02, 0x03, 0x00}},
		{Index2, []byte{0x6c}},
		{Index{Bits: 2, LowFirst: true}, []byte{0x39}},
	}

	for _, tt := range tests {
		t.Run(tt.format.Name(), func(t *testing.T) {
			data, err := tt.format.Save(slices.Values(indices), testPalette, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)

			seq, err := tt.format.Load(data, testPalette, 1)
			require.NoError(t, err)
			colors := slices.Collect(seq)
			require.GreaterOrEqual(t, len(colors), len(indices))
			for i, idx := range indices {
				assert.Equal(t, testPalette[idx], colors[i])
			}
		})
	}
}

func TestIndexPartialByte(t *testing.T) {
	data, err := Index4.Save(slices.Values([]int{3, 1, 2}), testPalette, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x31, 0x20}, data)
}

func TestIndex1(t *testing.T) {
	palette := testPalette[:2]
	indices := []int{1, 0, 1, 1, 0, 0, 0, 1}

	data, err := Index1.Save(slices.Values(indices), palette, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xb1}, data)
}

func TestIndexBadIndex(t *testing.T) {
	_, err := Index4.Load([]byte{0x0f}, testPalette, 1)
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestIndexOverflow(t *testing.T) {
	big := make(color.Palette, 32)
	for i := range big {
		big[i] = color.Gray{uint8(i)}
	}

	_, err := Index4.Save(slices.Values([]int{16}), big, 1)
	assert.ErrorIs(t, err, ErrIndexOverflow)

	_, err = Index8.Save(slices.Values([]int{4}), testPalette, 1)
	assert.ErrorIs(t, err, ErrIndexOverflow)

	_, err = Index8.Save(slices.Values([]int{-1}), testPalette, 1)
	assert.ErrorIs(t, err, ErrIndexOverflow)
}

func TestIndexUnsupportedBits(t *testing.T) {
	f := Index{Bits: 3}

	_, err := f.Load([]byte{0}, testPalette, 1)
	assert.ErrorIs(t, err, ErrUnsupportedBits)

	_, err = f.Save(slices.Values([]int{0}), testPalette, 1)
	assert.ErrorIs(t, err, ErrUnsupportedBits)
}

func TestIndexParallel(t *testing.T) {
	indices := make([]int, 9999)
	for i := range indices {
		indices[i] = (i * 7) % len(testPalette)
	}

	serial, err := Index4.Save(slices.Values(indices), testPalette, 1)
	require.NoError(t, err)

	data, err := Index4.Save(slices.Values(indices), testPalette, 6)
	require.NoError(t, err)
	assert.Equal(t, serial, data)

	seq, err := Index4.Load(data, testPalette, 6)
	require.NoError(t, err)
	colors := slices.Collect(seq)
	for i, idx := range indices {
		require.Equal(t, testPalette[idx], colors[i], "pixel %d", i)
	}
}
