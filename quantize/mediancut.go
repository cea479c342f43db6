package quantize

import (
	"errors"
	"image/color"
	"iter"
	"runtime"
	"slices"

	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/progress"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/sync/errgroup"
)

// MedianCut builds a palette of at most MaxColors colors using median cut
// and maps each pixel to its nearest palette entry.
type MedianCut struct {
	MaxColors int
}

var errEmptyPalette = errors.New("quantize: empty palette")

// nearest maps every color to the index of its closest palette entry
func nearest(colors []color.Color, palette color.Palette, p progress.Context) ([]int, error) {
	if len(colors) > 0 && len(palette) == 0 {
		return nil, errEmptyPalette
	}

	indices := make([]int, len(colors))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	const chunk = 4096
	for lo := 0; lo < len(colors); lo += chunk {
		hi := min(lo+chunk, len(colors))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				indices[i] = palette.Index(colors[i])
				p.Increment()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return indices, nil
}

// Process implements kolor.Quantizer.
func (q MedianCut) Process(colors iter.Seq[color.Color], size kolor.Size, p progress.Context) ([]int, color.Palette, error) {
	p = progress.OrNop(p)
	p.SetMaxValue(int64(size.Points()))

	pixels := slices.Collect(colors)
	if len(pixels) == 0 {
		return nil, nil, nil
	}

	mc := quantize.MedianCutQuantizer{}
	palette := mc.Quantize(make(color.Palette, 0, max(q.MaxColors, 1)), raster(pixels, size))

	indices, err := nearest(pixels, palette, p)
	if err != nil {
		return nil, nil, err
	}

	return indices, palette, nil
}
