package quantize

import (
	"image"
	"image/color"
	"iter"
	"slices"

	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/progress"
	"github.com/esimov/colorquant"
)

// maxClusters is the most clusters colorquant can index
const maxClusters = 256

// ColorQuant clusters the colors of an image with the colorquant median cut
// into at most MaxColors groups. Each palette entry is the average of the
// source colors in its group, alpha included, so an image with no more
// distinct colors than MaxColors is kept exactly. Colors that differ only in
// alpha always share a group. A MaxColors of zero, or above 256, means 256.
type ColorQuant struct {
	MaxColors int
}

type clusterSum struct {
	r, g, b, a, n int
}

func (s clusterSum) average() color.NRGBA {
	avg := func(v int) uint8 {
		return uint8((v + s.n/2) / s.n)
	}
	return color.NRGBA{avg(s.r), avg(s.g), avg(s.b), avg(s.a)}
}

// Process implements kolor.Quantizer.
func (q ColorQuant) Process(colors iter.Seq[color.Color], size kolor.Size, p progress.Context) ([]int, color.Palette, error) {
	p = progress.OrNop(p)
	p.SetMaxValue(int64(size.Points()))

	pixels := slices.Collect(colors)
	if len(pixels) == 0 {
		return nil, nil, nil
	}

	n := q.MaxColors
	if n <= 0 || n > maxClusters {
		n = maxClusters
	}

	src := raster(pixels, size)
	clusters := colorquant.Quant{}.Quantize(src, n).(*image.Paletted)

	// Sum the source colors of each cluster
	sums := make([]clusterSum, len(clusters.Palette))
	groups := make([]int, len(pixels))
	w := src.Bounds().Dx()
	for i, c := range pixels {
		g := int(clusters.ColorIndexAt(i%w, i/w))
		nc := toNRGBA(c)
		s := &sums[g]
		s.r += int(nc.R)
		s.g += int(nc.G)
		s.b += int(nc.B)
		s.a += int(nc.A)
		s.n++
		groups[i] = g
	}

	// Drop empty clusters, keeping the order of the rest
	index := make([]int, len(sums))
	var palette color.Palette
	for g, s := range sums {
		if s.n == 0 {
			continue
		}
		index[g] = len(palette)
		palette = append(palette, s.average())
	}

	indices := make([]int, len(pixels))
	for i, g := range groups {
		indices[i] = index[g]
		p.Increment()
	}

	return indices, palette, nil
}
