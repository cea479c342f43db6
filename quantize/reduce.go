package quantize

import (
	"image/color"
	"iter"
	"slices"

	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/progress"
)

// Reduce merges the two closest colors of an image until no more than
// MaxColors remain. Of each pair the color that appears more often is kept
// and every occurrence of the other is replaced with it.
type Reduce struct {
	MaxColors int
}

func countColors(colors []color.NRGBA) (map[color.NRGBA]int, []color.NRGBA) {
	h := make(map[color.NRGBA]int)
	var unique []color.NRGBA
	for _, c := range colors {
		if _, ok := h[c]; !ok {
			unique = append(unique, c)
		}
		h[c]++
	}
	return h, unique
}

// Copied from color.sqDiff
func sqDiff(x, y uint32) uint32 {
	d := x - y
	return (d * d) >> 2
}

// Return the two closest colors in a given palette
func closestColors(p []color.NRGBA) (int, int) {
	var rc1, rc2 int
	bestSum := uint32(1<<32 - 1)
	for i, c1 := range p {
		r1, g1, b1, a1 := c1.RGBA()
		for j := i + 1; j < len(p); j++ {
			r2, g2, b2, a2 := p[j].RGBA()
			sum := sqDiff(r1, r2) + sqDiff(g1, g2) + sqDiff(b1, b2) + sqDiff(a1, a2)
			if sum < bestSum {
				bestSum, rc1, rc2 = sum, i, j
			}
		}
	}
	return rc1, rc2
}

// Process implements kolor.Quantizer.
func (q Reduce) Process(colors iter.Seq[color.Color], size kolor.Size, p progress.Context) ([]int, color.Palette, error) {
	p = progress.OrNop(p)
	p.SetMaxValue(int64(size.Points()))

	var pixels []color.NRGBA
	for c := range colors {
		pixels = append(pixels, toNRGBA(c))
	}

	global, unique := countColors(pixels)

	// Every color maps to itself until it is merged into another
	replace := make(map[color.NRGBA]color.NRGBA, len(unique))
	for _, c := range unique {
		replace[c] = c
	}

	limit := max(q.MaxColors, 1)
	for len(unique) > limit {
		i, j := closestColors(unique)

		// Keep whichever color appears more frequently
		keep, drop := i, j
		if global[unique[j]] > global[unique[i]] {
			keep, drop = j, i
		}
		k, d := unique[keep], unique[drop]

		for c, r := range replace {
			if r == d {
				replace[c] = k
			}
		}
		global[k] += global[d]
		delete(global, d)

		unique = slices.Delete(unique, drop, drop+1)
	}

	index := make(map[color.NRGBA]int, len(unique))
	palette := make(color.Palette, len(unique))
	for i, c := range unique {
		index[c] = i
		palette[i] = c
	}

	indices := make([]int, len(pixels))
	for i, c := range pixels {
		indices[i] = index[replace[c]]
		p.Increment()
	}

	return indices, palette, nil
}
