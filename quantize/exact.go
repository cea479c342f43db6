package quantize

import (
	"fmt"
	"image/color"
	"iter"

	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/progress"
)

// Exact is a lossless quantizer. The palette holds each distinct color in
// the order it first appears. A MaxColors of zero means no limit.
type Exact struct {
	MaxColors int
}

// Process implements kolor.Quantizer.
func (q Exact) Process(colors iter.Seq[color.Color], size kolor.Size, p progress.Context) ([]int, color.Palette, error) {
	p = progress.OrNop(p)
	p.SetMaxValue(int64(size.Points()))

	seen := make(map[color.NRGBA]int)
	indices := make([]int, 0, size.Points())
	var palette color.Palette

	for c := range colors {
		n := toNRGBA(c)
		i, ok := seen[n]
		if !ok {
			if q.MaxColors > 0 && len(palette) >= q.MaxColors {
				return nil, nil, fmt.Errorf("%w: more than %d", ErrTooManyColors, q.MaxColors)
			}
			i = len(palette)
			seen[n] = i
			palette = append(palette, n)
		}
		indices = append(indices, i)
		p.Increment()
	}

	return indices, palette, nil
}
