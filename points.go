package kolor

import (
	"image"
	"iter"
	"sort"
)

// PointSequence returns the row-major enumeration of every point within
// size, with each point passed through s. A nil s yields the points
// unchanged.
func PointSequence(size Size, s Swizzle) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for y := 0; y < size.Height; y++ {
			for x := 0; x < size.Width; x++ {
				p := image.Pt(x, y)
				if s != nil {
					p = s.Transform(p)
				}
				if !yield(p) {
					return
				}
			}
		}
	}
}

type slot[T any] struct {
	value T
	index int
}

type byIndex[T any] []slot[T]

func (s byIndex[T]) Len() int {
	return len(s)
}

func (s byIndex[T]) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s byIndex[T]) Less(i, j int) bool {
	return s[i].index < s[j].index
}

// Scatter reorders values, given in logical row-major order, into the
// physical storage order defined by s over size. Each value is paired with
// the swizzled point at the same position and the pairs are stably sorted by
// the row-major index of that point. Values beyond the number of points in
// size are dropped. A nil s returns a copy of values.
func Scatter[T any](values []T, size Size, s Swizzle) []T {
	if s == nil {
		return append([]T(nil), values...)
	}

	slots := make(byIndex[T], 0, min(len(values), size.Points()))
	i := 0
	for p := range PointSequence(size, s) {
		if i >= len(values) {
			break
		}
		slots = append(slots, slot[T]{values[i], p.Y*size.Width + p.X})
		i++
	}

	sort.Stable(slots)

	out := make([]T, len(slots))
	for i, sl := range slots {
		out[i] = sl.value
	}
	return out
}

// Gather is the inverse of Scatter; it reorders values from physical storage
// order back into logical row-major order. Positions with no stored value
// are left as the zero value of T.
func Gather[T any](stored []T, size Size, s Swizzle) []T {
	if s == nil {
		return append([]T(nil), stored...)
	}

	out := make([]T, size.Points())
	i := 0
	for p := range PointSequence(size, s) {
		if j := p.Y*size.Width + p.X; j >= 0 && j < len(stored) {
			out[i] = stored[j]
		}
		i++
	}
	return out
}

// SwizzleIndices reorders palette indices from logical row-major order into
// the storage order defined by s.
func SwizzleIndices(indices []int, size Size, s Swizzle) []int {
	return Scatter(indices, size, s)
}
