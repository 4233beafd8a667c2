package deltamatrix

import (
	"sort"

	"github.com/orneryd/propgraph/pkg/sparsematrix"
)

// Iter is a merge-iterator over a DeltaMatrix's logical view: M's entries
// not masked by Δ⁻, plus Δ⁺'s entries, visited in row-major order.
type Iter[T comparable] struct {
	d      *DeltaMatrix[T]
	coords []sparsematrix.Coord
	idx    int
}

// NewIter returns a row-ordered iterator over every logical entry of d.
func NewIter[T comparable](d *DeltaMatrix[T]) *Iter[T] {
	return NewRangeIter(d, 0, d.m.NRows())
}

// NewRangeIter returns a row-ordered iterator restricted to rows in
// [minRow, maxRow).
func NewRangeIter[T comparable](d *DeltaMatrix[T], minRow, maxRow uint64) *Iter[T] {
	var coords []sparsematrix.Coord
	for _, c := range d.m.Keys() {
		if c.Row < minRow || c.Row >= maxRow {
			continue
		}
		if _, masked := d.minus.Extract(c.Row, c.Col); masked {
			continue
		}
		coords = append(coords, c)
	}
	for _, c := range d.plus.Keys() {
		if c.Row < minRow || c.Row >= maxRow {
			continue
		}
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return &Iter[T]{d: d, coords: coords, idx: -1}
}

// Next advances to the next entry, returning false when exhausted.
func (it *Iter[T]) Next() bool {
	it.idx++
	return it.idx < len(it.coords)
}

// Row returns the row of the current entry.
func (it *Iter[T]) Row() uint64 { return it.coords[it.idx].Row }

// Col returns the column of the current entry.
func (it *Iter[T]) Col() uint64 { return it.coords[it.idx].Col }

// Value returns the logical value of the current entry.
func (it *Iter[T]) Value() T {
	v, _ := it.d.Extract(it.Row(), it.Col())
	return v
}
