package sparsematrix

import "sort"

// Iterator walks a Matrix's entries in row-major order, optionally
// restricted to a row range [minRow, maxRow).
type Iterator[T comparable] struct {
	m      *Matrix[T]
	rows   []uint64
	rowIdx int // index into rows of the row currently being walked, -1 before first Next
	cols   []uint64
	colIdx int // index into cols of the current entry
}

// NewIterator returns a row-ordered iterator over every entry of m.
func NewIterator[T comparable](m *Matrix[T]) *Iterator[T] {
	return NewRangeIterator(m, 0, m.rows)
}

// NewRangeIterator returns a row-ordered iterator restricted to rows in
// [minRow, maxRow).
func NewRangeIterator[T comparable](m *Matrix[T], minRow, maxRow uint64) *Iterator[T] {
	rows := make([]uint64, 0, len(m.data))
	for i := range m.data {
		if i >= minRow && i < maxRow {
			rows = append(rows, i)
		}
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a] < rows[b] })
	return &Iterator[T]{m: m, rows: rows, rowIdx: -1, colIdx: -1}
}

// Next advances to the next entry, returning false when exhausted.
func (it *Iterator[T]) Next() bool {
	for {
		if it.rowIdx >= 0 && it.colIdx+1 < len(it.cols) {
			it.colIdx++
			return true
		}
		it.rowIdx++
		if it.rowIdx >= len(it.rows) {
			return false
		}
		row := it.m.data[it.rows[it.rowIdx]]
		cols := make([]uint64, 0, len(row))
		for j := range row {
			cols = append(cols, j)
		}
		sort.Slice(cols, func(a, b int) bool { return cols[a] < cols[b] })
		it.cols = cols
		it.colIdx = -1
	}
}

// Row returns the row of the current entry. Valid only after Next returns
// true.
func (it *Iterator[T]) Row() uint64 { return it.rows[it.rowIdx] }

// Col returns the column of the current entry.
func (it *Iterator[T]) Col() uint64 { return it.cols[it.colIdx] }

// Value returns the value of the current entry.
func (it *Iterator[T]) Value() T {
	return it.m.data[it.Row()][it.Col()]
}
