package tensor

import "github.com/orneryd/propgraph/pkg/deltamatrix"

// RangeIter walks (src, dest, id) triples, expanding tagged cells into one
// triple per member edge.
type RangeIter struct {
	edges []TriEdge
	idx   int
}

// Next advances to the next triple, returning false when exhausted.
func (it *RangeIter) Next() bool {
	it.idx++
	return it.idx < len(it.edges)
}

// Src returns the source of the current triple.
func (it *RangeIter) Src() uint64 { return it.edges[it.idx].Src }

// Dest returns the destination of the current triple.
func (it *RangeIter) Dest() uint64 { return it.edges[it.idx].Dest }

// ID returns the edge id of the current triple.
func (it *RangeIter) ID() uint64 { return it.edges[it.idx].ID }

// IterRange yields every (src, dest, id) triple with src in
// [minS, maxS), in row-major order; with transposed=true it instead walks
// the transpose mirror so results come out in column-major (dest-first)
// order, honoring the same [minS, maxS) bound against dest. Each
// (src, dest, id) triple is visited exactly once.
func (t *Tensor) IterRange(minS, maxS uint64, transposed bool) *RangeIter {
	var out []TriEdge
	if !transposed {
		it := deltamatrix.NewRangeIter(t.dm, minS, maxS)
		for it.Next() {
			s, d := it.Row(), it.Col()
			for _, eid := range t.expand(it.Value()) {
				out = append(out, TriEdge{Src: s, Dest: d, ID: eid})
			}
		}
	} else {
		tr := t.dm.Transpose()
		it := deltamatrix.NewRangeIter(tr, minS, maxS)
		for it.Next() {
			destRow, srcCol := it.Row(), it.Col()
			cell, ok := t.dm.Extract(srcCol, destRow)
			if !ok {
				continue
			}
			for _, eid := range t.expand(cell) {
				out = append(out, TriEdge{Src: srcCol, Dest: destRow, ID: eid})
			}
		}
	}
	return &RangeIter{edges: out, idx: -1}
}
