// Package tensor implements the per-relation multigraph matrix: a cell is
// either a single edge id or, once a second edge lands in the same
// (src, dest) slot, a tagged handle to a bit-vector bundling every edge id
// in that cell. The tag lives in the high bit of the 64-bit cell value, so
// edge ids are expected to fit in the remaining 63 bits.
package tensor

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/orneryd/propgraph/pkg/deltamatrix"
)

const (
	tagBit    = uint64(1) << 63
	maxEdgeID = tagBit - 1
)

func isTagged(cell uint64) bool   { return cell&tagBit != 0 }
func handleOf(cell uint64) uint64 { return cell &^ tagBit }
func taggedCell(h uint64) uint64  { return h | tagBit }

// CellEdge names one (src, dest, id) triple for the batch APIs.
type CellEdge struct {
	Src, Dest, ID uint64
}

// TriEdge is a (src, dest, id) triple yielded by range iteration.
type TriEdge struct {
	Src, Dest, ID uint64
}

// Tensor is a relation-scoped multigraph matrix. The zero value is not
// usable; construct with New.
type Tensor struct {
	dm         *deltamatrix.DeltaMatrix[uint64]
	bundles    map[uint64]*roaring64.Bitmap
	nextHandle uint64
}

// New constructs a rows x cols Tensor with a boolean transpose mirror.
func New(rows, cols uint64, maxPendingChanges uint64) *Tensor {
	return &Tensor{
		dm:      deltamatrix.New[uint64](rows, cols, maxPendingChanges, true),
		bundles: make(map[uint64]*roaring64.Bitmap),
	}
}

// NRows returns the row dimension.
func (t *Tensor) NRows() uint64 { return t.dm.NRows() }

// NCols returns the column dimension.
func (t *Tensor) NCols() uint64 { return t.dm.NCols() }

// NVals returns the number of occupied cells (not the edge count: a tagged
// cell counts once here regardless of its bundle size).
func (t *Tensor) NVals() uint64 { return t.dm.NVals() }

// Resize grows (or shrinks) the tensor's dimensions.
func (t *Tensor) Resize(rows, cols uint64) { t.dm.Resize(rows, cols) }

// Synchronize grows to at least (rows, cols) and flushes if dirty.
func (t *Tensor) Synchronize(rows, cols uint64) { t.dm.Synchronize(rows, cols) }

// Flush commits pending deltas into the underlying matrix.
func (t *Tensor) Flush(force bool) { t.dm.Flush(force) }

// Dirty reports whether the underlying delta matrix has been mutated since
// its last Flush (see DeltaMatrix.Dirty).
func (t *Tensor) Dirty() bool { return t.dm.Dirty() }

func (t *Tensor) allocHandle() uint64 {
	h := t.nextHandle
	t.nextHandle++
	if h > maxEdgeID {
		panic("tensor: bundle handle space exhausted")
	}
	return h
}

// Set records a single edge id at cell (s, d), promoting the cell to a
// tagged bundle if it already holds a different edge.
func (t *Tensor) Set(s, d, eid uint64) {
	if eid > maxEdgeID {
		panic("tensor: edge id exceeds 63-bit cell capacity")
	}
	cell, ok := t.dm.Extract(s, d)
	switch {
	case !ok:
		t.dm.Set(s, d, eid)
	case isTagged(cell):
		t.bundles[handleOf(cell)].Add(eid)
	case cell == eid:
		// already present, nothing to do
	default:
		h := t.allocHandle()
		bv := roaring64.New()
		bv.Add(cell)
		bv.Add(eid)
		t.bundles[h] = bv
		t.dm.Set(s, d, taggedCell(h))
	}
}

// SetDirect writes a single edge id straight into the underlying delta
// matrix's M, bypassing both delta buffering and the bundle/tagging logic
// above. Valid only when the caller has already established that the
// relation is flat (every cell holds at most one edge) and that this cell
// is empty — the known-flat fast path used by Graph.SetEdge's !multiEdge
// branch. Calling this on an occupied or soon-to-be-multi cell silently
// drops the cell's previous content instead of promoting it to a bundle.
func (t *Tensor) SetDirect(s, d, eid uint64) {
	if eid > maxEdgeID {
		panic("tensor: edge id exceeds 63-bit cell capacity")
	}
	t.dm.SetDirect(s, d, eid)
}

// SetMany is the batch form of Set, operating on edges pre-sorted by
// (Src, Dest). Consecutive runs sharing a cell are folded into one cell
// update: a run of length 1 against an absent cell writes a single edge
// id; a run of length >= 2 against an absent cell allocates a tagged
// bundle directly, skipping the promote-from-single path. Runs that land
// on an already-occupied cell fall back to per-edge Set.
func (t *Tensor) SetMany(edges []CellEdge) {
	i := 0
	for i < len(edges) {
		j := i + 1
		for j < len(edges) && edges[j].Src == edges[i].Src && edges[j].Dest == edges[i].Dest {
			j++
		}
		run := edges[i:j]
		s, d := run[0].Src, run[0].Dest
		if _, ok := t.dm.Extract(s, d); !ok {
			if len(run) == 1 {
				t.Set(s, d, run[0].ID)
			} else {
				h := t.allocHandle()
				bv := roaring64.New()
				for _, e := range run {
					bv.Add(e.ID)
				}
				t.bundles[h] = bv
				t.dm.Set(s, d, taggedCell(h))
			}
		} else {
			for _, e := range run {
				t.Set(s, d, e.ID)
			}
		}
		i = j
	}
}

// RemoveFlat removes cells directly without inspecting for tagging. Valid
// only when the caller has established that every cell in this relation
// holds exactly one edge (nvals(logical) == total edge count); violating
// that precondition silently drops bundle membership instead of demoting
// it, which is why the general Remove exists for the common case.
func (t *Tensor) RemoveFlat(edges []CellEdge) {
	for _, e := range edges {
		t.dm.Remove(e.Src, e.Dest)
	}
}

// Remove performs general deletion, grouping edges by (Src, Dest). For a
// single-edge cell the cell is removed outright. For a tagged cell, the
// matching ids are removed from its bundle; an emptied bundle removes the
// cell, and a bundle reduced to one survivor rewrites the cell back to a
// plain untagged edge id. Remove returns the indices (into edges) whose
// cell went fully empty, so the caller can clear the graph-level adjacency
// entry for that (src, dest) pair.
func (t *Tensor) Remove(edges []CellEdge) []int {
	type key struct{ s, d uint64 }
	order := make([]key, 0)
	groups := make(map[key][]int)
	for i, e := range edges {
		k := key{e.Src, e.Dest}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	var emptied []int
	for _, k := range order {
		idxs := groups[k]
		cell, ok := t.dm.Extract(k.s, k.d)
		if !ok {
			continue
		}
		if isTagged(cell) {
			h := handleOf(cell)
			bv := t.bundles[h]
			for _, i := range idxs {
				bv.Remove(edges[i].ID)
			}
			switch {
			case bv.IsEmpty():
				delete(t.bundles, h)
				t.dm.Remove(k.s, k.d)
				emptied = append(emptied, idxs...)
			case bv.GetCardinality() == 1:
				surviving := bv.Minimum()
				delete(t.bundles, h)
				t.dm.Set(k.s, k.d, surviving)
			}
		} else {
			t.dm.Remove(k.s, k.d)
			emptied = append(emptied, idxs...)
		}
	}
	return emptied
}

// Iter returns every edge id present at cell (s, d), in ascending order.
func (t *Tensor) Iter(s, d uint64) []uint64 {
	cell, ok := t.dm.Extract(s, d)
	if !ok {
		return nil
	}
	return t.expand(cell)
}

func (t *Tensor) expand(cell uint64) []uint64 {
	if !isTagged(cell) {
		return []uint64{cell}
	}
	arr := t.bundles[handleOf(cell)].ToArray()
	sort.Slice(arr, func(i, j int) bool { return arr[i] < arr[j] })
	return arr
}

// RowDegree returns the total edge cardinality across every cell in row.
func (t *Tensor) RowDegree(row uint64) uint64 {
	var total uint64
	it := deltamatrix.NewRangeIter(t.dm, row, row+1)
	for it.Next() {
		total += uint64(len(t.expand(it.Value())))
	}
	return total
}

// ColDegree returns the total edge cardinality across every cell in col,
// using the transpose mirror to avoid a full-matrix scan.
func (t *Tensor) ColDegree(col uint64) uint64 {
	tr := t.dm.Transpose()
	var total uint64
	it := deltamatrix.NewRangeIter(tr, col, col+1)
	for it.Next() {
		destRow, srcCol := it.Row(), it.Col()
		if cell, ok := t.dm.Extract(srcCol, destRow); ok {
			total += uint64(len(t.expand(cell)))
		}
	}
	return total
}
