// Package deltamatrix implements the write-buffered matrix the storage
// engine mutates: a triple (M, Δ⁺, Δ⁻) that presents the logical value
// M ∪ Δ⁺ \ Δ⁻, deferring the cost of folding writes into the base matrix
// until a flush is forced or a configured pending-change threshold is
// crossed. An optional transpose mirror tracks the same logical relation
// with coordinates swapped, fanned out on every mutation.
package deltamatrix

import (
	"sync"

	"github.com/orneryd/propgraph/pkg/sparsematrix"
)

// DeltaMatrix is a typed write-buffered matrix. The zero value is not
// usable; construct with New.
type DeltaMatrix[T comparable] struct {
	m     *sparsematrix.Matrix[T]
	plus  *sparsematrix.Matrix[T]
	minus *sparsematrix.Matrix[bool]

	// transpose mirrors the same logical relation with (i,j) swapped. It is
	// always boolean: its only purpose is fast existence lookups in the
	// opposite direction (e.g. "what points at node n"), never value
	// retrieval, so it never needs the forward matrix's element type. A
	// transpose mirror never has its own mirror.
	transpose *DeltaMatrix[bool]

	// syncMu guards Synchronize so that two concurrent readers (Graph holds
	// only a read lock while serving an accessor) cannot both observe dirty
	// and race a flush into M.
	syncMu sync.Mutex

	dirty      bool
	maxPending uint64
	isBool     bool
}

// New constructs a rows x cols DeltaMatrix. maxPendingChanges is the
// per-side flush threshold (DELTA_MAX_PENDING_CHANGES). When withTranspose
// is true, a boolean transpose mirror of dimension cols x rows is created
// and kept in sync with every mutation except RemoveElements.
func New[T comparable](rows, cols uint64, maxPendingChanges uint64, withTranspose bool) *DeltaMatrix[T] {
	d := &DeltaMatrix[T]{
		m:          sparsematrix.New[T](rows, cols),
		plus:       sparsematrix.New[T](rows, cols),
		minus:      sparsematrix.New[bool](rows, cols),
		maxPending: maxPendingChanges,
		isBool:     isBoolType[T](),
	}
	if withTranspose {
		d.transpose = New[bool](cols, rows, maxPendingChanges, false)
	}
	return d
}

func isBoolType[T any]() bool {
	var zero T
	_, ok := any(zero).(bool)
	return ok
}

// NRows returns the row dimension.
func (d *DeltaMatrix[T]) NRows() uint64 { return d.m.NRows() }

// NCols returns the column dimension.
func (d *DeltaMatrix[T]) NCols() uint64 { return d.m.NCols() }

// NVals returns nvals(M) + nvals(Δ⁺) - nvals(Δ⁻), the logical entry count.
func (d *DeltaMatrix[T]) NVals() uint64 {
	return d.m.NVals() + d.plus.NVals() - d.minus.NVals()
}

// Transpose returns the boolean mirror, or nil if none was constructed.
func (d *DeltaMatrix[T]) Transpose() *DeltaMatrix[bool] { return d.transpose }

// Dirty reports whether the matrix has been mutated through Set, Remove or
// RemoveElements since the last Flush or Clear. It does not report whether
// Δ⁺/Δ⁻ are empty: a below-threshold Flush clears it while leaving entries
// buffered.
func (d *DeltaMatrix[T]) Dirty() bool { return d.dirty }

// Pending reports whether M, Δ⁺, Δ⁻, or the transpose mirror has deferred
// internal linear-algebra work outstanding.
func (d *DeltaMatrix[T]) Pending() bool {
	if d.m.Pending() || d.plus.Pending() || d.minus.Pending() {
		return true
	}
	return d.transpose != nil && d.transpose.Pending()
}

// Set stores v at (i, j). See the package-level contract: if Δ⁻[i,j] holds
// the entry, it is un-deleted (and, for non-boolean element types, written
// through to M directly); else if M lacks the entry, it is buffered into
// Δ⁺; else (M already holds it) non-boolean types overwrite M in place —
// boolean types need no write since presence is already correct.
func (d *DeltaMatrix[T]) Set(i, j uint64, v T) {
	if _, ok := d.minus.Extract(i, j); ok {
		d.minus.Remove(i, j)
		if !d.isBool {
			d.m.Set(i, j, v)
		}
	} else if _, ok := d.m.Extract(i, j); !ok {
		d.plus.Set(i, j, v)
	} else if !d.isBool {
		d.m.Set(i, j, v)
	}
	d.dirty = true
	if d.transpose != nil {
		d.transpose.Set(j, i, true)
	}
}

// SetDirect writes v straight into M, bypassing Δ⁺/Δ⁻ buffering entirely.
// Used by known-flat fast paths (a decode-time single-edge relation, for
// instance) where the caller has already established the logical cell is
// empty. A Δ⁻ mark left at (i, j) by an earlier Remove is dropped, so the
// value written into M is visible. Fans out to the transpose mirror the
// same way Set does.
func (d *DeltaMatrix[T]) SetDirect(i, j uint64, v T) {
	d.minus.Remove(i, j)
	d.m.Set(i, j, v)
	if d.transpose != nil {
		d.transpose.SetDirect(j, i, true)
	}
}

// Remove deletes the logical entry at (i, j): if M holds it, the deletion
// is buffered into Δ⁻; otherwise it can only have been a buffered Δ⁺ entry,
// which is discarded directly.
func (d *DeltaMatrix[T]) Remove(i, j uint64) {
	if _, ok := d.m.Extract(i, j); ok {
		d.minus.Set(i, j, true)
	} else {
		d.plus.Remove(i, j)
	}
	d.dirty = true
	if d.transpose != nil {
		d.transpose.Remove(j, i)
	}
}

// Extract reports the logical value at (i, j): Δ⁺ if present, else absent
// if Δ⁻ holds the entry, else M.
func (d *DeltaMatrix[T]) Extract(i, j uint64) (T, bool) {
	if v, ok := d.plus.Extract(i, j); ok {
		return v, true
	}
	if _, ok := d.minus.Extract(i, j); ok {
		var zero T
		return zero, false
	}
	return d.m.Extract(i, j)
}

// RemoveElements performs a structural mass-delete of every coordinate set
// in mask: matching entries are cleared from Δ⁺, and matching entries of M
// are recorded into Δ⁻. Callable only on a forward matrix — it does not
// fan out to a transpose mirror.
func (d *DeltaMatrix[T]) RemoveElements(mask *sparsematrix.Matrix[bool]) {
	d.plus.RemoveMasked(mask)
	for _, c := range mask.Keys() {
		if _, ok := d.m.Extract(c.Row, c.Col); ok {
			d.minus.Set(c.Row, c.Col, true)
		}
	}
	d.dirty = true
}

// CopyFrom replaces the receiver's state with a deep copy of src, including
// its transpose mirror if both have one.
func (d *DeltaMatrix[T]) CopyFrom(src *DeltaMatrix[T]) {
	d.m.CopyFrom(src.m)
	d.plus.CopyFrom(src.plus)
	d.minus.CopyFrom(src.minus)
	d.dirty = src.dirty
	d.maxPending = src.maxPending
	d.isBool = src.isBool
	if src.transpose != nil && d.transpose != nil {
		d.transpose.CopyFrom(src.transpose)
	}
}

// Clear empties M, Δ⁺, Δ⁻ (and the transpose mirror, if any), keeping
// current dimensions.
func (d *DeltaMatrix[T]) Clear() {
	d.m.Clear()
	d.plus.Clear()
	d.minus.Clear()
	d.dirty = false
	if d.transpose != nil {
		d.transpose.Clear()
	}
}

// Resize grows (or shrinks) the matrix's dimensions, propagating to Δ⁺, Δ⁻,
// and the (swapped-dimension) transpose mirror.
func (d *DeltaMatrix[T]) Resize(rows, cols uint64) {
	d.m.Resize(rows, cols)
	d.plus.Resize(rows, cols)
	d.minus.Resize(rows, cols)
	if d.transpose != nil {
		d.transpose.Resize(cols, rows)
	}
}

// Synchronize grows the matrix to at least (rows, cols) and, if dirty,
// flushes with force=false. Guarded by syncMu so that two goroutines
// calling it concurrently under nothing stronger than Graph's read lock
// (the common case for a FlushResize-policy accessor) cannot both observe
// dirty and race a flush into M.
func (d *DeltaMatrix[T]) Synchronize(rows, cols uint64) {
	d.syncMu.Lock()
	defer d.syncMu.Unlock()
	if rows > d.m.NRows() || cols > d.m.NCols() {
		grown := rows
		if d.m.NRows() > grown {
			grown = d.m.NRows()
		}
		grownCols := cols
		if d.m.NCols() > grownCols {
			grownCols = d.m.NCols()
		}
		d.Resize(grown, grownCols)
	}
	if d.dirty {
		d.Flush(false)
	}
}

// Flush commits buffered deltas into M. With force=true both Δ⁺ and Δ⁻ are
// unconditionally committed and cleared. With force=false, each side is
// committed only if its size exceeds the configured pending-change
// threshold; a side left under threshold keeps its buffered entries (a
// subsequent Extract still sees them via Δ⁺/Δ⁻). Order: Δ⁻ is applied first
// (M ← M \ Δ⁻), then Δ⁺ (M ← M ∪ Δ⁺). dirty is cleared unconditionally once
// Flush has run, whether or not either side actually committed: dirty
// tracks "mutated since the last Flush call", not "has uncommitted deltas",
// and the next Set/Remove sets it again regardless.
func (d *DeltaMatrix[T]) Flush(force bool) {
	commitMinus := force || uint64(len(d.minus.Keys())) > d.maxPending
	commitPlus := force || uint64(len(d.plus.Keys())) > d.maxPending

	if commitMinus {
		d.m.RemoveMasked(d.minus)
		d.minus.Clear()
	}
	if commitPlus {
		d.m.AssignMasked(d.plus)
		d.plus.Clear()
	}
	d.m.Wait()
	d.plus.Wait()
	d.minus.Wait()

	d.dirty = false
	if d.transpose != nil {
		d.transpose.Flush(force)
	}
}

// Export returns a fresh matrix holding the logical value (M masked by Δ⁻)
// ∪ Δ⁺.
func (d *DeltaMatrix[T]) Export() *sparsematrix.Matrix[T] {
	out := sparsematrix.New[T](d.m.NRows(), d.m.NCols())
	out.CopyFrom(d.m)
	out.RemoveMasked(d.minus)
	out.AssignMasked(d.plus)
	return out
}
