package deltamatrix

import "github.com/orneryd/propgraph/pkg/sparsematrix"

// Mxm and EWiseAdd are defined only for boolean DeltaMatrices: every call
// site in this engine (label propagation, adjacency folding) operates on
// presence, never on typed edge-id values, so there is no need to solve
// the generic "what does multiplying two uint64 cells mean" problem.

// Mxm computes the any-pair matrix product of a and b's logical views into
// dst's M, correctly accounting for each operand's pending Δ⁺/Δ⁻ by
// exporting a materialized snapshot of each before multiplying. dst is
// cleared first, so every product entry lands on an empty cell — SetDirect
// writes it straight into M (fanning out to dst's transpose mirror), rather
// than Set, which would buffer it into Δ⁺ and leave M itself still empty.
func Mxm(dst *DeltaMatrix[bool], semiring sparsematrix.Semiring, a, b *DeltaMatrix[bool]) {
	aExport := a.Export()
	bExport := b.Export()
	product := sparsematrix.Mxm(aExport, bExport)
	dst.Clear()
	dst.Resize(product.NRows(), product.NCols())
	for _, c := range product.Keys() {
		dst.SetDirect(c.Row, c.Col, true)
	}
}

// EWiseAdd computes the element-wise union of a and b's logical views. An
// operand with buffered Δ⁺/Δ⁻ entries is exported to a materialized copy
// first; an operand whose deltas are empty contributes its M part directly.
func EWiseAdd(semiring sparsematrix.Semiring, a, b *DeltaMatrix[bool]) *DeltaMatrix[bool] {
	var aSrc, bSrc *sparsematrix.Matrix[bool]
	if a.plus.NVals() > 0 || a.minus.NVals() > 0 {
		aSrc = a.Export()
	} else {
		aSrc = a.m
	}
	if b.plus.NVals() > 0 || b.minus.NVals() > 0 {
		bSrc = b.Export()
	} else {
		bSrc = b.m
	}
	merged := sparsematrix.EWiseAdd(semiring, aSrc, bSrc)
	out := New[bool](merged.NRows(), merged.NCols(), a.maxPending, false)
	for _, c := range merged.Keys() {
		v, _ := merged.Extract(c.Row, c.Col)
		out.SetDirect(c.Row, c.Col, v)
	}
	return out
}
