package graphstore

import (
	"github.com/orneryd/propgraph/pkg/deltamatrix"
	"github.com/orneryd/propgraph/pkg/tensor"
)

// GetAdjacencyMatrix applies the current sync policy and returns the
// adjacency matrix (or its transpose mirror).
func (g *Graph) GetAdjacencyMatrix(transposed bool) *deltamatrix.DeltaMatrix[bool] {
	g.applyPolicy(g.adjacency)
	if transposed {
		return g.adjacency.Transpose()
	}
	return g.adjacency
}

// GetLabelMatrix applies the current sync policy and returns label id's
// matrix, or the shared read-only zero matrix for an out-of-range id. A
// label matrix only ever holds diagonal entries, so its transpose mirror
// is logically identical to the forward matrix; transposed is still
// honored for API symmetry with GetRelationMatrix.
func (g *Graph) GetLabelMatrix(id LabelID, transposed bool) *deltamatrix.DeltaMatrix[bool] {
	if int(id) < 0 || int(id) >= len(g.labels) {
		return g.zeroMatrix
	}
	m := g.labels[id]
	g.applyPolicy(m)
	if transposed {
		return m.Transpose()
	}
	return m
}

// GetNodeLabelMatrix applies the current sync policy and returns the
// node-label matrix (or its transpose, label-id-to-node-id).
func (g *Graph) GetNodeLabelMatrix(transposed bool) *deltamatrix.DeltaMatrix[bool] {
	g.applyPolicy(g.nodeLabels)
	if transposed {
		return g.nodeLabels.Transpose()
	}
	return g.nodeLabels
}

// GetZeroMatrix returns the shared empty matrix used as the read-only
// result for an out-of-range label.
func (g *Graph) GetZeroMatrix() *deltamatrix.DeltaMatrix[bool] { return g.zeroMatrix }

// GetRelationMatrix applies the current sync policy and returns relation
// id's tensor. transposed does not change which Go value is returned —
// Tensor already supports both traversal directions directly via
// IterRange's own transposed parameter — but is kept for API symmetry with
// GetLabelMatrix and GetAdjacencyMatrix.
func (g *Graph) GetRelationMatrix(id RelationID, transposed bool) *tensor.Tensor {
	invariant(int(id) >= 0 && int(id) < len(g.relations), "get_relation_matrix: relation id %d out of range", id)
	t := g.relations[id]
	g.applyTensorPolicy(t)
	return t
}
