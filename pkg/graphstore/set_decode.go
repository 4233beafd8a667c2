package graphstore

// SetNode installs n at its own id, for bulk import/decode paths that
// already know the target id (as opposed to CreateNode, which allocates a
// fresh one).
func (g *Graph) SetNode(n Node) {
	g.growToNodeID(n.ID)
	slot := g.nodes.AllocateItemAt(n.ID)
	*slot = n
}

// SetEdge installs e at its own id, writing it into its relation's tensor
// and the adjacency matrix. When multiEdge is false and the relation is
// still flat (every existing cell holds exactly one edge, i.e. nvals ==
// relation_edge_count), the write goes straight into the tensor's and
// adjacency matrix's M via SetDirect, bypassing delta buffering entirely —
// the decode-time fast path. Otherwise (multiEdge, or the relation already
// has a bundled cell) it falls back to the general Tensor.Set/DeltaMatrix.Set
// path, which promotes a cell to a bundle automatically as needed.
func (g *Graph) SetEdge(e Edge, multiEdge bool) {
	slot := g.edges.AllocateItemAt(e.ID)
	*slot = e

	t := g.relations[e.Relation]
	if !multiEdge && t.NVals() == g.relationEdgeCount[e.Relation] {
		t.SetDirect(e.Src, e.Dest, e.ID)
		g.adjacency.SetDirect(e.Src, e.Dest, true)
	} else {
		t.Set(e.Src, e.Dest, e.ID)
		g.adjacency.Set(e.Src, e.Dest, true)
	}
	g.relationEdgeCount[e.Relation]++
}

// SetNodeLabels rebuilds node_labels from the per-label matrices via
// diagonal extraction. Valid only when node_labels is currently empty.
func (g *Graph) SetNodeLabels() {
	invariant(g.nodeLabels.NVals() == 0, "set_node_labels: node_labels must be empty before rebuild")
	for l, m := range g.labels {
		for _, n := range m.Export().Diagonal() {
			g.nodeLabels.Set(n, uint64(l), true)
		}
	}
}
