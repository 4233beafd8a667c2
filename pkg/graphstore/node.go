package graphstore

import (
	"github.com/orneryd/propgraph/pkg/deltamatrix"
	"github.com/orneryd/propgraph/pkg/sparsematrix"
)

// ReserveNode pre-assigns a node id from the DataBlock without allocating
// attributes, so a bulk loader can plan ids before attribute decoding
// finishes. Pair with CreateReservedNode to finish the allocation.
func (g *Graph) ReserveNode() Node {
	id, _ := g.nodes.AllocateItem()
	g.growToNodeID(id)
	g.reservedNodeCount++
	return Node{ID: id}
}

// ResetReservedNode clears the reservation counter.
func (g *Graph) ResetReservedNode() { g.reservedNodeCount = 0 }

// ReservedCount returns the number of nodes reserved since the last reset.
func (g *Graph) ReservedCount() uint64 { return g.reservedNodeCount }

// CreateNode allocates a fresh node id and labels it.
func (g *Graph) CreateNode(labels []LabelID) Node {
	id, slot := g.nodes.AllocateItem()
	g.growToNodeID(id)
	slot.ID = id
	n := *slot
	g.LabelNode(id, labels)
	return n
}

// CreateReservedNode finishes allocating a node id previously returned by
// ReserveNode, filling its attribute slot and labeling it.
func (g *Graph) CreateReservedNode(id NodeID, labels []LabelID) Node {
	slot, ok := g.nodes.GetItem(id)
	invariant(ok, "create_node: reserved node id %d was not allocated", id)
	slot.ID = id
	g.LabelNode(id, labels)
	return *slot
}

func (g *Graph) growToNodeID(id NodeID) {
	if id+1 > g.nodeCap {
		g.EnsureNodeCap(id + 1)
	}
}

// LabelNode sets node id's membership in every label of labels.
func (g *Graph) LabelNode(id NodeID, labels []LabelID) {
	for _, l := range labels {
		invariant(int(l) >= 0 && int(l) < len(g.labels), "label_node: label id %d out of range", l)
		g.nodeLabels.Set(id, uint64(l), true)
		g.labels[l].Set(id, id, true)
		g.labeledNodeCount[l]++
	}
}

// RemoveNodeLabels is the inverse of LabelNode.
func (g *Graph) RemoveNodeLabels(id NodeID, labels []LabelID) {
	for _, l := range labels {
		invariant(int(l) >= 0 && int(l) < len(g.labels), "remove_node_labels: label id %d out of range", l)
		g.nodeLabels.Remove(id, uint64(l))
		g.labels[l].Remove(id, id)
		g.labeledNodeCount[l]--
	}
}

// GetNodeLabels returns every label id set on node id.
func (g *Graph) GetNodeLabels(id NodeID) []LabelID {
	it := deltamatrix.NewRangeIter(g.nodeLabels, id, id+1)
	var out []LabelID
	for it.Next() {
		out = append(out, LabelID(it.Col()))
	}
	return out
}

// GetNode returns node id and whether it is live.
func (g *Graph) GetNode(id NodeID) (Node, bool) {
	n, ok := g.nodes.GetItem(id)
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// DeleteNodes deletes every node in ids, asserting each has no incident
// edges first. Matrix-sync policy is forced to Nop for the duration of the
// call and restored afterward. Each node's attribute handle is freed via
// the node DataBlock's destructor.
func (g *Graph) DeleteNodes(ids []NodeID) {
	g.deleteNodes(ids, true)
}

// DeleteNodesForUndo is DeleteNodes' undo-log-aware counterpart: the
// slot's attribute handle is not freed (an undo-log entry is about to own
// it instead), and the deleted nodes are returned so the caller can
// capture them with undolog.CaptureDeletedNode before they go out of
// scope.
func (g *Graph) DeleteNodesForUndo(ids []NodeID) []Node {
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i], _ = g.GetNode(id)
	}
	g.deleteNodes(ids, false)
	return out
}

func (g *Graph) deleteNodes(ids []NodeID, freeAttrs bool) {
	for _, id := range ids {
		invariant(g.GetNodeDegree(id, Both, AnyRelation) == 0,
			"delete_nodes: node %d has incident edges", id)
	}

	prev := g.SetPolicy(Nop)
	defer g.SetPolicy(prev)

	mask := sparsematrix.New[bool](g.nodeLabels.NRows(), g.nodeLabels.NCols())
	for _, id := range ids {
		for _, l := range g.GetNodeLabels(id) {
			g.labels[l].Remove(id, id)
			g.labeledNodeCount[l]--
			mask.Set(id, uint64(l), true)
			// RemoveElements does not fan out to the transpose mirror.
			g.nodeLabels.Transpose().Remove(uint64(l), id)
		}
		if freeAttrs {
			g.nodes.DeleteItem(id)
		} else {
			g.nodes.MarkDeletedAt(id)
		}
	}
	g.nodeLabels.RemoveElements(mask)
}
