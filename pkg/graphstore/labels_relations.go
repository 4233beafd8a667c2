package graphstore

import (
	"github.com/orneryd/propgraph/pkg/deltamatrix"
	"github.com/orneryd/propgraph/pkg/tensor"
)

// AddLabel appends a fresh label matrix of current node dimension and
// returns its id.
func (g *Graph) AddLabel() LabelID {
	id := LabelID(len(g.labels))
	g.labels = append(g.labels, deltamatrix.New[bool](g.nodeCap, g.nodeCap, g.maxPendingChanges, true))
	g.labeledNodeCount = append(g.labeledNodeCount, 0)
	if g.nodeLabels.NCols() < uint64(len(g.labels)) {
		g.nodeLabels.Resize(g.nodeLabels.NRows(), uint64(len(g.labels)))
	}
	return id
}

// RemoveLabel removes label id, which must be the highest currently
// allocated label id and hold no entries.
func (g *Graph) RemoveLabel(id LabelID) {
	invariant(int(id) == len(g.labels)-1, "remove_label: %d is not the highest allocated label id", id)
	invariant(g.labels[id].NVals() == 0, "remove_label: label %d is not empty", id)
	g.labels = g.labels[:id]
	g.labeledNodeCount = g.labeledNodeCount[:id]
	g.nodeLabels.Resize(g.nodeLabels.NRows(), uint64(len(g.labels)))
}

// AddRelationType appends a fresh relation tensor of current node
// dimension and returns its id.
func (g *Graph) AddRelationType() RelationID {
	id := RelationID(len(g.relations))
	g.relations = append(g.relations, tensor.New(g.nodeCap, g.nodeCap, g.maxPendingChanges))
	g.relationEdgeCount = append(g.relationEdgeCount, 0)
	return id
}

// RemoveRelation removes relation id, which must be the highest currently
// allocated relation id and hold no edges.
func (g *Graph) RemoveRelation(id RelationID) {
	invariant(int(id) == len(g.relations)-1, "remove_relation: %d is not the highest allocated relation id", id)
	invariant(g.relations[id].NVals() == 0, "remove_relation: relation %d is not empty", id)
	g.relations = g.relations[:id]
	g.relationEdgeCount = g.relationEdgeCount[:id]
}

// LabeledNodeCount returns the live node count for label id.
func (g *Graph) LabeledNodeCount(id LabelID) uint64 { return g.labeledNodeCount[id] }

// RelationEdgeCount returns the live edge count for relation id.
func (g *Graph) RelationEdgeCount(id RelationID) uint64 { return g.relationEdgeCount[id] }

// NumLabels returns the number of allocated label ids.
func (g *Graph) NumLabels() int { return len(g.labels) }

// NumRelations returns the number of allocated relation ids.
func (g *Graph) NumRelations() int { return len(g.relations) }
