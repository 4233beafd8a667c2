// Package undolog implements the write-ahead undo log that makes Graph
// mutations reversible. Each mutating Graph call is paired with a Record*
// call describing its inverse; Rollback replays every recorded entry,
// latest first, restoring the graph to its pre-transaction state. A
// transaction that commits instead calls Drop, which releases any
// attribute handles the log is still holding on behalf of a captured
// delete or update.
package undolog

import "github.com/orneryd/propgraph/pkg/graphstore"

// Kind names the eleven entry shapes a log can hold.
type Kind int

const (
	KindCreateNodes Kind = iota
	KindCreateEdges
	KindDeleteNodes
	KindDeleteEdges
	KindUpdateNodes
	KindUpdateEdges
	KindAddLabels
	KindRemoveLabels
	KindAddSchema
	KindAddAttribute
	KindCreateIndex
)

// entry is satisfied by every concrete entry type. replay undoes the
// entry against g; schema is consulted only by the three kinds that touch
// the external schema/index registry (AddSchema, AddAttribute,
// CreateIndex) and may be nil otherwise. freeOwned releases any attribute
// handle the entry still owns, for the path where the log is discarded
// rather than rolled back.
type entry interface {
	kind() Kind
	replay(g *graphstore.Graph, schema graphstore.SchemaRegistry)
	freeOwned()
}

// AttrCapture pairs a captured attribute handle with an explicit
// ownership flag. Owned is true from the moment a delete or update
// captures the handle until replay reinstalls it onto a live node or
// edge, or a non-rollback Drop frees it — an explicit field rather than a
// tagged pointer bit, so AttributeSet stays an ordinary interface value.
type AttrCapture struct {
	Value graphstore.AttributeSet
	Owned bool
}

func capture(a graphstore.AttributeSet) AttrCapture {
	return AttrCapture{Value: a, Owned: a != nil}
}

// release marks the handle as reinstalled (no longer owned by the log)
// and returns it for installation onto the recreated node or edge.
func (c *AttrCapture) release() graphstore.AttributeSet {
	c.Owned = false
	return c.Value
}

// free releases the handle if the log still owns it.
func (c *AttrCapture) free() {
	if c.Owned {
		c.Value.Free()
	}
	c.Owned = false
}

// reversed returns a copy of ids in reverse order.
func reversed[T any](ids []T) []T {
	out := make([]T, len(ids))
	for i, v := range ids {
		out[len(ids)-1-i] = v
	}
	return out
}

// CreateNodesEntry records a run of CreateNode/CreateReservedNode calls.
// Replay deletes the nodes (in reverse of their recorded order, though
// Graph.DeleteNodes accepts the whole batch atomically so order has no
// observable effect here).
type CreateNodesEntry struct{ IDs []graphstore.NodeID }

func (e *CreateNodesEntry) kind() Kind { return KindCreateNodes }

func (e *CreateNodesEntry) replay(g *graphstore.Graph, _ graphstore.SchemaRegistry) {
	g.DeleteNodes(reversed(e.IDs))
}

func (e *CreateNodesEntry) freeOwned() {}

// CreateEdgesEntry records a run of CreateEdge/CreateEdges calls. Replay
// deletes the edges.
type CreateEdgesEntry struct{ IDs []graphstore.EdgeID }

func (e *CreateEdgesEntry) kind() Kind { return KindCreateEdges }

func (e *CreateEdgesEntry) replay(g *graphstore.Graph, _ graphstore.SchemaRegistry) {
	g.DeleteEdges(reversed(e.IDs))
}

func (e *CreateEdgesEntry) freeOwned() {}

// DeletedNodeRecord captures everything DeleteNodes destroys about one
// node, so replay can recreate it exactly.
type DeletedNodeRecord struct {
	ID     graphstore.NodeID
	Attrs  AttrCapture
	Labels []graphstore.LabelID
}

// CaptureDeletedNode builds a DeletedNodeRecord from a node returned by
// Graph.DeleteNodesForUndo, pairing it with the labels it held just before
// deletion (fetched by the caller beforehand, since deletion clears them).
func CaptureDeletedNode(n graphstore.Node, labels []graphstore.LabelID) DeletedNodeRecord {
	return DeletedNodeRecord{
		ID:     n.ID,
		Attrs:  capture(n.Attrs),
		Labels: append([]graphstore.LabelID(nil), labels...),
	}
}

// DeleteNodesEntry records a DeleteNodes call. Replay recreates each node
// at its original id, reinstalls its attribute handle, and relabels it.
type DeleteNodesEntry struct{ Records []DeletedNodeRecord }

func (e *DeleteNodesEntry) kind() Kind { return KindDeleteNodes }

func (e *DeleteNodesEntry) replay(g *graphstore.Graph, _ graphstore.SchemaRegistry) {
	for i := len(e.Records) - 1; i >= 0; i-- {
		r := &e.Records[i]
		g.SetNode(graphstore.Node{ID: r.ID, Attrs: r.Attrs.release()})
		g.LabelNode(r.ID, r.Labels)
	}
}

func (e *DeleteNodesEntry) freeOwned() {
	for i := range e.Records {
		e.Records[i].Attrs.free()
	}
}

// DeletedEdgeRecord captures everything DeleteEdges destroys about one
// edge.
type DeletedEdgeRecord struct {
	ID       graphstore.EdgeID
	Src      graphstore.NodeID
	Dest     graphstore.NodeID
	Relation graphstore.RelationID
	Attrs    AttrCapture
}

// CaptureDeletedEdge builds a DeletedEdgeRecord from an edge returned by
// Graph.DeleteEdgesForUndo.
func CaptureDeletedEdge(e graphstore.Edge) DeletedEdgeRecord {
	return DeletedEdgeRecord{
		ID:       e.ID,
		Src:      e.Src,
		Dest:     e.Dest,
		Relation: e.Relation,
		Attrs:    capture(e.Attrs),
	}
}

// DeleteEdgesEntry records a DeleteEdges call. Replay recreates each edge
// at its original id and reinstalls its attribute handle.
type DeleteEdgesEntry struct{ Records []DeletedEdgeRecord }

func (e *DeleteEdgesEntry) kind() Kind { return KindDeleteEdges }

func (e *DeleteEdgesEntry) replay(g *graphstore.Graph, _ graphstore.SchemaRegistry) {
	for i := len(e.Records) - 1; i >= 0; i-- {
		r := &e.Records[i]
		g.SetEdge(graphstore.Edge{
			ID:       r.ID,
			Src:      r.Src,
			Dest:     r.Dest,
			Relation: r.Relation,
			Attrs:    r.Attrs.release(),
		}, false)
	}
}

func (e *DeleteEdgesEntry) freeOwned() {
	for i := range e.Records {
		e.Records[i].Attrs.free()
	}
}

// UpdatedNodeRecord captures a node's attribute handle as it stood before
// an update replaced it.
type UpdatedNodeRecord struct {
	ID       graphstore.NodeID
	OldAttrs AttrCapture
}

// CaptureUpdatedNode builds an UpdatedNodeRecord from the attrs a node is
// about to lose.
func CaptureUpdatedNode(id graphstore.NodeID, oldAttrs graphstore.AttributeSet) UpdatedNodeRecord {
	return UpdatedNodeRecord{ID: id, OldAttrs: capture(oldAttrs)}
}

// UpdateNodesEntry records a run of node attribute updates. Replay frees
// each node's current attrs and reinstalls the captured old value.
type UpdateNodesEntry struct{ Records []UpdatedNodeRecord }

func (e *UpdateNodesEntry) kind() Kind { return KindUpdateNodes }

func (e *UpdateNodesEntry) replay(g *graphstore.Graph, _ graphstore.SchemaRegistry) {
	for i := len(e.Records) - 1; i >= 0; i-- {
		r := &e.Records[i]
		n, ok := g.GetNode(r.ID)
		if !ok {
			continue
		}
		if n.Attrs != nil {
			n.Attrs.Free()
		}
		n.Attrs = r.OldAttrs.release()
		g.SetNode(n)
	}
}

func (e *UpdateNodesEntry) freeOwned() {
	for i := range e.Records {
		e.Records[i].OldAttrs.free()
	}
}

// UpdatedEdgeRecord captures an edge's attribute handle as it stood before
// an update replaced it.
type UpdatedEdgeRecord struct {
	ID       graphstore.EdgeID
	OldAttrs AttrCapture
}

// CaptureUpdatedEdge builds an UpdatedEdgeRecord from the attrs an edge is
// about to lose.
func CaptureUpdatedEdge(id graphstore.EdgeID, oldAttrs graphstore.AttributeSet) UpdatedEdgeRecord {
	return UpdatedEdgeRecord{ID: id, OldAttrs: capture(oldAttrs)}
}

// UpdateEdgesEntry records a run of edge attribute updates. Replay frees
// each edge's current attrs and reinstalls the captured old value.
type UpdateEdgesEntry struct{ Records []UpdatedEdgeRecord }

func (e *UpdateEdgesEntry) kind() Kind { return KindUpdateEdges }

func (e *UpdateEdgesEntry) replay(g *graphstore.Graph, _ graphstore.SchemaRegistry) {
	for i := len(e.Records) - 1; i >= 0; i-- {
		r := &e.Records[i]
		ed, ok := g.GetEdge(r.ID)
		if !ok {
			continue
		}
		if ed.Attrs != nil {
			ed.Attrs.Free()
		}
		ed.Attrs = r.OldAttrs.release()
		// SetEdge counts the edge again, so take it out first (without
		// freeing attrs) to keep the relation's edge count unchanged.
		g.DeleteEdgesForUndo([]graphstore.EdgeID{ed.ID})
		g.SetEdge(ed, false)
	}
}

func (e *UpdateEdgesEntry) freeOwned() {
	for i := range e.Records {
		e.Records[i].OldAttrs.free()
	}
}

// LabelChangeRecord names the labels applied to or removed from one node
// by an AddLabels/RemoveLabels entry.
type LabelChangeRecord struct {
	Node   graphstore.NodeID
	Labels []graphstore.LabelID
}

// AddLabelsEntry records a run of LabelNode calls made outside of node
// creation (e.g. a later `SET n:Label`). Replay removes those labels
// again; deleting the node from any external label index is the calling
// layer's responsibility, since this package has no index collaborator
// for that beyond SchemaRegistry's index-definition scope.
type AddLabelsEntry struct{ Records []LabelChangeRecord }

func (e *AddLabelsEntry) kind() Kind { return KindAddLabels }

func (e *AddLabelsEntry) replay(g *graphstore.Graph, _ graphstore.SchemaRegistry) {
	for i := len(e.Records) - 1; i >= 0; i-- {
		r := e.Records[i]
		g.RemoveNodeLabels(r.Node, r.Labels)
	}
}

func (e *AddLabelsEntry) freeOwned() {}

// RemoveLabelsEntry records a run of RemoveNodeLabels calls. Replay
// reinstates those labels.
type RemoveLabelsEntry struct{ Records []LabelChangeRecord }

func (e *RemoveLabelsEntry) kind() Kind { return KindRemoveLabels }

func (e *RemoveLabelsEntry) replay(g *graphstore.Graph, _ graphstore.SchemaRegistry) {
	for i := len(e.Records) - 1; i >= 0; i-- {
		r := e.Records[i]
		g.LabelNode(r.Node, r.Labels)
	}
}

func (e *RemoveLabelsEntry) freeOwned() {}

// SchemaAddRecord names one schema entity (a label or relation type)
// added to the external schema registry.
type SchemaAddRecord struct {
	ID   int32
	Kind graphstore.SchemaKind
}

// AddSchemaEntry records a run of schema additions. Replay removes the
// entity from the registry, then removes the matching label or relation
// type from Graph — label/relation ids must be removed highest-first, so
// a caller that records these in allocation order gets that for free from
// the reverse replay.
type AddSchemaEntry struct{ Records []SchemaAddRecord }

func (e *AddSchemaEntry) kind() Kind { return KindAddSchema }

func (e *AddSchemaEntry) replay(g *graphstore.Graph, schema graphstore.SchemaRegistry) {
	for i := len(e.Records) - 1; i >= 0; i-- {
		r := e.Records[i]
		schema.RemoveSchema(r.ID, r.Kind)
		if r.Kind == graphstore.SchemaNode {
			g.RemoveLabel(r.ID)
		} else {
			g.RemoveRelation(r.ID)
		}
	}
}

func (e *AddSchemaEntry) freeOwned() {}

// AddAttributeEntry records a run of attribute additions to the external
// schema registry. Replay removes each.
type AddAttributeEntry struct{ IDs []int32 }

func (e *AddAttributeEntry) kind() Kind { return KindAddAttribute }

func (e *AddAttributeEntry) replay(_ *graphstore.Graph, schema graphstore.SchemaRegistry) {
	for i := len(e.IDs) - 1; i >= 0; i-- {
		schema.RemoveAttribute(e.IDs[i])
	}
}

func (e *AddAttributeEntry) freeOwned() {}

// IndexRecord names one index created on (kind, label, field).
type IndexRecord struct {
	Kind      graphstore.SchemaKind
	Label     int32
	Field     string
	FieldType int32
}

// CreateIndexEntry records a run of index creations. Replay deletes each
// index from the external schema registry.
type CreateIndexEntry struct{ Records []IndexRecord }

func (e *CreateIndexEntry) kind() Kind { return KindCreateIndex }

func (e *CreateIndexEntry) replay(_ *graphstore.Graph, schema graphstore.SchemaRegistry) {
	for i := len(e.Records) - 1; i >= 0; i-- {
		r := e.Records[i]
		schema.RemoveIndex(r.Kind, r.Label, r.Field, r.FieldType)
	}
}

func (e *CreateIndexEntry) freeOwned() {}
