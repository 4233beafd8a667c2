package graphstore

import (
	"sort"

	"github.com/orneryd/propgraph/pkg/tensor"
)

// EdgeSpec names one to-be-created edge for the bulk CreateEdges path.
type EdgeSpec struct {
	Src, Dest NodeID
	Attrs     AttributeSet
}

// CreateEdge allocates the attribute slot for a single edge, writes it
// into relation r's tensor, sets the adjacency cell, and bumps the
// relation's edge counter.
func (g *Graph) CreateEdge(src, dest NodeID, r RelationID, attrs AttributeSet) Edge {
	id, slot := g.edges.AllocateItem()
	slot.ID = id
	slot.Src = src
	slot.Dest = dest
	slot.Relation = r
	slot.Attrs = attrs

	g.relations[r].Set(src, dest, id)
	g.adjacency.Set(src, dest, true)
	g.relationEdgeCount[r]++
	return *slot
}

// CreateEdges bulk-creates edges that all share relation r. Preconditions
// (caller's responsibility): every endpoint already exists. Edges are
// sorted by (Src, Dest) before tensor.SetMany groups them into one cell
// update per run.
func (g *Graph) CreateEdges(r RelationID, specs []EdgeSpec) []Edge {
	sort.Slice(specs, func(i, j int) bool {
		if specs[i].Src != specs[j].Src {
			return specs[i].Src < specs[j].Src
		}
		return specs[i].Dest < specs[j].Dest
	})

	out := make([]Edge, len(specs))
	cellEdges := make([]tensor.CellEdge, len(specs))
	for i, s := range specs {
		id, slot := g.edges.AllocateItem()
		slot.ID = id
		slot.Src = s.Src
		slot.Dest = s.Dest
		slot.Relation = r
		slot.Attrs = s.Attrs
		out[i] = *slot
		g.adjacency.Set(s.Src, s.Dest, true)
		cellEdges[i] = tensor.CellEdge{Src: s.Src, Dest: s.Dest, ID: id}
	}
	g.relations[r].SetMany(cellEdges)
	g.relationEdgeCount[r] += uint64(len(specs))
	return out
}

// GetEdge returns edge id and whether it is live.
func (g *Graph) GetEdge(id EdgeID) (Edge, bool) {
	e, ok := g.edges.GetItem(id)
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// DeleteEdges deletes every edge in ids. Edges are sorted by
// (relation, src, dest); each relation's run uses Tensor.RemoveFlat when
// every cell in that relation holds exactly one edge, else the general
// Tensor.Remove, clearing the adjacency cell for any tensor cell that went
// fully empty. Each edge's attribute handle is freed via the edge
// DataBlock's destructor.
func (g *Graph) DeleteEdges(ids []EdgeID) {
	g.deleteEdges(ids, true)
}

// DeleteEdgesForUndo is DeleteEdges' undo-log-aware counterpart: the
// slot's attribute handle is not freed (an undo-log entry is about to own
// it instead), and the deleted edges are returned so the caller can
// capture them with undolog.CaptureDeletedEdge before they go out of
// scope.
func (g *Graph) DeleteEdgesForUndo(ids []EdgeID) []Edge {
	out := make([]Edge, len(ids))
	for i, id := range ids {
		out[i], _ = g.GetEdge(id)
	}
	g.deleteEdges(ids, false)
	return out
}

func (g *Graph) deleteEdges(ids []EdgeID, freeAttrs bool) {
	type rec struct {
		id EdgeID
		e  Edge
	}
	recs := make([]rec, 0, len(ids))
	for _, id := range ids {
		e, ok := g.GetEdge(id)
		invariant(ok, "delete_edges: edge %d not found", id)
		recs = append(recs, rec{id, e})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].e.Relation != recs[j].e.Relation {
			return recs[i].e.Relation < recs[j].e.Relation
		}
		if recs[i].e.Src != recs[j].e.Src {
			return recs[i].e.Src < recs[j].e.Src
		}
		return recs[i].e.Dest < recs[j].e.Dest
	})

	i := 0
	for i < len(recs) {
		j := i + 1
		for j < len(recs) && recs[j].e.Relation == recs[i].e.Relation {
			j++
		}
		run := recs[i:j]
		r := run[0].e.Relation
		cellEdges := make([]tensor.CellEdge, len(run))
		for k, rc := range run {
			cellEdges[k] = tensor.CellEdge{Src: rc.e.Src, Dest: rc.e.Dest, ID: rc.id}
		}

		t := g.relations[r]
		if t.NVals() == g.relationEdgeCount[r] {
			// Flat relation: every cell holds exactly one edge, so deleting
			// any of these edges necessarily empties its cell.
			t.RemoveFlat(cellEdges)
			for _, ce := range cellEdges {
				g.clearAdjacencyMatrixElement(r, ce.Src, ce.Dest)
			}
		} else {
			emptied := t.Remove(cellEdges)
			for _, idx := range emptied {
				g.clearAdjacencyMatrixElement(r, cellEdges[idx].Src, cellEdges[idx].Dest)
			}
		}
		g.relationEdgeCount[r] -= uint64(len(run))
		for _, rc := range run {
			if freeAttrs {
				g.edges.DeleteItem(rc.id)
			} else {
				g.edges.MarkDeletedAt(rc.id)
			}
		}
		i = j
	}
}

func (g *Graph) clearAdjacencyMatrixElement(r RelationID, s, d NodeID) {
	for ri, t := range g.relations {
		if RelationID(ri) == r {
			continue
		}
		if len(t.Iter(s, d)) > 0 {
			return
		}
	}
	g.adjacency.Remove(s, d)
}

// GetEdgesConnectingNodes returns every edge id at cell (s, d). r =
// AnyRelation concatenates across every relation; otherwise only relation
// r's cell is consulted.
func (g *Graph) GetEdgesConnectingNodes(s, d NodeID, r RelationID) []EdgeID {
	if r == AnyRelation {
		var out []EdgeID
		for _, t := range g.relations {
			out = append(out, t.Iter(s, d)...)
		}
		return out
	}
	invariant(int(r) >= 0 && int(r) < len(g.relations), "get_edges_connecting_nodes: relation id %d out of range", r)
	return g.relations[r].Iter(s, d)
}

func (g *Graph) relationIDs(r RelationID) []RelationID {
	if r != AnyRelation {
		return []RelationID{r}
	}
	out := make([]RelationID, len(g.relations))
	for i := range g.relations {
		out[i] = RelationID(i)
	}
	return out
}

// GetNodeEdges returns every edge incident to n in direction dir, across
// relation r (or every relation, for AnyRelation).
func (g *Graph) GetNodeEdges(n NodeID, dir Direction, r RelationID) []Edge {
	var out []Edge
	for _, ri := range g.relationIDs(r) {
		t := g.relations[ri]
		if dir == Outgoing || dir == Both {
			it := t.IterRange(n, n+1, false)
			for it.Next() {
				if e, ok := g.GetEdge(it.ID()); ok {
					out = append(out, e)
				}
			}
		}
		if dir == Incoming || dir == Both {
			it := t.IterRange(n, n+1, true)
			for it.Next() {
				if e, ok := g.GetEdge(it.ID()); ok {
					out = append(out, e)
				}
			}
		}
	}
	return out
}

// GetNodeDegree sums row and/or column degree over relation r (or every
// relation, for AnyRelation).
func (g *Graph) GetNodeDegree(n NodeID, dir Direction, r RelationID) uint64 {
	var total uint64
	for _, ri := range g.relationIDs(r) {
		t := g.relations[ri]
		if dir == Outgoing || dir == Both {
			total += t.RowDegree(n)
		}
		if dir == Incoming || dir == Both {
			total += t.ColDegree(n)
		}
	}
	return total
}
