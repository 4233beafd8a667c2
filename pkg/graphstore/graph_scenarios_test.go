package graphstore

import (
	"testing"

	"github.com/orneryd/propgraph/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph() *Graph {
	cfg := config.Default()
	cfg.Capacity.NodeCapacity = 16
	cfg.Capacity.RelationCapacity = 4
	cfg.Delta.MaxPendingChanges = 100
	return New(cfg)
}

func TestThreeNodesOneBidirectionalEdge(t *testing.T) {
	g := newTestGraph()
	l0 := g.AddLabel()
	r := g.AddRelationType()

	n0 := g.CreateNode([]LabelID{l0})
	n1 := g.CreateNode([]LabelID{l0})
	n2 := g.CreateNode([]LabelID{l0})

	e0 := g.CreateEdge(n0.ID, n1.ID, r, nil)
	e1 := g.CreateEdge(n1.ID, n0.ID, r, nil)
	e2 := g.CreateEdge(n1.ID, n2.ID, r, nil)

	assert.Equal(t, uint64(0), e0.ID)
	assert.Equal(t, uint64(1), e1.ID)
	assert.Equal(t, uint64(2), e2.ID)
	assert.Equal(t, uint64(3), g.relations[r].NVals())
	assert.Equal(t, uint64(3), g.adjacency.NVals())

	// delete all edges incident to n0, then n0 itself.
	g.DeleteEdges([]EdgeID{e0.ID, e1.ID})
	g.DeleteNodes([]NodeID{n0.ID})

	_, ok := g.GetNode(n0.ID)
	assert.False(t, ok)
	_, ok = g.GetNode(n1.ID)
	assert.True(t, ok)
	_, ok = g.GetNode(n2.ID)
	assert.True(t, ok)

	edges := g.GetEdgesConnectingNodes(n1.ID, n2.ID, AnyRelation)
	assert.Equal(t, []uint64{e2.ID}, edges)

	_, ok = g.adjacency.Extract(n0.ID, n1.ID)
	assert.False(t, ok)
	_, ok = g.adjacency.Extract(n1.ID, n0.ID)
	assert.False(t, ok)
}

func TestLabelAndNodeLabelConsistency(t *testing.T) {
	g := newTestGraph()
	l0 := g.AddLabel()
	l1 := g.AddLabel()

	n := g.CreateNode([]LabelID{l0, l1})
	labels := g.GetNodeLabels(n.ID)
	assert.ElementsMatch(t, []LabelID{l0, l1}, labels)
	assert.Equal(t, uint64(1), g.LabeledNodeCount(l0))

	g.RemoveNodeLabels(n.ID, []LabelID{l1})
	labels = g.GetNodeLabels(n.ID)
	assert.Equal(t, []LabelID{l0}, labels)
	assert.Equal(t, uint64(0), g.LabeledNodeCount(l1))
}

func TestCreateEdgesBulkAndDegree(t *testing.T) {
	g := newTestGraph()
	r := g.AddRelationType()
	n0 := g.CreateNode(nil)
	n1 := g.CreateNode(nil)
	n2 := g.CreateNode(nil)

	edges := g.CreateEdges(r, []EdgeSpec{
		{Src: n0.ID, Dest: n1.ID},
		{Src: n0.ID, Dest: n2.ID},
	})
	require.Len(t, edges, 2)
	assert.Equal(t, uint64(2), g.GetNodeDegree(n0.ID, Outgoing, AnyRelation))
	assert.Equal(t, uint64(1), g.GetNodeDegree(n1.ID, Incoming, r))
}

func TestDeleteNodesRejectsNodeWithIncidentEdges(t *testing.T) {
	g := newTestGraph()
	r := g.AddRelationType()
	n0 := g.CreateNode(nil)
	n1 := g.CreateNode(nil)
	g.CreateEdge(n0.ID, n1.ID, r, nil)

	assert.Panics(t, func() {
		g.DeleteNodes([]NodeID{n0.ID})
	})
}

func TestReserveNodeThenCreateReservedNode(t *testing.T) {
	g := newTestGraph()
	l0 := g.AddLabel()
	reserved := g.ReserveNode()

	n := g.CreateReservedNode(reserved.ID, []LabelID{l0})
	assert.Equal(t, reserved.ID, n.ID)
	assert.Equal(t, uint64(1), g.LabeledNodeCount(l0))
}

func TestEnsureNodeCapGrowsEveryMatrix(t *testing.T) {
	g := newTestGraph()
	g.AddLabel()
	g.AddRelationType()
	g.EnsureNodeCap(1000)
	assert.Equal(t, uint64(1000), g.adjacency.NRows())
	assert.Equal(t, uint64(1000), g.labels[0].NRows())
	assert.Equal(t, uint64(1000), g.relations[0].NRows())
}

func TestDeleteForUndoVariantsPreserveAttrsAcrossDeletion(t *testing.T) {
	g := newTestGraph()
	r := g.AddRelationType()
	n0 := g.CreateNode(nil)
	n0.Attrs = PropertyMap{"name": "a"}
	g.SetNode(n0)
	n1 := g.CreateNode(nil)
	e0 := g.CreateEdge(n0.ID, n1.ID, r, PropertyMap{"w": 1})

	deletedEdges := g.DeleteEdgesForUndo([]EdgeID{e0.ID})
	require.Len(t, deletedEdges, 1)
	assert.Equal(t, PropertyMap{"w": 1}, deletedEdges[0].Attrs)
	_, ok := g.GetEdge(e0.ID)
	assert.False(t, ok)

	deletedNodes := g.DeleteNodesForUndo([]NodeID{n0.ID})
	require.Len(t, deletedNodes, 1)
	assert.Equal(t, PropertyMap{"name": "a"}, deletedNodes[0].Attrs)
	_, ok = g.GetNode(n0.ID)
	assert.False(t, ok)
}

func TestSetNodeLabelsRebuildsFromDiagonal(t *testing.T) {
	g := newTestGraph()
	l0 := g.AddLabel()
	n0 := g.CreateNode([]LabelID{l0})
	n1 := g.CreateNode([]LabelID{l0})

	// Simulate a decode path that populated the label matrices directly but
	// left node_labels untouched.
	fresh := newTestGraph()
	fresh.labels = append(fresh.labels, g.labels[0])
	fresh.nodes = g.nodes
	fresh.SetNodeLabels()

	got := fresh.GetNodeLabels(n0.ID)
	assert.Equal(t, []LabelID{0}, got)
	got = fresh.GetNodeLabels(n1.ID)
	assert.Equal(t, []LabelID{0}, got)
}
