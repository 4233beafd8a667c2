package undolog

import (
	"testing"

	"github.com/orneryd/propgraph/pkg/config"
	"github.com/orneryd/propgraph/pkg/graphstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph() *graphstore.Graph {
	cfg := config.Default()
	cfg.Capacity.NodeCapacity = 16
	cfg.Capacity.RelationCapacity = 4
	cfg.Delta.MaxPendingChanges = 100
	return graphstore.New(cfg)
}

// scenario 6: undo of create-edge.
func TestUndoCreateEdgeAndCreateNode(t *testing.T) {
	g := newTestGraph()
	r := g.AddRelationType()
	n0 := g.CreateNode(nil)

	l := New()
	n1 := g.CreateNode(nil)
	l.RecordCreateNodes(n1.ID)

	e0 := g.CreateEdge(n0.ID, n1.ID, r, nil)
	l.RecordCreateEdges(e0.ID)

	l.Rollback(g, nil)

	_, ok := g.GetNode(n0.ID)
	assert.True(t, ok)
	_, ok = g.GetNode(n1.ID)
	assert.False(t, ok)
	_, ok = g.GetEdge(e0.ID)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), g.GetNodeDegree(n0.ID, graphstore.Both, graphstore.AnyRelation))
	assert.Equal(t, uint64(0), g.GetRelationMatrix(r, false).NVals())
}

func TestKindsReportsCoalescedEntryShapes(t *testing.T) {
	g := newTestGraph()
	r := g.AddRelationType()
	n0 := g.CreateNode(nil)
	n1 := g.CreateNode(nil)

	l := New()
	l.RecordCreateNodes(n0.ID, n1.ID)
	e0 := g.CreateEdge(n0.ID, n1.ID, r, nil)
	l.RecordCreateEdges(e0.ID)

	assert.Equal(t, []Kind{KindCreateNodes, KindCreateEdges}, l.Kinds())
}

func TestCoalescesConsecutiveSameKindEntries(t *testing.T) {
	g := newTestGraph()
	l := New()

	n0 := g.CreateNode(nil)
	l.RecordCreateNodes(n0.ID)
	n1 := g.CreateNode(nil)
	l.RecordCreateNodes(n1.ID)
	n2 := g.CreateNode(nil)
	l.RecordCreateNodes(n2.ID)

	require.Equal(t, 1, l.Len())

	l.Rollback(g, nil)
	_, ok := g.GetNode(n0.ID)
	assert.False(t, ok)
	_, ok = g.GetNode(n1.ID)
	assert.False(t, ok)
	_, ok = g.GetNode(n2.ID)
	assert.False(t, ok)
}

func TestRollbackOfDeleteNodeRecreatesAttributesAndLabels(t *testing.T) {
	g := newTestGraph()
	l0 := g.AddLabel()
	n0 := g.CreateNode([]graphstore.LabelID{l0})
	n0.Attrs = graphstore.PropertyMap{"name": "alice"}
	g.SetNode(n0)

	l := New()
	labels := g.GetNodeLabels(n0.ID)
	deleted := g.DeleteNodesForUndo([]graphstore.NodeID{n0.ID})
	rec := CaptureDeletedNode(deleted[0], labels)
	l.RecordDeleteNodes(rec)

	l.Rollback(g, nil)

	got, ok := g.GetNode(n0.ID)
	require.True(t, ok)
	assert.Equal(t, graphstore.PropertyMap{"name": "alice"}, got.Attrs)
	assert.Equal(t, []graphstore.LabelID{l0}, g.GetNodeLabels(n0.ID))
	assert.Equal(t, uint64(1), g.LabeledNodeCount(l0))
}

func TestRollbackOfDeleteEdgeRecreatesAttributes(t *testing.T) {
	g := newTestGraph()
	r := g.AddRelationType()
	n0 := g.CreateNode(nil)
	n1 := g.CreateNode(nil)
	e0 := g.CreateEdge(n0.ID, n1.ID, r, graphstore.PropertyMap{"w": 3})

	l := New()
	deleted := g.DeleteEdgesForUndo([]graphstore.EdgeID{e0.ID})
	rec := CaptureDeletedEdge(deleted[0])
	l.RecordDeleteEdges(rec)

	l.Rollback(g, nil)

	got, ok := g.GetEdge(e0.ID)
	require.True(t, ok)
	assert.Equal(t, graphstore.PropertyMap{"w": 3}, got.Attrs)
	assert.Equal(t, n0.ID, got.Src)
	assert.Equal(t, n1.ID, got.Dest)
}

func TestRollbackOfUpdateNodeRestoresOldAttrs(t *testing.T) {
	g := newTestGraph()
	n0 := g.CreateNode(nil)
	n0.Attrs = graphstore.PropertyMap{"v": 1}
	g.SetNode(n0)

	l := New()
	rec := CaptureUpdatedNode(n0.ID, n0.Attrs)
	n0.Attrs = graphstore.PropertyMap{"v": 2}
	g.SetNode(n0)
	l.RecordUpdateNodes(rec)

	updated, _ := g.GetNode(n0.ID)
	assert.Equal(t, graphstore.PropertyMap{"v": 2}, updated.Attrs)

	l.Rollback(g, nil)

	restored, _ := g.GetNode(n0.ID)
	assert.Equal(t, graphstore.PropertyMap{"v": 1}, restored.Attrs)
}

func TestRollbackOfAddLabelsRemovesThem(t *testing.T) {
	g := newTestGraph()
	l0 := g.AddLabel()
	n0 := g.CreateNode(nil)

	l := New()
	g.LabelNode(n0.ID, []graphstore.LabelID{l0})
	l.RecordAddLabels(LabelChangeRecord{Node: n0.ID, Labels: []graphstore.LabelID{l0}})

	assert.Equal(t, []graphstore.LabelID{l0}, g.GetNodeLabels(n0.ID))

	l.Rollback(g, nil)

	assert.Empty(t, g.GetNodeLabels(n0.ID))
}

func TestRollbackOfRemoveLabelsReinstallsThem(t *testing.T) {
	g := newTestGraph()
	l0 := g.AddLabel()
	n0 := g.CreateNode([]graphstore.LabelID{l0})

	l := New()
	g.RemoveNodeLabels(n0.ID, []graphstore.LabelID{l0})
	l.RecordRemoveLabels(LabelChangeRecord{Node: n0.ID, Labels: []graphstore.LabelID{l0}})

	assert.Empty(t, g.GetNodeLabels(n0.ID))

	l.Rollback(g, nil)

	assert.Equal(t, []graphstore.LabelID{l0}, g.GetNodeLabels(n0.ID))
}

type fakeSchemaRegistry struct {
	removedSchema    []int32
	removedAttrs     []int32
	removedIndexName []string
}

func (f *fakeSchemaRegistry) RemoveSchema(id int32, _ graphstore.SchemaKind) {
	f.removedSchema = append(f.removedSchema, id)
}
func (f *fakeSchemaRegistry) RemoveAttribute(id int32) {
	f.removedAttrs = append(f.removedAttrs, id)
}
func (f *fakeSchemaRegistry) RemoveIndex(_ graphstore.SchemaKind, _ int32, field string, _ int32) {
	f.removedIndexName = append(f.removedIndexName, field)
}

func TestRollbackOfAddSchemaRemovesLabelAndRegistryEntry(t *testing.T) {
	g := newTestGraph()
	schema := &fakeSchemaRegistry{}
	l := New()

	l0 := g.AddLabel()
	l.RecordAddSchema(SchemaAddRecord{ID: l0, Kind: graphstore.SchemaNode})

	l.Rollback(g, schema)

	assert.Equal(t, 0, g.NumLabels())
	assert.Equal(t, []int32{l0}, schema.removedSchema)
}

func TestRollbackOfAddAttributeAndCreateIndex(t *testing.T) {
	g := newTestGraph()
	schema := &fakeSchemaRegistry{}
	l := New()

	l.RecordAddAttribute(7)
	l.RecordCreateIndex(IndexRecord{Kind: graphstore.SchemaNode, Label: 0, Field: "name", FieldType: 1})

	l.Rollback(g, schema)

	assert.Equal(t, []int32{7}, schema.removedAttrs)
	assert.Equal(t, []string{"name"}, schema.removedIndexName)
}

func TestDropFreesOwnedAttrsWithoutReplaying(t *testing.T) {
	g := newTestGraph()
	n0 := g.CreateNode(nil)
	n0.Attrs = graphstore.PropertyMap{"x": 1}
	g.SetNode(n0)

	l := New()
	deleted := g.DeleteNodesForUndo([]graphstore.NodeID{n0.ID})
	rec := CaptureDeletedNode(deleted[0], nil)
	l.RecordDeleteNodes(rec)

	l.Drop()

	_, ok := g.GetNode(n0.ID)
	assert.False(t, ok, "Drop must not replay — the node stays deleted")
	assert.Equal(t, 0, l.Len())
}
