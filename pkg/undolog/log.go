package undolog

import "github.com/orneryd/propgraph/pkg/graphstore"

// Log accumulates entries describing the inverse of each mutation applied
// during a transaction. Consecutive appends of the same kind coalesce
// into the most recent entry instead of growing the entry count, since a
// transaction typically batches several same-kind operations in a row
// (several CreateNode calls, a bulk delete, ...).
//
// A Log is not safe for concurrent use; callers serialize access to it the
// same way they serialize access to the Graph it shadows (Graph's own
// write lock, held for the whole transaction).
type Log struct {
	entries []entry
}

// New returns an empty Log.
func New() *Log { return &Log{} }

// Len returns the number of (possibly coalesced) entries currently held.
func (l *Log) Len() int { return len(l.entries) }

// Kinds returns the kind of each entry currently held, in recorded order.
func (l *Log) Kinds() []Kind {
	out := make([]Kind, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.kind()
	}
	return out
}

func lastAs[E entry](l *Log) (E, bool) {
	var zero E
	if len(l.entries) == 0 {
		return zero, false
	}
	if v, ok := l.entries[len(l.entries)-1].(E); ok {
		return v, true
	}
	return zero, false
}

// RecordCreateNodes appends ids to the log's most recent create-nodes
// entry, or starts one if the most recent entry is a different kind.
func (l *Log) RecordCreateNodes(ids ...graphstore.NodeID) {
	if last, ok := lastAs[*CreateNodesEntry](l); ok {
		last.IDs = append(last.IDs, ids...)
		return
	}
	l.entries = append(l.entries, &CreateNodesEntry{IDs: append([]graphstore.NodeID(nil), ids...)})
}

// RecordCreateEdges appends ids to the log's most recent create-edges
// entry, or starts one.
func (l *Log) RecordCreateEdges(ids ...graphstore.EdgeID) {
	if last, ok := lastAs[*CreateEdgesEntry](l); ok {
		last.IDs = append(last.IDs, ids...)
		return
	}
	l.entries = append(l.entries, &CreateEdgesEntry{IDs: append([]graphstore.EdgeID(nil), ids...)})
}

// RecordDeleteNodes appends records, captured via CaptureDeletedNode
// before the corresponding Graph.DeleteNodes, to the log's most recent
// delete-nodes entry, or starts one.
func (l *Log) RecordDeleteNodes(records ...DeletedNodeRecord) {
	if last, ok := lastAs[*DeleteNodesEntry](l); ok {
		last.Records = append(last.Records, records...)
		return
	}
	l.entries = append(l.entries, &DeleteNodesEntry{Records: append([]DeletedNodeRecord(nil), records...)})
}

// RecordDeleteEdges appends records, captured via CaptureDeletedEdge
// before the corresponding Graph.DeleteEdges, to the log's most recent
// delete-edges entry, or starts one.
func (l *Log) RecordDeleteEdges(records ...DeletedEdgeRecord) {
	if last, ok := lastAs[*DeleteEdgesEntry](l); ok {
		last.Records = append(last.Records, records...)
		return
	}
	l.entries = append(l.entries, &DeleteEdgesEntry{Records: append([]DeletedEdgeRecord(nil), records...)})
}

// RecordUpdateNodes appends records, captured via CaptureUpdatedNode
// before overwriting a node's attribute handle, to the log's most recent
// update-nodes entry, or starts one.
func (l *Log) RecordUpdateNodes(records ...UpdatedNodeRecord) {
	if last, ok := lastAs[*UpdateNodesEntry](l); ok {
		last.Records = append(last.Records, records...)
		return
	}
	l.entries = append(l.entries, &UpdateNodesEntry{Records: append([]UpdatedNodeRecord(nil), records...)})
}

// RecordUpdateEdges appends records, captured via CaptureUpdatedEdge
// before overwriting an edge's attribute handle, to the log's most recent
// update-edges entry, or starts one.
func (l *Log) RecordUpdateEdges(records ...UpdatedEdgeRecord) {
	if last, ok := lastAs[*UpdateEdgesEntry](l); ok {
		last.Records = append(last.Records, records...)
		return
	}
	l.entries = append(l.entries, &UpdateEdgesEntry{Records: append([]UpdatedEdgeRecord(nil), records...)})
}

// RecordAddLabels appends records to the log's most recent add-labels
// entry, or starts one. Call after a LabelNode outside of node creation.
func (l *Log) RecordAddLabels(records ...LabelChangeRecord) {
	if last, ok := lastAs[*AddLabelsEntry](l); ok {
		last.Records = append(last.Records, records...)
		return
	}
	l.entries = append(l.entries, &AddLabelsEntry{Records: append([]LabelChangeRecord(nil), records...)})
}

// RecordRemoveLabels appends records to the log's most recent
// remove-labels entry, or starts one.
func (l *Log) RecordRemoveLabels(records ...LabelChangeRecord) {
	if last, ok := lastAs[*RemoveLabelsEntry](l); ok {
		last.Records = append(last.Records, records...)
		return
	}
	l.entries = append(l.entries, &RemoveLabelsEntry{Records: append([]LabelChangeRecord(nil), records...)})
}

// RecordAddSchema appends records to the log's most recent add-schema
// entry, or starts one.
func (l *Log) RecordAddSchema(records ...SchemaAddRecord) {
	if last, ok := lastAs[*AddSchemaEntry](l); ok {
		last.Records = append(last.Records, records...)
		return
	}
	l.entries = append(l.entries, &AddSchemaEntry{Records: append([]SchemaAddRecord(nil), records...)})
}

// RecordAddAttribute appends ids to the log's most recent add-attribute
// entry, or starts one.
func (l *Log) RecordAddAttribute(ids ...int32) {
	if last, ok := lastAs[*AddAttributeEntry](l); ok {
		last.IDs = append(last.IDs, ids...)
		return
	}
	l.entries = append(l.entries, &AddAttributeEntry{IDs: append([]int32(nil), ids...)})
}

// RecordCreateIndex appends records to the log's most recent create-index
// entry, or starts one.
func (l *Log) RecordCreateIndex(records ...IndexRecord) {
	if last, ok := lastAs[*CreateIndexEntry](l); ok {
		last.Records = append(last.Records, records...)
		return
	}
	l.entries = append(l.entries, &CreateIndexEntry{Records: append([]IndexRecord(nil), records...)})
}

// Rollback replays every entry, latest first, and within each entry
// replays its members in reverse of their recorded order, undoing a
// transaction's mutations against g. schema is required only if the log
// holds any AddSchema, AddAttribute, or CreateIndex entries; pass nil
// otherwise. The log is empty after Rollback returns.
func (l *Log) Rollback(g *graphstore.Graph, schema graphstore.SchemaRegistry) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		l.entries[i].replay(g, schema)
	}
	l.entries = nil
}

// Drop discards the log without replaying it, freeing any attribute
// handles it still owns from a captured delete or update. Use this when a
// transaction commits instead of rolling back. Calling Drop after
// Rollback (or vice versa) is a no-op the second time, since both empty
// the entry list.
func (l *Log) Drop() {
	for _, e := range l.entries {
		e.freeOwned()
	}
	l.entries = nil
}
