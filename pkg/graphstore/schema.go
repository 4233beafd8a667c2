package graphstore

// SchemaKind distinguishes a node-scoped schema entity (a label) from a
// relation-scoped one: undoing the addition of a schema entity needs to
// know whether to call RemoveLabel or RemoveRelation.
type SchemaKind int

const (
	SchemaNode SchemaKind = iota
	SchemaRelation
)

// SchemaRegistry is the external schema/index collaborator consumed only
// from undo-log replay (never from normal Graph mutation): adding a label,
// relation type, attribute, or index is recorded there by the query layer,
// and rollback must be able to undo it.
type SchemaRegistry interface {
	RemoveSchema(id int32, kind SchemaKind)
	RemoveAttribute(id int32)
	RemoveIndex(kind SchemaKind, label int32, field string, fieldType int32)
}
