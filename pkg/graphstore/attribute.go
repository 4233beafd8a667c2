package graphstore

// AttributeSet is the opaque, owned value a Node or Edge's attribute
// handle points to. The core never inspects its contents — it only ever
// calls Free when a slot is deleted or an update replaces the value.
type AttributeSet interface {
	Free()
}

// PropertyMap is a minimal AttributeSet backed by a plain map, standing in
// for a real attribute store (which is an external collaborator per this
// module's scope). Free is a no-op: nothing owns off-heap resources here.
type PropertyMap map[string]any

// Free satisfies AttributeSet.
func (PropertyMap) Free() {}
