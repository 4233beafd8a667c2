// Package datablock implements the append-growable object pool node and
// edge storage builds on: stable ids handed out by simple append (never
// reused except through the explicit "allocate at" replay path), a
// deleted-slot bitmap, and a live-entry scan iterator.
package datablock

import "github.com/RoaringBitmap/roaring/v2/roaring64"

// DataBlock is a pool of T slots addressed by a dense-ish uint64 id. The
// zero value is not usable; construct with New.
type DataBlock[T any] struct {
	items      []T
	itemCount  uint64 // number of ids ever handed out (live or deleted)
	deleted    *roaring64.Bitmap
	destructor func(*T)
}

// New constructs a pool with room for capItems before its first grow.
// destructor, if non-nil, is invoked on a slot's current value when that
// slot is deleted via DeleteItem (not MarkDeletedAt, which assumes the
// caller already handled cleanup).
func New[T any](capItems uint64, destructor func(*T)) *DataBlock[T] {
	return &DataBlock[T]{
		items:      make([]T, capItems),
		deleted:    roaring64.New(),
		destructor: destructor,
	}
}

// ItemCap returns the number of slots currently backing the pool.
func (b *DataBlock[T]) ItemCap() uint64 { return uint64(len(b.items)) }

// ItemCount returns the number of ids ever allocated, live or deleted.
func (b *DataBlock[T]) ItemCount() uint64 { return b.itemCount }

// DeletedCount returns the number of deleted slots.
func (b *DataBlock[T]) DeletedCount() uint64 { return b.deleted.GetCardinality() }

// DeletedList returns every deleted id in ascending order.
func (b *DataBlock[T]) DeletedList() []uint64 { return b.deleted.ToArray() }

// Accommodate grows the backing storage so at least n more ids can be
// allocated without a further grow.
func (b *DataBlock[T]) Accommodate(n uint64) {
	needed := b.itemCount + n
	b.growTo(needed)
}

// GrowCap grows the backing storage to at least capHint slots without
// advancing ItemCount — used when a caller wants to pre-size the pool
// (e.g. Graph.EnsureNodeCap) ahead of any actual allocation.
func (b *DataBlock[T]) GrowCap(capHint uint64) {
	b.growTo(capHint)
}

// Ensure grows the backing storage, if necessary, so that id is a valid
// (allocated) slot, and advances ItemCount past it.
func (b *DataBlock[T]) Ensure(id uint64) {
	b.growTo(id + 1)
	if id+1 > b.itemCount {
		b.itemCount = id + 1
	}
}

func (b *DataBlock[T]) growTo(needed uint64) {
	if needed <= uint64(len(b.items)) {
		return
	}
	newCap := uint64(len(b.items))
	if newCap == 0 {
		newCap = 1
	}
	for newCap < needed {
		newCap *= 2
	}
	grown := make([]T, newCap)
	copy(grown, b.items)
	b.items = grown
}

// AllocateItem appends a fresh slot and returns its id and a pointer into
// the pool. The slot holds T's zero value.
func (b *DataBlock[T]) AllocateItem() (uint64, *T) {
	id := b.itemCount
	b.Ensure(id)
	return id, &b.items[id]
}

// AllocateItemAt allocates (or re-allocates, clearing any deleted mark) the
// slot at a caller-chosen id, growing the pool if necessary. Used for
// out-of-order replay, where ids must match a previously recorded log
// rather than being handed out by append order. Ids skipped over between
// the previous ItemCount and id are marked deleted, so they read as absent
// until AllocateItemAt is called for them.
func (b *DataBlock[T]) AllocateItemAt(id uint64) *T {
	for gap := b.itemCount; gap < id; gap++ {
		b.deleted.Add(gap)
	}
	b.Ensure(id)
	b.deleted.Remove(id)
	return &b.items[id]
}

// GetItem returns a pointer to id's slot and true if id is live; (nil,
// false) if id was never allocated or has been deleted.
func (b *DataBlock[T]) GetItem(id uint64) (*T, bool) {
	if id >= b.itemCount || b.deleted.Contains(id) {
		return nil, false
	}
	return &b.items[id], true
}

// DeleteItem invokes the destructor (if any) on id's current value, then
// marks the slot deleted. A no-op if id is already deleted or was never
// allocated.
func (b *DataBlock[T]) DeleteItem(id uint64) {
	if id >= b.itemCount || b.deleted.Contains(id) {
		return
	}
	if b.destructor != nil {
		b.destructor(&b.items[id])
	}
	b.deleted.Add(id)
}

// MarkDeletedAt marks id deleted without invoking the destructor, for
// callers that have already taken ownership of the slot's contents (e.g.
// an undo log capturing an attribute handle before the node is removed).
func (b *DataBlock[T]) MarkDeletedAt(id uint64) {
	b.deleted.Add(id)
}
