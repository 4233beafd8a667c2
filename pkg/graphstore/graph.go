// Package graphstore implements the Graph composite: node and edge
// datablocks, the adjacency delta-matrix, per-label delta-matrices, the
// node-label delta-matrix, per-relation tensors, a reader/writer lock, a
// swappable matrix-sync policy, and the per-label/per-relation counters
// that those matrices must stay consistent with.
package graphstore

import (
	"sync"

	"github.com/orneryd/propgraph/pkg/config"
	"github.com/orneryd/propgraph/pkg/datablock"
	"github.com/orneryd/propgraph/pkg/deltamatrix"
	"github.com/orneryd/propgraph/pkg/tensor"
)

// NodeID and EdgeID are the stable 64-bit identifiers the respective
// DataBlocks hand out.
type NodeID = uint64
type EdgeID = uint64

// LabelID and RelationID are 32-bit identifiers allocated by monotonic
// counters; they are never renumbered while live.
type LabelID = int32
type RelationID = int32

// AnyRelation selects every relation in a read API; NoRelation selects
// none.
const (
	AnyRelation RelationID = -1
	NoRelation  RelationID = -2
)

// SyncPolicy governs whether a matrix accessor may grow and/or flush the
// matrix it returns.
type SyncPolicy int

const (
	// FlushResize grows the matrix to current node capacity and flushes it
	// if dirty.
	FlushResize SyncPolicy = iota
	// Resize grows the matrix to current node capacity without flushing.
	Resize
	// Nop does neither; used by writers doing batch work that would
	// otherwise trigger flushes mid-batch.
	Nop
)

// Node is {id, attribute-set handle}. Attrs is nil when the node has no
// attributes yet but the slot is live.
type Node struct {
	ID    NodeID
	Attrs AttributeSet
}

// Edge is {id, src-id, dest-id, relation-id, attribute-set handle}.
type Edge struct {
	ID       EdgeID
	Src      NodeID
	Dest     NodeID
	Relation RelationID
	Attrs    AttributeSet
}

// Direction selects which side of a tensor cell a traversal reads.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Both
)

// Graph owns the whole composite. The zero value is not usable; construct
// with New.
type Graph struct {
	mu sync.RWMutex

	nodes *datablock.DataBlock[Node]
	edges *datablock.DataBlock[Edge]

	adjacency  *deltamatrix.DeltaMatrix[bool]
	labels     []*deltamatrix.DeltaMatrix[bool]
	nodeLabels *deltamatrix.DeltaMatrix[bool]
	relations  []*tensor.Tensor
	zeroMatrix *deltamatrix.DeltaMatrix[bool]

	labeledNodeCount  []uint64
	relationEdgeCount []uint64

	nodeCap           uint64
	policy            SyncPolicy
	reservedNodeCount uint64
	maxPendingChanges uint64
}

// New constructs an empty Graph sized from cfg.
func New(cfg *config.Config) *Graph {
	nodeCap := cfg.Capacity.NodeCapacity
	maxPending := cfg.Delta.MaxPendingChanges

	g := &Graph{
		nodes:             datablock.New[Node](nodeCap, freeNode),
		edges:             datablock.New[Edge](nodeCap, freeEdge),
		nodeCap:           nodeCap,
		policy:            FlushResize,
		maxPendingChanges: maxPending,
		labels:            make([]*deltamatrix.DeltaMatrix[bool], 0, cfg.Capacity.RelationCapacity),
		relations:         make([]*tensor.Tensor, 0, cfg.Capacity.RelationCapacity),
		labeledNodeCount:  make([]uint64, 0, cfg.Capacity.RelationCapacity),
		relationEdgeCount: make([]uint64, 0, cfg.Capacity.RelationCapacity),
	}
	g.adjacency = deltamatrix.New[bool](nodeCap, nodeCap, maxPending, true)
	g.nodeLabels = deltamatrix.New[bool](nodeCap, nodeCap, maxPending, true)
	g.zeroMatrix = deltamatrix.New[bool](nodeCap, nodeCap, maxPending, false)
	return g
}

func freeNode(n *Node) {
	if n.Attrs != nil {
		n.Attrs.Free()
		n.Attrs = nil
	}
}

func freeEdge(e *Edge) {
	if e.Attrs != nil {
		e.Attrs.Free()
		e.Attrs = nil
	}
}

// Lock acquires the write lock. Every mutating method below assumes the
// caller already holds it: the expected control flow is external code
// acquiring a read or write lock on Graph, then issuing its mutations or
// reads, then releasing it — Graph never locks itself internally.
func (g *Graph) Lock() { g.mu.Lock() }

// Unlock releases the write lock.
func (g *Graph) Unlock() { g.mu.Unlock() }

// RLock acquires the read lock.
func (g *Graph) RLock() { g.mu.RLock() }

// RUnlock releases the read lock.
func (g *Graph) RUnlock() { g.mu.RUnlock() }

// Policy returns the current matrix-sync policy.
func (g *Graph) Policy() SyncPolicy { return g.policy }

// SetPolicy installs a new matrix-sync policy and returns the previous
// one, so callers can restore it with a deferred SetPolicy(prev).
func (g *Graph) SetPolicy(p SyncPolicy) SyncPolicy {
	prev := g.policy
	g.policy = p
	return prev
}

// NodeCap returns the current node dimension shared by every matrix.
func (g *Graph) NodeCap() uint64 { return g.nodeCap }

// EnsureNodeCap grows the node DataBlock and resizes every matrix to cap.
// A no-op if cap does not exceed the current capacity.
func (g *Graph) EnsureNodeCap(cap uint64) {
	if cap <= g.nodeCap {
		return
	}
	g.nodes.GrowCap(cap)
	g.adjacency.Resize(cap, cap)
	g.nodeLabels.Resize(cap, cap)
	g.zeroMatrix.Resize(cap, cap)
	for _, l := range g.labels {
		l.Resize(cap, cap)
	}
	for _, t := range g.relations {
		t.Resize(cap, cap)
	}
	g.nodeCap = cap
}

// ApplyAllPending iterates the adjacency, node-label, zero, every label,
// and every relation matrix, flushing each.
func (g *Graph) ApplyAllPending(force bool) {
	g.adjacency.Flush(force)
	g.nodeLabels.Flush(force)
	g.zeroMatrix.Flush(force)
	for _, l := range g.labels {
		l.Flush(force)
	}
	for _, t := range g.relations {
		t.Flush(force)
	}
}

func (g *Graph) applyPolicy(d *deltamatrix.DeltaMatrix[bool]) {
	switch g.policy {
	case FlushResize:
		d.Synchronize(g.nodeCap, g.nodeCap)
	case Resize:
		if g.nodeCap > d.NRows() || g.nodeCap > d.NCols() {
			d.Resize(g.nodeCap, g.nodeCap)
		}
	case Nop:
	}
}

func (g *Graph) applyTensorPolicy(t *tensor.Tensor) {
	switch g.policy {
	case FlushResize:
		t.Synchronize(g.nodeCap, g.nodeCap)
	case Resize:
		if g.nodeCap > t.NRows() || g.nodeCap > t.NCols() {
			t.Resize(g.nodeCap, g.nodeCap)
		}
	case Nop:
	}
}
