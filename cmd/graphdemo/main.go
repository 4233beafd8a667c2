// Command graphdemo exercises the graphstore stack end to end against an
// in-memory graph: labels and relation types, node and edge creation, an
// undo log wrapping a small transaction, and a rollback. It takes no flags;
// it is a smoke-test driver, not a server.
package main

import (
	"log"

	"github.com/orneryd/propgraph/pkg/config"
	"github.com/orneryd/propgraph/pkg/graphstore"
	"github.com/orneryd/propgraph/pkg/undolog"
)

func main() {
	cfg := config.LoadFromEnv()
	g := graphstore.New(cfg)

	person := g.AddLabel()
	knows := g.AddRelationType()

	g.Lock()
	alice := g.CreateNode([]graphstore.LabelID{person})
	alice.Attrs = graphstore.PropertyMap{"name": "alice"}
	g.SetNode(alice)
	bob := g.CreateNode([]graphstore.LabelID{person})
	bob.Attrs = graphstore.PropertyMap{"name": "bob"}
	g.SetNode(bob)
	g.Unlock()

	g.Lock()
	edge := g.CreateEdge(alice.ID, bob.ID, knows, graphstore.PropertyMap{"since": 2024})
	g.Unlock()

	log.Printf("graph: %d labeled nodes, %d edges on relation %d",
		g.LabeledNodeCount(person), g.RelationEdgeCount(knows), knows)

	g.RLock()
	degree := g.GetNodeDegree(alice.ID, graphstore.Outgoing, knows)
	g.RUnlock()
	log.Printf("alice's outgoing degree on knows: %d", degree)

	// Open a transaction: add a third node and an edge to it, then roll
	// everything in the transaction back.
	txn := undolog.New()
	g.Lock()
	carol := g.CreateNode([]graphstore.LabelID{person})
	txn.RecordCreateNodes(carol.ID)
	bobKnowsCarol := g.CreateEdge(bob.ID, carol.ID, knows, nil)
	txn.RecordCreateEdges(bobKnowsCarol.ID)
	g.Unlock()

	log.Printf("before rollback: %d labeled nodes", g.LabeledNodeCount(person))

	g.Lock()
	txn.Rollback(g, nil)
	g.Unlock()

	log.Printf("after rollback: %d labeled nodes, edge %d still there? %v",
		g.LabeledNodeCount(person), edge.ID, func() bool { _, ok := g.GetEdge(edge.ID); return ok }())

	if _, ok := g.GetNode(carol.ID); ok {
		log.Fatal("rollback failed to remove carol")
	}
}
