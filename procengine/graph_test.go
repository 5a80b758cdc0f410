package procengine

import (
	"errors"
	"testing"
)

func TestGraphAddNodeRejectsDuplicate(t *testing.T) {
	g := NewGraph()
	if err := g.AddNode(Node{ID: "a", Data: StartData()}); err != nil {
		t.Fatalf("first AddNode: %v", err)
	}
	err := g.AddNode(Node{ID: "a", Data: EndData()})
	if !errors.Is(err, ErrNodeAlreadyExists) {
		t.Fatalf("AddNode duplicate = %v, want ErrNodeAlreadyExists", err)
	}
}

func TestGraphAddEdgeValidatesEndpoints(t *testing.T) {
	g := NewGraph()
	_ = g.AddNode(Node{ID: "a", Data: StartData()})

	if err := g.AddEdge(Edge{From: "a", To: "missing", Condition: CTrue()}); !errors.Is(err, ErrToNodeMissing) {
		t.Fatalf("AddEdge with missing To = %v, want ErrToNodeMissing", err)
	}
	if err := g.AddEdge(Edge{From: "missing", To: "a", Condition: CTrue()}); !errors.Is(err, ErrFromNodeMissing) {
		t.Fatalf("AddEdge with missing From = %v, want ErrFromNodeMissing", err)
	}
}

func TestGraphAddEdgeRejectsDuplicatePair(t *testing.T) {
	g := NewGraph()
	_ = g.AddNode(Node{ID: "a", Data: StartData()})
	_ = g.AddNode(Node{ID: "b", Data: EndData()})
	_ = g.AddEdge(Edge{From: "a", To: "b", Condition: CTrue()})

	err := g.AddEdge(Edge{From: "a", To: "b", Condition: CFalse()})
	if !errors.Is(err, ErrEdgeAlreadyExists) {
		t.Fatalf("duplicate (from,to) = %v, want ErrEdgeAlreadyExists", err)
	}
}

func TestGraphEdgesCanonicalOrder(t *testing.T) {
	g := NewGraph()
	for _, id := range []NodeID{"c", "a", "b"} {
		_ = g.AddNode(Node{ID: id, Data: StartData()})
	}
	_ = g.AddEdge(Edge{From: "c", To: "a", Condition: CTrue()})
	_ = g.AddEdge(Edge{From: "a", To: "b", Condition: CTrue()})
	_ = g.AddEdge(Edge{From: "b", To: "c", Condition: CTrue()})

	edges := g.Edges()
	for i := 1; i < len(edges); i++ {
		prev, cur := edges[i-1], edges[i]
		if cur.From < prev.From || (cur.From == prev.From && cur.To < prev.To) {
			t.Fatalf("edges not in canonical order: %+v", edges)
		}
	}
}

func TestGraphPaths(t *testing.T) {
	g := NewGraph()
	for _, id := range []NodeID{"split", "left", "right", "join"} {
		_ = g.AddNode(Node{ID: id, Data: StartData()})
	}
	_ = g.AddEdge(Edge{From: "split", To: "left", Condition: CTrue()})
	_ = g.AddEdge(Edge{From: "split", To: "right", Condition: CTrue()})
	_ = g.AddEdge(Edge{From: "left", To: "join", Condition: CTrue()})
	_ = g.AddEdge(Edge{From: "right", To: "join", Condition: CTrue()})

	paths, err := g.Paths("split", "join")
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Paths returned %d paths, want 2", len(paths))
	}
}

func TestGraphPathsMissingNode(t *testing.T) {
	g := NewGraph()
	_ = g.AddNode(Node{ID: "a", Data: StartData()})
	if _, err := g.Paths("a", "missing"); !errors.Is(err, ErrNodeDoesNotExist) {
		t.Fatalf("Paths with missing endpoint = %v, want ErrNodeDoesNotExist", err)
	}
}

func TestGraphCloneIsIndependent(t *testing.T) {
	g := NewGraph()
	_ = g.AddNode(Node{ID: "a", Data: StartData()})
	_ = g.AddNode(Node{ID: "b", Data: EndData()})
	_ = g.AddEdge(Edge{From: "a", To: "b", Condition: CTrue()})

	clone := g.Clone()
	clone.RemoveNode("b")

	if !g.HasNode("b") {
		t.Fatal("removing a node from the clone mutated the original graph")
	}
	if clone.HasNode("b") {
		t.Fatal("clone should no longer have node b")
	}
}

func TestGraphRemoveNodeCascadesEdges(t *testing.T) {
	g := NewGraph()
	_ = g.AddNode(Node{ID: "a", Data: StartData()})
	_ = g.AddNode(Node{ID: "b", Data: EndData()})
	_ = g.AddEdge(Edge{From: "a", To: "b", Condition: CTrue()})

	g.RemoveNode("b")

	if g.HasEdge("a", "b") {
		t.Fatal("removing node b should remove edges referencing it")
	}
}
