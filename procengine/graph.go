package procengine

import "sort"

// NodeID identifies a node. Spec §3 allows "string, integer, or UUID";
// string is used here, matching the teacher's NodeID-as-string convention
// throughout graph/engine.go and graph/edge.go.
type NodeID string

// Reserved sentinel node identifiers (spec §3).
const (
	Start NodeID = "START"
	End   NodeID = "END"
)

// nodeDataKind tags the closed set of NodeData variants (spec §3, C3).
type nodeDataKind int

const (
	kindStart nodeDataKind = iota
	kindEnd
	kindActivity
	kindOrSplit
	kindAndSplit
	kindJoin
)

// NodeData is the closed set of per-node payloads: Start, End, Activity,
// Or (exclusive split), And (parallel split), Join.
type NodeData struct {
	kind nodeDataKind

	id NodeID

	// Activity fields.
	version        int
	requiredEvents []string
	outputEvents   []string
	module         string

	// Or/And fields: the mate Join's id.
	joinNodeID NodeID

	// Join fields: the mate Or/And's id.
	forNodeID NodeID
}

// StartData is the sentinel Start node payload.
func StartData() NodeData { return NodeData{kind: kindStart, id: Start} }

// EndData is the sentinel End node payload.
func EndData() NodeData { return NodeData{kind: kindEnd, id: End} }

// Activity describes a user workflow step, identified by (id, version),
// per spec §3/§6's Activity contract.
type Activity struct {
	ID             NodeID
	Version        int
	RequiredEvents []string
	OutputEvents   []string
	Module         string
}

// ActivityData wraps an Activity as node payload.
func ActivityData(a Activity) NodeData {
	return NodeData{
		kind:           kindActivity,
		id:             a.ID,
		version:        a.Version,
		requiredEvents: a.RequiredEvents,
		outputEvents:   a.OutputEvents,
		module:         a.Module,
	}
}

// OrData is an exclusive-choice split node, naming its mate Join.
func OrData(id, joinNodeID NodeID) NodeData {
	return NodeData{kind: kindOrSplit, id: id, joinNodeID: joinNodeID}
}

// AndData is a parallel-all split node, naming its mate Join.
func AndData(id, joinNodeID NodeID) NodeData {
	return NodeData{kind: kindAndSplit, id: id, joinNodeID: joinNodeID}
}

// JoinData is a join node, naming its mate Or/And.
func JoinData(id, forNodeID NodeID) NodeData {
	return NodeData{kind: kindJoin, id: id, forNodeID: forNodeID}
}

// ID returns the node id this payload belongs to.
func (d NodeData) ID() NodeID { return d.id }

// IsStart reports whether d is the Start sentinel.
func (d NodeData) IsStart() bool { return d.kind == kindStart }

// IsEnd reports whether d is the End sentinel.
func (d NodeData) IsEnd() bool { return d.kind == kindEnd }

// IsActivity reports whether d is an Activity, returning it when true.
func (d NodeData) IsActivity() (Activity, bool) {
	if d.kind != kindActivity {
		return Activity{}, false
	}
	return Activity{
		ID:             d.id,
		Version:        d.version,
		RequiredEvents: d.requiredEvents,
		OutputEvents:   d.outputEvents,
		Module:         d.module,
	}, true
}

// IsOr reports whether d is an Or split, returning its mate Join id.
func (d NodeData) IsOr() (NodeID, bool) {
	if d.kind != kindOrSplit {
		return "", false
	}
	return d.joinNodeID, true
}

// IsAnd reports whether d is an And split, returning its mate Join id.
func (d NodeData) IsAnd() (NodeID, bool) {
	if d.kind != kindAndSplit {
		return "", false
	}
	return d.joinNodeID, true
}

// IsJoin reports whether d is a Join, returning the id of the split it mates.
func (d NodeData) IsJoin() (NodeID, bool) {
	if d.kind != kindJoin {
		return "", false
	}
	return d.forNodeID, true
}

// Node is {id, data}, per spec §3.
type Node struct {
	ID   NodeID
	Data NodeData
}

// Edge is {from_id, to_id, condition}, per spec §3. Edges are unique by
// (From, To).
type Edge struct {
	From      NodeID
	To        NodeID
	Condition Condition
}

// Graph is a directed graph of Nodes connected by conditioned Edges,
// generalizing the teacher's Edge[S]/Predicate[S] pair (graph/edge.go)
// into a standalone adjacency structure specialized to this engine's own
// node/edge types rather than parameterized over a caller state type.
//
// All additive operations preserve the invariants of spec §3: unique node
// ids, edges referencing only existing nodes, unique (from, to) pairs, and
// a deterministic canonical edge order (sorted by From then To) so that
// structural equality of two graphs is well defined — this is what the
// stepping engine's fixed-point test (spec §4.5, §9) relies on.
type Graph struct {
	nodes map[NodeID]Node
	edges []Edge
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[NodeID]Node)}
}

// AddNode adds n, or returns ErrNodeAlreadyExists if its id is taken.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return ErrNodeAlreadyExists
	}
	g.nodes[n.ID] = n
	return nil
}

// AddEdge adds e, keeping Edges sorted by (From, To). Returns
// ErrFromNodeMissing, ErrToNodeMissing, or ErrEdgeAlreadyExists.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrFromNodeMissing
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrToNodeMissing
	}
	if g.HasEdge(e.From, e.To) {
		return ErrEdgeAlreadyExists
	}
	g.edges = append(g.edges, e)
	sortEdges(g.edges)
	return nil
}

func sortEdges(edges []Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
}

// HasNode reports whether id is present.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether an edge (from, to) is present.
func (g *Graph) HasEdge(from, to NodeID) bool {
	_, ok := g.GetEdge(from, to)
	return ok
}

// GetNode returns the node for id, if present.
func (g *Graph) GetNode(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// GetEdge returns the edge (from, to), if present.
func (g *Graph) GetEdge(from, to NodeID) (Edge, bool) {
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// Outgoing returns the edges leaving id, in canonical order.
func (g *Graph) Outgoing(id NodeID) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering id, in canonical order.
func (g *Graph) Incoming(id NodeID) []Edge {
	var in []Edge
	for _, e := range g.edges {
		if e.To == id {
			in = append(in, e)
		}
	}
	return in
}

// Successors returns the distinct node ids reachable by one outgoing edge
// from id.
func (g *Graph) Successors(id NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.Outgoing(id) {
		out = append(out, e.To)
	}
	return out
}

// Predecessors returns the distinct node ids reaching id by one incoming edge.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	var in []NodeID
	for _, e := range g.Incoming(id) {
		in = append(in, e.From)
	}
	return in
}

// RemoveNode deletes id and cascades removal of its incident edges.
func (g *Graph) RemoveNode(id NodeID) {
	delete(g.nodes, id)
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.From != id && e.To != id {
			kept = append(kept, e)
		}
	}
	g.edges = kept
}

// RemoveEdge deletes the edge (from, to), if present.
func (g *Graph) RemoveEdge(from, to NodeID) {
	kept := g.edges[:0]
	for _, e := range g.edges {
		if !(e.From == from && e.To == to) {
			kept = append(kept, e)
		}
	}
	g.edges = kept
}

// Nodes returns all nodes, in no particular order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Edges returns all edges in canonical order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// MapEdges returns a new Graph with every edge's condition transformed by f.
func (g *Graph) MapEdges(f func(Edge) Edge) *Graph {
	out := &Graph{nodes: make(map[NodeID]Node, len(g.nodes))}
	for id, n := range g.nodes {
		out.nodes[id] = n
	}
	for _, e := range g.edges {
		out.edges = append(out.edges, f(e))
	}
	sortEdges(out.edges)
	return out
}

// MapNodes returns a new Graph with every node's data transformed by f.
func (g *Graph) MapNodes(f func(Node) Node) *Graph {
	out := &Graph{nodes: make(map[NodeID]Node, len(g.nodes))}
	for id, n := range g.nodes {
		mapped := f(n)
		out.nodes[id] = mapped
		_ = id
	}
	out.edges = append(out.edges, g.edges...)
	return out
}

// pathCutoff bounds path enumeration, per spec §4.2/§9: a path is
// abandoned once its length exceeds 3 * len(nodes). This is a superset
// enumeration, never turning a false "and-done" into a true one (§9).
func (g *Graph) pathCutoff() int {
	return 3 * len(g.nodes)
}

// Paths enumerates all simple-or-bounded node sequences from 'from' to
// 'to', abandoning any path once it exceeds the 3*|nodes| cutoff (spec
// §4.2). Returns ErrNodeDoesNotExist if either endpoint is absent.
func (g *Graph) Paths(from, to NodeID) ([][]NodeID, error) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return nil, ErrNodeDoesNotExist
	}
	cutoff := g.pathCutoff()
	var results [][]NodeID
	var walk func(current NodeID, path []NodeID)
	walk = func(current NodeID, path []NodeID) {
		if len(path) > cutoff {
			return
		}
		if current == to && len(path) > 0 {
			frozen := make([]NodeID, len(path))
			copy(frozen, path)
			results = append(results, frozen)
			return
		}
		for _, next := range g.Successors(current) {
			walk(next, append(path, next))
		}
	}
	walk(from, []NodeID{from})
	return results, nil
}

// Clone returns a deep-enough copy of g (nodes and edges copied, Condition
// trees are immutable so shared by reference is safe).
func (g *Graph) Clone() *Graph {
	out := &Graph{nodes: make(map[NodeID]Node, len(g.nodes))}
	for id, n := range g.nodes {
		out.nodes[id] = n
	}
	out.edges = append(out.edges, g.edges...)
	return out
}
