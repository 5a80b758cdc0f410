package procengine

// Model wraps a Graph enforcing the invariants of spec §3 beyond Graph's
// own: exactly one Start, exactly one End, and every Or/And paired with a
// matching Join. Models are built exclusively by the combinators in this
// file and are immutable once returned — callers never reach for AddNode
// / AddEdge directly, mirroring the teacher's pattern of building up a
// workflow only through its own builder methods (graph.Engine.Add /
// graph.Engine.Connect in graph/engine.go), just composed functionally
// instead of mutated in place, since spec §4.3 requires Model to form a
// monoid under Append.
type Model struct {
	g *Graph
}

// Graph exposes the underlying Graph for read-only queries.
func (m Model) Graph() *Graph { return m.g }

// Neutral is the two-node identity model: Start --true--> End. It is the
// monoid identity for Append (spec §4.3, §8 invariant 1).
func Neutral() Model {
	g := NewGraph()
	_ = g.AddNode(Node{ID: Start, Data: StartData()})
	_ = g.AddNode(Node{ID: End, Data: EndData()})
	_ = g.AddEdge(Edge{From: Start, To: End, Condition: CTrue()})
	return Model{g: g}
}

// Make wraps a single node between Start and End with two CTrue() edges.
func Make(data NodeData) Model {
	g := NewGraph()
	_ = g.AddNode(Node{ID: Start, Data: StartData()})
	_ = g.AddNode(Node{ID: End, Data: EndData()})
	_ = g.AddNode(Node{ID: data.ID(), Data: data})
	_ = g.AddEdge(Edge{From: Start, To: data.ID(), Condition: CTrue()})
	_ = g.AddEdge(Edge{From: data.ID(), To: End, Condition: CTrue()})
	return Model{g: g}
}

// Append is sequential composition, per spec §4.3: m1's End is deleted
// (cascading its incoming edges) and m2's Start is deleted (cascading its
// outgoing edges); every pair of an end-edge from m1 and a start-edge from
// m2 becomes a bridging edge whose condition is AndThen(e1, e2). Append,
// Neutral forms a monoid (spec §8 invariants 1-2). A duplicate
// non-sentinel node id between m1 and m2 is a fatal construction failure,
// surfaced as ErrNodeAlreadyExists.
func Append(m1, m2 Model) (Model, error) {
	g1 := m1.g.Clone()
	g2 := m2.g.Clone()

	endEdges := g1.Incoming(End)
	startEdges := g2.Outgoing(Start)

	g1.RemoveNode(End)
	g2.RemoveNode(Start)

	out := NewGraph()
	for _, n := range g1.Nodes() {
		if err := out.AddNode(n); err != nil {
			return Model{}, err
		}
	}
	for _, n := range g2.Nodes() {
		if n.ID == End {
			continue
		}
		if err := out.AddNode(n); err != nil {
			return Model{}, err
		}
	}
	_ = out.AddNode(Node{ID: End, Data: EndData()})

	for _, e := range g1.Edges() {
		if err := out.AddEdge(e); err != nil {
			return Model{}, err
		}
	}
	for _, e := range g2.Edges() {
		if err := out.AddEdge(e); err != nil {
			return Model{}, err
		}
	}

	for _, e1 := range endEdges {
		for _, e2 := range startEdges {
			bridge := Edge{From: e1.From, To: e2.To, Condition: AndThen(e1.Condition, e2.Condition)}
			if out.HasEdge(bridge.From, bridge.To) {
				continue
			}
			if err := out.AddEdge(bridge); err != nil {
				return Model{}, err
			}
		}
	}

	return Model{g: out}, nil
}

// mergeParallel builds the shared-Start/End skeleton used by OneOf and
// Both: both graphs' start-outgoings and end-incomings are re-homed onto a
// single shared Start/End, and m1's own Start/End nodes are discarded.
func mergeParallel(m1, m2 Model) *Graph {
	g1 := m1.g.Clone()
	g2 := m2.g.Clone()

	g1StartEdges := g1.Outgoing(Start)
	g1EndEdges := g1.Incoming(End)
	g2StartEdges := g2.Outgoing(Start)
	g2EndEdges := g2.Incoming(End)

	g1.RemoveNode(Start)
	g1.RemoveNode(End)
	g2.RemoveNode(Start)
	g2.RemoveNode(End)

	out := NewGraph()
	_ = out.AddNode(Node{ID: Start, Data: StartData()})
	_ = out.AddNode(Node{ID: End, Data: EndData()})
	for _, n := range g1.Nodes() {
		_ = out.AddNode(n)
	}
	for _, n := range g2.Nodes() {
		_ = out.AddNode(n)
	}
	for _, e := range g1.Edges() {
		_ = out.AddEdge(e)
	}
	for _, e := range g2.Edges() {
		_ = out.AddEdge(e)
	}
	for _, e := range append(g1StartEdges, g2StartEdges...) {
		_ = out.AddEdge(Edge{From: Start, To: e.To, Condition: e.Condition})
	}
	for _, e := range append(g1EndEdges, g2EndEdges...) {
		_ = out.AddEdge(Edge{From: e.From, To: End, Condition: e.Condition})
	}
	return out
}

// wrapSplit inserts a fresh split/join pair around the shared Start/End
// skeleton built by mergeParallel, producing Start -> split -> {m1, m2} ->
// join -> End, used by both OneOf (Or) and Both (And).
func wrapSplit(parallel *Graph, splitID, joinID NodeID, splitData, joinData NodeData) Model {
	out := NewGraph()
	startEdges := parallel.Outgoing(Start)
	endEdges := parallel.Incoming(End)
	parallel.RemoveNode(Start)
	parallel.RemoveNode(End)

	_ = out.AddNode(Node{ID: Start, Data: StartData()})
	_ = out.AddNode(Node{ID: End, Data: EndData()})
	_ = out.AddNode(Node{ID: splitID, Data: splitData})
	_ = out.AddNode(Node{ID: joinID, Data: joinData})
	for _, n := range parallel.Nodes() {
		_ = out.AddNode(n)
	}
	for _, e := range parallel.Edges() {
		_ = out.AddEdge(e)
	}

	_ = out.AddEdge(Edge{From: Start, To: splitID, Condition: CTrue()})
	_ = out.AddEdge(Edge{From: joinID, To: End, Condition: CTrue()})
	for _, e := range startEdges {
		_ = out.AddEdge(Edge{From: splitID, To: e.To, Condition: e.Condition})
	}
	for _, e := range endEdges {
		_ = out.AddEdge(Edge{From: e.From, To: joinID, Condition: e.Condition})
	}
	return Model{g: out}
}

// OneOf is exclusive-choice parallel composition (spec §4.3): the two
// models become mutually exclusive branches of a fresh Or split, merging
// at a fresh matching Join. Or splits are binary by construction (spec
// §9(b)'s inherited constraint is operationalized here, since OneOf is the
// only producer of Or nodes besides Loop).
func OneOf(m1, m2 Model, ids IDGenerator) Model {
	splitID := NodeID("or-" + ids.NewID())
	joinID := NodeID("join-" + ids.NewID())
	parallel := mergeParallel(m1, m2)
	return wrapSplit(parallel, splitID, joinID, OrData(splitID, joinID), JoinData(joinID, splitID))
}

// Both is parallel-all composition (spec §4.3): the two models run
// concurrently from a fresh And split and must both complete before the
// matching Join releases.
func Both(m1, m2 Model, ids IDGenerator) Model {
	splitID := NodeID("and-" + ids.NewID())
	joinID := NodeID("join-" + ids.NewID())
	parallel := mergeParallel(m1, m2)
	return wrapSplit(parallel, splitID, joinID, AndData(splitID, joinID), JoinData(joinID, splitID))
}

// Loop wraps m with a Join before and an Or after, then adds a back-edge
// from the Or to the Join carrying cond (spec §4.3): the forward path to
// End runs when cond does not fire, the back edge runs while cond keeps
// firing.
func Loop(m Model, cond Condition, ids IDGenerator) Model {
	joinID := NodeID("loopjoin-" + ids.NewID())
	orID := NodeID("loopor-" + ids.NewID())

	body := m.g.Clone()
	startEdges := body.Outgoing(Start)
	endEdges := body.Incoming(End)
	body.RemoveNode(Start)
	body.RemoveNode(End)

	out := NewGraph()
	_ = out.AddNode(Node{ID: Start, Data: StartData()})
	_ = out.AddNode(Node{ID: End, Data: EndData()})
	_ = out.AddNode(Node{ID: joinID, Data: JoinData(joinID, orID)})
	_ = out.AddNode(Node{ID: orID, Data: OrData(orID, joinID)})
	for _, n := range body.Nodes() {
		_ = out.AddNode(n)
	}
	for _, e := range body.Edges() {
		_ = out.AddEdge(e)
	}

	_ = out.AddEdge(Edge{From: Start, To: joinID, Condition: CTrue()})
	for _, e := range startEdges {
		_ = out.AddEdge(Edge{From: joinID, To: e.To, Condition: e.Condition})
	}
	for _, e := range endEdges {
		_ = out.AddEdge(Edge{From: e.From, To: orID, Condition: e.Condition})
	}
	// Forward path: taken whenever cond does not fire on the current event.
	// The condition language has no general NOT; exclusivity instead comes
	// from the stepping engine's OR-decision rule (spec §4.5.1), which
	// drops whichever Or branch did not fire once its sibling has.
	_ = out.AddEdge(Edge{From: orID, To: End, Condition: CTrue()})
	// Back edge: keep looping while cond fires.
	_ = out.AddEdge(Edge{From: orID, To: joinID, Condition: cond})

	return Model{g: out}
}

// WithStartCondition replaces the condition of every outgoing-from-Start
// edge with c.
func WithStartCondition(m Model, c Condition) Model {
	g := m.g.MapEdges(func(e Edge) Edge {
		if e.From == Start {
			e.Condition = c
		}
		return e
	})
	return Model{g: g}
}

// WithEndCondition replaces the condition of every incoming-to-End edge
// with c.
func WithEndCondition(m Model, c Condition) Model {
	g := m.g.MapEdges(func(e Edge) Edge {
		if e.To == End {
			e.Condition = c
		}
		return e
	})
	return Model{g: g}
}

// ConditionsWithTargets lists (condition, target) for every outgoing edge
// of id.
func ConditionsWithTargets(m Model, id NodeID) []struct {
	Condition Condition
	Target    NodeID
} {
	var out []struct {
		Condition Condition
		Target    NodeID
	}
	for _, e := range m.g.Outgoing(id) {
		out = append(out, struct {
			Condition Condition
			Target    NodeID
		}{Condition: e.Condition, Target: e.To})
	}
	return out
}

// Data returns id's node data, or ErrNodeNotFound.
func Data(m Model, id NodeID) (NodeData, error) {
	n, ok := m.g.GetNode(id)
	if !ok {
		return NodeData{}, ErrNodeNotFound
	}
	return n.Data, nil
}

// Validate checks the Model invariants of spec §3 beyond Graph's own:
// a Start node, an End node, and every Or/And/Join mate reference
// resolving to an existing node. The kind of the mate node is not checked.
func Validate(m Model) error {
	if !m.g.HasNode(Start) {
		return ErrMissingStart
	}
	if !m.g.HasNode(End) {
		return ErrMissingEnd
	}
	for _, n := range m.g.Nodes() {
		if joinID, ok := n.Data.IsOr(); ok {
			if _, exists := m.g.GetNode(joinID); !exists {
				return ErrDanglingJoin
			}
		}
		if joinID, ok := n.Data.IsAnd(); ok {
			if _, exists := m.g.GetNode(joinID); !exists {
				return ErrDanglingJoin
			}
		}
		if forID, ok := n.Data.IsJoin(); ok {
			if _, exists := m.g.GetNode(forID); !exists {
				return ErrDanglingJoin
			}
		}
	}
	return nil
}
