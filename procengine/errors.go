package procengine

import "errors"

// Construction-time errors, returned (never panicked) by Graph and Model
// builder operations. Callers that know an operation is safe may use the
// Must* wrappers in must.go to convert these into panics.
var (
	// ErrNodeAlreadyExists is returned by Graph.AddNode when a node with the
	// same id is already present.
	ErrNodeAlreadyExists = errors.New("procengine: node already exists")

	// ErrEdgeAlreadyExists is returned by Graph.AddEdge when an edge with the
	// same (from, to) pair is already present.
	ErrEdgeAlreadyExists = errors.New("procengine: edge already exists")

	// ErrFromNodeMissing is returned by Graph.AddEdge when the edge's source
	// node does not exist.
	ErrFromNodeMissing = errors.New("procengine: edge references missing from-node")

	// ErrToNodeMissing is returned by Graph.AddEdge when the edge's
	// destination node does not exist.
	ErrToNodeMissing = errors.New("procengine: edge references missing to-node")

	// ErrNodeDoesNotExist is returned by Graph.Paths when either endpoint is
	// absent from the graph.
	ErrNodeDoesNotExist = errors.New("procengine: node does not exist")

	// ErrMissingStart is returned by Validate (and so by MakeInstance) when a
	// graph has no node with id Start.
	ErrMissingStart = errors.New("procengine: model has no start node")

	// ErrMissingEnd is returned by Validate (and so by MakeInstance) when a
	// graph has no node with id End.
	ErrMissingEnd = errors.New("procengine: model has no end node")

	// ErrDanglingJoin is returned when an Or/And split's declared join node
	// does not exist, or a Join's declared mate does not exist.
	ErrDanglingJoin = errors.New("procengine: split/join mate reference is dangling")

	// ErrNodeNotFound is returned by Data when asked for a node id
	// absent from the underlying graph.
	ErrNodeNotFound = errors.New("procengine: node not found")
)
