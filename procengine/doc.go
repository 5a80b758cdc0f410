// Package procengine implements a declarative process/workflow engine: a
// combinator algebra for building directed process graphs (sequential
// composition, exclusive choice, parallel-all, and loop), a staged
// condition language evaluated one event at a time, and a fixed-point
// stepping algorithm that advances process instances through their graph
// as events arrive.
//
// The engine treats persistence, event sourcing, wire I/O, identifier
// generation policy, and activity execution as the caller's
// responsibility; see the IDGenerator, Emitter, and Activity types for the
// seams where callers plug those concerns in.
package procengine
