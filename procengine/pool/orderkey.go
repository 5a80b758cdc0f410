// Package pool provides a bounded-concurrency runner for driving many
// Instances at once, one instance-id-mutex at a time (spec §4.9). The
// procengine root package itself stays single-threaded per instance; pool
// is the opt-in layer callers reach for when they want to submit events
// from multiple goroutines without racing a single Instance.
package pool

import (
	"crypto/sha256"
	"encoding/binary"
)

// ComputeOrderKey derives a deterministic sort key from an instance id and
// a submission sequence number, so that work items submitted in the same
// tick for different instances still drain in a reproducible order.
// Grounded on the teacher's scheduler.go ComputeOrderKey (hash of
// parent-node-id + edge-index); narrowed here to instance-id + sequence
// number, since the pool orders submissions rather than graph edges.
func ComputeOrderKey(instanceID string, seq int) uint64 {
	h := sha256.New()
	h.Write([]byte(instanceID))
	seqBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBytes, uint64(seq))
	h.Write(seqBytes)
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
