package procengine

import "sort"

// This file implements the stepping algorithm (spec §4.5, C6): a single
// fixed-point pass per Step(event) call that repeatedly applies
// advanceOnce — re-evaluating every pending Step against the same last
// event — until the step set stops changing structurally. Grounded on the
// teacher's scheduler loop (graph/scheduler.go's frontier draining in
// Engine.Run), narrowed from "drain a frontier of ready nodes" to "settle
// a step set against one event."

// countByOrigin counts how many steps in steps originate at id.
func countByOrigin(steps []Step, id NodeID) int {
	n := 0
	for _, s := range steps {
		if s.Origin == id {
			n++
		}
	}
	return n
}

// andDone reports whether the parallel work an And split (splitID) guards
// has finished, as observed from prevSteps: true iff no node lying on a
// bounded path from splitID to joinID (exclusive of joinID itself) is the
// origin of any step in prevSteps. Grounded on spec §4.5.2's and_done?
// contract; paths are enumerated via Graph.Paths' bounded walk (spec
// §4.2), so a cyclic region never hangs this check — it only ever widens
// the "not done" verdict, never narrows it (spec §9).
func andDone(m Model, prevSteps []Step, splitID, joinID NodeID) bool {
	paths, err := m.g.Paths(splitID, joinID)
	if err != nil {
		return true
	}
	pending := make(map[NodeID]bool)
	for _, path := range paths {
		for _, id := range path {
			if id != joinID {
				pending[id] = true
			}
		}
	}
	for _, s := range prevSteps {
		if pending[s.Origin] {
			return false
		}
	}
	return true
}

// advanceOnce applies one pass of the stepping rules to prevSteps against
// events, per spec §4.5:
//
//  1. Or-decision rule (§4.5.1): a pending step whose origin is an Or
//     split is dropped outright, without being evaluated against the
//     event, once its sibling branch has been decided — either because
//     it was already the sole step left at that Or in a prior iteration
//     (the only-left rule), or because, within this same pass, an
//     earlier sibling at the same Or already transitioned away while
//     this one did not (the second-and-only-in-current rule).
//  2. And/Join wait rule (§4.5.2): a step whose origin is a Join mated to
//     an And split is held unevaluated, regardless of the event, while
//     andDone reports the And's branches are still in flight.
//  3. Otherwise the step is evaluated via Advance; a transition expands
//     into the target node's fresh outgoing steps via MakeSteps, and a
//     non-transition keeps the step (with its updated residual) in the
//     result.
func advanceOnce(m Model, prevSteps []Step, events []Event) []Step {
	var result []Step
	processedAtOrigin := make(map[NodeID]int)
	keptOrCountAtOrigin := make(map[NodeID]int)

	for _, step := range prevSteps {
		if _, isOr := step.OriginData.IsOr(); isOr {
			total := countByOrigin(prevSteps, step.Origin)
			before := processedAtOrigin[step.Origin]
			processedAtOrigin[step.Origin] = before + 1

			decided := total <= 1
			if !decided && before == 1 && keptOrCountAtOrigin[step.Origin] == 0 {
				decided = true
			}
			if decided {
				continue
			}
		}

		if forNodeID, isJoin := step.OriginData.IsJoin(); isJoin {
			if mateData, err := Data(m, forNodeID); err == nil {
				if _, isAnd := mateData.IsAnd(); isAnd {
					if !andDone(m, prevSteps, forNodeID, step.Origin) {
						result = append(result, step)
						continue
					}
				}
			}
		}

		outcome := Advance(step, events)
		if outcome.Transitioned {
			expanded, err := MakeSteps(m, outcome.Target)
			if err != nil {
				continue
			}
			result = append(result, expanded...)
			continue
		}

		if _, isOr := step.OriginData.IsOr(); isOr {
			keptOrCountAtOrigin[step.Origin]++
		}
		result = append(result, outcome.Next)
	}
	return dedupeSteps(result)
}

// dedupeSteps removes structurally identical steps and sorts the remainder
// into canonical order (by Origin, then Target), per spec §4.5's "the new
// step set is deduplicated and canonically ordered." Without this, two AND
// branches converging on the same node within one advanceOnce pass each
// call MakeSteps independently and leave duplicate copies behind; those
// duplicates then inflate the next Or split's pending-step count and break
// the OR-decision rule's only-second-in-current heuristic. Sorting by
// (Origin, Target) groups any duplicate pair (same Origin, Target,
// HasTarget by construction of Step.Equal) adjacently, so a single
// adjacent-dedup pass after the sort is sufficient.
func dedupeSteps(steps []Step) []Step {
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].Origin != steps[j].Origin {
			return steps[i].Origin < steps[j].Origin
		}
		if steps[i].Target != steps[j].Target {
			return steps[i].Target < steps[j].Target
		}
		return !steps[i].HasTarget && steps[j].HasTarget
	})
	var result []Step
	for _, s := range steps {
		if len(result) > 0 && result[len(result)-1].Equal(s) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// stepsEqual reports whether two step sets are structurally identical,
// order-sensitive (both sides are always produced by iterating the prior
// set in a stable order, so a genuine change always shows up as either a
// length difference or an index-wise mismatch).
func stepsEqual(a, b []Step) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// maxFixedPointIterations bounds the fixed-point loop. A model without
// loops settles after a few passes, since each transition moves a step
// toward End. A Loop whose back edge and body conditions are all
// satisfied by the same event keeps cycling through its body within one
// call; such a cycle never repeats the previous pass exactly, so this cap
// is what ends it, returning the step set of the last pass.
const maxFixedPointIterations = 10000

// runToFixedPoint repeatedly applies advanceOnce against events until the
// step set stops changing, per spec §4.5's "run advance_once until the
// step set stops changing structurally" contract. It returns the settled
// step set and the number of advanceOnce passes taken, the latter reported
// to Metrics by Instance.Step.
func runToFixedPoint(m Model, steps []Step, events []Event) ([]Step, int) {
	current := steps
	for i := 0; i < maxFixedPointIterations; i++ {
		next := advanceOnce(m, current, events)
		if stepsEqual(current, next) {
			return next, i + 1
		}
		current = next
	}
	return current, maxFixedPointIterations
}
