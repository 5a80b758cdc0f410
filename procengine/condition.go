package procengine

import "reflect"

// Event is the opaque record the condition language reads. The engine never
// interprets an event beyond comparing its Type and reading named fields;
// concrete event types and their production are entirely the caller's
// responsibility (see spec §1, §6).
type Event struct {
	// Type is the event's nominal type, compared by IsType.
	Type string

	// Fields holds the event's payload, keyed by field name. A missing key
	// resolves to nil, matching spec §4.1's "reading a field not present
	// yields a null/empty value."
	Fields map[string]any
}

// Field looks up a named field, returning nil if absent.
func (e Event) Field(name string) any {
	if e.Fields == nil {
		return nil
	}
	return e.Fields[name]
}

// conditionKind tags the closed set of Condition variants. Go has no sum
// types, so, following the teacher's tagged-struct shape for routing
// decisions (graph.Next in the teacher's node.go), a Condition is one
// struct with an unexported kind discriminator and the fields relevant to
// that kind.
type conditionKind int

const (
	kindValue conditionKind = iota
	kindField
	kindIsType
	kindEquals
	kindAnd
	kindOr
	kindAndThen
)

// Condition is a tree-shaped predicate over a single Event, per spec §4.1.
// Values are immutable; build them with the package-level constructors
// (Value, FieldC, IsType, Equals, CAnd, COr, AndThen) rather than composite
// literals, so smart-constructor simplification always applies.
type Condition struct {
	kind conditionKind

	// literal holds the payload for Value.
	literal any

	// fieldName holds the field name for Field.
	fieldName string

	// isType holds the nominal type for IsType.
	isType string

	// a and b hold sub-conditions for Equals, And, Or, AndThen.
	a, b *Condition
}

// CTrue is the canonical "always satisfied" condition, Value(true).
func CTrue() Condition { return Value(true) }

// CFalse is the canonical "never satisfied" condition, Value(false).
func CFalse() Condition { return Value(false) }

// Value wraps a literal payload, truthy iff the payload equals true.
func Value(x any) Condition {
	return Condition{kind: kindValue, literal: x}
}

// FieldC reads a named field from the event under evaluation. Named FieldC
// to avoid colliding with the Event.Field method when both are in scope.
func FieldC(name string) Condition {
	return Condition{kind: kindField, fieldName: name}
}

// IsType is true iff the event's nominal type equals t.
func IsType(t string) Condition {
	return Condition{kind: kindIsType, isType: t}
}

// isTrueLiteral reports whether c is the canonical Value(true).
func isTrueLiteral(c Condition) bool {
	return c.kind == kindValue && c.literal == true
}

// isFalseLiteral reports whether c is the canonical Value(false).
func isFalseLiteral(c Condition) bool {
	return c.kind == kindValue && c.literal == false
}

// Equals is the recursive equality of two sub-conditions' evaluated
// payloads. It performs no simplification: the node is built as given,
// even when both sides are literals.
func Equals(a, b Condition) Condition {
	return Condition{kind: kindEquals, a: &a, b: &b}
}

// CAnd is logical conjunction, smart-constructed per spec §4.1:
// and(true, x) = x, and(false, _) = false.
func CAnd(a, b Condition) Condition {
	if isTrueLiteral(a) {
		return b
	}
	if isTrueLiteral(b) {
		return a
	}
	if isFalseLiteral(a) || isFalseLiteral(b) {
		return CFalse()
	}
	return Condition{kind: kindAnd, a: &a, b: &b}
}

// COr is logical disjunction, smart-constructed per spec §4.1:
// or(true, _) = true, or(false, x) = x.
func COr(a, b Condition) Condition {
	if isTrueLiteral(a) || isTrueLiteral(b) {
		return CTrue()
	}
	if isFalseLiteral(a) {
		return b
	}
	if isFalseLiteral(b) {
		return a
	}
	return Condition{kind: kindOr, a: &a, b: &b}
}

// AndThen is the staged condition: b becomes active only once a has been
// satisfied by a prior event. Smart-constructed: and_then(true, b) = b,
// and_then(a, true) = a.
func AndThen(a, b Condition) Condition {
	if isTrueLiteral(a) {
		return b
	}
	if isTrueLiteral(b) {
		return a
	}
	return Condition{kind: kindAndThen, a: &a, b: &b}
}

// EventFieldEquals builds IsType(eventType) AND Field(field) == Value(x), a
// shorthand named directly in spec §6.
func EventFieldEquals(eventType, field string, x any) Condition {
	return CAnd(IsType(eventType), Equals(FieldC(field), Value(x)))
}

// Result is the outcome of evaluating a Condition against one event:
// either the condition is Done, or it yields a residual Rest condition
// representing the obligation still unsatisfied.
type Result struct {
	Done bool
	Rest Condition
}

func done() Result { return Result{Done: true} }

func rest(c Condition) Result { return Result{Done: false, Rest: c} }

// Eval evaluates c against event per the staged contract of spec §4.1.
// Every variant except AndThen is interpreted by its obvious recursive
// rule; a truthy result is Done, otherwise the input is returned unchanged
// as Rest. AndThen is the only construct whose residual can be smaller
// than its input.
func Eval(c Condition, event Event) Result {
	switch c.kind {
	case kindAndThen:
		if truthy(evalValue(*c.a, event)) {
			inner := Eval(*c.b, event)
			if inner.Done {
				return done()
			}
			return rest(inner.Rest)
		}
		return rest(c)
	default:
		if truthy(evalValue(c, event)) {
			return done()
		}
		return rest(c)
	}
}

// evalValue interprets a non-staged condition tree down to a boolean-ish
// payload. AndThen has no non-staged meaning on its own: spec §4.1 only
// defines its behavior under Eval, so evalValue treats an AndThen it meets
// (nested inside And/Or/Equals) as "satisfied iff a is satisfied and its
// residual b is also satisfied right now" — the same single-event
// collapse Eval itself performs at the top level.
func evalValue(c Condition, event Event) any {
	switch c.kind {
	case kindValue:
		return c.literal
	case kindField:
		return event.Field(c.fieldName)
	case kindIsType:
		return event.Type == c.isType
	case kindEquals:
		return reflect.DeepEqual(evalValue(*c.a, event), evalValue(*c.b, event))
	case kindAnd:
		return truthy(evalValue(*c.a, event)) && truthy(evalValue(*c.b, event))
	case kindOr:
		return truthy(evalValue(*c.a, event)) || truthy(evalValue(*c.b, event))
	case kindAndThen:
		r := Eval(c, event)
		return r.Done
	default:
		return false
	}
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// Size returns the node count of the condition tree, used by the §8
// termination property (residual size never exceeds input size; it is
// strictly smaller only across a satisfied AndThen).
func Size(c Condition) int {
	n := 1
	if c.a != nil {
		n += Size(*c.a)
	}
	if c.b != nil {
		n += Size(*c.b)
	}
	return n
}

// Equal reports structural equality of two conditions, used as part of the
// fixed-point test in the stepping engine (spec §4.5, §9).
func (c Condition) Equal(other Condition) bool {
	if c.kind != other.kind {
		return false
	}
	switch c.kind {
	case kindValue:
		return reflect.DeepEqual(c.literal, other.literal)
	case kindField:
		return c.fieldName == other.fieldName
	case kindIsType:
		return c.isType == other.isType
	case kindEquals, kindAnd, kindOr, kindAndThen:
		return c.a.Equal(*other.a) && c.b.Equal(*other.b)
	default:
		return false
	}
}
