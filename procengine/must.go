package procengine

// This file provides the "bang" variants spec §9 calls for: wrappers that
// panic instead of returning an error, for callers (tests, demos, startup
// code) that treat a given construction failure as a programming error
// rather than something to recover from.

// MustAppend is Append, panicking on error.
func MustAppend(m1, m2 Model) Model {
	m, err := Append(m1, m2)
	if err != nil {
		panic(err)
	}
	return m
}

// MustMakeInstance is MakeInstance, panicking on error.
func MustMakeInstance(model Model, opts ...Option) *Instance {
	inst, err := MakeInstance(model, opts...)
	if err != nil {
		panic(err)
	}
	return inst
}

// MustData is Data, panicking on error.
func MustData(m Model, id NodeID) NodeData {
	d, err := Data(m, id)
	if err != nil {
		panic(err)
	}
	return d
}

// MustValidate panics if Validate(m) reports an error.
func MustValidate(m Model) {
	if err := Validate(m); err != nil {
		panic(err)
	}
}
