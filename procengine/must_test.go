package procengine

import "testing"

func TestMustAppendPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustAppend should panic on a duplicate node id")
		}
	}()
	a := Make(ActivityData(Activity{ID: "dup", Version: 1}))
	b := Make(ActivityData(Activity{ID: "dup", Version: 1}))
	MustAppend(a, b)
}

func TestMustAppendReturnsOnSuccess(t *testing.T) {
	a := Make(ActivityData(Activity{ID: "a", Version: 1}))
	m := MustAppend(Neutral(), a)
	if err := Validate(m); err != nil {
		t.Fatalf("Validate(MustAppend result) = %v", err)
	}
}

func TestMustDataPanicsOnMissingNode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustData should panic for a missing node id")
		}
	}()
	MustData(Neutral(), "missing")
}

func TestMustValidatePanicsOnInvalidModel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustValidate should panic on an invalid model")
		}
	}()
	g := NewGraph()
	_ = g.AddNode(Node{ID: End, Data: EndData()})
	MustValidate(Model{g: g})
}
