package procengine

import "testing"

func TestSmartConstructors(t *testing.T) {
	t.Run("and with true operand reduces to the other side", func(t *testing.T) {
		c := CAnd(CTrue(), FieldC("x"))
		if !c.Equal(FieldC("x")) {
			t.Fatalf("CAnd(true, x) = %#v, want x", c)
		}
	})

	t.Run("and with false operand reduces to false", func(t *testing.T) {
		c := CAnd(CFalse(), FieldC("x"))
		if !c.Equal(CFalse()) {
			t.Fatalf("CAnd(false, x) = %#v, want false", c)
		}
	})

	t.Run("or with true operand reduces to true", func(t *testing.T) {
		c := COr(CTrue(), FieldC("x"))
		if !c.Equal(CTrue()) {
			t.Fatalf("COr(true, x) = %#v, want true", c)
		}
	})

	t.Run("or with false operand reduces to the other side", func(t *testing.T) {
		c := COr(CFalse(), FieldC("x"))
		if !c.Equal(FieldC("x")) {
			t.Fatalf("COr(false, x) = %#v, want x", c)
		}
	})

	t.Run("and_then with true left reduces to right", func(t *testing.T) {
		c := AndThen(CTrue(), FieldC("x"))
		if !c.Equal(FieldC("x")) {
			t.Fatalf("AndThen(true, x) = %#v, want x", c)
		}
	})

	t.Run("and_then with true right reduces to left", func(t *testing.T) {
		c := AndThen(FieldC("x"), CTrue())
		if !c.Equal(FieldC("x")) {
			t.Fatalf("AndThen(x, true) = %#v, want x", c)
		}
	})
}

func TestEvalNullField(t *testing.T) {
	c := Equals(FieldC("missing"), Value(nil))
	result := Eval(c, Event{Type: "anything"})
	if !result.Done {
		t.Fatalf("Eval(missing == nil) = %#v, want Done", result)
	}
}

func TestEvalIsType(t *testing.T) {
	c := IsType("order_placed")
	if !Eval(c, Event{Type: "order_placed"}).Done {
		t.Fatal("IsType should be Done for a matching event type")
	}
	result := Eval(c, Event{Type: "order_cancelled"})
	if result.Done {
		t.Fatal("IsType should not be Done for a non-matching event type")
	}
	if !result.Rest.Equal(c) {
		t.Fatalf("non-staged condition residual should be unchanged, got %#v", result.Rest)
	}
}

func TestEvalAndThenStaging(t *testing.T) {
	c := AndThen(IsType("a"), IsType("b"))

	first := Eval(c, Event{Type: "a"})
	if first.Done {
		t.Fatal("AndThen should not be Done after only the first event")
	}
	if !first.Rest.Equal(IsType("b")) {
		t.Fatalf("residual after first event = %#v, want IsType(b)", first.Rest)
	}

	second := Eval(first.Rest, Event{Type: "b"})
	if !second.Done {
		t.Fatal("AndThen should be Done once its residual is satisfied")
	}
}

func TestEvalAndThenUnsatisfiedFirstStage(t *testing.T) {
	c := AndThen(IsType("a"), IsType("b"))
	result := Eval(c, Event{Type: "x"})
	if result.Done {
		t.Fatal("AndThen should not fire when its first stage has not been satisfied")
	}
	if !result.Rest.Equal(c) {
		t.Fatalf("residual before first stage fires should be unchanged, got %#v", result.Rest)
	}
}

func TestEventFieldEquals(t *testing.T) {
	c := EventFieldEquals("decision", "approved", true)

	approved := Event{Type: "decision", Fields: map[string]any{"approved": true}}
	if !Eval(c, approved).Done {
		t.Fatal("EventFieldEquals should fire for a matching type and field")
	}

	rejected := Event{Type: "decision", Fields: map[string]any{"approved": false}}
	if Eval(c, rejected).Done {
		t.Fatal("EventFieldEquals should not fire when the field value differs")
	}

	wrongType := Event{Type: "other", Fields: map[string]any{"approved": true}}
	if Eval(c, wrongType).Done {
		t.Fatal("EventFieldEquals should not fire for a non-matching event type")
	}
}

func TestSizeNeverGrowsAcrossAndThenStage(t *testing.T) {
	c := AndThen(IsType("a"), CAnd(IsType("b"), IsType("c")))
	before := Size(c)
	result := Eval(c, Event{Type: "a"})
	if result.Done {
		t.Fatal("should not be Done yet")
	}
	after := Size(result.Rest)
	if after > before {
		t.Fatalf("residual size %d exceeds input size %d", after, before)
	}
}
