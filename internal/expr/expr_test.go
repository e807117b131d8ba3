package expr

import "testing"

func TestPredicateKeyDistinguishesArgs(t *testing.T) {
	a := NewPredicate("at-ball", "ball1", "rooma")
	b := NewPredicate("at-ball", "ball1", "roomb")

	if a.Key() == b.Key() {
		t.Fatalf("expected distinct keys for %v and %v", a, b)
	}

	c := NewPredicate("at-ball", "ball1", "rooma")
	if a.Key() != c.Key() {
		t.Fatalf("expected equal keys for structurally equal predicates")
	}
}

func TestPredicateString(t *testing.T) {
	p := NewPredicate("at-ball", "ball1", "rooma")
	if got, want := p.String(), "at-ball(ball1, rooma)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	nullary := NewPredicate("free")
	if got, want := nullary.String(), "free"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNumericTermEval(t *testing.T) {
	fluents := map[string]int{
		NewFluentRef("quantity", "apples").Key(): 10,
	}
	lookup := func(f FluentRef) (int, bool) {
		v, ok := fluents[f.Key()]
		return v, ok
	}

	lit := Int(7)
	v, err := lit.Eval(lookup)
	if err != nil || v != 7 {
		t.Fatalf("Int(7).Eval = %d, %v; want 7, nil", v, err)
	}

	ref := Fluent(NewFluentRef("quantity", "apples"))
	v, err = ref.Eval(lookup)
	if err != nil || v != 10 {
		t.Fatalf("Fluent.Eval = %d, %v; want 10, nil", v, err)
	}
}

func TestNumericTermEvalUndefinedFluent(t *testing.T) {
	lookup := func(FluentRef) (int, bool) { return 0, false }
	ref := Fluent(NewFluentRef("quantity", "oranges"))

	_, err := ref.Eval(lookup)
	if err == nil {
		t.Fatal("expected error reading undefined fluent, got nil")
	}
	if _, ok := err.(*UndefinedFluentError); !ok {
		t.Fatalf("expected *UndefinedFluentError, got %T", err)
	}
}

func TestCmpOpApply(t *testing.T) {
	cases := []struct {
		op       CmpOp
		lhs, rhs int
		want     bool
	}{
		{OpGT, 5, 3, true},
		{OpGT, 3, 5, false},
		{OpLT, 3, 5, true},
		{OpEQ, 5, 5, true},
		{OpEQ, 5, 4, false},
		{OpGE, 5, 5, true},
		{OpLE, 4, 5, true},
	}
	for _, c := range cases {
		if got := c.op.Apply(c.lhs, c.rhs); got != c.want {
			t.Errorf("%v.Apply(%d, %d) = %v, want %v", c.op, c.lhs, c.rhs, got, c.want)
		}
	}
}

func TestParseCmpOp(t *testing.T) {
	for _, s := range []string{">", "<", "=", ">=", "<="} {
		if _, ok := ParseCmpOp(s); !ok {
			t.Errorf("ParseCmpOp(%q) failed", s)
		}
	}
	if _, ok := ParseCmpOp("!="); ok {
		t.Error("ParseCmpOp(\"!=\") should fail, != is not a supported operator")
	}
}

func TestNumericCondEval(t *testing.T) {
	fluents := map[string]int{NewFluentRef("quantity", "apples").Key(): 0}
	lookup := func(f FluentRef) (int, bool) {
		v, ok := fluents[f.Key()]
		return v, ok
	}

	cond := NumericCond{Op: OpGT, LHS: Fluent(NewFluentRef("quantity", "apples")), RHS: Int(0)}
	ok, err := cond.Eval(lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected quantity(apples) > 0 to be false when quantity is 0")
	}
}
