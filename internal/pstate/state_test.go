package pstate

import (
	"testing"

	"github.com/iamthegreatdestroyer/classical-planner/internal/expr"
)

// fakeAction is a minimal pstate.Action for exercising State.Apply in
// isolation from internal/ground.
type fakeAction struct {
	add, del []expr.Predicate
	num      []NumericEffect
	desc     string
}

func (a fakeAction) AddEffects() []expr.Predicate    { return a.add }
func (a fakeAction) DeleteEffects() []expr.Predicate { return a.del }
func (a fakeAction) NumericEffects() []NumericEffect { return a.num }
func (a fakeAction) Descriptor() string              { return a.desc }

func TestApplyIncrementsCost(t *testing.T) {
	s0 := New(nil, nil)
	s1, err := s0.Apply(fakeAction{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.Cost() != s0.Cost()+1 {
		t.Errorf("Cost() = %d, want %d", s1.Cost(), s0.Cost()+1)
	}
}

func TestApplyAddThenDelete(t *testing.T) {
	p := expr.NewPredicate("at-robby", "rooma")
	s0 := New([]expr.Predicate{p}, nil)

	moved := expr.NewPredicate("at-robby", "roomb")
	s1, err := s0.Apply(fakeAction{add: []expr.Predicate{moved}, del: []expr.Predicate{p}}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s1.HasPredicate(p) {
		t.Error("expected deleted predicate to be absent from successor")
	}
	if !s1.HasPredicate(moved) {
		t.Error("expected added predicate to be present in successor")
	}
}

func TestApplyMonotoneSkipsDelete(t *testing.T) {
	p := expr.NewPredicate("at-robby", "rooma")
	s0 := New([]expr.Predicate{p}, nil)

	s1, err := s0.Apply(fakeAction{del: []expr.Predicate{p}}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s1.HasPredicate(p) {
		t.Error("expected monotone apply to retain deleted predicate")
	}
}

func TestApplyAddAndDeleteSamePredicateIsDeleted(t *testing.T) {
	p := expr.NewPredicate("flag")
	s0 := New(nil, nil)

	s1, err := s0.Apply(fakeAction{add: []expr.Predicate{p}, del: []expr.Predicate{p}}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.HasPredicate(p) {
		t.Error("expected predicate appearing in both add and delete to be absent (delete-after-add ambiguity)")
	}
}

func TestApplyNumericEffectsCompose(t *testing.T) {
	fluent := expr.NewFluentRef("account")
	s0 := New(nil, []FluentValue{{Ref: fluent, Value: 0}})

	action := fakeAction{num: []NumericEffect{
		{Fluent: fluent, Delta: expr.Int(3)},
		{Fluent: fluent, Delta: expr.Int(5)},
	}}
	s1, err := s0.Apply(action, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := s1.Fluent(fluent)
	if !ok || v != 8 {
		t.Errorf("Fluent(account) = %d, %v; want 8, true", v, ok)
	}
}

func TestApplyUndefinedFluentIsError(t *testing.T) {
	s0 := New(nil, nil)
	action := fakeAction{num: []NumericEffect{{Fluent: expr.NewFluentRef("account"), Delta: expr.Int(1)}}}
	if _, err := s0.Apply(action, false); err == nil {
		t.Fatal("expected error applying numeric effect to undefined fluent")
	}
}

func TestDigestIsOrderIndependent(t *testing.T) {
	a := expr.NewPredicate("a")
	b := expr.NewPredicate("b")

	s1 := New([]expr.Predicate{a, b}, nil)
	s2 := New([]expr.Predicate{b, a}, nil)

	if s1.Digest() != s2.Digest() {
		t.Errorf("expected equal digests regardless of insertion order: %q vs %q", s1.Digest(), s2.Digest())
	}
}

func TestIsTrueSymbolicAndNumeric(t *testing.T) {
	p := expr.NewPredicate("done")
	fluent := expr.NewFluentRef("account")
	s := New([]expr.Predicate{p}, []FluentValue{{Ref: fluent, Value: 13}})

	ok, err := s.IsTrue([]expr.Predicate{p}, []expr.NumericCond{{Op: expr.OpEQ, LHS: expr.Fluent(fluent), RHS: expr.Int(13)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected goal to be satisfied")
	}
}

func TestPlanReconstructsInOrder(t *testing.T) {
	s0 := New(nil, nil)
	s1, _ := s0.Apply(fakeAction{desc: "first"}, false)
	s2, _ := s1.Apply(fakeAction{desc: "second"}, false)

	plan := s2.Plan()
	if len(plan) != 2 {
		t.Fatalf("expected plan of length 2, got %d", len(plan))
	}
	if plan[0].Descriptor() != "first" || plan[1].Descriptor() != "second" {
		t.Errorf("unexpected plan order: %v, %v", plan[0].Descriptor(), plan[1].Descriptor())
	}
}
