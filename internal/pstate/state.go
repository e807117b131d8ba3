// Package pstate implements the immutable, hashable planning State: a
// symbolic predicate set plus a numeric fluent map, together with the
// bookkeeping (cost, predecessor link) needed to reconstruct a plan once a
// goal state is found. States are created monotonically during search and
// are never mutated.
package pstate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/iamthegreatdestroyer/classical-planner/internal/expr"
)

// Action is the minimal view of a ground action that State.Apply needs:
// resolved add/delete predicates and numeric effects. internal/ground's
// GroundAction implements this interface.
type Action interface {
	AddEffects() []expr.Predicate
	DeleteEffects() []expr.Predicate
	NumericEffects() []NumericEffect
	Descriptor() string
}

// NumericEffect pairs a fluent to adjust with the signed numeric term whose
// evaluated value is added to the fluent's pre-state value.
type NumericEffect struct {
	Fluent expr.FluentRef
	Delta  expr.NumericTerm // already sign-adjusted: -= effects carry a negated term
}

// Predecessor links a state to the prior state and the action that produced
// it. Only used for plan reconstruction.
type Predecessor struct {
	State  *State
	Action Action
}

type fluentEntry struct {
	ref   expr.FluentRef
	value int
}

// State is an immutable value: a predicate set, a fluent map, a path cost,
// and an optional predecessor link. Equality and hashing consider only
// predicates and fluents, so two distinct discovery paths to the same world
// collapse in a closed set.
type State struct {
	predicates  map[string]expr.Predicate
	fluents     map[string]fluentEntry
	cost        int
	predecessor *Predecessor
	digest      string // canonical, order-independent; computed once at construction
}

// New builds an initial state (cost 0, no predecessor) from a predicate set
// and a set of fluent assignments. FluentRef embeds a slice and so cannot
// itself serve as a map key; callers pass assignments as a slice instead.
func New(predicates []expr.Predicate, fluents []FluentValue) *State {
	s := &State{
		predicates: make(map[string]expr.Predicate, len(predicates)),
		fluents:    make(map[string]fluentEntry, len(fluents)),
	}
	for _, p := range predicates {
		s.predicates[p.Key()] = p
	}
	for _, f := range fluents {
		s.fluents[f.Ref.Key()] = fluentEntry{ref: f.Ref, value: f.Value}
	}
	s.digest = canonicalDigest(s.predicates, s.fluents)
	return s
}

// canonicalDigest sorts the predicate and fluent keys before joining them so
// that two semantically equal states always hash and compare equal
// regardless of insertion order (per the design note on canonical hashing).
func canonicalDigest(predicates map[string]expr.Predicate, fluents map[string]fluentEntry) string {
	predKeys := make([]string, 0, len(predicates))
	for k := range predicates {
		predKeys = append(predKeys, k)
	}
	sort.Strings(predKeys)

	fluentKeys := make([]string, 0, len(fluents))
	for k := range fluents {
		fluentKeys = append(fluentKeys, k)
	}
	sort.Strings(fluentKeys)

	var b strings.Builder
	b.WriteString("P")
	for _, k := range predKeys {
		b.WriteByte('\x1e')
		b.WriteString(k)
	}
	b.WriteString("|F")
	for _, k := range fluentKeys {
		b.WriteByte('\x1e')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(fluents[k].value))
	}
	return b.String()
}

// Digest returns the canonical, order-independent digest used for equality
// and hashing. It considers only predicates and fluents.
func (s *State) Digest() string { return s.digest }

// Cost is the length of the path from the initial state.
func (s *State) Cost() int { return s.cost }

// Predecessor returns the (prior-state, action) link, or nil for an initial
// state.
func (s *State) Predecessor() *Predecessor { return s.predecessor }

// HasPredicate reports whether p is a member of the predicate set.
func (s *State) HasPredicate(p expr.Predicate) bool {
	_, ok := s.predicates[p.Key()]
	return ok
}

// Fluent looks up a fluent's value. The second return value is false if the
// fluent was never assigned — callers must treat that as an error
// condition, not silent zero, per the core's invariants.
func (s *State) Fluent(ref expr.FluentRef) (int, bool) {
	v, ok := s.fluents[ref.Key()]
	return v.value, ok
}

// Predicates returns a copy of the true ground predicates, for inspection
// and statistics surfaces.
func (s *State) Predicates() []expr.Predicate {
	out := make([]expr.Predicate, 0, len(s.predicates))
	for _, p := range s.predicates {
		out = append(out, p)
	}
	return out
}

// FluentValue pairs a fluent reference with its current value, returned by
// Fluents for inspection and statistics surfaces (FluentRef embeds a slice
// and so cannot itself serve as a map key).
type FluentValue struct {
	Ref   expr.FluentRef
	Value int
}

// Fluents returns a snapshot of every assigned fluent.
func (s *State) Fluents() []FluentValue {
	out := make([]FluentValue, 0, len(s.fluents))
	for _, entry := range s.fluents {
		out = append(out, FluentValue{Ref: entry.ref, Value: entry.value})
	}
	return out
}

// IsTrue is the goal test: every symbolic goal predicate must be present in
// predicates, and every numeric goal condition must evaluate true against
// fluents.
func (s *State) IsTrue(symbolicGoals []expr.Predicate, numericGoals []expr.NumericCond) (bool, error) {
	for _, g := range symbolicGoals {
		if !s.HasPredicate(g) {
			return false, nil
		}
	}
	for _, g := range numericGoals {
		ok, err := g.Eval(s.Fluent)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Apply returns a new state produced by applying a ground action to s. The
// new predicate set is (old ∪ add) − delete: adds are unioned in first, then
// deletes are removed, so a predicate appearing in both add and delete is
// absent from the successor (documented ambiguity in the source planner —
// no schema in practice exercises this case). If monotone is true, the
// delete step is skipped (delete-relaxation). Numeric effects evaluate their
// delta against the pre-state, then apply the sum to the pre-state's fluent
// value. cost increments by 1; predecessor is set to (s, action).
func (s *State) Apply(action Action, monotone bool) (*State, error) {
	newPreds := make(map[string]expr.Predicate, len(s.predicates)+len(action.AddEffects()))
	for k, p := range s.predicates {
		newPreds[k] = p
	}
	for _, p := range action.AddEffects() {
		newPreds[p.Key()] = p
	}
	if !monotone {
		for _, p := range action.DeleteEffects() {
			delete(newPreds, p.Key())
		}
	}

	newFluents := make(map[string]fluentEntry, len(s.fluents))
	for k, v := range s.fluents {
		newFluents[k] = v
	}
	for _, ne := range action.NumericEffects() {
		delta, err := ne.Delta.Eval(s.Fluent)
		if err != nil {
			return nil, err
		}
		key := ne.Fluent.Key()
		cur, ok := newFluents[key]
		if !ok {
			return nil, &expr.UndefinedFluentError{Ref: ne.Fluent}
		}
		newFluents[key] = fluentEntry{ref: ne.Fluent, value: cur.value + delta}
	}

	succ := &State{
		predicates:  newPreds,
		fluents:     newFluents,
		cost:        s.cost + 1,
		predecessor: &Predecessor{State: s, Action: action},
	}
	succ.digest = canonicalDigest(succ.predicates, succ.fluents)
	return succ, nil
}

// Plan walks predecessor links backward from s to the initial state,
// collecting the action taken at each step, and reverses the result. For an
// initial state the plan is empty but non-nil, so it is never mistaken for
// the nil "no plan" result of a failed search.
func (s *State) Plan() []Action {
	actions := []Action{}
	for n := s; n.predecessor != nil; n = n.predecessor.State {
		actions = append(actions, n.predecessor.Action)
	}
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	return actions
}
