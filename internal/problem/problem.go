// Package problem ties a Domain, an object pool, an initial state, and a
// goal condition into a Problem: constructing one triggers grounding and
// parses init/goal into the typed expression model.
package problem

import (
	"fmt"

	"github.com/iamthegreatdestroyer/classical-planner/internal/domain"
	"github.com/iamthegreatdestroyer/classical-planner/internal/expr"
	"github.com/iamthegreatdestroyer/classical-planner/internal/ground"
	"github.com/iamthegreatdestroyer/classical-planner/internal/pstate"
)

// InitEntry is one element of an init list: either a ground predicate or a
// numeric assignment (=, fluent-ref, integer).
type InitEntry struct {
	isAssignment bool
	predicate    expr.Predicate
	fluent       expr.FluentRef
	value        int
}

// InitPredicate wraps a ground predicate as an init entry.
func InitPredicate(p expr.Predicate) InitEntry { return InitEntry{predicate: p} }

// InitAssign wraps a numeric fluent assignment as an init entry.
func InitAssign(f expr.FluentRef, v int) InitEntry {
	return InitEntry{isAssignment: true, fluent: f, value: v}
}

// GoalEntry is one element of a goal list: either a ground predicate or a
// numeric comparison.
type GoalEntry struct {
	isNumeric bool
	predicate expr.Predicate
	numeric   expr.NumericCond
}

// GoalPredicate wraps a ground predicate as a goal entry.
func GoalPredicate(p expr.Predicate) GoalEntry { return GoalEntry{predicate: p} }

// GoalNumeric wraps a numeric condition as a goal entry.
func GoalNumeric(c expr.NumericCond) GoalEntry { return GoalEntry{isNumeric: true, numeric: c} }

// Problem is a grounded planning problem: the ground-action list, the
// initial state, and the goal condition split into symbolic/numeric parts.
type Problem struct {
	GroundActions []*ground.GroundAction
	Initial       *pstate.State

	SymbolicGoals []expr.Predicate
	NumericGoals  []expr.NumericCond
}

// New grounds domain over objects and parses init/goal into a Problem.
func New(d *domain.Domain, objects ground.ObjectPool, init []InitEntry, goal []GoalEntry) (*Problem, error) {
	actions, err := ground.Schemas(d, objects)
	if err != nil {
		return nil, fmt.Errorf("problem: %w", err)
	}

	var predicates []expr.Predicate
	var fluents []pstate.FluentValue
	for _, e := range init {
		if e.isAssignment {
			fluents = append(fluents, pstate.FluentValue{Ref: e.fluent, Value: e.value})
			continue
		}
		predicates = append(predicates, e.predicate)
	}

	p := &Problem{
		GroundActions: actions,
		Initial:       pstate.New(predicates, fluents),
	}

	for _, g := range goal {
		if g.isNumeric {
			p.NumericGoals = append(p.NumericGoals, g.numeric)
			continue
		}
		p.SymbolicGoals = append(p.SymbolicGoals, g.predicate)
	}

	return p, nil
}

// Applicable returns every ground action applicable in s, in the problem's
// stable grounding order.
func (p *Problem) Applicable(s *pstate.State) ([]*ground.GroundAction, error) {
	var out []*ground.GroundAction
	for _, a := range p.GroundActions {
		ok, err := a.Applicable(s)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Goal returns the problem's own goal condition, the default passed to the
// planner when no override is supplied.
func (p *Problem) Goal() ([]expr.Predicate, []expr.NumericCond) {
	return p.SymbolicGoals, p.NumericGoals
}
