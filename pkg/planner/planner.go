// Package planner is the public facade for the classical planning core: it
// re-exports the domain, grounding, and problem types callers need to build
// a problem, and provides Plan as the single entry point into search.
package planner

import (
	"math"

	"github.com/iamthegreatdestroyer/classical-planner/internal/domain"
	"github.com/iamthegreatdestroyer/classical-planner/internal/expr"
	"github.com/iamthegreatdestroyer/classical-planner/internal/ground"
	"github.com/iamthegreatdestroyer/classical-planner/internal/heuristic"
	"github.com/iamthegreatdestroyer/classical-planner/internal/problem"
	"github.com/iamthegreatdestroyer/classical-planner/internal/pstate"
	"github.com/iamthegreatdestroyer/classical-planner/internal/search"
)

// Re-exported core types, so callers never need to import internal
// packages directly to build a domain and a problem.
type (
	Term        = expr.Term
	Predicate   = expr.Predicate
	FluentRef   = expr.FluentRef
	NumericTerm = expr.NumericTerm
	NumericCond = expr.NumericCond
	CmpOp       = expr.CmpOp
	PreCond     = expr.PreCond
	Effect      = expr.Effect

	Parameter = domain.Parameter
	Schema    = domain.Schema
	Domain    = domain.Domain

	ObjectPool   = ground.ObjectPool
	GroundAction = ground.GroundAction

	Problem   = problem.Problem
	InitEntry = problem.InitEntry
	GoalEntry = problem.GoalEntry

	Step  = pstate.Action
	State = pstate.State
)

// Re-exported constructors and constants.
var (
	NewPredicate  = expr.NewPredicate
	NewFluentRef  = expr.NewFluentRef
	Int           = expr.Int
	Fluent        = expr.Fluent
	Negate        = expr.Negate
	Sym           = expr.Sym
	Num           = expr.Num
	Add           = expr.Add
	Delete        = expr.Delete
	NumAdd        = expr.NumAdd
	NumSub        = expr.NumSub
	ParseCmpOp    = expr.ParseCmpOp
	NewSchema     = domain.NewSchema
	NewDomain     = domain.NewDomain
	InitPredicate = problem.InitPredicate
	InitAssign    = problem.InitAssign
	GoalPredicate = problem.GoalPredicate
	GoalNumeric   = problem.GoalNumeric
	NewProblem    = problem.New
)

const (
	OpGT = expr.OpGT
	OpLT = expr.OpLT
	OpEQ = expr.OpEQ
	OpGE = expr.OpGE
	OpLE = expr.OpLE
)

// Heuristics is the default registry of heuristics this package ships
// with: "null", "monotone", and "subgoal-max".
var Heuristics = heuristic.DefaultRegistry()

// Stats reports search-level statistics for a Plan call.
type Stats = search.Stats

// options holds the optional parameters to Plan.
type options struct {
	heuristic     search.Heuristic
	initial       *pstate.State
	symbolicGoals []expr.Predicate
	numericGoals  []expr.NumericCond
	monotone      bool
	overrideGoal  bool
}

// Option configures a Plan call.
type Option func(*options)

// WithHeuristic selects a search.Heuristic other than the default
// (monotone delete-relaxation).
func WithHeuristic(h search.Heuristic) Option {
	return func(o *options) { o.heuristic = h }
}

// WithInitialState overrides the problem's own initial state.
func WithInitialState(s *pstate.State) Option {
	return func(o *options) { o.initial = s }
}

// WithGoal overrides the problem's own goal condition.
func WithGoal(symbolic []expr.Predicate, numeric []expr.NumericCond) Option {
	return func(o *options) {
		o.symbolicGoals = symbolic
		o.numericGoals = numeric
		o.overrideGoal = true
	}
}

// WithMonotone disables delete effects during search (delete-relaxation),
// the same relaxation the Monotone heuristic applies to its recursive
// sub-search. SubgoalMax's sub-searches keep delete effects.
func WithMonotone() Option {
	return func(o *options) { o.monotone = true }
}

// Plan searches p for a sequence of ground actions from its initial state
// (or an overridden one) to its goal condition (or an overridden one),
// guided by a heuristic (monotone delete-relaxation by default). A nil
// plan with a nil error means the goal is unreachable.
func Plan(p *problem.Problem, opts ...Option) ([]pstate.Action, Stats, error) {
	o := &options{heuristic: heuristic.Monotone{}}
	for _, opt := range opts {
		opt(o)
	}

	initial := p.Initial
	if o.initial != nil {
		initial = o.initial
	}

	symbolicGoals, numericGoals := p.SymbolicGoals, p.NumericGoals
	if o.overrideGoal {
		symbolicGoals, numericGoals = o.symbolicGoals, o.numericGoals
	}

	return search.Search(p, o.heuristic, initial, symbolicGoals, numericGoals, o.monotone)
}

// Descriptor renders a step as name(arg1, arg2, ...), the canonical display
// format for a plan step.
func Descriptor(step pstate.Action) string { return step.Descriptor() }

// Cost returns the length of a plan. A nil plan (unreachable goal) has
// infinite cost, surfaced as math.MaxInt so callers can compare plans
// from potentially-failed searches without a special case.
func Cost(plan []pstate.Action) int {
	if plan == nil {
		return math.MaxInt
	}
	return len(plan)
}

// Render returns the descriptor of every step in a plan, in order — the
// human-readable form of a plan for logging and CLI output.
func Render(plan []pstate.Action) []string {
	out := make([]string, len(plan))
	for i, step := range plan {
		out[i] = step.Descriptor()
	}
	return out
}
