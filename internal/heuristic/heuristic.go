// Package heuristic provides the search.Heuristic implementations the core
// planner ships with, plus a name-keyed registry for selecting one at
// problem-construction time.
package heuristic

import (
	"fmt"
	"sync"

	"github.com/iamthegreatdestroyer/classical-planner/internal/expr"
	"github.com/iamthegreatdestroyer/classical-planner/internal/problem"
	"github.com/iamthegreatdestroyer/classical-planner/internal/pstate"
	"github.com/iamthegreatdestroyer/classical-planner/internal/search"
)

// Null is the admissible-by-construction heuristic that always estimates
// zero, degenerating A* to uniform-cost (Dijkstra) search.
type Null struct{}

// Estimate implements search.Heuristic.
func (Null) Estimate(*problem.Problem, *pstate.State, []expr.Predicate, []expr.NumericCond) (int, error) {
	return 0, nil
}

// Monotone estimates distance to the goal by solving the delete-relaxation
// of the problem from s: a recursive search over the same ground actions
// with deletes disabled, using Null as the relaxed sub-search's own
// heuristic. Its value is the length of the relaxed plan, or a very large
// number if even the relaxed problem is unreachable.
type Monotone struct{}

// Estimate implements search.Heuristic.
func (Monotone) Estimate(p *problem.Problem, s *pstate.State, symbolicGoals []expr.Predicate, numericGoals []expr.NumericCond) (int, error) {
	plan, _, err := search.Search(p, Null{}, s, symbolicGoals, numericGoals, true)
	if err != nil {
		return 0, fmt.Errorf("monotone heuristic: %w", err)
	}
	if plan == nil {
		return Unreachable, nil
	}
	return len(plan), nil
}

// SubgoalMax estimates distance to the goal as the maximum, over every
// individual symbolic and numeric subgoal, of the length of a fresh
// (non-relaxed, Null-guided) plan reaching that subgoal alone from s.
// Taking the max rather than the sum keeps the estimate admissible when
// subgoals share supporting actions. Sub-searches use real delete effects,
// not the monotone relaxation Monotone uses internally — solving a single
// subgoal exactly is itself a relaxation of solving the full conjunction.
type SubgoalMax struct{}

// Estimate implements search.Heuristic.
func (SubgoalMax) Estimate(p *problem.Problem, s *pstate.State, symbolicGoals []expr.Predicate, numericGoals []expr.NumericCond) (int, error) {
	best := 0
	for _, g := range symbolicGoals {
		n, err := subplanLen(p, s, []expr.Predicate{g}, nil)
		if err != nil {
			return 0, err
		}
		if n > best {
			best = n
		}
	}
	for _, g := range numericGoals {
		n, err := subplanLen(p, s, nil, []expr.NumericCond{g})
		if err != nil {
			return 0, err
		}
		if n > best {
			best = n
		}
	}
	return best, nil
}

func subplanLen(p *problem.Problem, s *pstate.State, symbolicGoal []expr.Predicate, numericGoal []expr.NumericCond) (int, error) {
	plan, _, err := search.Search(p, Null{}, s, symbolicGoal, numericGoal, false)
	if err != nil {
		return 0, fmt.Errorf("subgoal-max heuristic: %w", err)
	}
	if plan == nil {
		return Unreachable, nil
	}
	return len(plan), nil
}

// Unreachable stands in for infinity when a relaxed sub-search fails to
// find a plan; large enough to dominate any real plan length without
// risking integer overflow when summed or compared.
const Unreachable = 1 << 30

// Constructor builds a fresh search.Heuristic value. Heuristics in this
// package are stateless, but Constructor keeps the registry open to ones
// that aren't.
type Constructor func() search.Heuristic

// Registry maps heuristic names to constructors behind a read-write mutex,
// with register/get/list/count operations.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register adds a named constructor, overwriting any existing entry for
// that name.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[name] = c
}

// Get builds a heuristic by name.
func (r *Registry) Get(name string) (search.Heuristic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("heuristic not found: %s", name)
	}
	return c(), nil
}

// List returns the registered names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered constructors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.constructors)
}

// DefaultRegistry returns a registry pre-populated with this package's
// three heuristics, under the names "null", "monotone" and "subgoal-max".
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("null", func() search.Heuristic { return Null{} })
	r.Register("monotone", func() search.Heuristic { return Monotone{} })
	r.Register("subgoal-max", func() search.Heuristic { return SubgoalMax{} })
	return r
}
