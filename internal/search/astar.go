// Package search implements the core planner's best-first search: an A*
// loop over pstate.State nodes, ordered by f = g + h with deterministic
// tie-breaking, using a closed set keyed by each state's canonical digest.
package search

import (
	"container/heap"
	"time"

	"github.com/iamthegreatdestroyer/classical-planner/internal/expr"
	"github.com/iamthegreatdestroyer/classical-planner/internal/problem"
	"github.com/iamthegreatdestroyer/classical-planner/internal/pstate"
)

// Heuristic estimates the distance from a state to a problem's goal. A
// heuristic borrows the problem it is evaluating against — it never owns or
// mutates it — so the same Heuristic value can be reused across searches.
type Heuristic interface {
	Estimate(p *problem.Problem, s *pstate.State, symbolicGoals []expr.Predicate, numericGoals []expr.NumericCond) (int, error)
}

// Stats reports search-level bookkeeping, surfaced alongside a plan for
// diagnostic and benchmarking purposes.
type Stats struct {
	Expanded int           // number of states popped from the fringe and expanded
	Elapsed  time.Duration // wall-clock time spent in Search
	PlanLen  int           // length of the returned plan; 0 if no plan was found
}

// node is one fringe entry: a state plus its priority-queue bookkeeping.
type node struct {
	state    *pstate.State
	f        int // g + h
	g        int // path cost, mirrors state.Cost() but kept explicit for clarity
	inserted int // monotonically increasing insertion counter, for deterministic tie-breaking
	index    int // heap.Interface bookkeeping
}

// fringe implements container/heap.Interface, ordered by ascending f, with
// ties broken first by descending g (prefer deeper, more-committed nodes)
// and finally by insertion order, so that two runs over the same problem
// always expand states in the same order.
type fringe []*node

func (fr fringe) Len() int { return len(fr) }

func (fr fringe) Less(i, j int) bool {
	if fr[i].f != fr[j].f {
		return fr[i].f < fr[j].f
	}
	if fr[i].g != fr[j].g {
		return fr[i].g > fr[j].g
	}
	return fr[i].inserted < fr[j].inserted
}

func (fr fringe) Swap(i, j int) {
	fr[i], fr[j] = fr[j], fr[i]
	fr[i].index = i
	fr[j].index = j
}

func (fr *fringe) Push(x interface{}) {
	n := x.(*node)
	n.index = len(*fr)
	*fr = append(*fr, n)
}

func (fr *fringe) Pop() interface{} {
	old := *fr
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*fr = old[0 : n-1]
	return item
}

// Search runs A* from initial to a state satisfying symbolicGoals and
// numericGoals, expanding successors via p's ground actions. If monotone is
// true, successor states retain their predecessors' deleted predicates
// (delete-relaxation), matching the semantics heuristics use when they
// recursively re-invoke the planner over a relaxed problem. A nil plan with
// a nil error means the goal is unreachable from initial.
func Search(
	p *problem.Problem,
	h Heuristic,
	initial *pstate.State,
	symbolicGoals []expr.Predicate,
	numericGoals []expr.NumericCond,
	monotone bool,
) ([]pstate.Action, Stats, error) {
	start := time.Now()
	stats := Stats{}

	closed := make(map[string]bool)
	var counter int

	open := &fringe{}
	heap.Init(open)

	h0, err := h.Estimate(p, initial, symbolicGoals, numericGoals)
	if err != nil {
		return nil, stats, err
	}
	heap.Push(open, &node{state: initial, f: h0, g: 0, inserted: counter})
	counter++

	for open.Len() > 0 {
		n := heap.Pop(open).(*node)
		s := n.state

		if closed[s.Digest()] {
			continue
		}
		closed[s.Digest()] = true
		stats.Expanded++

		ok, err := s.IsTrue(symbolicGoals, numericGoals)
		if err != nil {
			return nil, stats, err
		}
		if ok {
			plan := s.Plan()
			stats.Elapsed = time.Since(start)
			stats.PlanLen = len(plan)
			return plan, stats, nil
		}

		actions, err := p.Applicable(s)
		if err != nil {
			return nil, stats, err
		}
		for _, a := range actions {
			succ, err := s.Apply(a, monotone)
			if err != nil {
				return nil, stats, err
			}
			if closed[succ.Digest()] {
				continue
			}
			hv, err := h.Estimate(p, succ, symbolicGoals, numericGoals)
			if err != nil {
				return nil, stats, err
			}
			heap.Push(open, &node{state: succ, f: succ.Cost() + hv, g: succ.Cost(), inserted: counter})
			counter++
		}
	}

	stats.Elapsed = time.Since(start)
	return nil, stats, nil
}
