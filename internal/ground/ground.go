// Package ground turns action schemas into ground actions: it enumerates
// the Cartesian product of an object pool over a schema's typed parameter
// list, applies the schema's symmetry-reduction flags, and rewrites every
// predicate and fluent reference by substituting bound objects for
// parameter names.
package ground

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iamthegreatdestroyer/classical-planner/internal/domain"
	"github.com/iamthegreatdestroyer/classical-planner/internal/expr"
	"github.com/iamthegreatdestroyer/classical-planner/internal/pstate"
)

// ObjectPool maps a type name to an ordered sequence of object terms. Types
// are purely nominal; there is no subtyping.
type ObjectPool map[string][]expr.Term

// GroundAction is a schema bound to concrete arguments: resolved
// preconditions split into symbolic/numeric, and resolved effects split
// into add/delete/numeric. Immutable after construction. GroundAction
// implements pstate.Action.
type GroundAction struct {
	SchemaName string
	Args       []expr.Term

	SymbolicPre []expr.Predicate
	NumericPre  []expr.NumericCond

	add    []expr.Predicate
	delete []expr.Predicate
	num    []pstate.NumericEffect
}

// AddEffects implements pstate.Action.
func (g *GroundAction) AddEffects() []expr.Predicate { return g.add }

// DeleteEffects implements pstate.Action.
func (g *GroundAction) DeleteEffects() []expr.Predicate { return g.delete }

// NumericEffects implements pstate.Action.
func (g *GroundAction) NumericEffects() []pstate.NumericEffect { return g.num }

// Descriptor renders the ground action as name(arg1, arg2, ...), the
// canonical display format named in the core's external interface.
func (g *GroundAction) Descriptor() string {
	if len(g.Args) == 0 {
		return g.SchemaName + "()"
	}
	args := make([]string, len(g.Args))
	for i, a := range g.Args {
		args[i] = string(a)
	}
	return g.SchemaName + "(" + strings.Join(args, ", ") + ")"
}

func (g *GroundAction) String() string { return g.Descriptor() }

// Applicable reports whether g is applicable in s: every symbolic
// precondition must be a member of s's predicates, and every numeric
// precondition must evaluate true against s's fluents.
func (g *GroundAction) Applicable(s *pstate.State) (bool, error) {
	for _, p := range g.SymbolicPre {
		if !s.HasPredicate(p) {
			return false, nil
		}
	}
	for _, c := range g.NumericPre {
		ok, err := c.Eval(s.Fluent)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Schemas ground action schemas from a domain over an object pool.
func Schemas(d *domain.Domain, objects ObjectPool) ([]*GroundAction, error) {
	var all []*GroundAction
	for _, schema := range d.Schemas {
		actions, err := groundSchema(schema, objects)
		if err != nil {
			return nil, fmt.Errorf("grounding schema %s: %w", schema.Name, err)
		}
		all = append(all, actions...)
	}
	return all, nil
}

// groundSchema enumerates the Cartesian product of object lists, one list
// per parameter position, ordered by the schema's parameter list and the
// pool's declared object order — this ordering is what makes grounding (and
// therefore search tie-breaking) deterministic across runs.
func groundSchema(schema *domain.Schema, objects ObjectPool) ([]*GroundAction, error) {
	pools := make([][]expr.Term, len(schema.Parameters))
	for i, p := range schema.Parameters {
		pool, ok := objects[p.Type]
		if !ok {
			return nil, fmt.Errorf("%w: type %q (parameter %s)", ErrUnknownType, p.Type, p.Name)
		}
		pools[i] = pool
	}

	var actions []*GroundAction
	seen := make(map[string]bool) // no_permute: multiset dedup per schema

	var combo []expr.Term
	var recurse func(pos int) error
	recurse = func(pos int) error {
		if pos == len(pools) {
			args := append([]expr.Term(nil), combo...)

			if schema.Unique && hasDuplicate(args) {
				return nil
			}

			if schema.NoPermute {
				// The source planner uses a set (not a multiset) of
				// arguments for no_permute dedup, silently collapsing
				// repeated elements; preserved here for faithfulness, see
				// DESIGN.md.
				key := multisetKey(args)
				if seen[key] {
					return nil
				}
				seen[key] = true
			}

			ga, err := bind(schema, args)
			if err != nil {
				return err
			}
			actions = append(actions, ga)
			return nil
		}
		for _, obj := range pools[pos] {
			combo = append(combo, obj)
			if err := recurse(pos + 1); err != nil {
				combo = combo[:len(combo)-1]
				return err
			}
			combo = combo[:len(combo)-1]
		}
		return nil
	}

	if err := recurse(0); err != nil {
		return nil, err
	}
	return actions, nil
}

func hasDuplicate(args []expr.Term) bool {
	seen := make(map[expr.Term]bool, len(args))
	for _, a := range args {
		if seen[a] {
			return true
		}
		seen[a] = true
	}
	return false
}

// multisetKey builds a dedup key from the *set* (per the source's
// ambiguity, not multiset) of argument terms.
func multisetKey(args []expr.Term) string {
	set := make(map[expr.Term]bool, len(args))
	for _, a := range args {
		set[a] = true
	}
	unique := make([]string, 0, len(set))
	for a := range set {
		unique = append(unique, string(a))
	}
	sort.Strings(unique)
	return strings.Join(unique, "\x1f")
}

// bind rewrites a schema's preconditions and effects by substituting bound
// objects for parameter names, splitting the result into the shapes the
// core expects.
func bind(schema *domain.Schema, args []expr.Term) (*GroundAction, error) {
	if len(args) != len(schema.Parameters) {
		return nil, fmt.Errorf("%w: schema %s expects %d arguments, got %d",
			ErrArityMismatch, schema.Name, len(schema.Parameters), len(args))
	}

	names := make(map[expr.Term]expr.Term, len(schema.Parameters))
	for i, p := range schema.Parameters {
		names[p.Name] = args[i]
	}
	resolve := func(t expr.Term) expr.Term {
		if obj, ok := names[t]; ok {
			return obj
		}
		return t
	}
	resolvePred := func(p expr.Predicate) expr.Predicate {
		out := expr.Predicate{Head: p.Head, Args: make([]expr.Term, len(p.Args))}
		for i, a := range p.Args {
			out.Args[i] = resolve(a)
		}
		return out
	}
	resolveFluent := func(f expr.FluentRef) expr.FluentRef {
		out := expr.FluentRef{Head: f.Head, Args: make([]expr.Term, len(f.Args))}
		for i, a := range f.Args {
			out.Args[i] = resolve(a)
		}
		return out
	}
	resolveNumTerm := func(t expr.NumericTerm) expr.NumericTerm {
		if t.IsLiteral() {
			return t
		}
		out := expr.Fluent(resolveFluent(t.FluentRef()))
		// expr.Fluent builds an unsigned term; carry over a negated term's sign.
		if v, _ := t.Eval(func(expr.FluentRef) (int, bool) { return 1, true }); v < 0 {
			out = expr.Negate(out)
		}
		return out
	}

	ga := &GroundAction{SchemaName: schema.Name, Args: args}

	for _, pc := range schema.Preconditions {
		if pc.IsSymbolic() {
			ga.SymbolicPre = append(ga.SymbolicPre, resolvePred(pc.Predicate()))
			continue
		}
		nc := pc.Numeric()
		ga.NumericPre = append(ga.NumericPre, expr.NumericCond{
			Op:  nc.Op,
			LHS: resolveNumTerm(nc.LHS),
			RHS: resolveNumTerm(nc.RHS),
		})
	}

	for _, e := range schema.Effects {
		switch e.Kind {
		case expr.EffectAdd:
			ga.add = append(ga.add, resolvePred(e.Pred))
		case expr.EffectDelete:
			ga.delete = append(ga.delete, resolvePred(e.Pred))
		case expr.EffectNumAdd:
			ga.num = append(ga.num, pstate.NumericEffect{
				Fluent: resolveFluent(e.Fluent),
				Delta:  resolveNumTerm(e.Value),
			})
		case expr.EffectNumSub:
			ga.num = append(ga.num, pstate.NumericEffect{
				Fluent: resolveFluent(e.Fluent),
				Delta:  expr.Negate(resolveNumTerm(e.Value)),
			})
		}
	}

	return ga, nil
}
