// Package problemfile loads domains and problems authored as YAML
// documents. It is a collaborator-facing convenience
// front end, not a PDDL grammar: predicates are written as structured
// YAML (head/args), while numeric terms and conditions are written as
// short expr-lang/expr expressions ("quantity(p) > 0") and compiled into
// the core's typed expr tree at load time.
package problemfile

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"gopkg.in/yaml.v3"

	"github.com/iamthegreatdestroyer/classical-planner/internal/domain"
	coreexpr "github.com/iamthegreatdestroyer/classical-planner/internal/expr"
	"github.com/iamthegreatdestroyer/classical-planner/internal/ground"
	"github.com/iamthegreatdestroyer/classical-planner/internal/problem"
)

// File is the YAML document shape: objects, schemas, initial state and
// goal.
type File struct {
	Objects map[string][]string `yaml:"objects"`
	Schemas []schemaSpec        `yaml:"schemas"`
	Init    initSpec            `yaml:"init"`
	Goal    goalSpec            `yaml:"goal"`
}

type predicateSpec struct {
	Head string   `yaml:"head"`
	Args []string `yaml:"args"`
}

type paramSpec struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

type preCondSpec struct {
	Predicate *predicateSpec `yaml:"predicate,omitempty"`
	Numeric   string         `yaml:"numeric,omitempty"`
}

type numEffectSpec struct {
	Fluent string `yaml:"fluent"`
	Value  string `yaml:"value"`
}

type effectSpec struct {
	Add    *predicateSpec `yaml:"add,omitempty"`
	Delete *predicateSpec `yaml:"delete,omitempty"`
	NumAdd *numEffectSpec `yaml:"num_add,omitempty"`
	NumSub *numEffectSpec `yaml:"num_sub,omitempty"`
}

type schemaSpec struct {
	Name          string        `yaml:"name"`
	Parameters    []paramSpec   `yaml:"parameters"`
	Preconditions []preCondSpec `yaml:"preconditions"`
	Effects       []effectSpec  `yaml:"effects"`
	Unique        bool          `yaml:"unique"`
	NoPermute     bool          `yaml:"no_permute"`
}

type assignSpec struct {
	Fluent string `yaml:"fluent"`
	Value  int    `yaml:"value"`
}

type initSpec struct {
	Predicates  []predicateSpec `yaml:"predicates"`
	Assignments []assignSpec    `yaml:"assignments"`
}

type goalSpec struct {
	Predicates []predicateSpec `yaml:"predicates"`
	Numeric    []string        `yaml:"numeric"`
}

// LoadFile reads and parses a problem file from disk.
func LoadFile(path string) (*problem.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse problem file %s: %w", path, err)
	}
	return p, nil
}

// Parse builds a grounded problem from a YAML document's bytes.
func Parse(data []byte) (*problem.Problem, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	objects := make(ground.ObjectPool, len(f.Objects))
	for typ, names := range f.Objects {
		terms := make([]coreexpr.Term, len(names))
		for i, n := range names {
			terms[i] = coreexpr.Term(n)
		}
		objects[typ] = terms
	}

	schemas := make([]*domain.Schema, 0, len(f.Schemas))
	for _, ss := range f.Schemas {
		schema, err := buildSchema(ss)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", ss.Name, err)
		}
		schemas = append(schemas, schema)
	}
	d := domain.NewDomain(schemas...)

	init, err := buildInit(f.Init)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	goal, err := buildGoal(f.Goal)
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}

	p, err := problem.New(d, objects, init, goal)
	if err != nil {
		return nil, fmt.Errorf("problem: %w", err)
	}
	return p, nil
}

func buildSchema(ss schemaSpec) (*domain.Schema, error) {
	params := make([]domain.Parameter, len(ss.Parameters))
	for i, p := range ss.Parameters {
		params[i] = domain.Parameter{Type: p.Type, Name: coreexpr.Term(p.Name)}
	}

	pre := make([]coreexpr.PreCond, 0, len(ss.Preconditions))
	for _, pc := range ss.Preconditions {
		switch {
		case pc.Predicate != nil:
			pre = append(pre, coreexpr.Sym(toPredicate(*pc.Predicate)))
		case pc.Numeric != "":
			cond, err := compileNumericCond(pc.Numeric)
			if err != nil {
				return nil, fmt.Errorf("precondition %q: %w", pc.Numeric, err)
			}
			pre = append(pre, coreexpr.Num(cond))
		default:
			return nil, fmt.Errorf("precondition must set predicate or numeric")
		}
	}

	eff := make([]coreexpr.Effect, 0, len(ss.Effects))
	for _, es := range ss.Effects {
		switch {
		case es.Add != nil:
			eff = append(eff, coreexpr.Add(toPredicate(*es.Add)))
		case es.Delete != nil:
			eff = append(eff, coreexpr.Delete(toPredicate(*es.Delete)))
		case es.NumAdd != nil:
			term, err := compileNumericTerm(es.NumAdd.Value)
			if err != nil {
				return nil, fmt.Errorf("num_add value %q: %w", es.NumAdd.Value, err)
			}
			fluent, err := compileFluentRef(es.NumAdd.Fluent)
			if err != nil {
				return nil, fmt.Errorf("num_add fluent %q: %w", es.NumAdd.Fluent, err)
			}
			eff = append(eff, coreexpr.NumAdd(fluent, term))
		case es.NumSub != nil:
			term, err := compileNumericTerm(es.NumSub.Value)
			if err != nil {
				return nil, fmt.Errorf("num_sub value %q: %w", es.NumSub.Value, err)
			}
			fluent, err := compileFluentRef(es.NumSub.Fluent)
			if err != nil {
				return nil, fmt.Errorf("num_sub fluent %q: %w", es.NumSub.Fluent, err)
			}
			eff = append(eff, coreexpr.NumSub(fluent, term))
		default:
			return nil, fmt.Errorf("effect must set add, delete, num_add or num_sub")
		}
	}

	return domain.NewSchema(ss.Name, params, pre, eff, ss.Unique, ss.NoPermute)
}

func toPredicate(p predicateSpec) coreexpr.Predicate {
	args := make([]coreexpr.Term, len(p.Args))
	for i, a := range p.Args {
		args[i] = coreexpr.Term(a)
	}
	return coreexpr.NewPredicate(p.Head, args...)
}

func buildInit(is initSpec) ([]problem.InitEntry, error) {
	entries := make([]problem.InitEntry, 0, len(is.Predicates)+len(is.Assignments))
	for _, p := range is.Predicates {
		entries = append(entries, problem.InitPredicate(toPredicate(p)))
	}
	for _, a := range is.Assignments {
		ref, err := compileFluentRef(a.Fluent)
		if err != nil {
			return nil, fmt.Errorf("assignment fluent %q: %w", a.Fluent, err)
		}
		entries = append(entries, problem.InitAssign(ref, a.Value))
	}
	return entries, nil
}

func buildGoal(gs goalSpec) ([]problem.GoalEntry, error) {
	entries := make([]problem.GoalEntry, 0, len(gs.Predicates)+len(gs.Numeric))
	for _, p := range gs.Predicates {
		entries = append(entries, problem.GoalPredicate(toPredicate(p)))
	}
	for _, text := range gs.Numeric {
		cond, err := compileNumericCond(text)
		if err != nil {
			return nil, fmt.Errorf("goal condition %q: %w", text, err)
		}
		entries = append(entries, problem.GoalNumeric(cond))
	}
	return entries, nil
}

// parseExpression runs the expr-lang/expr parser over a short expression
// and returns its AST. Numeric terms and conditions are walked directly
// rather than run through expr.Compile/expr.Run: the fluent calls they
// contain (quantity(p), price(p)) have no fixed env at load time, since p
// is still an unbound schema parameter that only gets a concrete value
// during grounding.
func parseExpression(text string) (ast.Node, error) {
	tree, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}
	return tree.Node, nil
}

// compileFluentRef compiles a bare fluent reference, e.g. "account" or
// "quantity(p)", into a coreexpr.FluentRef.
func compileFluentRef(text string) (coreexpr.FluentRef, error) {
	node, err := parseExpression(text)
	if err != nil {
		return coreexpr.FluentRef{}, err
	}
	return nodeToFluentRef(node)
}

// compileNumericTerm compiles an integer literal, a signed integer literal,
// or a fluent reference into a coreexpr.NumericTerm.
func compileNumericTerm(text string) (coreexpr.NumericTerm, error) {
	node, err := parseExpression(text)
	if err != nil {
		return coreexpr.NumericTerm{}, err
	}
	return nodeToNumericTerm(node)
}

// compileNumericCond compiles a comparison expression, e.g. "quantity(p) >
// 0" or "missionaries(l) > cannibals(l)", into a coreexpr.NumericCond.
func compileNumericCond(text string) (coreexpr.NumericCond, error) {
	node, err := parseExpression(text)
	if err != nil {
		return coreexpr.NumericCond{}, err
	}
	bin, ok := node.(*ast.BinaryNode)
	if !ok {
		return coreexpr.NumericCond{}, fmt.Errorf("expected a comparison, got %T", node)
	}
	op, ok := coreexpr.ParseCmpOp(bin.Operator)
	if !ok {
		return coreexpr.NumericCond{}, fmt.Errorf("unsupported comparison operator %q", bin.Operator)
	}
	lhs, err := nodeToNumericTerm(bin.Left)
	if err != nil {
		return coreexpr.NumericCond{}, err
	}
	rhs, err := nodeToNumericTerm(bin.Right)
	if err != nil {
		return coreexpr.NumericCond{}, err
	}
	return coreexpr.NumericCond{Op: op, LHS: lhs, RHS: rhs}, nil
}

func nodeToNumericTerm(node ast.Node) (coreexpr.NumericTerm, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return coreexpr.Int(n.Value), nil
	case *ast.UnaryNode:
		if n.Operator != "-" {
			return coreexpr.NumericTerm{}, fmt.Errorf("unsupported unary operator %q", n.Operator)
		}
		inner, err := nodeToNumericTerm(n.Node)
		if err != nil {
			return coreexpr.NumericTerm{}, err
		}
		return coreexpr.Negate(inner), nil
	case *ast.IdentifierNode, *ast.CallNode:
		ref, err := nodeToFluentRef(node)
		if err != nil {
			return coreexpr.NumericTerm{}, err
		}
		return coreexpr.Fluent(ref), nil
	default:
		return coreexpr.NumericTerm{}, fmt.Errorf("unsupported numeric expression node %T", node)
	}
}

func nodeToFluentRef(node ast.Node) (coreexpr.FluentRef, error) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return coreexpr.NewFluentRef(n.Value), nil
	case *ast.CallNode:
		ident, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return coreexpr.FluentRef{}, fmt.Errorf("fluent reference must be a bare call, got %T callee", n.Callee)
		}
		args := make([]coreexpr.Term, len(n.Arguments))
		for i, a := range n.Arguments {
			id, ok := a.(*ast.IdentifierNode)
			if !ok {
				return coreexpr.FluentRef{}, fmt.Errorf("fluent reference argument must be an identifier, got %T", a)
			}
			args[i] = coreexpr.Term(id.Value)
		}
		return coreexpr.NewFluentRef(ident.Value, args...), nil
	default:
		return coreexpr.FluentRef{}, fmt.Errorf("unsupported fluent reference node %T", node)
	}
}
