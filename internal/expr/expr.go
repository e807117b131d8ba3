// Package expr defines the typed vocabulary in which action schemas and
// problems are written: predicates, fluent references, numeric terms, and
// effects. It replaces the dynamically-typed tuples of the source planner
// with a tagged variant, per the design note on re-modeling dynamically
// typed expression trees.
package expr

import (
	"strconv"
	"strings"
)

// Term is a symbol drawn from a flat string namespace. Parameter names in
// schemas are terms that bind to object symbols during grounding.
type Term string

// Predicate is an ordered tuple (head, arg1, ..., argN). The head identifies
// the relation; arguments are either parameter terms (in schemas) or object
// terms (once ground). Two ground predicates are equal iff all positions are
// equal.
type Predicate struct {
	Head string
	Args []Term
}

// NewPredicate builds a Predicate from a head and argument terms.
func NewPredicate(head string, args ...Term) Predicate {
	return Predicate{Head: head, Args: append([]Term(nil), args...)}
}

// Key returns a canonical string encoding suitable for set membership and
// hashing. Two predicates are equal iff their keys are equal.
func (p Predicate) Key() string {
	var b strings.Builder
	b.WriteString(p.Head)
	for _, a := range p.Args {
		b.WriteByte('\x1f')
		b.WriteString(string(a))
	}
	return b.String()
}

func (p Predicate) String() string {
	if len(p.Args) == 0 {
		return p.Head
	}
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = string(a)
	}
	return p.Head + "(" + strings.Join(args, ", ") + ")"
}

// FluentRef names a numeric cell: (function-head, arg1, ..., argN). Nullary
// fluents (no args) are permitted.
type FluentRef struct {
	Head string
	Args []Term
}

// NewFluentRef builds a FluentRef from a head and argument terms.
func NewFluentRef(head string, args ...Term) FluentRef {
	return FluentRef{Head: head, Args: append([]Term(nil), args...)}
}

// Key returns a canonical string encoding for map keys and hashing.
func (f FluentRef) Key() string {
	var b strings.Builder
	b.WriteString(f.Head)
	for _, a := range f.Args {
		b.WriteByte('\x1f')
		b.WriteString(string(a))
	}
	return b.String()
}

func (f FluentRef) String() string {
	if len(f.Args) == 0 {
		return f.Head
	}
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = string(a)
	}
	return f.Head + "(" + strings.Join(args, ", ") + ")"
}

// NumericTerm is either an integer literal or a reference to a fluent cell,
// optionally sign-flipped. The sign lets a "-=" effect's value be
// represented as a first-class term (its negation) rather than requiring
// eager evaluation at ground time, when the fluent's value isn't yet known.
type NumericTerm struct {
	isLiteral bool
	literal   int
	fluent    FluentRef
	negated   bool
}

// Int builds a literal integer numeric term.
func Int(v int) NumericTerm { return NumericTerm{isLiteral: true, literal: v} }

// Fluent builds a numeric term referencing a fluent cell.
func Fluent(ref FluentRef) NumericTerm { return NumericTerm{fluent: ref} }

// Negate returns the additive inverse of t as a numeric term.
func Negate(t NumericTerm) NumericTerm {
	if t.isLiteral {
		return Int(-t.literal)
	}
	t.negated = !t.negated
	return t
}

// IsLiteral reports whether the term is an integer literal (as opposed to a
// fluent reference).
func (t NumericTerm) IsLiteral() bool { return t.isLiteral }

// Literal returns the integer literal value. Only meaningful when
// IsLiteral() is true.
func (t NumericTerm) Literal() int { return t.literal }

// FluentRef returns the referenced fluent. Only meaningful when IsLiteral()
// is false.
func (t NumericTerm) FluentRef() FluentRef { return t.fluent }

// Eval evaluates the term against a fluent lookup function. A read of an
// undefined fluent is reported through the returned error, never silently
// treated as zero.
func (t NumericTerm) Eval(lookup func(FluentRef) (int, bool)) (int, error) {
	if t.isLiteral {
		return t.literal, nil
	}
	v, ok := lookup(t.fluent)
	if !ok {
		return 0, &UndefinedFluentError{Ref: t.fluent}
	}
	if t.negated {
		v = -v
	}
	return v, nil
}

func (t NumericTerm) String() string {
	sign := ""
	if t.negated {
		sign = "-"
	}
	if t.isLiteral {
		return sign + strconv.Itoa(t.literal)
	}
	return sign + t.fluent.String()
}

// CmpOp is a numeric comparison operator.
type CmpOp int

const (
	OpGT CmpOp = iota
	OpLT
	OpEQ
	OpGE
	OpLE
)

func (op CmpOp) String() string {
	switch op {
	case OpGT:
		return ">"
	case OpLT:
		return "<"
	case OpEQ:
		return "="
	case OpGE:
		return ">="
	case OpLE:
		return "<="
	default:
		return "?"
	}
}

// ParseCmpOp maps a textual operator to a CmpOp.
func ParseCmpOp(s string) (CmpOp, bool) {
	switch s {
	case ">":
		return OpGT, true
	case "<":
		return OpLT, true
	case "=", "==":
		return OpEQ, true
	case ">=":
		return OpGE, true
	case "<=":
		return OpLE, true
	default:
		return 0, false
	}
}

// Apply evaluates the comparison for the given operand values.
func (op CmpOp) Apply(lhs, rhs int) bool {
	switch op {
	case OpGT:
		return lhs > rhs
	case OpLT:
		return lhs < rhs
	case OpEQ:
		return lhs == rhs
	case OpGE:
		return lhs >= rhs
	case OpLE:
		return lhs <= rhs
	default:
		return false
	}
}

// NumericCond is a comparison op applied to two numeric terms.
type NumericCond struct {
	Op  CmpOp
	LHS NumericTerm
	RHS NumericTerm
}

// Eval evaluates both sides against lookup and applies Op.
func (c NumericCond) Eval(lookup func(FluentRef) (int, bool)) (bool, error) {
	lhs, err := c.LHS.Eval(lookup)
	if err != nil {
		return false, err
	}
	rhs, err := c.RHS.Eval(lookup)
	if err != nil {
		return false, err
	}
	return c.Op.Apply(lhs, rhs), nil
}

func (c NumericCond) String() string {
	return c.LHS.String() + " " + c.Op.String() + " " + c.RHS.String()
}

// PreCond is either a symbolic predicate or a numeric comparison.
type PreCond struct {
	sym *Predicate
	num *NumericCond
}

// Sym builds a symbolic precondition.
func Sym(p Predicate) PreCond { return PreCond{sym: &p} }

// Num builds a numeric precondition.
func Num(c NumericCond) PreCond { return PreCond{num: &c} }

// IsSymbolic reports whether this precondition is a symbolic predicate.
func (c PreCond) IsSymbolic() bool { return c.sym != nil }

// Predicate returns the symbolic predicate. Only meaningful when
// IsSymbolic() is true.
func (c PreCond) Predicate() Predicate { return *c.sym }

// Numeric returns the numeric condition. Only meaningful when IsSymbolic()
// is false.
func (c PreCond) Numeric() NumericCond { return *c.num }

// EffectKind distinguishes the four effect shapes the planner supports.
type EffectKind int

const (
	EffectAdd EffectKind = iota
	EffectDelete
	EffectNumAdd
	EffectNumSub
)

// Effect is one of: Add a ground predicate, Delete a ground predicate, or
// adjust a fluent by a signed numeric term (num-add, num-sub).
type Effect struct {
	Kind   EffectKind
	Pred   Predicate   // valid for EffectAdd, EffectDelete
	Fluent FluentRef   // valid for EffectNumAdd, EffectNumSub
	Value  NumericTerm // valid for EffectNumAdd, EffectNumSub
}

// Add builds an add effect.
func Add(p Predicate) Effect { return Effect{Kind: EffectAdd, Pred: p} }

// Delete builds a delete effect. A delete is an add-shaped effect tagged
// negative; the grounder resolves its inner predicate exactly like an add.
func Delete(p Predicate) Effect { return Effect{Kind: EffectDelete, Pred: p} }

// NumAdd builds a "+=" effect: value is added to the fluent's pre-state
// value.
func NumAdd(f FluentRef, v NumericTerm) Effect {
	return Effect{Kind: EffectNumAdd, Fluent: f, Value: v}
}

// NumSub builds a "-=" effect: value is subtracted from the fluent's
// pre-state value.
func NumSub(f FluentRef, v NumericTerm) Effect {
	return Effect{Kind: EffectNumSub, Fluent: f, Value: v}
}

// UndefinedFluentError reports a read of a fluent that was never assigned.
// Per spec, this is a fatal runtime error, not silent zero.
type UndefinedFluentError struct {
	Ref FluentRef
}

func (e *UndefinedFluentError) Error() string {
	return "fluent read before write: " + e.Ref.String()
}
