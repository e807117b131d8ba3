// Package domain represents a planning domain: an ordered collection of
// immutable action schemas. Schemas are immutable once a Domain is
// constructed, per the lifecycle described in the core's data model.
package domain

import (
	"fmt"

	"github.com/iamthegreatdestroyer/classical-planner/internal/expr"
)

// Parameter is a single (type, name) pair in a schema's parameter list.
type Parameter struct {
	Type string
	Name expr.Term
}

// Schema is an action template: a name, an ordered parameter list,
// preconditions, effects, and two symmetry-reduction flags.
//
//   - Unique rejects groundings whose argument multiset contains duplicates.
//   - NoPermute keeps at most one grounding per unordered argument multiset.
type Schema struct {
	Name          string
	Parameters    []Parameter
	Preconditions []expr.PreCond
	Effects       []expr.Effect
	Unique        bool
	NoPermute     bool
}

// NewSchema validates and constructs a Schema. Validation failures are
// fatal construction-time errors per the core's error handling design.
func NewSchema(name string, params []Parameter, pre []expr.PreCond, eff []expr.Effect, unique, noPermute bool) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema: %w", ErrEmptyName)
	}

	for _, p := range params {
		if p.Name == "" || p.Type == "" {
			return nil, fmt.Errorf("schema %s: %w", name, ErrMalformedParameter)
		}
	}

	return &Schema{
		Name:          name,
		Parameters:    append([]Parameter(nil), params...),
		Preconditions: append([]expr.PreCond(nil), pre...),
		Effects:       append([]expr.Effect(nil), eff...),
		Unique:        unique,
		NoPermute:     noPermute,
	}, nil
}

// Domain is an ordered collection of action schemas.
type Domain struct {
	Schemas []*Schema
}

// NewDomain constructs a Domain from schemas. The schema order is preserved;
// it determines the order in which the grounder enumerates ground actions,
// which in turn feeds the determinism guarantee on search tie-breaking.
func NewDomain(schemas ...*Schema) *Domain {
	return &Domain{Schemas: append([]*Schema(nil), schemas...)}
}
