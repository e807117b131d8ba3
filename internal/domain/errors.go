package domain

import "errors"

var (
	// ErrEmptyName indicates a schema was constructed without a name.
	ErrEmptyName = errors.New("schema name must not be empty")

	// ErrMalformedParameter indicates a parameter is missing a type or name.
	ErrMalformedParameter = errors.New("malformed parameter")
)
