package ground

import "errors"

var (
	// ErrUnknownType indicates a schema parameter's type has no entry in the
	// object pool. Fatal at grounding time.
	ErrUnknownType = errors.New("type absent from object pool")

	// ErrArityMismatch indicates a schema was bound with the wrong number of
	// arguments. Fatal at grounding time.
	ErrArityMismatch = errors.New("argument arity mismatch")
)
