package ecscore

import "github.com/rotisserie/eris"

// Sentinel errors for every error kind in the storage core. Call sites wrap
// these with eris.Wrap/eris.Wrapf so a caller retains both a stack trace and
// sentinel identity (eris.Is(err, ErrInvalidEntity) keeps working through
// any number of wraps).
var (
	// ErrInvalidEntity is returned when a lookup, mutation, or destruction
	// targets an entity that was never allocated or has already been
	// destroyed.
	ErrInvalidEntity = eris.New("ecscore: invalid entity")

	// ErrMissingComponent is returned when reading or removing a component
	// that is not present on the entity.
	ErrMissingComponent = eris.New("ecscore: component not present on entity")

	// ErrDuplicateComponent is returned when adding a component that is
	// already present on the entity. set_component does not return this
	// error; it degrades to add when the component is absent.
	ErrDuplicateComponent = eris.New("ecscore: component already present on entity")

	// ErrEmptyCell is returned when a table cell is read before it was ever
	// written. It indicates an internal invariant violation.
	ErrEmptyCell = eris.New("ecscore: table cell read before write")

	// ErrDuplicateSignatureComponent is returned by Signature.With when the
	// component is already present in the signature.
	ErrDuplicateSignatureComponent = eris.New("ecscore: component already present in signature")

	// ErrMissingSignatureComponent is returned by Signature.Without when the
	// component is not present in the signature.
	ErrMissingSignatureComponent = eris.New("ecscore: component not present in signature")

	// ErrConcurrentStep is returned by Engine.Step when a step is already
	// active, either from a re-entrant call or from another goroutine.
	ErrConcurrentStep = eris.New("ecscore: a step is already in progress")
)
