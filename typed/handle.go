// Package typed is the external collaborator the storage core expects but
// never imports: a generic, allocation-light wrapper that recovers a static
// type at the boundary of the untyped core API. It stands in for the
// annotation-driven code generator described in the core's design notes —
// shipping one hand-written generic instead of a generator keeps the core's
// contract untyped while still making the module usable end to end.
package typed

import (
	"github.com/rotisserie/eris"

	"github.com/argus-labs/ecscore"
)

// Handle is a typed view onto one component identifier. It performs the
// `any` type assertion at the read boundary so callers never see the
// untyped core API directly.
type Handle[T any] struct {
	id ecscore.ComponentID
}

// NewHandle returns a Handle bound to the given component identifier. The
// caller is responsible for id being stable for the type T over the
// lifetime of the engine, per the core's component identifier contract.
func NewHandle[T any](id ecscore.ComponentID) Handle[T] {
	return Handle[T]{id: id}
}

// ID returns the untyped component identifier backing the handle.
func (h Handle[T]) ID() ecscore.ComponentID {
	return h.id
}

// Has reports whether e carries this handle's component in step's pre-step
// snapshot.
func (h Handle[T]) Has(step *ecscore.Step, e ecscore.Entity) bool {
	return step.HasComponent(e, h.id)
}

// Get reads and type-asserts the component's current value. It fails with
// whatever error step.GetComponent produced, or with a typed-specific error
// if the stored value's dynamic type does not match T — which would
// indicate two handles sharing one identifier for different types.
func (h Handle[T]) Get(step *ecscore.Step, e ecscore.Entity) (T, error) {
	var zero T
	v, err := step.GetComponent(e, h.id)
	if err != nil {
		return zero, err
	}
	value, ok := v.(T)
	if !ok {
		return zero, eris.Errorf("typed: component %d on entity %d has type %T, want %T", h.id, e, v, zero)
	}
	return value, nil
}

// GetOrZero is Get without the error: it returns the type's zero value if
// e is not live, does not carry this component, or the stored value fails
// the type assertion.
func (h Handle[T]) GetOrZero(step *ecscore.Step, e ecscore.Entity) T {
	value, err := h.Get(step, e)
	if err != nil {
		var zero T
		return zero
	}
	return value
}

// Add defers writing v as this handle's component on e. It fails with
// ErrDuplicateComponent if e already carries the component.
func (h Handle[T]) Add(step *ecscore.Step, e ecscore.Entity, v T) error {
	return step.AddComponent(e, h.id, v)
}

// Set defers writing v as this handle's component on e, adding it if it is
// not already present.
func (h Handle[T]) Set(step *ecscore.Step, e ecscore.Entity, v T) error {
	return step.SetComponent(e, h.id, v)
}

// Remove defers removing this handle's component from e.
func (h Handle[T]) Remove(step *ecscore.Step, e ecscore.Entity) error {
	return step.RemoveComponent(e, h.id)
}
