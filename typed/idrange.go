package typed

import (
	"sync"

	"github.com/rotisserie/eris"

	"github.com/argus-labs/ecscore"
)

// IDRange allocates component identifiers from a caller-chosen [min, max]
// window. It exists because the core itself never allocates component
// identifiers — those are assigned externally, by a code generator or by
// hand — and a compilation unit that owns a slice of the identifier space
// needs somewhere to keep its allocation cursor and reject exhaustion the
// same way a generated codegen collaborator would at compile time.
type IDRange struct {
	mu   sync.Mutex
	next ecscore.ComponentID
	max  ecscore.ComponentID
}

// NewIDRange returns an IDRange that hands out identifiers from min to max,
// inclusive.
func NewIDRange(min, max int) *IDRange {
	if max < min {
		panic("typed: IDRange requires max >= min")
	}
	return &IDRange{
		next: ecscore.ComponentID(min),
		max:  ecscore.ComponentID(max),
	}
}

// Next returns the next unallocated identifier in the range, or
// ErrComponentIDExhausted once the window is spent.
func (r *IDRange) Next() (ecscore.ComponentID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next > r.max {
		return 0, eris.Wrapf(ErrComponentIDExhausted, "range exhausted at %d", r.max)
	}
	id := r.next
	r.next++
	return id, nil
}

// Remaining returns the number of identifiers left in the range.
func (r *IDRange) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.next > r.max {
		return 0
	}
	return int(r.max-r.next) + 1
}
