package ecscore

import (
	"encoding/binary"
	"sort"

	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"

	"github.com/argus-labs/ecscore/internal/assert"
)

// ComponentID is an opaque, non-negative identifier for a component type.
// Identifiers are assigned externally by the caller or a code generator; the
// core only requires that the identifier for a given logical component stays
// stable for the lifetime of the engine.
type ComponentID uint32

// SignatureHash is the content identity of a Signature. Two signatures built
// through different call sequences hash equal iff their identifier sequences
// are elementwise equal, which is exactly what makes it safe to use as a map
// key in the TableIndex.
type SignatureHash string

// emptySignature is the archetype key of the empty table that freshly
// committed entities are placed into. It is shared by every caller that asks
// for an empty signature so identity comparisons stay cheap.
var emptySignature = Signature{ids: nil, bits: bitmap.Bitmap{}}

// Signature is an immutable, sorted, duplicate-free sequence of component
// identifiers: the archetype key. The zero value carries no components and
// behaves like EmptySignature; derive larger signatures with With.
type Signature struct {
	ids  []ComponentID
	bits bitmap.Bitmap
}

// EmptySignature returns the shared signature with no components.
func EmptySignature() Signature {
	return emptySignature
}

// Len returns the number of component identifiers in the signature.
func (s Signature) Len() int {
	return len(s.ids)
}

// IDs returns the sorted, duplicate-free identifier sequence backing the
// signature. Callers must not mutate the returned slice.
func (s Signature) IDs() []ComponentID {
	return s.ids
}

// Contains reports whether c is present in the signature.
func (s Signature) Contains(c ComponentID) bool {
	return s.bits.Contains(uint32(c))
}

// IndexOf returns the sorted position of c in the signature, or -1 if c is
// absent.
func (s Signature) IndexOf(c ComponentID) int {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= c })
	if i < len(s.ids) && s.ids[i] == c {
		return i
	}
	return -1
}

// With returns a new signature with c inserted at its sort position. It
// fails with ErrDuplicateSignatureComponent if c is already present.
func (s Signature) With(c ComponentID) (Signature, error) {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= c })
	if i < len(s.ids) && s.ids[i] == c {
		return Signature{}, eris.Wrapf(ErrDuplicateSignatureComponent, "component %d", c)
	}

	ids := make([]ComponentID, len(s.ids)+1)
	copy(ids, s.ids[:i])
	ids[i] = c
	copy(ids[i+1:], s.ids[i:])

	return newSignature(ids), nil
}

// Without returns a new signature with c removed. It fails with
// ErrMissingSignatureComponent if c is absent.
func (s Signature) Without(c ComponentID) (Signature, error) {
	i := s.IndexOf(c)
	if i < 0 {
		return Signature{}, eris.Wrapf(ErrMissingSignatureComponent, "component %d", c)
	}

	ids := make([]ComponentID, len(s.ids)-1)
	copy(ids, s.ids[:i])
	copy(ids[i:], s.ids[i+1:])

	return newSignature(ids), nil
}

// Equal reports whether s and o carry identical identifier sequences.
func (s Signature) Equal(o Signature) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for i, id := range s.ids {
		if o.ids[i] != id {
			return false
		}
	}
	return true
}

// Hash returns the content identity of the signature: a deterministic
// little-endian encoding of the identifier sequence, suitable as a map key.
// Equal signatures always produce equal hashes regardless of the pathway
// that built them (invariant 4 of the storage core).
func (s Signature) Hash() SignatureHash {
	buf := make([]byte, 4*len(s.ids))
	for i, id := range s.ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return SignatureHash(buf)
}

// newSignature builds a Signature from an already-sorted, duplicate-free
// identifier slice, caching the membership bitmap alongside it.
func newSignature(ids []ComponentID) Signature {
	assert.That(sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }),
		"signature identifiers must be sorted")

	var bits bitmap.Bitmap
	for _, id := range ids {
		bits.Set(uint32(id))
	}
	return Signature{ids: ids, bits: bits}
}
