package ecscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIndex_StartsWithEmptyTable(t *testing.T) {
	t.Parallel()

	idx := NewTableIndex()
	empty := idx.GetByID(0)
	require.NotNil(t, empty)
	assert.Equal(t, 0, empty.Signature().Len())
	assert.Same(t, empty, idx.EmptyTable())
}

func TestTableIndex_ResolveWithCreatesAndCaches(t *testing.T) {
	t.Parallel()

	idx := NewTableIndex()
	empty := idx.EmptyTable()

	a := idx.ResolveWith(empty, 1)
	require.NotNil(t, a)
	assert.True(t, a.Signature().Contains(1))

	again, ok := empty.withEdge(1)
	require.True(t, ok)
	assert.Same(t, a, again)

	// A second resolve for the same (from, c) must hit the cached edge, not
	// mint a new table.
	a2 := idx.ResolveWith(empty, 1)
	assert.Same(t, a, a2)
}

// TestTableIndex_UniqueBySignature is testable property/invariant 4: at
// most one table exists per signature, whichever path created it.
func TestTableIndex_UniqueBySignature(t *testing.T) {
	t.Parallel()

	idx := NewTableIndex()
	empty := idx.EmptyTable()

	viaA := idx.ResolveWith(idx.ResolveWith(empty, 1), 2)
	viaB := idx.ResolveWith(idx.ResolveWith(empty, 2), 1)

	assert.Same(t, viaA, viaB)
}

func TestTableIndex_NewTableDoesNotPopulateInverseEdge(t *testing.T) {
	t.Parallel()

	idx := NewTableIndex()
	empty := idx.EmptyTable()

	withA := idx.ResolveWith(empty, 1)

	_, ok := withA.withoutEdge(1)
	assert.False(t, ok, "creating a table must not eagerly populate its inverse edge")
}

// TestTableIndex_ResolveWithoutIsSymmetric exercises invariant 5: graph
// edges are coherent with the signature they lead to.
func TestTableIndex_ResolveWithoutIsSymmetric(t *testing.T) {
	t.Parallel()

	idx := NewTableIndex()
	empty := idx.EmptyTable()

	withA := idx.ResolveWith(empty, 1)
	back := idx.ResolveWithout(withA, 1)

	assert.Same(t, empty, back)
}

func TestTableIndex_IterVisitsInIDOrder(t *testing.T) {
	t.Parallel()

	idx := NewTableIndex()
	empty := idx.EmptyTable()
	idx.ResolveWith(empty, 3)
	idx.ResolveWith(empty, 7)

	var ids []TableID
	require.NoError(t, idx.Iter(func(tbl *Table) error {
		ids = append(ids, tbl.ID())
		return nil
	}))

	assert.Equal(t, []TableID{0, 1, 2}, ids)
}
