package ecscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sigFrom(t *testing.T, ids ...ComponentID) Signature {
	return sigOf(t, ids...)
}

// TestQuery_Matching is end-to-end scenario 7 verbatim: with(1), without(4),
// with(12) matches [1,12] and [1,2,3,5,12,43]; rejects the rest.
func TestQuery_Matching(t *testing.T) {
	t.Parallel()

	q := Select().With(1).Without(4).With(12).Build()

	accept := [][]ComponentID{
		{1, 12},
		{1, 2, 3, 5, 12, 43},
	}
	reject := [][]ComponentID{
		{1, 4, 12},
		{2, 4, 5, 12},
		{2, 4, 5},
		{13},
		{},
	}

	for _, ids := range accept {
		sig := sigFrom(t, ids...)
		assert.Truef(t, q.Matches(sig), "expected %v to match", ids)
	}
	for _, ids := range reject {
		sig := sigFrom(t, ids...)
		assert.Falsef(t, q.Matches(sig), "expected %v to be rejected", ids)
	}
}

func TestQuery_EmptyMatchesEverything(t *testing.T) {
	t.Parallel()

	q := Select().Build()

	assert.True(t, q.Matches(EmptySignature()))
	assert.True(t, q.Matches(sigFrom(t, 1, 2, 3)))
}

func TestQuery_OnlyExcludeMatchesEmptySignature(t *testing.T) {
	t.Parallel()

	q := Select().Without(5).Build()

	assert.True(t, q.Matches(EmptySignature()))
	assert.False(t, q.Matches(sigFrom(t, 5)))
	assert.True(t, q.Matches(sigFrom(t, 6)))
}

func TestQuery_DuplicateClauseCollapsesToLastCall(t *testing.T) {
	t.Parallel()

	// With(1) then Without(1): the later call wins, so a signature carrying
	// 1 must now be rejected.
	q := Select().With(1).Without(1).Build()

	assert.False(t, q.Matches(sigFrom(t, 1)))
	assert.True(t, q.Matches(EmptySignature()))
}
