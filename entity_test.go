package ecscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIndex_DraftDoesNotAdvance(t *testing.T) {
	t.Parallel()

	idx := NewEntityIndex()
	first := idx.Draft()
	second := idx.Draft()
	assert.Equal(t, first, second)
	assert.Equal(t, Entity(0), first)
}

func TestEntityIndex_NewAdvancesAndIsUnassigned(t *testing.T) {
	t.Parallel()

	idx := NewEntityIndex()
	e := idx.New()
	assert.Equal(t, Entity(0), e)
	assert.Equal(t, Entity(1), idx.Draft())

	_, ok := idx.Get(e)
	assert.False(t, ok, "an unassigned entity must not be reported as live")
}

func TestEntityIndex_NewBatch(t *testing.T) {
	t.Parallel()

	idx := NewEntityIndex()
	idx.New()

	first, last := idx.NewBatch(5)
	assert.Equal(t, Entity(1), first)
	assert.Equal(t, Entity(6), last)
	assert.Equal(t, Entity(6), idx.NextID())
}

func TestEntityIndex_RecordAndGet(t *testing.T) {
	t.Parallel()

	idx := NewEntityIndex()
	e := idx.New()

	require.NoError(t, idx.Record(e, 3, 7))

	rec, ok := idx.Get(e)
	require.True(t, ok)
	assert.Equal(t, TableID(3), rec.Table)
	assert.Equal(t, 7, rec.Row)
}

func TestEntityIndex_RecordOnRemovedFails(t *testing.T) {
	t.Parallel()

	idx := NewEntityIndex()
	e := idx.New()
	idx.Remove(e)

	err := idx.Record(e, 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEntity)
}

func TestEntityIndex_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	idx := NewEntityIndex()
	e := idx.New()
	require.NoError(t, idx.Record(e, 0, 0))

	prev, wasLive := idx.Remove(e)
	assert.True(t, wasLive)
	assert.Equal(t, TableID(0), prev.Table)

	_, wasLive = idx.Remove(e)
	assert.False(t, wasLive)

	assert.False(t, idx.Exists(e))
}

func TestEntityIndex_GetOutOfRange(t *testing.T) {
	t.Parallel()

	idx := NewEntityIndex()
	_, ok := idx.Get(Entity(1000))
	assert.False(t, ok)
}

func TestEntityIndex_GrowsPastInitialCapacity(t *testing.T) {
	t.Parallel()

	idx := NewEntityIndex()
	var last Entity
	for i := 0; i < 200; i++ {
		last = idx.New()
	}
	require.NoError(t, idx.Record(last, 0, 0))
	rec, ok := idx.Get(last)
	require.True(t, ok)
	assert.Equal(t, 0, rec.Row)
}
