package typed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-labs/ecscore"
	"github.com/argus-labs/ecscore/typed"
)

type health struct {
	current, max int
}

func TestHandle_AddGetSet(t *testing.T) {
	t.Parallel()

	ids := typed.NewIDRange(1, 64)
	healthID, err := ids.Next()
	require.NoError(t, err)
	healthHandle := typed.NewHandle[health](healthID)

	e := ecscore.NewEngine()
	var entity ecscore.Entity

	require.NoError(t, e.Step(context.Background(), func(s *ecscore.Step) error {
		entity = s.NewEntity()
		return nil
	}))

	require.NoError(t, e.Step(context.Background(), func(s *ecscore.Step) error {
		return healthHandle.Add(s, entity, health{current: 10, max: 10})
	}))

	require.NoError(t, e.Step(context.Background(), func(s *ecscore.Step) error {
		assert.True(t, healthHandle.Has(s, entity))

		h, err := healthHandle.Get(s, entity)
		require.NoError(t, err)
		assert.Equal(t, health{current: 10, max: 10}, h)

		return healthHandle.Set(s, entity, health{current: 5, max: 10})
	}))

	require.NoError(t, e.Step(context.Background(), func(s *ecscore.Step) error {
		h := healthHandle.GetOrZero(s, entity)
		assert.Equal(t, health{current: 5, max: 10}, h)
		return nil
	}))
}

func TestHandle_RemoveThenGetFails(t *testing.T) {
	t.Parallel()

	tagHandle := typed.NewHandle[bool](1)

	e := ecscore.NewEngine()
	var entity ecscore.Entity

	require.NoError(t, e.Step(context.Background(), func(s *ecscore.Step) error {
		entity = s.NewEntity()
		return nil
	}))
	require.NoError(t, e.Step(context.Background(), func(s *ecscore.Step) error {
		return tagHandle.Add(s, entity, true)
	}))
	require.NoError(t, e.Step(context.Background(), func(s *ecscore.Step) error {
		return tagHandle.Remove(s, entity)
	}))

	require.NoError(t, e.Step(context.Background(), func(s *ecscore.Step) error {
		assert.False(t, tagHandle.Has(s, entity))
		_, err := tagHandle.Get(s, entity)
		require.Error(t, err)
		assert.ErrorIs(t, err, ecscore.ErrMissingComponent)
		return nil
	}))
}

func TestIDRange_ExhaustsAndReports(t *testing.T) {
	t.Parallel()

	r := typed.NewIDRange(10, 11)

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, ecscore.ComponentID(10), first)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, ecscore.ComponentID(11), second)

	assert.Equal(t, 0, r.Remaining())

	_, err = r.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, typed.ErrComponentIDExhausted)
}
