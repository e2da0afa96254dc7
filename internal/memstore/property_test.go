package memstore

import (
	"context"
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyStore(t *testing.T) {
	ctx := context.Background()
	s := NewPropertyStore()

	v, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", v.String())
	assert.Equal(t, int64(0), v.Int64())

	require.NoError(t, s.Save(ctx, "checkpoint", int64(42)))
	v, err = s.Get(ctx, "checkpoint")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int64())

	require.NoError(t, s.Save(ctx, "paused", true))
	v, err = s.Get(ctx, "paused")
	require.NoError(t, err)
	assert.True(t, cast.ToBool(v.String()))

	require.NoError(t, s.Expire(ctx, "paused"))
	v, err = s.Get(ctx, "paused")
	require.NoError(t, err)
	assert.Equal(t, "", v.String())

	values, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, values, 1)
}
