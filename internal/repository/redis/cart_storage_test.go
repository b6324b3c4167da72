package redis

import (
	"context"
	"testing"

	"github.com/DRSN-tech/futburguer-cart/pkg/clients"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	r "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*CartStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &clients.RedisClient{Client: r.NewClient(&r.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Client.Close() })

	return NewCartStorage(client, logger.NewNop()), mr
}

func TestCartStorage_Get_Missing(t *testing.T) {
	s, _ := newTestStorage(t)

	v, found, err := s.Get(context.Background(), "futburguer_cart")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
}

func TestCartStorage_SetWithoutTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set(ctx, "futburguer_cart:abc", `[{"id":"burger1","quantity":2}]`))

	raw, err := mr.Get("futburguer_cart:abc")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"burger1","quantity":2}]`, raw)
	assert.Zero(t, mr.TTL("futburguer_cart:abc"))

	v, found, err := s.Get(ctx, "futburguer_cart:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, raw, v)
}

func TestCartStorage_Remove(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set(ctx, "futburguer_cart", `[]`))
	require.NoError(t, s.Remove(ctx, "futburguer_cart"))
	assert.False(t, mr.Exists("futburguer_cart"))

	require.NoError(t, s.Remove(ctx, "futburguer_cart"))
}

func TestCartStorage_Unavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t)
	mr.Close()

	_, _, err := s.Get(ctx, "futburguer_cart")
	require.Error(t, err)
	require.Error(t, s.Set(ctx, "futburguer_cart", `[]`))
	require.Error(t, s.Remove(ctx, "futburguer_cart"))
}
