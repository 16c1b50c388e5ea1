package rediscache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ api.LinkCache = (*LinkCache)(nil)

func newTestCache(t *testing.T) *LinkCache {
	t.Helper()

	addr := os.Getenv("TURTLE_TEST_REDIS")
	if addr == "" {
		t.Skip("TURTLE_TEST_REDIS not set")
	}

	client, err := Dial(context.Background(), addr, 15)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	cache := NewLinkCache(client)
	cache.prefix = fmt.Sprintf("test:%v:", time.Now().UnixNano())
	return cache
}

func TestLinkCache(t *testing.T) {
	cache := newTestCache(t)

	link, err := cache.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, link)

	stored := &api.LinkDTO{Id: 1, Code: "abc", TargetURL: "https://example.com", OwnerId: 3}
	require.NoError(t, cache.Set(stored, time.Minute))

	link, err = cache.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, stored, link)

	require.NoError(t, cache.Invalidate("abc"))
	link, err = cache.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestLinkCacheExpires(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Set(&api.LinkDTO{Id: 1, Code: "ttl", TargetURL: "https://example.com"}, 50*time.Millisecond))
	time.Sleep(200 * time.Millisecond)

	link, err := cache.Get("ttl")
	require.NoError(t, err)
	assert.Nil(t, link)
}
