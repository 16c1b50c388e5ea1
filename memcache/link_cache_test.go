package memcache

import (
	"testing"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ api.LinkCache = (*LinkCache)(nil)

func TestGetSetInvalidate(t *testing.T) {
	cache := NewLinkCache(10)

	dto, err := cache.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, dto)

	link := &api.LinkDTO{Id: 1, Code: "abc", TargetURL: "https://example.com"}
	require.NoError(t, cache.Set(link, time.Minute))

	// Cached copy is independent of the caller's value
	link.TargetURL = "https://changed.example.com"

	dto, err = cache.Get("abc")
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, "https://example.com", dto.TargetURL)

	require.NoError(t, cache.Invalidate("abc"))
	dto, err = cache.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, dto)

	assert.Equal(t, api.ErrInvalidArg, cache.Set(&api.LinkDTO{}, time.Minute))
}

func TestExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewLinkCacheWithClock(10, clock)

	require.NoError(t, cache.Set(&api.LinkDTO{Id: 1, Code: "abc"}, time.Second))
	require.NoError(t, cache.Set(&api.LinkDTO{Id: 2, Code: "def"}, 0))

	clock.Advance(time.Second)

	dto, err := cache.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, dto)
	assert.Equal(t, 1, cache.Len())

	dto, err = cache.Get("def")
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, int64(2), dto.Id)
}

func TestEviction(t *testing.T) {
	cache := NewLinkCache(2)

	for i, code := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set(&api.LinkDTO{Id: int64(i), Code: code}, 0))
	}

	assert.Equal(t, 2, cache.Len())
	dto, _ := cache.Get("a")
	assert.Nil(t, dto)
}
