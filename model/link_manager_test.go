package model

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/config"
	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/d3ce1t/turtlelink/pebbledao"
	"github.com/d3ce1t/turtlelink/shortcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testNow int64 = 1700000000000

type mapCache struct {
	sync.Mutex
	m    map[string]*api.LinkDTO
	hits int
}

func newMapCache() *mapCache {
	return &mapCache{m: make(map[string]*api.LinkDTO)}
}

func (c *mapCache) Get(code string) (*api.LinkDTO, error) {
	c.Lock()
	defer c.Unlock()
	dto, ok := c.m[code]
	if !ok {
		return nil, nil
	}
	c.hits++
	copied := *dto
	return &copied, nil
}

func (c *mapCache) Set(link *api.LinkDTO, ttl time.Duration) error {
	c.Lock()
	defer c.Unlock()
	copied := *link
	c.m[link.Code] = &copied
	return nil
}

func (c *mapCache) Invalidate(code string) error {
	c.Lock()
	defer c.Unlock()
	delete(c.m, code)
	return nil
}

// Users every test env starts with
var testOwners = []int64{1, 2, 7, 8, 42}

type testEnv struct {
	model *TurtleModel
	dao   *pebbledao.LinkDAO
	users *pebbledao.UserDAO
	clock *int64
}

func newTestEnv(t *testing.T, yamlConfig string) *testEnv {
	t.Helper()

	cfg, err := config.Parse([]byte(yamlConfig))
	require.NoError(t, err)

	dao, err := pebbledao.Open(t.TempDir(), false)
	require.NoError(t, err)
	t.Cleanup(func() { dao.Close() })

	now := testNow
	env := &testEnv{dao: dao, users: pebbledao.NewUserDAO(dao), clock: &now}

	for _, id := range testOwners {
		require.NoError(t, env.users.Insert(&api.UserDTO{Id: id, Username: fmt.Sprintf("user%d", id)}))
	}

	env.model, err = New(cfg, dao, env.users, idgen.WithClock(idgen.ClockFunc(func() int64 { return *env.clock })))
	require.NoError(t, err)
	env.model.Links.hashCost = bcrypt.MinCost
	env.model.Users.hashCost = bcrypt.MinCost

	return env
}

func TestShorten(t *testing.T) {
	env := newTestEnv(t, "worker_id: 1\ndatacenter_id: 2\n")
	links := env.model.Links

	link, adminKey, err := links.Shorten(42, "https://example.com/a/very/long/path", "")
	require.NoError(t, err)

	assert.Len(t, link.Code(), shortcode.DefaultLength)
	assert.Equal(t, shortcode.Encode(uint64(link.Id()), shortcode.DefaultLength), link.Code())
	assert.NotEmpty(t, adminKey)
	assert.Equal(t, int64(42), link.OwnerId())

	parts := env.model.IDGen.Decompose(link.Id())
	assert.Equal(t, int64(1), parts.WorkerID)
	assert.Equal(t, int64(2), parts.DatacenterID)
	assert.Equal(t, testNow, parts.Timestamp)

	stored, err := links.GetLink(link.Code())
	require.NoError(t, err)
	assert.Equal(t, link.Id(), stored.Id())
	assert.Equal(t, "https://example.com/a/very/long/path", stored.TargetURL())
	assert.Equal(t, "http://localhost:8000/"+link.Code(), stored.ShortURL(links.BaseURL()))

	// The admin key is never stored in clear
	assert.NotEqual(t, []byte(adminKey), stored.adminKeyHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(stored.adminKeyHash, []byte(adminKey)))
}

func TestShortenEmitsSignal(t *testing.T) {
	env := newTestEnv(t, "")
	stream := env.model.Links.Observe()

	link, _, err := env.model.Links.Shorten(1, "https://example.com", "")
	require.NoError(t, err)

	select {
	case <-stream.Changes():
		signal := stream.Next().(*Signal)
		assert.Equal(t, SignalLinkCreated, signal.Type)
		assert.Equal(t, link.Id(), signal.Data["LinkID"])
		assert.Equal(t, link.Code(), signal.Data["Code"])
	case <-time.After(time.Second):
		t.Fatal("no signal received")
	}
}

func TestShortenInvalidInput(t *testing.T) {
	env := newTestEnv(t, "")

	_, _, err := env.model.Links.Shorten(1, "not a url", "")
	assert.Equal(t, ErrInvalidURL, err)

	_, _, err = env.model.Links.Shorten(1, "https://example.com", "bad code!")
	assert.Equal(t, ErrInvalidCode, err)
}

func TestShortenCustomCode(t *testing.T) {
	env := newTestEnv(t, "")

	link, _, err := env.model.Links.Shorten(1, "https://example.com", "turtle")
	require.NoError(t, err)
	assert.Equal(t, "turtle", link.Code())

	_, _, err = env.model.Links.Shorten(2, "https://other.example.com", "turtle")
	assert.Equal(t, ErrCodeAlreadyInUse, err)
}

func TestShortenRetriesOnCollision(t *testing.T) {
	env := newTestEnv(t, "")

	// Occupy the code the next id would get
	twin, err := idgen.NewIDGen(0, 0, idgen.WithClock(idgen.ClockFunc(func() int64 { return testNow })))
	require.NoError(t, err)
	nextID, err := twin.NextID()
	require.NoError(t, err)

	taken := shortcode.Encode(uint64(nextID), shortcode.DefaultLength)
	require.NoError(t, env.dao.Insert(&api.LinkDTO{Id: 1, Code: taken, TargetURL: "https://taken.example.com"}))

	link, _, err := env.model.Links.Shorten(1, "https://example.com", "")
	require.NoError(t, err)
	assert.NotEqual(t, taken, link.Code())
	assert.Equal(t, nextID+1, link.Id())
}

func TestShortenGivesUpAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t, "max_code_attempts: 2\n")

	twin, err := idgen.NewIDGen(0, 0, idgen.WithClock(idgen.ClockFunc(func() int64 { return testNow })))
	require.NoError(t, err)

	for i := int64(1); i <= 2; i++ {
		id, err := twin.NextID()
		require.NoError(t, err)
		code := shortcode.Encode(uint64(id), shortcode.DefaultLength)
		require.NoError(t, env.dao.Insert(&api.LinkDTO{Id: i, Code: code, TargetURL: "https://taken.example.com"}))
	}

	_, _, err = env.model.Links.Shorten(1, "https://example.com", "")
	assert.Equal(t, ErrCodeSpaceExhausted, err)
}

func TestShortenClockMovedBackwards(t *testing.T) {
	env := newTestEnv(t, "")

	_, _, err := env.model.Links.Shorten(1, "https://example.com", "")
	require.NoError(t, err)

	*env.clock = testNow - 10

	_, _, err = env.model.Links.Shorten(1, "https://example.com", "")
	assert.True(t, errors.Is(err, idgen.ErrClockMovedBackwards))
}

func TestResolveCountsClicks(t *testing.T) {
	env := newTestEnv(t, "")
	cache := newMapCache()
	env.model.Links.SetCache(cache)

	link, _, err := env.model.Links.Shorten(1, "https://example.com", "")
	require.NoError(t, err)

	resolved, err := env.model.Links.Resolve(link.Code())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", resolved.TargetURL())
	assert.Equal(t, int64(1), resolved.Clicks())
	assert.Equal(t, 0, cache.hits)

	resolved, err = env.model.Links.Resolve(link.Code())
	require.NoError(t, err)
	assert.Equal(t, int64(2), resolved.Clicks())
	assert.Equal(t, 1, cache.hits)

	_, err = env.model.Links.Resolve("missing")
	assert.Equal(t, ErrLinkNotFound, err)

	_, err = env.model.Links.Resolve("in/valid")
	assert.Equal(t, ErrInvalidCode, err)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t, "")
	cache := newMapCache()
	env.model.Links.SetCache(cache)

	link, adminKey, err := env.model.Links.Shorten(1, "https://example.com", "")
	require.NoError(t, err)
	_, err = env.model.Links.Resolve(link.Code())
	require.NoError(t, err)

	assert.Equal(t, ErrForbidden, env.model.Links.Delete(link.Code(), "wrong key"))
	assert.Equal(t, ErrLinkNotFound, env.model.Links.Delete("missing", adminKey))

	stream := env.model.Links.Observe()
	require.NoError(t, env.model.Links.Delete(link.Code(), adminKey))

	_, err = env.model.Links.Resolve(link.Code())
	assert.Equal(t, ErrLinkNotFound, err)

	require.True(t, stream.HasNext())
	signal := stream.Next().(*Signal)
	assert.Equal(t, SignalLinkDeleted, signal.Type)
}

func TestGetLinksByOwner(t *testing.T) {
	env := newTestEnv(t, "")

	for i := 0; i < 3; i++ {
		_, _, err := env.model.Links.Shorten(7, "https://example.com", "")
		require.NoError(t, err)
	}
	_, _, err := env.model.Links.Shorten(8, "https://example.com", "")
	require.NoError(t, err)

	links, err := env.model.Links.GetLinksByOwner(7)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Greater(t, links[0].Id(), links[1].Id())

	links, err = env.model.Links.GetLinksByOwner(2)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestUnknownOwner(t *testing.T) {
	env := newTestEnv(t, "")

	_, _, err := env.model.Links.Shorten(99, "https://example.com", "")
	assert.Equal(t, ErrUserNotFound, err)

	_, _, err = env.model.Links.Shorten(0, "https://example.com", "")
	assert.Equal(t, ErrUserNotFound, err)

	_, err = env.model.Links.GetLinksByOwner(99)
	assert.Equal(t, ErrUserNotFound, err)

	// Nothing was minted for the rejected requests
	assert.Equal(t, uint64(0), env.model.IDGen.Stats().Issued)
}

func TestNewValidation(t *testing.T) {
	cfg, err := config.Parse([]byte("worker_id: 32\n"))
	require.NoError(t, err)
	_, err = New(cfg, nil, nil)
	assert.True(t, errors.Is(err, idgen.ErrValidation))

	cfg, err = config.Parse([]byte("code_length: 65\n"))
	require.NoError(t, err)
	_, err = New(cfg, nil, nil)
	assert.Equal(t, ErrInvalidCodeLength, err)
}
