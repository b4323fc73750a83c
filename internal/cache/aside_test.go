package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	type payload struct {
		Title string `json:"title"`
	}

	fetches := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			fetches++
			dest.Title = "from db"
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "post:1", &first, time.Minute, fetch(&first)))
	assert.Equal(t, "from db", first.Title)
	assert.Equal(t, 1, fetches)

	var second payload
	require.NoError(t, Aside(ctx, "post:1", &second, time.Minute, fetch(&second)))
	assert.Equal(t, "from db", second.Title)
	assert.Equal(t, 1, fetches, "second read should be served from cache")
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var dest struct{ V int }
	fetchErr := errors.New("db down")
	err := Aside(ctx, "post:2", &dest, time.Minute, func() error { return fetchErr })
	assert.ErrorIs(t, err, fetchErr)

	found, err := GetJSON(ctx, "post:2", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside_NoClientFallsThrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var dest struct{ V int }
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(ctx, "post:3", &dest, time.Minute, func() error {
			fetches++
			return nil
		}))
	}
	assert.Equal(t, 2, fetches, "without redis every read goes to the source")
}

func TestAside_RedisOutageFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	mr.Close()

	ctx := context.Background()
	fetches := 0
	var dest struct{ V int }
	require.NoError(t, Aside(ctx, "post:9", &dest, time.Minute, func() error {
		fetches++
		dest.V = 42
		return nil
	}))
	assert.Equal(t, 1, fetches, "a dead redis should read like a miss")
	assert.Equal(t, 42, dest.V)
}

func TestInvalidatePublishedLists(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	key := PostListKey(ctx, 3, 100)
	require.NoError(t, SetJSON(ctx, key, []string{"page"}, time.Minute))

	InvalidatePublishedLists(ctx)

	assert.NotEqual(t, key, PostListKey(ctx, 3, 100), "version bump must rotate the key")

	var dest []string
	found, err := GetJSON(ctx, PostListKey(ctx, 3, 100), &dest)
	require.NoError(t, err)
	assert.False(t, found, "every cached page size is orphaned after a mutation")
}

func TestInvalidatePost(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(7), map[string]string{"t": "x"}, time.Minute))
	require.NoError(t, SetJSON(ctx, CommentsKey(7), []string{"c"}, time.Minute))

	InvalidatePost(ctx, 7)

	assert.False(t, mr.Exists(PostKey(7)))
	assert.False(t, mr.Exists(CommentsKey(7)))
}
