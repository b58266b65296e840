package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/repository"
)

func newCache(t *testing.T) (repository.MessageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return repository.NewMessageCache(rdb, time.Minute), mr
}

func TestMessageCacheRoundTrip(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	cache, mr := newCache(t)

	_, ok, err := cache.Get(ctx, 1)
	req.NoError(err)
	req.False(ok)

	at := time.Date(2025, 5, 24, 12, 0, 0, 0, time.UTC)
	messages := []model.Message{
		{ID: 1, ConversationID: 1, SenderID: 2, Content: "a", CreatedAt: at, UpdatedAt: at,
			Sender: model.UserSummary{ID: 2, Username: "bob"}},
		{ID: 2, ConversationID: 1, SenderID: 3, Content: "b", CreatedAt: at, UpdatedAt: at,
			Sender: model.UserSummary{ID: 3, Username: "carol"}},
	}
	req.NoError(cache.Set(ctx, 1, 0, messages))

	got, ok, err := cache.Get(ctx, 1)
	req.NoError(err)
	req.True(ok)
	req.Equal(messages, got)
	req.Equal(time.Minute, mr.TTL("conversation:1:messages"))

	req.NoError(cache.Invalidate(ctx, 1))
	_, ok, err = cache.Get(ctx, 1)
	req.NoError(err)
	req.False(ok)
}

func TestMessageCacheSetReplacesTimeline(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	cache, _ := newCache(t)

	req.NoError(cache.Set(ctx, 5, 0, []model.Message{{ID: 1, Content: "old"}, {ID: 2, Content: "older"}}))
	req.NoError(cache.Set(ctx, 5, 0, []model.Message{{ID: 3, Content: "new"}}))

	got, ok, err := cache.Get(ctx, 5)
	req.NoError(err)
	req.True(ok)
	req.Len(got, 1)
	req.Equal("new", got[0].Content)
}

func TestMessageCacheDiscardsRefillAfterInvalidate(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	cache, mr := newCache(t)

	// Given a reader that noted the generation before loading the timeline
	generation, err := cache.Generation(ctx, 9)
	req.NoError(err)
	req.Zero(generation)
	stale := []model.Message{{ID: 1, Content: "first"}}

	// When a new message invalidates the entry before the reader stores it
	req.NoError(cache.Invalidate(ctx, 9))
	req.NoError(cache.Set(ctx, 9, generation, stale))

	// Then the outdated timeline is not cached
	req.False(mr.Exists("conversation:9:messages"))
	_, ok, err := cache.Get(ctx, 9)
	req.NoError(err)
	req.False(ok)

	// And a refill based on the current generation is kept
	generation, err = cache.Generation(ctx, 9)
	req.NoError(err)
	req.EqualValues(1, generation)
	req.NoError(cache.Set(ctx, 9, generation, []model.Message{{ID: 1, Content: "first"}, {ID: 2, Content: "second"}}))

	got, ok, err := cache.Get(ctx, 9)
	req.NoError(err)
	req.True(ok)
	req.Len(got, 2)
}
