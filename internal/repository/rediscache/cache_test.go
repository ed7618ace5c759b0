package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/preview-resolver/internal/domain"
)

const testUUID = "d52c42ae-2755-455c-80ec-70b2ec55c906"

type countingLookup struct {
	post  *domain.Post
	err   error
	calls int
}

func (l *countingLookup) FindByUUID(ctx context.Context, uuid string) (*domain.Post, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.post, nil
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func samplePost() *domain.Post {
	return &domain.Post{
		ID:         "p6",
		UUID:       testUUID,
		Type:       domain.TypePost,
		Status:     domain.PostDraft,
		Visibility: domain.VisibilityTiers,
		Tiers:      []domain.Tier{{ID: "t1", Slug: "gold", Name: "Gold", Type: domain.TierPaid}},
		Title:      "Tiers draft",
		HTML:       "<p>Before</p>" + domain.PaywallMarker + "<p>After</p>",
		UpdatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPostCache_ReadThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	backing := &countingLookup{post: samplePost()}
	cache := New(client, backing, time.Minute, "")
	ctx := context.Background()

	first, err := cache.FindByUUID(ctx, testUUID)
	require.NoError(t, err)
	second, err := cache.FindByUUID(ctx, testUUID)
	require.NoError(t, err)

	assert.Equal(t, 1, backing.calls)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Tiers, second.Tiers)
	assert.Equal(t, first.HTML, second.HTML)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
	assert.True(t, mr.Exists(DefaultKeyPrefix+testUUID))
	assert.Equal(t, time.Minute, mr.TTL(DefaultKeyPrefix+testUUID))
}

func TestPostCache_ExpiresAfterTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	backing := &countingLookup{post: samplePost()}
	cache := New(client, backing, 0, "custom:")
	ctx := context.Background()

	_, err := cache.FindByUUID(ctx, testUUID)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, mr.TTL("custom:"+testUUID))

	mr.FastForward(DefaultTTL + time.Second)

	_, err = cache.FindByUUID(ctx, testUUID)
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)
}

func TestPostCache_DoesNotCacheMisses(t *testing.T) {
	mr, client := setupTestRedis(t)
	backing := &countingLookup{err: domain.ErrPostNotFound}
	cache := New(client, backing, time.Minute, "")

	_, err := cache.FindByUUID(context.Background(), testUUID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.False(t, mr.Exists(DefaultKeyPrefix+testUUID))

	_, err = cache.FindByUUID(context.Background(), testUUID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.Equal(t, 2, backing.calls)
}

func TestPostCache_RedisDownFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	backing := &countingLookup{post: samplePost()}
	cache := New(client, backing, time.Minute, "")
	mr.Close()

	post, err := cache.FindByUUID(context.Background(), testUUID)
	require.NoError(t, err)
	assert.Equal(t, "Tiers draft", post.Title)
	assert.Equal(t, 1, backing.calls)
}

func TestPostCache_CorruptEntryIsReplaced(t *testing.T) {
	mr, client := setupTestRedis(t)
	backing := &countingLookup{post: samplePost()}
	cache := New(client, backing, time.Minute, "")
	require.NoError(t, mr.Set(DefaultKeyPrefix+testUUID, "{not json"))

	post, err := cache.FindByUUID(context.Background(), testUUID)
	require.NoError(t, err)
	assert.Equal(t, testUUID, post.UUID)
	assert.Equal(t, 1, backing.calls)

	stored, err := mr.Get(DefaultKeyPrefix + testUUID)
	require.NoError(t, err)
	assert.Contains(t, stored, `"uuid":"`+testUUID+`"`)
}

func TestPostCache_CorruptEntryEvictedWhenRefetchFails(t *testing.T) {
	mr, client := setupTestRedis(t)
	boom := errors.New("db down")
	cache := New(client, &countingLookup{err: boom}, time.Minute, "")
	require.NoError(t, mr.Set(DefaultKeyPrefix+testUUID, "{not json"))

	_, err := cache.FindByUUID(context.Background(), testUUID)
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(DefaultKeyPrefix+testUUID))
}

func TestPostCache_BackingErrorPropagates(t *testing.T) {
	_, client := setupTestRedis(t)
	boom := errors.New("db down")
	cache := New(client, &countingLookup{err: boom}, time.Minute, "")

	_, err := cache.FindByUUID(context.Background(), testUUID)
	assert.ErrorIs(t, err, boom)
}

func TestPostCache_Invalidate(t *testing.T) {
	mr, client := setupTestRedis(t)
	backing := &countingLookup{post: samplePost()}
	cache := New(client, backing, time.Minute, "")
	ctx := context.Background()

	_, err := cache.FindByUUID(ctx, testUUID)
	require.NoError(t, err)
	require.NoError(t, cache.invalidate(ctx, testUUID))
	assert.False(t, mr.Exists(DefaultKeyPrefix+testUUID))

	_, err = cache.FindByUUID(ctx, testUUID)
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)
}

func TestPostCache_Ping(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := New(client, &countingLookup{}, 0, "")

	assert.NoError(t, cache.Ping(context.Background()))
	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}
