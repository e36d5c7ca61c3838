package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter_AllowsUpToCapacityThenRejects(t *testing.T) {
	l := NewTokenBucketLimiter(2, time.Hour)
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestTokenBucketLimiter_TracksBucketsPerKey(t *testing.T) {
	l := NewTokenBucketLimiter(1, time.Hour)
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "client-b")
	require.NoError(t, err)
	require.True(t, allowed, "a separate key must have its own bucket")
}

func TestTokenBucketLimiter_RefillsOverTime(t *testing.T) {
	l := NewTokenBucketLimiter(1, time.Millisecond)
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(5 * time.Millisecond)

	allowed, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed, "tokens must refill once enough time has elapsed")
}

func TestTokenBucketLimiter_ResetClearsBucket(t *testing.T) {
	l := NewTokenBucketLimiter(1, time.Hour)
	ctx := context.Background()

	_, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)

	allowed, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, l.Reset(ctx, "client-a"))

	allowed, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed, "resetting the key must restore a fresh bucket")
}

func TestSlidingWindowLimiter_AllowsUpToLimitWithinWindow(t *testing.T) {
	l := NewSlidingWindowLimiter(2, time.Minute)
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestSlidingWindowLimiter_Reset(t *testing.T) {
	l := NewSlidingWindowLimiter(1, time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)

	allowed, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, l.Reset(ctx, "client-a"))

	allowed, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestIPRateLimiter_NamespacesKeysByIP(t *testing.T) {
	l := NewIPRateLimiter(1)
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, allowed, "a different IP must not share the first IP's bucket")
}

func TestUserRateLimiter_NamespacesKeysByUser(t *testing.T) {
	l := NewUserRateLimiter(1)
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "user-2")
	require.NoError(t, err)
	require.True(t, allowed)
}

type fakeLimiterResult struct {
	allowed bool
	err     error
}

type stubLimiter struct {
	results []fakeLimiterResult
	calls   int
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (bool, error) {
	r := s.results[s.calls]
	s.calls++
	return r.allowed, r.err
}

func (s *stubLimiter) Reset(ctx context.Context, key string) error {
	s.calls = 0
	return nil
}

func TestCompositeRateLimiter_RejectsIfAnyLimiterRejects(t *testing.T) {
	a := &stubLimiter{results: []fakeLimiterResult{{allowed: true}}}
	b := &stubLimiter{results: []fakeLimiterResult{{allowed: false}}}
	composite := NewCompositeRateLimiter(a, b)

	allowed, err := composite.Allow(context.Background(), "client-a")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestCompositeRateLimiter_AllowsOnlyWhenAllAllow(t *testing.T) {
	a := &stubLimiter{results: []fakeLimiterResult{{allowed: true}}}
	b := &stubLimiter{results: []fakeLimiterResult{{allowed: true}}}
	composite := NewCompositeRateLimiter(a, b)

	allowed, err := composite.Allow(context.Background(), "client-a")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestCompositeRateLimiter_ResetResetsAllLimiters(t *testing.T) {
	a := &stubLimiter{results: []fakeLimiterResult{{allowed: true}}}
	b := &stubLimiter{results: []fakeLimiterResult{{allowed: true}}}
	composite := NewCompositeRateLimiter(a, b)

	require.NoError(t, composite.Reset(context.Background(), "client-a"))
	require.Equal(t, 0, a.calls)
	require.Equal(t, 0, b.calls)
}
