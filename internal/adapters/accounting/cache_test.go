package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCOACache_FetchesOnceWithinTTL(t *testing.T) {
	cache := NewCOACache(5 * time.Minute)

	calls := 0
	fetch := func(context.Context) ([]Account, error) {
		calls++
		return []Account{{ID: "1", Name: "Office Supplies", Type: "expense"}}, nil
	}

	ctx := context.Background()
	first, err := cache.Get(ctx, fetch)
	require.NoError(t, err)
	second, err := cache.Get(ctx, fetch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCOACache_RefetchesAfterTTL(t *testing.T) {
	cache := NewCOACache(5 * time.Minute)

	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	calls := 0
	fetch := func(context.Context) ([]Account, error) {
		calls++
		return nil, nil
	}

	ctx := context.Background()
	_, _ = cache.Get(ctx, fetch)
	current = current.Add(6 * time.Minute)
	_, _ = cache.Get(ctx, fetch)

	assert.Equal(t, 2, calls)
}

func TestCOACache_Invalidate(t *testing.T) {
	cache := NewCOACache(time.Hour)

	calls := 0
	fetch := func(context.Context) ([]Account, error) {
		calls++
		return nil, nil
	}

	ctx := context.Background()
	_, _ = cache.Get(ctx, fetch)
	cache.Invalidate()
	_, _ = cache.Get(ctx, fetch)

	assert.Equal(t, 2, calls)
}

func TestCOACache_FetchErrorPropagates(t *testing.T) {
	cache := NewCOACache(time.Hour)

	_, err := cache.Get(context.Background(), func(context.Context) ([]Account, error) {
		return nil, errors.New("provider down")
	})
	assert.Error(t, err)
}
