package store

import (
	"context"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/cache"
)

// CachedStore wraps a Store with an LRU over decoded results. Result fetches
// for the durable backend skip the decode path on repeat reads. The latest
// alias is never cached; it moves with every put.
type CachedStore struct {
	Store

	results *cache.LRU[string, analysis.Result]
}

// NewCached wraps the store with a result cache of the given capacity.
func NewCached(inner Store, capacity int) *CachedStore {
	return &CachedStore{
		Store:   inner,
		results: cache.New[string, analysis.Result](capacity),
	}
}

// PutResult stores and caches a result.
func (cs *CachedStore) PutResult(ctx context.Context, result analysis.Result) error {
	err := cs.Store.PutResult(ctx, result)
	if err != nil {
		return err
	}

	cs.results.Put(result.ID, result)

	return nil
}

// GetResult serves repeat reads from the cache.
func (cs *CachedStore) GetResult(ctx context.Context, id string) (analysis.Result, error) {
	if id != LatestAlias {
		if result, ok := cs.results.Get(id); ok {
			return result, nil
		}
	}

	result, err := cs.Store.GetResult(ctx, id)
	if err != nil {
		return analysis.Result{}, err
	}

	cs.results.Put(result.ID, result)

	return result, nil
}
