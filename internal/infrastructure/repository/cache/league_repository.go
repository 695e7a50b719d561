package cache

import (
	"context"

	"github.com/riskibarqy/league-registry/internal/domain/league"
	basecache "github.com/riskibarqy/league-registry/internal/platform/cache"
)

const (
	leagueKeyPrefix = "league:"
	leagueListKey   = leagueKeyPrefix + "list"
)

// LeagueRepository serves List from a TTL cache and drops the cached
// list on every successful Create.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store[[]league.League]
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store[[]league.League]) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return league.League{}, err
	}
	r.cache.DeletePrefix(ctx, leagueKeyPrefix)
	return created, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	items, err := r.cache.GetOrLoad(ctx, leagueListKey, func(ctx context.Context) ([]league.League, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneLeagues(items), nil
	})
	if err != nil {
		return nil, err
	}

	return cloneLeagues(items), nil
}

func cloneLeagues(items []league.League) []league.League {
	out := make([]league.League, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}
