package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/riskibarqy/league-registry/internal/domain/league"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	items []league.League
	seq   int64
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	r := &LeagueRepository{
		items: make([]league.League, 0, len(leagues)),
	}
	for _, l := range leagues {
		r.seq++
		stored := l.Clone()
		stored.ID = strconv.FormatInt(r.seq, 10)
		r.items = append(r.items, stored)
	}

	return r
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) (league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	stored := l.Clone()
	stored.ID = strconv.FormatInt(r.seq, 10)
	r.items = append(r.items, stored)

	return stored.Clone(), nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.items))
	for _, l := range r.items {
		out = append(out, l.Clone())
	}

	return out, nil
}
