package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/league-registry/internal/domain/league"
	"github.com/riskibarqy/league-registry/internal/infrastructure/repository/memory"
	leaguemock "github.com/riskibarqy/league-registry/internal/mocks/domain/league"
	basecache "github.com/riskibarqy/league-registry/internal/platform/cache"
)

func TestLeagueRepository_ListIsCached(t *testing.T) {
	t.Parallel()

	next := leaguemock.NewRepository(t)
	next.On("List", mock.Anything).Return([]league.League{{ID: "1", Name: "A"}}, nil).Once()

	repo := NewLeagueRepository(next, basecache.NewStore[[]league.League](time.Minute))
	for i := 0; i < 3; i++ {
		items, err := repo.List(t.Context())
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		if len(items) != 1 || items[0].ID != "1" {
			t.Fatalf("unexpected items: %+v", items)
		}
	}
}

func TestLeagueRepository_CreateInvalidatesList(t *testing.T) {
	t.Parallel()

	next := leaguemock.NewRepository(t)
	next.On("List", mock.Anything).Return([]league.League{}, nil).Once()
	next.On("Create", mock.Anything, mock.Anything).Return(league.League{ID: "1", Name: "A"}, nil).Once()
	next.On("List", mock.Anything).Return([]league.League{{ID: "1", Name: "A"}}, nil).Once()

	repo := NewLeagueRepository(next, basecache.NewStore[[]league.League](time.Minute))

	if items, err := repo.List(t.Context()); err != nil || len(items) != 0 {
		t.Fatalf("first List: items=%v err=%v", items, err)
	}
	if _, err := repo.Create(t.Context(), league.League{Name: "A"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	items, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("second List error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected refreshed list, got %+v", items)
	}
}

func TestLeagueRepository_ListErrorIsNotCached(t *testing.T) {
	t.Parallel()

	readErr := errors.New("db down")
	next := leaguemock.NewRepository(t)
	next.On("List", mock.Anything).Return(nil, readErr).Once()
	next.On("List", mock.Anything).Return([]league.League{{ID: "1"}}, nil).Once()

	repo := NewLeagueRepository(next, basecache.NewStore[[]league.League](time.Minute))

	if _, err := repo.List(t.Context()); !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	items, err := repo.List(t.Context())
	if err != nil || len(items) != 1 {
		t.Fatalf("expected recovery after error, items=%v err=%v", items, err)
	}
}

func TestLeagueRepository_FailedCreateKeepsCache(t *testing.T) {
	t.Parallel()

	next := leaguemock.NewRepository(t)
	next.On("List", mock.Anything).Return([]league.League{{ID: "1"}}, nil).Once()
	next.On("Create", mock.Anything, mock.Anything).Return(league.League{}, league.ErrConflict).Once()

	repo := NewLeagueRepository(next, basecache.NewStore[[]league.League](time.Minute))
	if _, err := repo.List(t.Context()); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if _, err := repo.Create(t.Context(), league.League{}); !errors.Is(err, league.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := repo.List(t.Context()); err != nil {
		t.Fatalf("cached List error: %v", err)
	}
}

// gatedListRepository blocks the first List after it has read from the
// wrapped repository, until release is closed.
type gatedListRepository struct {
	league.Repository
	loaded  chan struct{}
	release chan struct{}
	gated   bool
}

func (r *gatedListRepository) List(ctx context.Context) ([]league.League, error) {
	items, err := r.Repository.List(ctx)
	if !r.gated {
		r.gated = true
		close(r.loaded)
		<-r.release
	}
	return items, err
}

func TestLeagueRepository_CreateDuringInFlightListIsVisible(t *testing.T) {
	t.Parallel()

	inner := &gatedListRepository{
		Repository: memory.NewLeagueRepository(nil),
		loaded:     make(chan struct{}),
		release:    make(chan struct{}),
	}
	repo := NewLeagueRepository(inner, basecache.NewStore[[]league.League](time.Minute))

	listed := make(chan []league.League, 1)
	go func() {
		items, _ := repo.List(context.Background())
		listed <- items
	}()

	<-inner.loaded
	if _, err := repo.Create(t.Context(), league.League{Name: "Spring Cup"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	close(inner.release)
	if items := <-listed; len(items) != 0 {
		t.Fatalf("in-flight list read before the create, got %+v", items)
	}

	items, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Spring Cup" {
		t.Fatalf("created league missing from list: %+v", items)
	}
}
