package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/league-registry/internal/domain/league"
	"github.com/riskibarqy/league-registry/internal/platform/logging"
	"github.com/riskibarqy/league-registry/internal/platform/resilience"
)

type CreateLeagueInput struct {
	Name           string
	NumberOfGroups int
	AgeGroups      []AgeGroupInput
}

type AgeGroupInput struct {
	Name           string
	BirthdateStart *time.Time
	BirthdateEnd   *time.Time
}

type LeagueService struct {
	leagueRepo league.Repository
	logger     *logging.Logger
}

func NewLeagueService(leagueRepo league.Repository, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeagueService{
		leagueRepo: leagueRepo,
		logger:     logger,
	}
}

// CreateLeague stores a new league and returns it with the repository-assigned ID.
// Name and group count are stored as given; the group count is not checked
// against the number of age groups.
func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startServiceSpan(ctx, "CreateLeague")
	defer span.End()

	item := league.League{
		Name:           input.Name,
		NumberOfGroups: input.NumberOfGroups,
		AgeGroups:      make([]league.AgeGroup, 0, len(input.AgeGroups)),
	}
	for _, g := range input.AgeGroups {
		item.AgeGroups = append(item.AgeGroups, league.AgeGroup{
			Name:           g.Name,
			BirthdateStart: league.NormalizeDate(g.BirthdateStart),
			BirthdateEnd:   league.NormalizeDate(g.BirthdateEnd),
		})
	}

	created, err := s.leagueRepo.Create(ctx, item)
	if err != nil {
		return league.League{}, translateStorageError("create league", err)
	}

	s.logger.InfoContext(ctx, "league created",
		"league_id", created.ID,
		"age_groups", len(created.AgeGroups),
	)

	return created, nil
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startServiceSpan(ctx, "ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, translateStorageError("list leagues", err)
	}
	if leagues == nil {
		leagues = []league.League{}
	}

	return leagues, nil
}

func translateStorageError(op string, err error) error {
	switch {
	case errors.Is(err, league.ErrConflict):
		return fmt.Errorf("%w: %s: %v", ErrConflict, op, err)
	case errors.Is(err, resilience.ErrCircuitOpen):
		return fmt.Errorf("%w: %s: %v", ErrDependencyUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
