package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/league-registry/internal/domain/league"
	qb "github.com/riskibarqy/league-registry/internal/platform/querybuilder"
)

const (
	leaguesTable   = "leagues"
	ageGroupsTable = "league_age_groups"
)

// LeagueRepository stores leagues in postgres. Ids come from the
// leagues.id BIGSERIAL sequence.
type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return league.League{}, fmt.Errorf("begin tx create league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel(leaguesTable, leagueInsertModel{
		Name:           item.Name,
		NumberOfGroups: item.NumberOfGroups,
	}, "id")
	if err != nil {
		return league.League{}, fmt.Errorf("build insert league query: %w", err)
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return league.League{}, fmt.Errorf("insert league: %w", err)
	}

	for _, insert := range ageGroupInserts(id, item.AgeGroups) {
		query, args, err := insert.ToSQL()
		if err != nil {
			return league.League{}, fmt.Errorf("build insert age groups query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return league.League{}, fmt.Errorf("insert age groups: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return league.League{}, fmt.Errorf("commit create league: %w", err)
	}

	created := item.Clone()
	created.ID = strconv.FormatInt(id, 10)
	return created, nil
}

// List reads both tables in one repeatable-read snapshot so a league is
// never returned without its age groups. Age groups are read unfiltered;
// the snapshot already limits them to the leagues just selected.
func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin tx list leagues: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Select("id", "name", "number_of_groups", "created_at").
		From(leaguesTable).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}
	if len(rows) == 0 {
		return []league.League{}, nil
	}

	query, args, err = selectAgeGroupsQuery()
	if err != nil {
		return nil, fmt.Errorf("build select age groups query: %w", err)
	}

	var groupRows []ageGroupTableModel
	if err := tx.SelectContext(ctx, &groupRows, query, args...); err != nil {
		return nil, fmt.Errorf("select age groups: %w", err)
	}

	return assembleLeagues(rows, groupRows), nil
}

var ageGroupColumns = []string{"league_id", "position", "name", "birthdate_start", "birthdate_end"}

// ageGroupInsertRows keeps each multi-row insert under the bind parameter limit.
var ageGroupInsertRows = qb.MaxBindParams / len(ageGroupColumns)

func ageGroupInserts(leagueID int64, groups []league.AgeGroup) []*qb.InsertBuilder {
	var out []*qb.InsertBuilder
	for start := 0; start < len(groups); start += ageGroupInsertRows {
		end := min(start+ageGroupInsertRows, len(groups))
		insert := qb.InsertInto(ageGroupsTable).Columns(ageGroupColumns...)
		for i := start; i < end; i++ {
			g := groups[i]
			insert.Values(leagueID, i, g.Name, timePtrToNullTime(g.BirthdateStart), timePtrToNullTime(g.BirthdateEnd))
		}
		out = append(out, insert)
	}
	return out
}

func selectAgeGroupsQuery() (string, []any, error) {
	return qb.Select(ageGroupColumns...).
		From(ageGroupsTable).
		OrderBy("league_id", "position").
		ToSQL()
}

func assembleLeagues(rows []leagueTableModel, groupRows []ageGroupTableModel) []league.League {
	groupsByLeague := make(map[int64][]league.AgeGroup, len(rows))
	for _, g := range groupRows {
		groupsByLeague[g.LeagueID] = append(groupsByLeague[g.LeagueID], league.AgeGroup{
			Name:           g.Name,
			BirthdateStart: nullTimeToDate(g.BirthdateStart),
			BirthdateEnd:   nullTimeToDate(g.BirthdateEnd),
		})
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		groups := groupsByLeague[row.ID]
		if groups == nil {
			groups = []league.AgeGroup{}
		}
		out = append(out, league.League{
			ID:             strconv.FormatInt(row.ID, 10),
			Name:           row.Name,
			NumberOfGroups: row.NumberOfGroups,
			AgeGroups:      groups,
		})
	}
	return out
}
