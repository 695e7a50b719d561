package postgres

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	NumberOfGroups int       `db:"number_of_groups"`
	CreatedAt      time.Time `db:"created_at"`
}

type leagueInsertModel struct {
	Name           string `db:"name"`
	NumberOfGroups int    `db:"number_of_groups"`
}

type ageGroupTableModel struct {
	LeagueID       int64        `db:"league_id"`
	Position       int          `db:"position"`
	Name           string       `db:"name"`
	BirthdateStart sql.NullTime `db:"birthdate_start"`
	BirthdateEnd   sql.NullTime `db:"birthdate_end"`
}
