package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/league-registry/internal/domain/league"
)

func timePtrToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullTimeToDate maps a DATE column back to a calendar day at UTC midnight.
func nullTimeToDate(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return league.NormalizeDate(&t)
}
