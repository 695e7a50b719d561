package document

import (
	"fmt"

	"github.com/riskibarqy/league-registry/internal/domain/league"
)

// leagueRecord is one element of the persisted JSON array.
type leagueRecord struct {
	ID             string           `json:"id"`
	LeagueName     string           `json:"leagueName"`
	NumberOfGroups int              `json:"numberOfGroups"`
	AgeGroups      []ageGroupRecord `json:"ageGroups"`
}

type ageGroupRecord struct {
	Name           string  `json:"name"`
	BirthdateStart *string `json:"birthdateStart"`
	BirthdateEnd   *string `json:"birthdateEnd"`
}

func toRecord(l league.League) leagueRecord {
	groups := make([]ageGroupRecord, 0, len(l.AgeGroups))
	for _, g := range l.AgeGroups {
		groups = append(groups, ageGroupRecord{
			Name:           g.Name,
			BirthdateStart: league.FormatDate(g.BirthdateStart),
			BirthdateEnd:   league.FormatDate(g.BirthdateEnd),
		})
	}
	return leagueRecord{
		ID:             l.ID,
		LeagueName:     l.Name,
		NumberOfGroups: l.NumberOfGroups,
		AgeGroups:      groups,
	}
}

func (r leagueRecord) toDomain() (league.League, error) {
	groups := make([]league.AgeGroup, 0, len(r.AgeGroups))
	for i, g := range r.AgeGroups {
		start, err := league.ParseDate(g.BirthdateStart)
		if err != nil {
			return league.League{}, fmt.Errorf("league %s age group %d birthdateStart: %w", r.ID, i, err)
		}
		end, err := league.ParseDate(g.BirthdateEnd)
		if err != nil {
			return league.League{}, fmt.Errorf("league %s age group %d birthdateEnd: %w", r.ID, i, err)
		}
		groups = append(groups, league.AgeGroup{
			Name:           g.Name,
			BirthdateStart: start,
			BirthdateEnd:   end,
		})
	}
	return league.League{
		ID:             r.ID,
		Name:           r.LeagueName,
		NumberOfGroups: r.NumberOfGroups,
		AgeGroups:      groups,
	}, nil
}
