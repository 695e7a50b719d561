package httpapi

import (
	"fmt"

	"github.com/riskibarqy/league-registry/internal/domain/league"
	"github.com/riskibarqy/league-registry/internal/usecase"
)

// Pointer fields distinguish a missing key from a zero value.
type createLeagueRequest struct {
	LeagueName     *string           `json:"leagueName" validate:"required"`
	NumberOfGroups *int              `json:"numberOfGroups" validate:"required"`
	AgeGroups      []ageGroupRequest `json:"ageGroups" validate:"required,dive"`
}

type ageGroupRequest struct {
	Name           *string `json:"name" validate:"required"`
	BirthdateStart *string `json:"birthdateStart" validate:"omitnil,datetime=2006-01-02"`
	BirthdateEnd   *string `json:"birthdateEnd" validate:"omitnil,datetime=2006-01-02"`
}

func (r createLeagueRequest) toInput() (usecase.CreateLeagueInput, error) {
	input := usecase.CreateLeagueInput{
		Name:           *r.LeagueName,
		NumberOfGroups: *r.NumberOfGroups,
		AgeGroups:      make([]usecase.AgeGroupInput, 0, len(r.AgeGroups)),
	}
	for i, g := range r.AgeGroups {
		start, err := league.ParseDate(g.BirthdateStart)
		if err != nil {
			return usecase.CreateLeagueInput{}, fmt.Errorf("%w: ageGroups[%d].birthdateStart: %v", usecase.ErrInvalidInput, i, err)
		}
		end, err := league.ParseDate(g.BirthdateEnd)
		if err != nil {
			return usecase.CreateLeagueInput{}, fmt.Errorf("%w: ageGroups[%d].birthdateEnd: %v", usecase.ErrInvalidInput, i, err)
		}
		input.AgeGroups = append(input.AgeGroups, usecase.AgeGroupInput{
			Name:           *g.Name,
			BirthdateStart: start,
			BirthdateEnd:   end,
		})
	}
	return input, nil
}

type leagueDTO struct {
	ID             string        `json:"id"`
	LeagueName     string        `json:"leagueName"`
	NumberOfGroups int           `json:"numberOfGroups"`
	AgeGroups      []ageGroupDTO `json:"ageGroups"`
}

type ageGroupDTO struct {
	Name           string  `json:"name"`
	BirthdateStart *string `json:"birthdateStart"`
	BirthdateEnd   *string `json:"birthdateEnd"`
}

func leagueToDTO(l league.League) leagueDTO {
	groups := make([]ageGroupDTO, 0, len(l.AgeGroups))
	for _, g := range l.AgeGroups {
		groups = append(groups, ageGroupDTO{
			Name:           g.Name,
			BirthdateStart: league.FormatDate(g.BirthdateStart),
			BirthdateEnd:   league.FormatDate(g.BirthdateEnd),
		})
	}

	return leagueDTO{
		ID:             l.ID,
		LeagueName:     l.Name,
		NumberOfGroups: l.NumberOfGroups,
		AgeGroups:      groups,
	}
}
