package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/team"
)

type WeekStatus string

const (
	WeekCompleted WeekStatus = "completed"
	WeekActive    WeekStatus = "active"
	WeekUpcoming  WeekStatus = "upcoming"
)

type WeekOverview struct {
	Week           int
	Status         WeekStatus
	GamesCount     int
	CompletedGames int
}

// PendingMatch is a match whose kickoff passed without a posted result.
type PendingMatch struct {
	Match       match.Match
	HomeTeam    team.Team
	AwayTeam    team.Team
	Description string
}

type ScheduleService struct {
	matchRepo   match.Repository
	teamRepo    team.Repository
	seasonWeeks int
	now         func() time.Time
}

func NewScheduleService(matchRepo match.Repository, teamRepo team.Repository, seasonWeeks int) *ScheduleService {
	if seasonWeeks <= 0 {
		seasonWeeks = 18
	}
	return &ScheduleService{
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		seasonWeeks: seasonWeeks,
		now:         time.Now,
	}
}

func (s *ScheduleService) SeasonWeeks() int {
	return s.seasonWeeks
}

func (s *ScheduleService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListTeams")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// CurrentWeek is the first season week that still has an unfinished match. Once every
// scheduled match is final it stays on the last scheduled week.
func (s *ScheduleService) CurrentWeek(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.CurrentWeek")
	defer span.End()

	summaries, err := s.matchRepo.ListWeekSummaries(ctx)
	if err != nil {
		return 0, fmt.Errorf("list week summaries: %w", err)
	}
	return currentWeek(summaries, s.seasonWeeks), nil
}

func (s *ScheduleService) ListWeeks(ctx context.Context) ([]WeekOverview, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListWeeks")
	defer span.End()

	summaries, err := s.matchRepo.ListWeekSummaries(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list week summaries: %w", err)
	}

	current := currentWeek(summaries, s.seasonWeeks)
	byWeek := make(map[int]match.WeekSummary, len(summaries))
	for _, item := range summaries {
		byWeek[item.Week] = item
	}

	out := make([]WeekOverview, 0, s.seasonWeeks)
	for week := 1; week <= s.seasonWeeks; week++ {
		summary := byWeek[week]
		status := WeekUpcoming
		switch {
		case summary.GamesCount > 0 && summary.CompletedGames == summary.GamesCount:
			status = WeekCompleted
		case week == current:
			status = WeekActive
		}
		out = append(out, WeekOverview{
			Week:           week,
			Status:         status,
			GamesCount:     summary.GamesCount,
			CompletedGames: summary.CompletedGames,
		})
	}
	return out, current, nil
}

// ListPendingMatches returns incomplete matches that already kicked off, oldest first.
func (s *ScheduleService) ListPendingMatches(ctx context.Context) ([]PendingMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListPendingMatches")
	defer span.End()

	matches, err := s.matchRepo.ListIncomplete(ctx)
	if err != nil {
		return nil, fmt.Errorf("list incomplete matches: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	index := team.Index(teams)

	now := s.now()
	out := make([]PendingMatch, 0, len(matches))
	for _, item := range matches {
		if !item.HasStarted(now) {
			continue
		}
		home, away := index[item.HomeTeamID], index[item.AwayTeamID]
		out = append(out, PendingMatch{
			Match:       item,
			HomeTeam:    home,
			AwayTeam:    away,
			Description: fmt.Sprintf("W%d: %s @ %s", item.Week, away.Abbreviation, home.Abbreviation),
		})
	}
	return out, nil
}

func currentWeek(summaries []match.WeekSummary, seasonWeeks int) int {
	last := 0
	for _, item := range summaries {
		if item.Week < 1 || item.Week > seasonWeeks || item.GamesCount == 0 {
			continue
		}
		if item.CompletedGames < item.GamesCount {
			return item.Week
		}
		if item.Week > last {
			last = item.Week
		}
	}
	if last == 0 {
		return 1
	}
	return last
}
