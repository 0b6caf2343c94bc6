package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/standing"
	"github.com/riskibarqy/nfl-pickem/internal/domain/team"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	"github.com/sourcegraph/conc/pool"
)

type TeamUsage struct {
	Team  team.Team
	Count int
}

type Dashboard struct {
	UserID         int64
	Username       string
	CurrentWeek    int
	HasCurrentPick bool
	TotalPoints    int
	CorrectPicks   int
	GradedPicks    int
	Rank           int
	WinnerTeams    []TeamUsage
	LoserTeams     []TeamUsage
}

type DashboardService struct {
	standingRepo standing.Repository
	pickRepo     pick.Repository
	usageRepo    usage.Repository
	teamRepo     team.Repository
	schedule     *ScheduleService
}

func NewDashboardService(
	standingRepo standing.Repository,
	pickRepo pick.Repository,
	usageRepo usage.Repository,
	teamRepo team.Repository,
	schedule *ScheduleService,
) *DashboardService {
	return &DashboardService{
		standingRepo: standingRepo,
		pickRepo:     pickRepo,
		usageRepo:    usageRepo,
		teamRepo:     teamRepo,
		schedule:     schedule,
	}
}

// Get loads the independent parts of the dashboard concurrently and fails on the first
// error.
func (s *DashboardService) Get(ctx context.Context, userID int64) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	if userID <= 0 {
		return Dashboard{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	var (
		totals  []standing.Totals
		records []usage.Record
		teams   []team.Team
		week    int
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.standingRepo.ListTotals(ctx)
		if err != nil {
			return fmt.Errorf("list standing totals: %w", err)
		}
		totals = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.usageRepo.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("list team usage: %w", err)
		}
		records = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.teamRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		teams = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		current, err := s.schedule.CurrentWeek(ctx)
		if err != nil {
			return err
		}
		week = current
		return nil
	})
	if err := p.Wait(); err != nil {
		return Dashboard{}, err
	}

	entries := pickem.RankStandings(totals)
	out := Dashboard{UserID: userID, CurrentWeek: week}
	found := false
	for _, entry := range entries {
		if entry.UserID != userID {
			continue
		}
		found = true
		out.Username = entry.Username
		out.Rank = entry.Rank
		out.TotalPoints = entry.Total()
		out.CorrectPicks = entry.CorrectPicks
		out.GradedPicks = entry.GradedPicks
		break
	}
	if !found {
		return Dashboard{}, fmt.Errorf("%w: user=%d", ErrNotFound, userID)
	}

	_, hasPick, err := s.pickRepo.GetByUserAndWeek(ctx, userID, week)
	if err != nil {
		return Dashboard{}, fmt.Errorf("get pick by user and week: %w", err)
	}
	out.HasCurrentPick = hasPick

	index := team.Index(teams)
	ledger := usage.BuildLedger(records)
	for _, teamID := range ledger.TeamIDs() {
		counts := ledger.Counts(teamID)
		if counts.Winner > 0 {
			out.WinnerTeams = append(out.WinnerTeams, TeamUsage{Team: index[teamID], Count: counts.Winner})
		}
		if counts.Loser > 0 {
			out.LoserTeams = append(out.LoserTeams, TeamUsage{Team: index[teamID], Count: counts.Loser})
		}
	}
	sortTeamUsage(out.WinnerTeams)
	sortTeamUsage(out.LoserTeams)

	return out, nil
}

func sortTeamUsage(items []TeamUsage) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Team.Abbreviation < items[j].Team.Abbreviation
	})
}
