package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/standing"
)

type LeaderboardService struct {
	standingRepo standing.Repository
}

func NewLeaderboardService(standingRepo standing.Repository) *LeaderboardService {
	return &LeaderboardService{standingRepo: standingRepo}
}

// Leaderboard ranks users by historical plus season points with competition ranking.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]standing.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Leaderboard")
	defer span.End()

	totals, err := s.standingRepo.ListTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list standing totals: %w", err)
	}
	return pickem.RankStandings(totals), nil
}
