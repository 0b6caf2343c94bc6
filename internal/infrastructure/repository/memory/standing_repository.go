package memory

import (
	"context"

	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/standing"
)

type StandingRepository struct {
	season *Season
}

func NewStandingRepository(season *Season) *StandingRepository {
	return &StandingRepository{season: season}
}

func (r *StandingRepository) ListTotals(_ context.Context) ([]standing.Totals, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	byUser := make(map[int64]*standing.Totals, len(r.season.users))
	out := make([]standing.Totals, 0, len(r.season.users))
	for _, u := range r.season.users {
		byUser[u.ID] = &standing.Totals{
			UserID:       u.ID,
			Username:     u.Username,
			SeasonPoints: r.season.seasonPoints[u.ID],
		}
	}

	for _, item := range r.season.history {
		totals, ok := byUser[item.UserID]
		if !ok {
			continue
		}
		totals.GradedPicks++
		if item.Correct {
			totals.HistoricalPoints++
			totals.CorrectPicks++
		}
	}
	for _, item := range r.season.picks {
		totals, ok := byUser[item.UserID]
		if !ok || !item.IsGraded() {
			continue
		}
		totals.GradedPicks++
		if item.Outcome == pick.OutcomeCorrect {
			totals.CorrectPicks++
		}
	}

	for _, u := range r.season.users {
		out = append(out, *byUser[u.ID])
	}
	return out, nil
}
