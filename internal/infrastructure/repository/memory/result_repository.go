package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/result"
)

type ResultRepository struct {
	season *Season
}

func NewResultRepository(season *Season) *ResultRepository {
	return &ResultRepository{season: season}
}

// Settle holds the season write lock for the whole settlement.
func (r *ResultRepository) Settle(_ context.Context, matchID int64, fn result.SettleFunc) (result.Settlement, error) {
	r.season.mu.Lock()
	defer r.season.mu.Unlock()

	current, ok := r.season.matches[matchID]
	if !ok {
		return result.Settlement{}, fmt.Errorf("%w: match=%d", result.ErrMatchNotFound, matchID)
	}

	picks := r.season.sortedPicks(func(p pick.Pick) bool { return p.MatchID == matchID })
	settlement, err := fn(cloneMatch(current), picks)
	if err != nil {
		return result.Settlement{}, err
	}

	home, away := settlement.HomeScore, settlement.AwayScore
	current.HomeScore = &home
	current.AwayScore = &away
	current.WinnerTeamID = nil
	if settlement.WinnerTeamID != nil {
		winner := *settlement.WinnerTeamID
		current.WinnerTeamID = &winner
	}
	current.Completed = true
	r.season.matches[matchID] = current

	now := r.season.now().UTC()
	outcomes := make(map[int64]pick.Outcome, len(settlement.Grades))
	for _, grade := range settlement.Grades {
		outcomes[grade.PickID] = grade.Outcome
	}
	for key, item := range r.season.picks {
		outcome, ok := outcomes[item.ID]
		if !ok {
			continue
		}
		item.Outcome = outcome
		item.UpdatedAt = now
		r.season.picks[key] = item
	}

	r.season.usage = append(r.season.usage, settlement.Usage...)
	for _, award := range settlement.Points {
		r.season.seasonPoints[award.UserID] += award.Points
	}

	return settlement, nil
}
