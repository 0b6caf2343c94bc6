package memory

import (
	"context"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
)

type MatchRepository struct {
	season *Season
}

func NewMatchRepository(season *Season) *MatchRepository {
	return &MatchRepository{season: season}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	return r.season.sortedMatches(nil), nil
}

func (r *MatchRepository) ListByWeek(_ context.Context, week int) ([]match.Match, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	return r.season.sortedMatches(func(m match.Match) bool { return m.Week == week }), nil
}

func (r *MatchRepository) ListIncomplete(_ context.Context) ([]match.Match, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	return r.season.sortedMatches(func(m match.Match) bool { return !m.Completed }), nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	item, ok := r.season.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func (r *MatchRepository) ListWeekSummaries(_ context.Context) ([]match.WeekSummary, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	return match.Summarize(r.season.sortedMatches(nil)), nil
}
