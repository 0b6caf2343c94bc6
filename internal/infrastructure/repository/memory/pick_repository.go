package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
)

type PickRepository struct {
	season *Season
}

func NewPickRepository(season *Season) *PickRepository {
	return &PickRepository{season: season}
}

func (r *PickRepository) GetByUserAndWeek(_ context.Context, userID int64, week int) (pick.Pick, bool, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	item, ok := r.season.picks[pickKey{userID: userID, week: week}]
	return item, ok, nil
}

func (r *PickRepository) ListByUser(_ context.Context, userID int64) ([]pick.Pick, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	return r.season.sortedPicks(func(p pick.Pick) bool { return p.UserID == userID }), nil
}

func (r *PickRepository) ListByMatch(_ context.Context, matchID int64) ([]pick.Pick, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	return r.season.sortedPicks(func(p pick.Pick) bool { return p.MatchID == matchID }), nil
}

func (r *PickRepository) ListAll(_ context.Context) ([]pick.Pick, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	return r.season.sortedPicks(nil), nil
}

// Upsert replaces the user's pick for the week. The match checks and the write happen under
// the season lock, so a pick can never land on a match that settlement already graded, and a
// week pick that is graded or whose match kicked off is never overwritten.
func (r *PickRepository) Upsert(_ context.Context, item pick.Pick) (pick.Pick, error) {
	if err := item.Validate(); err != nil {
		return pick.Pick{}, err
	}

	r.season.mu.Lock()
	defer r.season.mu.Unlock()

	target, ok := r.season.matches[item.MatchID]
	if !ok {
		return pick.Pick{}, fmt.Errorf("match %d does not exist", item.MatchID)
	}
	if target.Completed {
		return pick.Pick{}, fmt.Errorf("%w: match=%d", pick.ErrMatchClosed, item.MatchID)
	}

	key := pickKey{userID: item.UserID, week: item.Week}
	now := r.season.now().UTC()
	if existing, ok := r.season.picks[key]; ok {
		if r.season.pickLocked(existing, now) {
			return pick.Pick{}, fmt.Errorf("%w: week=%d match=%d", pick.ErrMatchClosed, existing.Week, existing.MatchID)
		}
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	} else {
		r.season.nextPickID++
		item.ID = r.season.nextPickID
		item.CreatedAt = now
	}
	item.Outcome = pick.OutcomePending
	item.UpdatedAt = now
	r.season.picks[key] = item

	return item, nil
}
