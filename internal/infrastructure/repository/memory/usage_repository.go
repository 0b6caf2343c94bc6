package memory

import (
	"context"

	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

type UsageRepository struct {
	season *Season
}

func NewUsageRepository(season *Season) *UsageRepository {
	return &UsageRepository{season: season}
}

func (r *UsageRepository) ListByUser(_ context.Context, userID int64) ([]usage.Record, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	out := make([]usage.Record, 0)
	for _, record := range r.season.usage {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *UsageRepository) ListAll(_ context.Context) ([]usage.Record, error) {
	r.season.mu.RLock()
	defer r.season.mu.RUnlock()

	return append([]usage.Record(nil), r.season.usage...), nil
}
