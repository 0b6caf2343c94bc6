package match

import "context"

// Repository exposes schedule reads. Results are written through result.Repository.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	ListByWeek(ctx context.Context, week int) ([]Match, error)
	ListIncomplete(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	ListWeekSummaries(ctx context.Context) ([]WeekSummary, error)
}
