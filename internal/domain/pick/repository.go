package pick

import "context"

// Repository describes pick persistence needs from use cases.
//
// Upsert replaces the user's pick for the same week and must reject the write with
// ErrMatchClosed when the target match is already completed, or when the stored week pick is
// graded or its match has kicked off.
type Repository interface {
	GetByUserAndWeek(ctx context.Context, userID int64, week int) (Pick, bool, error)
	ListByUser(ctx context.Context, userID int64) ([]Pick, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Pick, error)
	ListAll(ctx context.Context) ([]Pick, error)
	Upsert(ctx context.Context, item Pick) (Pick, error)
}
