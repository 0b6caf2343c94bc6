package history

import "context"

type Repository interface {
	ListAll(ctx context.Context) ([]Pick, error)
	ListByUser(ctx context.Context, userID int64) ([]Pick, error)
}
