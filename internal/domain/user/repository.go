package user

import "context"

// Repository exposes the static user roster.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID int64) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
}
