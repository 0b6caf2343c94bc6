package usage

import "context"

// Repository reads the usage ledger. Records are appended only by result settlement.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
}
