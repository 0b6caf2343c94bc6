package result

import "context"

// Repository applies match results atomically.
//
// Settle locks the match, loads its picks, calls fn and persists the returned settlement:
// match scores and completion, pick outcomes, usage records and point increments. Nothing
// is written when fn returns an error.
type Repository interface {
	Settle(ctx context.Context, matchID int64, fn SettleFunc) (Settlement, error)
}
