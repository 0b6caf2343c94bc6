package standing

import "context"

type Repository interface {
	ListTotals(ctx context.Context) ([]Totals, error)
}
