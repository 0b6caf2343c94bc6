package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	qb "github.com/riskibarqy/nfl-pickem/internal/platform/querybuilder"
)

type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) ListAll(ctx context.Context) ([]history.Pick, error) {
	return r.list(ctx)
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID int64) ([]history.Pick, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *HistoryRepository) list(ctx context.Context, conditions ...qb.Condition) ([]history.Pick, error) {
	query, args, err := qb.Select("id", "user_id", "week", "team_id", "is_correct").
		From("historical_picks").
		Where(conditions...).
		OrderBy("week", "user_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select historical picks query")
	}

	var rows []historicalPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select historical picks")
	}

	out := make([]history.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, history.Pick{
			UserID:  row.UserID,
			Week:    row.Week,
			TeamID:  row.TeamID,
			Correct: row.IsCorrect,
		})
	}
	return out, nil
}
