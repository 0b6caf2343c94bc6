package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	qb "github.com/riskibarqy/nfl-pickem/internal/platform/querybuilder"
)

var usageColumns = []string{"id", "user_id", "team_id", "usage_type", "week", "match_id", "source", "created_at"}

type UsageRepository struct {
	db *sqlx.DB
}

func NewUsageRepository(db *sqlx.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) ListByUser(ctx context.Context, userID int64) ([]usage.Record, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *UsageRepository) ListAll(ctx context.Context) ([]usage.Record, error) {
	return r.list(ctx)
}

func (r *UsageRepository) list(ctx context.Context, conditions ...qb.Condition) ([]usage.Record, error) {
	query, args, err := qb.Select(usageColumns...).From("team_usage").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select team usage query")
	}

	var rows []usageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select team usage")
	}

	out := make([]usage.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, usageFromRow(row))
	}
	return out, nil
}

func usageFromRow(row usageTableModel) usage.Record {
	var matchID int64
	if row.MatchID.Valid {
		matchID = row.MatchID.Int64
	}
	return usage.Record{
		UserID:  row.UserID,
		TeamID:  row.TeamID,
		Type:    usage.Type(row.UsageType),
		Week:    row.Week,
		MatchID: matchID,
		Source:  usage.Source(row.Source),
	}
}

func usageToRow(record usage.Record) usageTableModel {
	return usageTableModel{
		UserID:    record.UserID,
		TeamID:    record.TeamID,
		UsageType: string(record.Type),
		Week:      record.Week,
		MatchID:   int64ToNull(record.MatchID),
		Source:    string(record.Source),
	}
}
