package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/internal/domain/standing"
	qb "github.com/riskibarqy/nfl-pickem/internal/platform/querybuilder"
)

const (
	historicalTotalsJoin = `LEFT JOIN (
	SELECT user_id, COUNT(1) AS graded, COUNT(1) FILTER (WHERE is_correct) AS correct
	FROM historical_picks GROUP BY user_id
) h ON h.user_id = u.id`
	seasonTotalsJoin = `LEFT JOIN (
	SELECT user_id,
		COUNT(1) FILTER (WHERE outcome <> 'pending') AS graded,
		COUNT(1) FILTER (WHERE outcome = 'correct') AS correct
	FROM picks GROUP BY user_id
) p ON p.user_id = u.id`
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

// ListTotals returns one row per user, including users with no picks yet.
func (r *StandingRepository) ListTotals(ctx context.Context) ([]standing.Totals, error) {
	query, args, err := qb.Select(
		"u.id AS user_id",
		"u.username",
		"COALESCE(h.correct, 0) AS historical_points",
		"COALESCE(pts.season_points, 0) AS season_points",
		"COALESCE(h.graded, 0) + COALESCE(p.graded, 0) AS graded_picks",
		"COALESCE(h.correct, 0) + COALESCE(p.correct, 0) AS correct_picks",
	).From("users u").
		Join("LEFT JOIN user_points pts ON pts.user_id = u.id").
		Join(historicalTotalsJoin).
		Join(seasonTotalsJoin).
		OrderBy("u.id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select standing totals query")
	}

	var rows []standingTotalsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select standing totals")
	}

	out := make([]standing.Totals, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Totals{
			UserID:           row.UserID,
			Username:         row.Username,
			HistoricalPoints: row.HistoricalPoints,
			SeasonPoints:     row.SeasonPoints,
			GradedPicks:      row.GradedPicks,
			CorrectPicks:     row.CorrectPicks,
		})
	}
	return out, nil
}
