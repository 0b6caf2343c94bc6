package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	qb "github.com/riskibarqy/nfl-pickem/internal/platform/querybuilder"
)

var matchColumns = []string{
	"id", "week", "home_team_id", "away_team_id", "kickoff_at",
	"completed", "home_score", "away_score", "winner_team_id",
}

var matchOrder = []string{"week", "kickoff_at", "id"}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.list(ctx)
}

func (r *MatchRepository) ListByWeek(ctx context.Context, week int) ([]match.Match, error) {
	return r.list(ctx, qb.Eq("week", week))
}

func (r *MatchRepository) ListIncomplete(ctx context.Context) ([]match.Match, error) {
	return r.list(ctx, qb.Eq("completed", false))
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, crerr.Wrap(err, "build select match by id query")
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, crerr.Wrapf(err, "select match id=%d", matchID)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListWeekSummaries(ctx context.Context) ([]match.WeekSummary, error) {
	query, args, err := qb.Select(
		"week",
		"COUNT(1) AS games_count",
		"COUNT(1) FILTER (WHERE completed) AS completed_games",
	).From("matches").
		GroupBy("week").
		OrderBy("week").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select week summaries query")
	}

	var rows []weekSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select week summaries")
	}

	out := make([]match.WeekSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.WeekSummary{
			Week:           row.Week,
			GamesCount:     row.GamesCount,
			CompletedGames: row.CompletedGames,
		})
	}
	return out, nil
}

func (r *MatchRepository) list(ctx context.Context, conditions ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(conditions...).
		OrderBy(matchOrder...).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select matches query")
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select matches")
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:           row.ID,
		Week:         row.Week,
		HomeTeamID:   row.HomeTeamID,
		AwayTeamID:   row.AwayTeamID,
		KickoffAt:    row.KickoffAt.UTC(),
		Completed:    row.Completed,
		HomeScore:    nullIntPtr(row.HomeScore),
		AwayScore:    nullIntPtr(row.AwayScore),
		WinnerTeamID: nullInt64Ptr(row.WinnerTeamID),
	}
}
