package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/result"
	qb "github.com/riskibarqy/nfl-pickem/internal/platform/querybuilder"
)

const userPointsUpsertSuffix = `ON CONFLICT (user_id) DO UPDATE SET
	season_points = user_points.season_points + EXCLUDED.season_points,
	updated_at = EXCLUDED.updated_at`

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Settle runs fn against the match row held FOR UPDATE and writes the settlement in the
// same transaction. Pick upserts take a share lock on the same row and therefore queue
// behind it.
func (r *ResultRepository) Settle(ctx context.Context, matchID int64, fn result.SettleFunc) (result.Settlement, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result.Settlement{}, crerr.Wrap(err, "begin settle tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	matchQuery, matchArgs, err := qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("id", matchID)).
		For(qb.LockForUpdate).
		ToSQL()
	if err != nil {
		return result.Settlement{}, crerr.Wrap(err, "build lock match query")
	}

	var row matchTableModel
	if err := tx.GetContext(ctx, &row, matchQuery, matchArgs...); err != nil {
		if isNotFound(err) {
			return result.Settlement{}, crerr.Wrapf(result.ErrMatchNotFound, "match=%d", matchID)
		}
		return result.Settlement{}, crerr.Wrapf(err, "lock match id=%d", matchID)
	}

	picksQuery, picksArgs, err := qb.Select(pickColumns...).From("picks").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("week", "user_id").
		For(qb.LockForUpdate).
		ToSQL()
	if err != nil {
		return result.Settlement{}, crerr.Wrap(err, "build lock picks query")
	}

	var pickRows []pickTableModel
	if err := tx.SelectContext(ctx, &pickRows, picksQuery, picksArgs...); err != nil {
		return result.Settlement{}, crerr.Wrapf(err, "lock picks match=%d", matchID)
	}
	picks := make([]pick.Pick, 0, len(pickRows))
	for _, p := range pickRows {
		picks = append(picks, pickFromRow(p))
	}

	settlement, err := fn(matchFromRow(row), picks)
	if err != nil {
		return result.Settlement{}, err
	}

	if err := applySettlement(ctx, tx, settlement); err != nil {
		return result.Settlement{}, err
	}
	if err := tx.Commit(); err != nil {
		return result.Settlement{}, crerr.Wrap(err, "commit settle tx")
	}
	return settlement, nil
}

func applySettlement(ctx context.Context, tx *sqlx.Tx, settlement result.Settlement) error {
	now := utcNow()

	query, args, err := qb.Update("matches").
		Set("home_score", settlement.HomeScore).
		Set("away_score", settlement.AwayScore).
		Set("winner_team_id", int64PtrToNull(settlement.WinnerTeamID)).
		Set("completed", true).
		Set("completed_at", now).
		Set("updated_at", now).
		Where(qb.Eq("id", settlement.MatchID), qb.Eq("completed", false)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update match result query")
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return crerr.Wrapf(err, "update match result id=%d", settlement.MatchID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return crerr.Wrap(err, "read updated match rows")
	}
	if affected != 1 {
		return crerr.Newf("match %d was not updated, affected=%d", settlement.MatchID, affected)
	}

	for _, grade := range settlement.Grades {
		query, args, err := qb.Update("picks").
			Set("outcome", string(grade.Outcome)).
			Set("updated_at", now).
			Where(qb.Eq("id", grade.PickID)).
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build grade pick query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "grade pick id=%d", grade.PickID)
		}
	}

	if len(settlement.Usage) > 0 {
		rows := make([]usageTableModel, 0, len(settlement.Usage))
		for _, record := range settlement.Usage {
			rows = append(rows, usageToRow(record))
		}
		query, args, err := qb.InsertModels("team_usage", rows, "")
		if err != nil {
			return crerr.Wrap(err, "build insert team usage query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "insert team usage match=%d", settlement.MatchID)
		}
	}

	points := make([]userPointsTableModel, 0, len(settlement.Points))
	for _, award := range settlement.Points {
		if award.Points == 0 {
			continue
		}
		points = append(points, userPointsTableModel{
			UserID:       award.UserID,
			SeasonPoints: award.Points,
			UpdatedAt:    now,
		})
	}
	if len(points) > 0 {
		query, args, err := qb.InsertModels("user_points", points, userPointsUpsertSuffix)
		if err != nil {
			return crerr.Wrap(err, "build upsert user points query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "upsert user points match=%d", settlement.MatchID)
		}
	}

	return nil
}
