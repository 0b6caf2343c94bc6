package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	qb "github.com/riskibarqy/nfl-pickem/internal/platform/querybuilder"
)

var pickColumns = []string{"id", "user_id", "week", "match_id", "team_id", "outcome", "created_at", "updated_at"}

const pickUpsertSuffix = `ON CONFLICT (user_id, week) DO UPDATE SET
	match_id = EXCLUDED.match_id,
	team_id = EXCLUDED.team_id,
	outcome = EXCLUDED.outcome,
	updated_at = EXCLUDED.updated_at
WHERE picks.outcome = 'pending'
RETURNING id, created_at, updated_at`

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByUserAndWeek(ctx context.Context, userID int64, week int) (pick.Pick, bool, error) {
	query, args, err := qb.Select(pickColumns...).From("picks").
		Where(qb.Eq("user_id", userID), qb.Eq("week", week)).
		Limit(1).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, crerr.Wrap(err, "build select pick by user and week query")
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, crerr.Wrapf(err, "select pick user=%d week=%d", userID, week)
	}
	return pickFromRow(row), true, nil
}

func (r *PickRepository) ListByUser(ctx context.Context, userID int64) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *PickRepository) ListByMatch(ctx context.Context, matchID int64) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("match_id", matchID))
}

func (r *PickRepository) ListAll(ctx context.Context) ([]pick.Pick, error) {
	return r.list(ctx)
}

// Upsert takes share locks on the target match and on the match of the week pick it replaces,
// so it waits for a concurrent settlement of either and then observes what settlement wrote.
// The picks row itself is left unlocked because settlement updates it while holding the match;
// the conflict guard on outcome covers it. A week pick that is graded or whose match kicked
// off is never replaced.
func (r *PickRepository) Upsert(ctx context.Context, item pick.Pick) (pick.Pick, error) {
	if err := item.Validate(); err != nil {
		return pick.Pick{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return pick.Pick{}, crerr.Wrap(err, "begin upsert pick tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("completed").From("matches").
		Where(qb.Eq("id", item.MatchID)).
		For(qb.LockForShare).
		ToSQL()
	if err != nil {
		return pick.Pick{}, crerr.Wrap(err, "build lock match query")
	}

	var completed bool
	if err := tx.GetContext(ctx, &completed, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, crerr.Newf("match %d does not exist", item.MatchID)
		}
		return pick.Pick{}, crerr.Wrapf(err, "lock match id=%d", item.MatchID)
	}
	if completed {
		return pick.Pick{}, crerr.Wrapf(pick.ErrMatchClosed, "match=%d", item.MatchID)
	}

	now := utcNow()
	currentQuery, currentArgs, err := weekPickLockQuery(item.UserID, item.Week)
	if err != nil {
		return pick.Pick{}, crerr.Wrap(err, "build lock week pick query")
	}
	var current weekPickLockRow
	switch err := tx.GetContext(ctx, &current, currentQuery, currentArgs...); {
	case err == nil:
		if current.locked(now) {
			return pick.Pick{}, crerr.Wrapf(pick.ErrMatchClosed, "week pick user=%d week=%d", item.UserID, item.Week)
		}
	case !isNotFound(err):
		return pick.Pick{}, crerr.Wrapf(err, "lock week pick user=%d week=%d", item.UserID, item.Week)
	}

	item.Outcome = pick.OutcomePending
	query, args, err := qb.InsertModel("picks", pickTableModel{
		UserID:    item.UserID,
		Week:      item.Week,
		MatchID:   item.MatchID,
		TeamID:    item.TeamID,
		Outcome:   string(item.Outcome),
		CreatedAt: now,
		UpdatedAt: now,
	}, pickUpsertSuffix)
	if err != nil {
		return pick.Pick{}, crerr.Wrap(err, "build upsert pick query")
	}

	var returned pickReturningRow
	if err := tx.GetContext(ctx, &returned, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, crerr.Wrapf(pick.ErrMatchClosed, "week pick user=%d week=%d graded", item.UserID, item.Week)
		}
		return pick.Pick{}, crerr.Wrapf(err, "upsert pick user=%d week=%d", item.UserID, item.Week)
	}
	if err := tx.Commit(); err != nil {
		return pick.Pick{}, crerr.Wrap(err, "commit upsert pick tx")
	}

	item.ID = returned.ID
	item.CreatedAt = returned.CreatedAt.UTC()
	item.UpdatedAt = returned.UpdatedAt.UTC()
	return item, nil
}

func weekPickLockQuery(userID int64, week int) (string, []any, error) {
	return qb.Select("picks.outcome", "matches.completed", "matches.kickoff_at").From("picks").
		Join("JOIN matches ON matches.id = picks.match_id").
		Where(qb.Eq("picks.user_id", userID), qb.Eq("picks.week", week)).
		For(qb.LockForShareOf("matches")).
		ToSQL()
}

func (r *PickRepository) list(ctx context.Context, conditions ...qb.Condition) ([]pick.Pick, error) {
	query, args, err := qb.Select(pickColumns...).From("picks").
		Where(conditions...).
		OrderBy("week", "user_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select picks query")
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select picks")
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}
	return out, nil
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		ID:        row.ID,
		UserID:    row.UserID,
		Week:      row.Week,
		MatchID:   row.MatchID,
		TeamID:    row.TeamID,
		Outcome:   pick.Outcome(row.Outcome),
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
