package postgres

import (
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
)

type pickTableModel struct {
	ID        int64     `db:"id" insert:"-"`
	UserID    int64     `db:"user_id"`
	Week      int       `db:"week"`
	MatchID   int64     `db:"match_id"`
	TeamID    int64     `db:"team_id"`
	Outcome   string    `db:"outcome"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type pickReturningRow struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// weekPickLockRow is the stored week pick joined with the match it was made on.
type weekPickLockRow struct {
	Outcome   string    `db:"outcome"`
	Completed bool      `db:"completed"`
	KickoffAt time.Time `db:"kickoff_at"`
}

func (r weekPickLockRow) locked(now time.Time) bool {
	return r.Outcome != string(pick.OutcomePending) || r.Completed || !now.Before(r.KickoffAt)
}
