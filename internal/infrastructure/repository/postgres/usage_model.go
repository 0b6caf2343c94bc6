package postgres

import (
	"database/sql"
	"time"
)

type usageTableModel struct {
	ID        int64         `db:"id" insert:"-"`
	UserID    int64         `db:"user_id"`
	TeamID    int64         `db:"team_id"`
	UsageType string        `db:"usage_type"`
	Week      int           `db:"week"`
	MatchID   sql.NullInt64 `db:"match_id"`
	Source    string        `db:"source"`
	CreatedAt time.Time     `db:"created_at" insert:"-"`
}

type userPointsTableModel struct {
	UserID       int64     `db:"user_id"`
	SeasonPoints int       `db:"season_points"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type standingTotalsRow struct {
	UserID           int64  `db:"user_id"`
	Username         string `db:"username"`
	HistoricalPoints int    `db:"historical_points"`
	SeasonPoints     int    `db:"season_points"`
	GradedPicks      int    `db:"graded_picks"`
	CorrectPicks     int    `db:"correct_picks"`
}
