package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID           int64         `db:"id"`
	Week         int           `db:"week"`
	HomeTeamID   int64         `db:"home_team_id"`
	AwayTeamID   int64         `db:"away_team_id"`
	KickoffAt    time.Time     `db:"kickoff_at"`
	Completed    bool          `db:"completed"`
	HomeScore    sql.NullInt32 `db:"home_score"`
	AwayScore    sql.NullInt32 `db:"away_score"`
	WinnerTeamID sql.NullInt64 `db:"winner_team_id"`
}

type weekSummaryRow struct {
	Week           int `db:"week"`
	GamesCount     int `db:"games_count"`
	CompletedGames int `db:"completed_games"`
}
