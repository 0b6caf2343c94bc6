package postgres

import "time"

type teamTableModel struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	CreatedAt    time.Time `db:"created_at" insert:"-"`
}

type userTableModel struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at" insert:"-"`
}

type historicalPickTableModel struct {
	ID        int64 `db:"id" insert:"-"`
	UserID    int64 `db:"user_id"`
	Week      int   `db:"week"`
	TeamID    int64 `db:"team_id"`
	IsCorrect bool  `db:"is_correct"`
}
