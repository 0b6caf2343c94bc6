package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/nfl-pickem/internal/platform/querybuilder"
)

type seedMatchRow struct {
	ID         int64     `db:"id"`
	Week       int       `db:"week"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
	KickoffAt  time.Time `db:"kickoff_at"`
	Completed  bool      `db:"completed"`
}

// BootstrapSeed loads the static season data into an empty database. A database that
// already holds users is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, admins []string) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users`); err != nil {
		return crerr.Wrap(err, "count users for bootstrap seed")
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin seed tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	teams := make([]teamTableModel, 0, 32)
	for _, t := range memory.SeedTeams() {
		teams = append(teams, teamTableModel{ID: t.ID, Name: t.Name, Abbreviation: t.Abbreviation})
	}
	if err := seedInsert(ctx, tx, "teams", teams, "ON CONFLICT (id) DO NOTHING"); err != nil {
		return err
	}

	var users []userTableModel
	for _, u := range memory.SeedUsers(admins) {
		users = append(users, userTableModel{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
	}
	if err := seedInsert(ctx, tx, "users", users, "ON CONFLICT (id) DO NOTHING"); err != nil {
		return err
	}

	var matches []seedMatchRow
	for _, m := range memory.SeedMatches() {
		matches = append(matches, seedMatchRow{
			ID:         m.ID,
			Week:       m.Week,
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
			KickoffAt:  m.KickoffAt.UTC(),
			Completed:  false,
		})
	}
	if err := seedInsert(ctx, tx, "matches", matches, "ON CONFLICT (id) DO NOTHING"); err != nil {
		return err
	}

	historical := memory.SeedHistoricalPicks()
	var historyRows []historicalPickTableModel
	for _, h := range historical {
		historyRows = append(historyRows, historicalPickTableModel{
			UserID:    h.UserID,
			Week:      h.Week,
			TeamID:    h.TeamID,
			IsCorrect: h.Correct,
		})
	}
	if err := seedInsert(ctx, tx, "historical_picks", historyRows, "ON CONFLICT (user_id, week) DO NOTHING"); err != nil {
		return err
	}

	var usageRows []usageTableModel
	for _, record := range pickem.ReplayLedger(pickem.GradedFromHistory(historical)) {
		usageRows = append(usageRows, usageToRow(record))
	}
	if err := seedInsert(ctx, tx, "team_usage", usageRows, ""); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit seed tx")
	}
	return nil
}

func seedInsert[T any](ctx context.Context, tx *sqlx.Tx, table string, rows []T, suffix string) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := qb.InsertModels(table, rows, suffix)
	if err != nil {
		return crerr.Wrapf(err, "build seed %s query", table)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "seed %s", table)
	}
	return nil
}
