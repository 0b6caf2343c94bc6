package postgres

import (
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/db"
)

// Migrate applies the embedded migrations. The migrator is not closed because closing the
// postgres driver would close db as well.
func Migrate(conn *sqlx.DB) (uint, error) {
	source, err := iofs.New(db.Migrations, db.MigrationsDir)
	if err != nil {
		return 0, crerr.Wrap(err, "open embedded migrations")
	}

	driver, err := migratepg.WithInstance(conn.DB, &migratepg.Config{})
	if err != nil {
		return 0, crerr.Wrap(err, "create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return 0, crerr.Wrap(err, "create migrator")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, crerr.Wrap(err, "apply migrations")
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, crerr.Wrap(err, "read migration version")
	}
	return version, nil
}
