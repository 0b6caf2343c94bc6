package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	t.Parallel()

	ups, err := fs.Glob(Migrations, MigrationsDir+"/*.up.sql")
	if err != nil {
		t.Fatalf("glob up migrations: %v", err)
	}
	if len(ups) == 0 {
		t.Fatalf("expected embedded migrations")
	}

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(Migrations, down); err != nil {
			t.Fatalf("missing down migration for %s: %v", up, err)
		}
	}
}
