package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	qb "github.com/riskibarqy/nfl-pickem/internal/platform/querybuilder"
)

var userColumns = []string{"id", "username", "is_admin", "created_at"}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select(userColumns...).From("users").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select users query")
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select users")
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("id", userID))
}

// GetByUsername matches case-insensitively, mirroring the users_username_lower_key index.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("LOWER(username)", user.NormalizeUsername(username)))
}

func (r *UserRepository) getOne(ctx context.Context, cond qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).From("users").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.User{}, false, crerr.Wrap(err, "build select user query")
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, crerr.Wrap(err, "select user")
	}
	return userFromRow(row), true, nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:       row.ID,
		Username: row.Username,
		IsAdmin:  row.IsAdmin,
	}
}
