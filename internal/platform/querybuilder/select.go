package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

// LockMode is the row locking clause appended to a SELECT.
type LockMode string

const (
	LockNone      LockMode = ""
	LockForUpdate LockMode = "FOR UPDATE"
	LockForShare  LockMode = "FOR SHARE"
)

// LockForShareOf share-locks only the rows of the named tables in a join.
func LockForShareOf(tables ...string) LockMode {
	return LockMode(string(LockForShare) + " OF " + strings.Join(tables, ", "))
}

type SelectBuilder struct {
	columns []string
	table   string
	joins   []string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
	lock    LockMode
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = strings.TrimSpace(table)
	return b
}

// Join appends a raw join clause, e.g. "LEFT JOIN user_points p ON p.user_id = u.id".
func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, clause)
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

// For locks the selected rows until the surrounding transaction ends.
func (b *SelectBuilder) For(mode LockMode) *SelectBuilder {
	b.lock = mode
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("select: no columns")
	case b.table == "":
		return "", nil, errors.New("select: no table")
	case b.lock != LockNone && len(b.groupBy) > 0:
		return "", nil, errors.New("select: row lock cannot be combined with group by")
	}

	var p params
	sql := statement(
		"SELECT "+strings.Join(b.columns, ", "),
		"FROM "+b.table,
		strings.Join(b.joins, " "),
		whereClause(&p, b.where),
		prefixed("GROUP BY ", b.groupBy),
		prefixed("ORDER BY ", b.orderBy),
		b.limitClause(),
		string(b.lock),
	)
	return sql, p.values, nil
}

func (b *SelectBuilder) limitClause() string {
	if b.limit <= 0 {
		return ""
	}
	return "LIMIT " + strconv.Itoa(b.limit)
}

func prefixed(keyword string, parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return keyword + strings.Join(parts, ", ")
}
