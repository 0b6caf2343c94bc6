package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

type insertStatement struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func (s insertStatement) toSQL() (string, []any, error) {
	if s.table == "" || len(s.columns) == 0 {
		return "", nil, errors.New("insert: table and columns are required")
	}
	if len(s.rows) == 0 {
		return "", nil, errors.New("insert: no rows")
	}

	var p params
	tuples := make([]string, len(s.rows))
	for i, row := range s.rows {
		if len(row) != len(s.columns) {
			return "", nil, fmt.Errorf("insert: row %d has %d values for %d columns", i, len(row), len(s.columns))
		}
		tuples[i] = p.tuple(row)
	}

	sql := statement(
		fmt.Sprintf("INSERT INTO %s (%s)", s.table, strings.Join(s.columns, ", ")),
		"VALUES "+strings.Join(tuples, ", "),
		s.suffix,
	)
	return sql, p.values, nil
}

type UpdateBuilder struct {
	table   string
	columns []string
	values  []any
	where   []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: strings.TrimSpace(table)}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to render an unfiltered UPDATE.
func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.table == "":
		return "", nil, errors.New("update: no table")
	case len(b.columns) == 0:
		return "", nil, errors.New("update: no assignments")
	case len(b.where) == 0:
		return "", nil, errors.New("update: no conditions")
	}

	var p params
	assignments := make([]string, len(b.columns))
	for i, col := range b.columns {
		assignments[i] = col + " = " + p.bind(b.values[i])
	}

	sql := statement(
		"UPDATE "+b.table,
		"SET "+strings.Join(assignments, ", "),
		whereClause(&p, b.where),
	)
	return sql, p.values, nil
}
