// Package querybuilder renders the handful of PostgreSQL statement shapes the repositories
// need, with $n placeholders numbered in the order values are bound.
package querybuilder

import (
	"strconv"
	"strings"
)

// Condition is one predicate. A WHERE clause joins them with AND.
type Condition interface {
	render(p *params) string
}

type equals struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return equals{column: column, value: value}
}

func (e equals) render(p *params) string {
	return e.column + " = " + p.bind(e.value)
}

type params struct {
	values []any
}

func (p *params) bind(value any) string {
	p.values = append(p.values, value)
	return "$" + strconv.Itoa(len(p.values))
}

func (p *params) tuple(values []any) string {
	slots := make([]string, len(values))
	for i, v := range values {
		slots[i] = p.bind(v)
	}
	return "(" + strings.Join(slots, ", ") + ")"
}

func whereClause(p *params, conditions []Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = c.render(p)
	}
	return "WHERE " + strings.Join(parts, " AND ")
}

// statement joins the non-empty clauses with single spaces.
func statement(clauses ...string) string {
	kept := clauses[:0]
	for _, c := range clauses {
		if c = strings.TrimSpace(c); c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " ")
}
