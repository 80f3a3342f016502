// Package querybuilder renders the narrow slice of SQL the repositories
// need: filtered selects, struct-driven single-row inserts, and column
// updates. Placeholders are Postgres-style $n, numbered in bind order.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition writes one WHERE fragment into the query being rendered.
type Condition func(q *query)

func Eq(column string, value any) Condition {
	return func(q *query) {
		q.sql.WriteString(column)
		q.sql.WriteString(" = ")
		q.sql.WriteString(q.bind(value))
	}
}

// In matches any of values. An empty list renders a clause that matches
// no rows, so callers never build an invalid IN ().
func In(column string, values []any) Condition {
	return func(q *query) {
		if len(values) == 0 {
			q.sql.WriteString("1=0")
			return
		}

		q.sql.WriteString(column)
		q.sql.WriteString(" IN (")
		for i, value := range values {
			if i > 0 {
				q.sql.WriteString(", ")
			}
			q.sql.WriteString(q.bind(value))
		}
		q.sql.WriteString(")")
	}
}

func IsNull(column string) Condition {
	return func(q *query) {
		q.sql.WriteString(column)
		q.sql.WriteString(" IS NULL")
	}
}

// query accumulates SQL text and bound arguments while a builder renders.
// The placeholder number is always the position of the bound value.
type query struct {
	sql  strings.Builder
	args []any
}

func (q *query) bind(value any) string {
	q.args = append(q.args, value)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *query) writeWhere(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}

	q.sql.WriteString(" WHERE ")
	for i, condition := range conditions {
		if i > 0 {
			q.sql.WriteString(" AND ")
		}
		condition(q)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// OrderBy appends ordering terms verbatim, so "round DESC" works.
func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select needs columns")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select needs a table")
	}

	q := &query{}
	q.sql.WriteString("SELECT ")
	q.sql.WriteString(strings.Join(b.columns, ", "))
	q.sql.WriteString(" FROM ")
	q.sql.WriteString(b.table)
	q.writeWhere(b.where)

	if len(b.orderBy) > 0 {
		q.sql.WriteString(" ORDER BY ")
		q.sql.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		q.sql.WriteString(" LIMIT ")
		q.sql.WriteString(strconv.Itoa(b.limit))
	}

	return q.sql.String(), q.args, nil
}

type UpdateBuilder struct {
	table string
	sets  []func(q *query)
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, func(q *query) {
		q.sql.WriteString(column)
		q.sql.WriteString(" = ")
		q.sql.WriteString(q.bind(value))
	})
	return b
}

// SetExpr assigns a raw SQL expression such as NOW(). The expression is
// written verbatim and must not contain user input.
func (b *UpdateBuilder) SetExpr(column, expr string) *UpdateBuilder {
	b.sets = append(b.sets, func(q *query) {
		q.sql.WriteString(column)
		q.sql.WriteString(" = ")
		q.sql.WriteString(expr)
	})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update needs a table")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update needs at least one set")
	}

	q := &query{}
	q.sql.WriteString("UPDATE ")
	q.sql.WriteString(b.table)
	q.sql.WriteString(" SET ")
	for i, set := range b.sets {
		if i > 0 {
			q.sql.WriteString(", ")
		}
		set(q)
	}
	q.writeWhere(b.where)

	return q.sql.String(), q.args, nil
}
