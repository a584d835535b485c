package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Args collects positional query arguments. Sharing one Args between
// builders keeps placeholder numbering consistent across subqueries.
type Args struct {
	values []any
}

// Add appends a value and returns its placeholder ($1, $2, ...).
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Values returns the collected arguments in placeholder order.
func (a *Args) Values() []any { return a.values }

// Len returns the number of collected arguments.
func (a *Args) Len() int { return len(a.values) }

// SelectBuilder is a fluent builder for SELECT statements.
type SelectBuilder struct {
	args    *Args
	columns []string
	from    string
	joins   []string
	where   []string
	groupBy []string
	orderBy []string
	limit   string
	offset  string
}

// NewSelect starts building a SELECT whose arguments go into args.
func NewSelect(args *Args) *SelectBuilder {
	return &SelectBuilder{args: args}
}

// Columns adds select-list expressions.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// From sets the FROM clause.
func (b *SelectBuilder) From(from string) *SelectBuilder {
	b.from = from
	return b
}

// Join adds a JOIN clause, e.g. "LEFT JOIN circles c ON c.id = cf.circle_id".
func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, clause)
	return b
}

// Where adds predicates, AND-combined. Empty predicates are skipped.
func (b *SelectBuilder) Where(preds ...string) *SelectBuilder {
	for _, p := range preds {
		if p != "" {
			b.where = append(b.where, p)
		}
	}
	return b
}

// GroupBy adds GROUP BY expressions.
func (b *SelectBuilder) GroupBy(cols ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, cols...)
	return b
}

// OrderBy adds ORDER BY expressions.
func (b *SelectBuilder) OrderBy(exprs ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, exprs...)
	return b
}

// Limit sets LIMIT as a bound argument.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = b.args.Add(n)
	return b
}

// Offset sets OFFSET as a bound argument.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = b.args.Add(n)
	return b
}

// Build validates and renders the statement.
func (b *SelectBuilder) Build() (string, error) {
	if b.args == nil {
		return "", fmt.Errorf("%w: args collector is required", ErrInvalidQuery)
	}
	if len(b.columns) == 0 {
		return "", fmt.Errorf("%w: no columns selected", ErrInvalidQuery)
	}
	if b.from == "" {
		return "", fmt.Errorf("%w: FROM is required", ErrInvalidQuery)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString("\nFROM ")
	sb.WriteString(b.from)
	for _, j := range b.joins {
		sb.WriteString("\n")
		sb.WriteString(j)
	}
	if len(b.where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(b.where, "\n  AND "))
	}
	if len(b.groupBy) > 0 {
		sb.WriteString("\nGROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit != "" {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(b.limit)
	}
	if b.offset != "" {
		sb.WriteString("\nOFFSET ")
		sb.WriteString(b.offset)
	}
	return sb.String(), nil
}

// UnionAll joins statements with UNION ALL, each parenthesized.
func UnionAll(stmts ...string) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = "(" + s + ")"
	}
	return strings.Join(parts, "\nUNION ALL\n")
}

// Or combines predicates with OR, parenthesized. Empty predicates are skipped.
func Or(preds ...string) string {
	var nonEmpty []string
	for _, p := range preds {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return ""
	case 1:
		return nonEmpty[0]
	default:
		return "(" + strings.Join(nonEmpty, " OR ") + ")"
	}
}
