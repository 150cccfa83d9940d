// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package database

import (
	"fmt"
	"slices"
	"strings"

	"github.com/taibuivan/biblioteca/pkg/search"
)

// # Ordering

// Direction is a validated sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Directions lists the accepted API spellings of a direction.
var Directions = []string{"asc", "desc"}

// ParseDirection maps "asc" or "desc" (any case) to a [Direction].
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}
	return "", false
}

// SortColumns maps API sort names to SQL column expressions.
//
// It is the only path by which client input reaches an identifier position in SQL.
type SortColumns map[string]string

// Resolve returns the SQL column for an API sort name.
func (s SortColumns) Resolve(name string) (string, bool) {
	column, ok := s[name]
	return column, ok
}

// Names returns the accepted API sort names in a stable order.
func (s SortColumns) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// OrderBy renders an ORDER BY clause for a resolved column followed by stable
// ascending tie-break keys.
func OrderBy(column string, direction Direction, keys ...string) string {
	if direction != Desc {
		direction = Asc
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ORDER BY %s %s", column, direction)
	for _, key := range keys {
		if key == column {
			continue
		}
		fmt.Fprintf(&sb, ", %s ASC", key)
	}
	return sb.String()
}

// # Builder

// Builder accumulates WHERE conditions and their bound arguments.
//
// Every value goes through [Builder.Bind]; the returned SQL text only ever contains
// placeholders, column names supplied by the caller, and fixed keywords.
//
//	b := database.NewBuilder(db.Dialect())
//	b.Between("fans_count", 0, 100).ContainsAll("name", search.Tokens(term))
//	query := "SELECT ... FROM authors " + b.WhereClause() + " " + b.Page(25, 0)
//	rows, err := db.QueryContext(ctx, query, b.Args()...)
type Builder struct {
	dialect    Dialect
	args       []any
	conditions []string
}

// NewBuilder returns an empty builder for dialect.
func NewBuilder(dialect Dialect) *Builder {
	return &Builder{dialect: dialect}
}

// Dialect returns the builder's dialect.
func (b *Builder) Dialect() Dialect { return b.dialect }

// Bind records value as the next argument and returns its placeholder.
func (b *Builder) Bind(value any) string {
	b.args = append(b.args, value)
	return b.dialect.Placeholder(len(b.args))
}

// Where adds a raw condition. The condition must not embed client input.
func (b *Builder) Where(condition string) *Builder {
	b.conditions = append(b.conditions, condition)
	return b
}

// Equal adds column = value.
func (b *Builder) Equal(column string, value any) *Builder {
	return b.Where(column + " = " + b.Bind(value))
}

// Between adds an inclusive range condition.
func (b *Builder) Between(column string, lower, upper any) *Builder {
	return b.Where(fmt.Sprintf("%s BETWEEN %s AND %s", column, b.Bind(lower), b.Bind(upper)))
}

// In adds column IN (values...). An empty value list matches nothing.
func (b *Builder) In(column string, values ...any) *Builder {
	if len(values) == 0 {
		return b.Where("1 = 0")
	}

	markers := make([]string, len(values))
	for i, value := range values {
		markers[i] = b.Bind(value)
	}
	return b.Where(fmt.Sprintf("%s IN (%s)", column, strings.Join(markers, ", ")))
}

// ContainsAll requires every folded token to appear in column.
func (b *Builder) ContainsAll(column string, tokens []string) *Builder {
	folded := b.dialect.Fold(column)
	for _, token := range tokens {
		b.Where(fmt.Sprintf("%s LIKE %s ESCAPE '%s'", folded, b.Bind(search.Contains(token)), search.LikeEscape))
	}
	return b
}

// ContainsTerm requires the whole folded term to appear in column.
func (b *Builder) ContainsTerm(column string, term string) *Builder {
	pattern := search.Contains(search.Fold(strings.TrimSpace(term)))
	return b.Where(fmt.Sprintf("%s LIKE %s ESCAPE '%s'", b.dialect.Fold(column), b.Bind(pattern), search.LikeEscape))
}

// WhereClause renders the accumulated conditions joined by AND, or "" when empty.
func (b *Builder) WhereClause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

// Page renders a bound LIMIT/OFFSET clause.
func (b *Builder) Page(limit, offset int) string {
	return fmt.Sprintf("LIMIT %s OFFSET %s", b.Bind(limit), b.Bind(offset))
}

// Args returns the bound arguments in placeholder order.
func (b *Builder) Args() []any {
	return b.args
}

// Qualify joins columns into a select list, prefixing each with alias when non-empty.
func Qualify(alias string, columns []string) string {
	if alias == "" {
		return strings.Join(columns, ", ")
	}

	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}
