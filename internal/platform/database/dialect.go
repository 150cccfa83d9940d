// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package database

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"modernc.org/sqlite"

	"github.com/taibuivan/biblioteca/pkg/search"
)

// FoldFunction is the SQL function the sqlite dialect uses for case-insensitive
// matching. It applies the same folding as [search.Fold] so search terms and column
// values compare in one normal form.
const FoldFunction = "fold"

func init() {
	sqlite.MustRegisterFunction(FoldFunction, &sqlite.FunctionImpl{
		NArgs:         1,
		Deterministic: true,
		Scalar: func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case nil:
				return nil, nil
			case string:
				return search.Fold(v), nil
			case []byte:
				return search.Fold(string(v)), nil
			default:
				return search.Fold(fmt.Sprint(v)), nil
			}
		},
	})
}

// Dialect isolates the few SQL fragments that differ between engines.
type Dialect interface {
	// Name identifies the engine in logs.
	Name() string
	// Placeholder returns the bind marker for the n-th argument (1-based).
	Placeholder(n int) string
	// Fold wraps a text expression for case-insensitive comparison.
	Fold(expr string) string
	// DigitsOnly returns a predicate that holds when expr is a non-empty run of digits.
	DigitsOnly(expr string) string
}

// SQLite is the dialect of the embedded catalog engine.
var SQLite Dialect = sqliteDialect{}

// Postgres is the dialect of the optional PostgreSQL backend.
var Postgres Dialect = postgresDialect{}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

// Numbered markers keep argument order independent of their position in the text.
func (sqliteDialect) Placeholder(n int) string { return "?" + strconv.Itoa(n) }

func (sqliteDialect) Fold(expr string) string { return FoldFunction + "(" + expr + ")" }

func (sqliteDialect) DigitsOnly(expr string) string {
	return "(" + expr + " <> '' AND " + expr + " NOT GLOB '*[^0-9]*')"
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresDialect) Fold(expr string) string { return "LOWER(" + expr + ")" }

func (postgresDialect) DigitsOnly(expr string) string { return expr + " ~ '^[0-9]+$'" }
