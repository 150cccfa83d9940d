// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package database

import (
	"context"
	"database/sql"
	"errors"
)

// Scanner is the subset of [*sql.Row] and [*sql.Rows] used by row mappers.
type Scanner interface {
	Scan(dest ...any) error
}

// Collect runs query and maps every row with scan.
//
// The result is never nil, so an empty page encodes as [] on the wire.
func Collect[T any](ctx context.Context, db *DB, query string, args []any, scan func(Scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// First runs query and maps its first row. It returns (nil, nil) when no row matches.
func First[T any](ctx context.Context, db *DB, query string, args []any, scan func(Scanner) (T, error)) (*T, error) {
	item, err := scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
