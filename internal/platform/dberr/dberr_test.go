// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/platform/apperr"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/dbtest"
	"github.com/taibuivan/biblioteca/internal/platform/dberr"
)

func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", sql.ErrNoRows, apperr.CodeNotFound},
		{"not_initialized", database.ErrNotInitialized, apperr.CodeStoreUnavailable},
		{"conn_done", fmt.Errorf("query: %w", sql.ErrConnDone), apperr.CodeStoreUnavailable},
		{"bad_conn", driver.ErrBadConn, apperr.CodeStoreUnavailable},
		{"pg_unique", &pgconn.PgError{Code: "23505"}, apperr.CodeQueryFailed},
		{"anything_else", errors.New("near \"FROM\": syntax error"), apperr.CodeQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.HasCode(dberr.Wrap(tt.err, "list_authors"), tt.code))
		})
	}
}

func TestWrap_PassThrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	notFound := apperr.NotFound("List")
	assert.Same(t, notFound, dberr.Wrap(notFound, "get_list"))
}

/*
TestIsUniqueViolation_SQLite inserts the same favorite key twice against a real engine.
*/
func TestIsUniqueViolation_SQLite(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	insert := `INSERT INTO favorites (entity_type, entity_id, created_at, updated_at) VALUES ('book', '100', 'now', 'now')`
	_, err := db.ExecContext(ctx, insert)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert)
	require.Error(t, err)
	assert.True(t, dberr.IsUniqueViolation(err))
	assert.False(t, dberr.IsUnavailable(err))

	_, err = db.ExecContext(ctx, "SELECT nope FROM nowhere")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(dberr.Wrap(err, "broken"), apperr.CodeQueryFailed))
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	assert.True(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain")))
}
