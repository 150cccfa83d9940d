// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalogload imports newline-delimited JSON dumps into the catalog tables.

The API treats the catalog as read-only; this package is the only writer. One dump file
holds one entity per line. Each import runs in a single transaction, so the API sees
either the previous catalog or the new one, never a half-loaded table.

Rules:

  - Numeric fields are accepted as JSON numbers, quoted numbers or "" (zero).
  - Embedded JSON (list tags, creator and books, series works) is stored verbatim.
  - Malformed lines and lines without an id are skipped and counted, not fatal.
  - Books outside [Options.Languages] are skipped and counted as filtered.
  - A repeated id keeps the first occurrence.
*/
package catalogload

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/biblioteca/internal/platform/constants"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/schema"
)

// Entity names one catalog table the loader can fill.
type Entity string

const (
	Authors Entity = "authors"
	Books   Entity = "books"
	Lists   Entity = "lists"
	Series  Entity = "series"
)

// Entities lists every loadable entity.
var Entities = []Entity{Authors, Books, Lists, Series}

// ParseEntity accepts an entity name, singular or plural, in any case.
func ParseEntity(name string) (Entity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "authors", "author":
		return Authors, nil
	case "books", "book":
		return Books, nil
	case "lists", "list":
		return Lists, nil
	case "series":
		return Series, nil
	}
	return "", fmt.Errorf("catalogload: unknown entity %q", name)
}

// target binds an entity to its table and line decoder.
type target struct {
	table   string
	key     string
	columns []string
	decode  func([]byte) (record, error)
}

func decodeInto[R record](line []byte) (record, error) {
	var r R
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, err
	}
	return r, nil
}

var targets = map[Entity]target{
	Authors: {schema.CatalogAuthor.Table, schema.CatalogAuthor.ID, schema.CatalogAuthor.Columns(), decodeInto[authorRecord]},
	Books:   {schema.CatalogBook.Table, schema.CatalogBook.BookID, schema.CatalogBook.Columns(), decodeInto[bookRecord]},
	Lists:   {schema.CatalogList.Table, schema.CatalogList.ID, schema.CatalogList.Columns(), decodeInto[listRecord]},
	Series:  {schema.CatalogSeries.Table, schema.CatalogSeries.ID, schema.CatalogSeries.Columns(), decodeInto[seriesRecord]},
}

// # Options

// Options tunes an import.
type Options struct {
	// Languages are the book language tags kept. Empty keeps every language.
	Languages []string
	// Append keeps the rows already in the table instead of replacing them.
	Append bool
	// ProgressEvery logs a progress line every N lines read. Zero disables it.
	ProgressEvery int
}

// DefaultOptions keeps the catalog's Spanish editions and replaces the table.
func DefaultOptions() Options {
	return Options{
		Languages:     slices.Clone(constants.CatalogLanguages),
		ProgressEvery: 100000,
	}
}

// Stats counts what happened to each line of a dump.
type Stats struct {
	Entity     Entity `json:"entity"`
	Read       int    `json:"read"`
	Kept       int    `json:"kept"`
	Filtered   int    `json:"filtered"`
	Malformed  int    `json:"malformed"`
	Duplicates int    `json:"duplicates"`
}

// # Loader

// maxLine bounds one dump line. List descriptions carry full HTML.
const maxLine = 64 << 20

// Loader writes dumps into one catalog store.
type Loader struct {
	db      *database.DB
	logger  *slog.Logger
	options Options
}

// New returns a loader for db.
func New(db *database.DB, logger *slog.Logger, options Options) *Loader {
	return &Loader{db: db, logger: logger, options: options}
}

// Load imports every line of source into entity's table.
func (l *Loader) Load(ctx context.Context, entity Entity, source io.Reader) (Stats, error) {
	stats := Stats{Entity: entity}

	t, ok := targets[entity]
	if !ok {
		return stats, fmt.Errorf("catalogload: unknown entity %q", entity)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("catalogload: begin %s: %w", t.table, err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback() }()

	if !l.options.Append {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.table); err != nil {
			return stats, fmt.Errorf("catalogload: clear %s: %w", t.table, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(l.db.Dialect(), t))
	if err != nil {
		return stats, fmt.Errorf("catalogload: prepare %s: %w", t.table, err)
	}
	defer func() { _ = stmt.Close() }()

	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLine)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		stats.Read++

		if l.options.ProgressEvery > 0 && stats.Read%l.options.ProgressEvery == 0 {
			l.logger.InfoContext(ctx, "catalog_load_progress",
				slog.String("entity", string(entity)),
				slog.Int("read", stats.Read),
				slog.Int("kept", stats.Kept),
			)
		}

		rec, err := t.decode(line)
		if err != nil || rec.key() == 0 {
			stats.Malformed++
			l.logger.DebugContext(ctx, "catalog_line_skipped",
				slog.String("entity", string(entity)),
				slog.Int("line", stats.Read),
				slog.Any("error", err),
			)
			continue
		}

		if !l.keep(rec) {
			stats.Filtered++
			continue
		}

		result, err := stmt.ExecContext(ctx, rec.values()...)
		if err != nil {
			return stats, fmt.Errorf("catalogload: insert %s line %d: %w", t.table, stats.Read, err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			stats.Duplicates++
			continue
		}
		stats.Kept++
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("catalogload: read %s: %w", entity, err)
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("catalogload: commit %s: %w", t.table, err)
	}

	l.logger.InfoContext(ctx, "catalog_loaded",
		slog.String("entity", string(entity)),
		slog.Int("read", stats.Read),
		slog.Int("kept", stats.Kept),
		slog.Int("filtered", stats.Filtered),
		slog.Int("malformed", stats.Malformed),
		slog.Int("duplicates", stats.Duplicates),
	)
	return stats, nil
}

// keep applies the book language scope. Other entities are always kept.
func (l *Loader) keep(rec record) bool {
	book, ok := rec.(bookRecord)
	if !ok || len(l.options.Languages) == 0 {
		return true
	}
	return slices.Contains(l.options.Languages, book.Language)
}

// insertStatement renders an insert that ignores a repeated primary key.
func insertStatement(dialect database.Dialect, t target) string {
	markers := make([]string, len(t.columns))
	for i := range t.columns {
		markers[i] = dialect.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		t.table, strings.Join(t.columns, ", "), strings.Join(markers, ", "), t.key)
}
