package book

import (
	"fmt"
	"strings"

	"github.com/taibuivan/biblioteca/internal/platform/constants"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/schema"
	"github.com/taibuivan/biblioteca/pkg/slice"
)

/*
Work deduplication.

A work is published as several editions that share a work_id. Every book read path
keeps exactly one edition per work: editions are numbered inside their work partition
and only row 1 survives. Filters apply to editions before numbering, so the surviving
edition is the first one that matches the request.
*/

// Tiebreak orders editions inside a work partition.
type Tiebreak string

const (
	// CatalogOrder keeps the edition with the lowest book id.
	CatalogOrder Tiebreak = "b.book_id ASC"
	// HighestRated keeps the best-rated edition, then the lowest book id.
	HighestRated Tiebreak = "b.average_rating DESC, b.book_id ASC"
)

// Alias is the table alias every condition of a ranked query uses for books.
const Alias = "b"

// pagesColumn is the numeric page count carried through the ranking CTE.
const pagesColumn = "pages_num"

// RankedTable is the name of the deduplicated relation.
const RankedTable = "ranked"

// Ranked describes one deduplicated book query.
type Ranked struct {
	Tiebreak Tiebreak
	// Join is an optional join clause against alias b.
	Join string
	// Extra lists additional select expressions carried through the CTE.
	Extra []string
}

// Pages returns the numeric page count expression, NULL when num_pages is not a plain
// run of digits. Comparisons against NULL are false, so non-numeric rows never match a
// page range.
func Pages(dialect database.Dialect) string {
	column := Alias + "." + schema.CatalogBook.NumPages
	return fmt.Sprintf("CASE WHEN %s THEN CAST(%s AS BIGINT) END", dialect.DigitsOnly(column), column)
}

// ScopeLanguages restricts builder to the catalog languages.
func ScopeLanguages(builder *database.Builder) *database.Builder {
	languages := slice.Map(constants.CatalogLanguages, func(language string) any { return language })
	return builder.In(Alias+"."+schema.CatalogBook.Language, languages...)
}

// CTE renders the ranking common table expression over the builder's conditions.
// The caller selects from [RankedTable] and must filter on row_num = 1 via [Canonical].
func (r Ranked) CTE(builder *database.Builder) string {
	tiebreak := r.Tiebreak
	if tiebreak == "" {
		tiebreak = CatalogOrder
	}

	selects := []string{Columns(Alias), Pages(builder.Dialect()) + " AS " + pagesColumn}
	selects = append(selects, r.Extra...)

	var sb strings.Builder
	fmt.Fprintf(&sb, "WITH %s AS (SELECT %s, ROW_NUMBER() OVER (PARTITION BY %s.%s ORDER BY %s) AS row_num FROM %s %s",
		RankedTable, strings.Join(selects, ", "), Alias, schema.CatalogBook.WorkID, tiebreak,
		schema.CatalogBook.Table, Alias)
	if r.Join != "" {
		sb.WriteString(" " + r.Join)
	}
	if where := builder.WhereClause(); where != "" {
		sb.WriteString(" " + where)
	}
	sb.WriteString(")")
	return sb.String()
}

// Canonical is the outer condition keeping one edition per work.
const Canonical = "row_num = 1"
