package book

import (
	"context"
	"fmt"

	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/schema"
	"github.com/taibuivan/biblioteca/internal/platform/dberr"
)

type SQLRepository struct {
	handle database.Handle
}

func NewSQLRepository(handle database.Handle) *SQLRepository {
	return &SQLRepository{handle: handle}
}

func (repository *SQLRepository) ListBooks(context context.Context, filter Filter) ([]Book, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "list_books")
	}

	builder := ScopeLanguages(database.NewBuilder(db.Dialect())).
		Between(Alias+"."+schema.CatalogBook.AverageRating, filter.MinAverageRating, filter.MaxAverageRating).
		Between(Alias+"."+schema.CatalogBook.RatingsCount, filter.MinRatingCount, filter.MaxRatingCount).
		Between(Pages(db.Dialect()), filter.MinPages, filter.MaxPages)

	query := fmt.Sprintf(`%s SELECT %s FROM %s WHERE %s %s %s`,
		Ranked{Tiebreak: CatalogOrder}.CTE(builder),
		Columns(""), RankedTable, Canonical,
		database.OrderBy(filter.SortColumn, filter.Direction, schema.CatalogBook.WorkID),
		builder.Page(filter.Page.Limit, filter.Page.Offset),
	)

	books, err := database.Collect(context, db, query, builder.Args(), Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "list_books")
	}
	return books, nil
}

// SearchBooks matches every token against the title and keeps the best-rated edition
// of each work, most-rated works first.
func (repository *SQLRepository) SearchBooks(context context.Context, tokens []string, limit int) ([]Book, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "search_books")
	}

	builder := ScopeLanguages(database.NewBuilder(db.Dialect())).
		ContainsAll(Alias+"."+schema.CatalogBook.Title, tokens)

	query := fmt.Sprintf(`%s SELECT %s FROM %s WHERE %s %s %s`,
		Ranked{Tiebreak: HighestRated}.CTE(builder),
		Columns(""), RankedTable, Canonical,
		database.OrderBy(schema.CatalogBook.RatingsCount, database.Desc, schema.CatalogBook.WorkID),
		builder.Page(limit, 0),
	)

	books, err := database.Collect(context, db, query, builder.Args(), Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "search_books")
	}
	return books, nil
}
