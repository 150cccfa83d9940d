package author

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

func (repository *SQLRepository) ListAuthors(context context.Context, filter Filter) ([]Author, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "list_authors")
	}

	builder := database.NewBuilder(db.Dialect()).
		Between(schema.CatalogAuthor.RatingsCount, filter.MinRatingCount, filter.MaxRatingCount).
		Between(schema.CatalogAuthor.AverageRating, filter.MinAverageRating, filter.MaxAverageRating)

	query := fmt.Sprintf(`SELECT %s FROM %s %s %s %s`,
		Columns(""), schema.CatalogAuthor.Table,
		builder.WhereClause(),
		database.OrderBy(filter.SortColumn, filter.Direction, schema.CatalogAuthor.ID),
		builder.Page(filter.Page.Limit, filter.Page.Offset),
	)

	authors, err := database.Collect(context, db, query, builder.Args(), Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "list_authors")
	}
	return authors, nil
}

func (repository *SQLRepository) SearchAuthors(context context.Context, tokens []string, limit int) ([]Author, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "search_authors")
	}

	builder := database.NewBuilder(db.Dialect()).ContainsAll(schema.CatalogAuthor.Name, tokens)

	query := fmt.Sprintf(`SELECT %s FROM %s %s %s %s`,
		Columns(""), schema.CatalogAuthor.Table,
		builder.WhereClause(),
		database.OrderBy(schema.CatalogAuthor.RatingsCount, database.Desc, schema.CatalogAuthor.ID),
		builder.Page(limit, 0),
	)

	authors, err := database.Collect(context, db, query, builder.Args(), Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "search_authors")
	}
	return authors, nil
}
