package series

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

// SearchSeries matches term as one fragment of the title, ignoring case and accents.
func (repository *SQLRepository) SearchSeries(context context.Context, term string, limit int) ([]Series, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "search_series")
	}

	builder := database.NewBuilder(db.Dialect()).ContainsTerm(schema.CatalogSeries.Title, term)

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s ASC %s`,
		Columns(""), schema.CatalogSeries.Table,
		builder.WhereClause(),
		schema.CatalogSeries.ID,
		builder.Page(limit, 0),
	)

	series, err := database.Collect(context, db, query, builder.Args(), Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "search_series")
	}
	return series, nil
}
