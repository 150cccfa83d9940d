package booklist

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

func (repository *SQLRepository) ListLists(context context.Context, filter Filter) ([]List, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "list_lists")
	}

	builder := database.NewBuilder(db.Dialect()).
		Between(schema.CatalogList.NumVoters, filter.MinVoters, filter.MaxVoters).
		Between(schema.CatalogList.NumBooks, filter.MinBooks, filter.MaxBooks).
		Between(schema.CatalogList.NumLikes, filter.MinLikes, filter.MaxLikes)

	query := fmt.Sprintf(`SELECT %s FROM %s %s %s %s`,
		Columns(""), schema.CatalogList.Table,
		builder.WhereClause(),
		database.OrderBy(filter.SortColumn, filter.Direction, schema.CatalogList.ID),
		builder.Page(filter.Page.Limit, filter.Page.Offset),
	)

	lists, err := database.Collect(context, db, query, builder.Args(), Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "list_lists")
	}
	return lists, nil
}

func (repository *SQLRepository) GetList(context context.Context, id int64) (*List, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "get_list")
	}

	builder := database.NewBuilder(db.Dialect()).Equal(schema.CatalogList.ID, id)
	query := fmt.Sprintf(`SELECT %s FROM %s %s`, Columns(""), schema.CatalogList.Table, builder.WhereClause())

	list, err := database.First(context, db, query, builder.Args(), Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "get_list")
	}
	return list, nil
}
