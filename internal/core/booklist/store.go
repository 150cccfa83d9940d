package booklist

import "context"

// Repository reads lists from the catalog store.
type Repository interface {
	ListLists(context context.Context, filter Filter) ([]List, error)
	// GetList returns (nil, nil) when no list has the id.
	GetList(context context.Context, id int64) (*List, error)
}
