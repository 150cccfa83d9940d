package series

import "context"

// Repository reads series from the catalog store.
type Repository interface {
	SearchSeries(context context.Context, term string, limit int) ([]Series, error)
}
