package author

import "context"

// Repository reads authors from the catalog store.
type Repository interface {
	ListAuthors(context context.Context, filter Filter) ([]Author, error)
	SearchAuthors(context context.Context, tokens []string, limit int) ([]Author, error)
}
