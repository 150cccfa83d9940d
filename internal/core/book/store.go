package book

import "context"

// Repository reads deduplicated books from the catalog store.
type Repository interface {
	ListBooks(context context.Context, filter Filter) ([]Book, error)
	SearchBooks(context context.Context, tokens []string, limit int) ([]Book, error)
}
