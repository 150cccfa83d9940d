package favorite

import "context"

// Repository is the favorites store. Catalog joins read through the same handle.
type Repository interface {
	Exists(context context.Context, key Key) (bool, error)
	// Insert reports false when the key already exists.
	Insert(context context.Context, favorite Favorite) (bool, error)
	// UpdateRating returns the number of rows the update matched.
	UpdateRating(context context.Context, key Key, rating *float64, updatedAt string) (int64, error)
	// Delete returns the number of rows removed.
	Delete(context context.Context, key Key) (int64, error)
	Count(context context.Context, key Key) (int64, error)
	Get(context context.Context, key Key) (*Favorite, error)
	ListAll(context context.Context) ([]Favorite, error)

	ListAuthors(context context.Context) ([]Author, error)
	ListBooks(context context.Context) ([]Book, error)
	ListLists(context context.Context) ([]List, error)
	ListSeries(context context.Context) ([]Series, error)
}
