package book

import (
	"net/url"
	"strings"

	"github.com/taibuivan/biblioteca/internal/platform/cache"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/schema"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
	"github.com/taibuivan/biblioteca/pkg/pagination"
	"github.com/taibuivan/biblioteca/pkg/wire"
)

// Book is the canonical edition of a work.
//
// NumPages is kept as stored: catalog dumps carry free text in that column.
type Book struct {
	BookID        wire.Int64 `json:"book_id"`
	WorkID        wire.Int64 `json:"work_id"`
	Title         string     `json:"title"`
	AuthorName    string     `json:"author_name"`
	AverageRating float64    `json:"average_rating"`
	NumPages      string     `json:"num_pages"`
	ImageURL      string     `json:"image_url"`
	RatingsCount  wire.Int64 `json:"ratings_count"`
	Language      string     `json:"language"`
}

// ScanFields returns the scan destinations matching [Columns] order.
func (b *Book) ScanFields() []any {
	return []any{
		&b.BookID, &b.WorkID, &b.Title, &b.AuthorName, &b.AverageRating,
		&b.NumPages, &b.ImageURL, &b.RatingsCount, &b.Language,
	}
}

// Columns returns the book select list, qualified with alias when non-empty.
func Columns(alias string) string {
	return database.Qualify(alias, schema.CatalogBook.Columns())
}

// Scan maps one book row.
func Scan(row database.Scanner) (Book, error) {
	var b Book
	err := row.Scan(b.ScanFields()...)
	return b, err
}

// Query parameter names
const (
	ParamMinAverageRating = "minAverageRating"
	ParamMaxAverageRating = "maxAverageRating"
	ParamMinRatingCount   = "minRatingCount"
	ParamMaxRatingCount   = "maxRatingCount"
	ParamMinPages         = "minPages"
	ParamMaxPages         = "maxPages"
	ParamSortBy           = "sortBy"
	ParamOrder            = "order"
	ParamTerm             = "term"
)

// Listing defaults
const (
	DefaultMinAverageRating float64 = 0
	DefaultMaxAverageRating float64 = 5
	DefaultMinRatingCount   int64   = 0
	DefaultMaxRatingCount   int64   = 27003752
	DefaultMinPages         int64   = 0
	DefaultMaxPages         int64   = 1000
	DefaultSortBy                   = "averageRating"
	DefaultOrder                    = "desc"
)

// SortColumns maps API sort names to columns of the ranked result.
var SortColumns = database.SortColumns{
	"averageRating": schema.CatalogBook.AverageRating,
	"ratingsCount":  schema.CatalogBook.RatingsCount,
	"numPages":      pagesColumn,
}

// Filter is a normalized book listing request.
type Filter struct {
	MinAverageRating float64
	MaxAverageRating float64
	MinRatingCount   int64
	MaxRatingCount   int64
	MinPages         int64
	MaxPages         int64
	SortColumn       string
	Direction        database.Direction
	Page             pagination.Params
}

// ParseFilter validates raw query parameters into a [Filter].
func ParseFilter(values url.Values) (Filter, error) {
	query := validate.NewQuery(values)

	filter := Filter{
		MinAverageRating: query.Float64(ParamMinAverageRating, DefaultMinAverageRating),
		MaxAverageRating: query.Float64(ParamMaxAverageRating, DefaultMaxAverageRating),
		MinRatingCount:   query.Int64(ParamMinRatingCount, DefaultMinRatingCount),
		MaxRatingCount:   query.Int64(ParamMaxRatingCount, DefaultMaxRatingCount),
		MinPages:         query.Int64(ParamMinPages, DefaultMinPages),
		MaxPages:         query.Int64(ParamMaxPages, DefaultMaxPages),
		Page:             pagination.Page(query.Offset()),
	}
	sortBy := query.Enum(ParamSortBy, DefaultSortBy, SortColumns.Names()...)
	order := query.Enum(ParamOrder, DefaultOrder, database.Directions...)

	query.Ordered(ParamMinAverageRating, filter.MinAverageRating <= filter.MaxAverageRating)
	query.Ordered(ParamMinRatingCount, filter.MinRatingCount <= filter.MaxRatingCount)
	query.Ordered(ParamMinPages, filter.MinPages <= filter.MaxPages)

	if err := query.Err(); err != nil {
		return Filter{}, err
	}

	filter.SortColumn, _ = SortColumns.Resolve(sortBy)
	filter.Direction, _ = database.ParseDirection(order)
	return filter, nil
}

// CacheKey identifies the page selected by the filter.
func (f Filter) CacheKey() string {
	return cache.Key("books", "list",
		f.MinAverageRating, f.MaxAverageRating, f.MinRatingCount, f.MaxRatingCount,
		f.MinPages, f.MaxPages, f.SortColumn, f.Direction, f.Page.Offset, f.Page.Limit)
}

func searchKey(tokens []string) string {
	return cache.Key("books", "search", strings.Join(tokens, " "))
}
