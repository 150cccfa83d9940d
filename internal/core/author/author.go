package author

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

// Author is a catalog author. Counters leave the API as strings.
type Author struct {
	ID            wire.Int64 `json:"id"`
	Name          string     `json:"name"`
	ImageURL      string     `json:"image_url"`
	FansCount     wire.Int64 `json:"fans_count"`
	AverageRating float64    `json:"average_rating"`
	RatingsCount  wire.Int64 `json:"ratings_count"`
}

// ScanFields returns the scan destinations matching [Columns] order.
func (a *Author) ScanFields() []any {
	return []any{&a.ID, &a.Name, &a.ImageURL, &a.FansCount, &a.AverageRating, &a.RatingsCount}
}

// Columns returns the author select list, qualified with alias when non-empty.
func Columns(alias string) string {
	return database.Qualify(alias, schema.CatalogAuthor.Columns())
}

// Scan maps one author row.
func Scan(row database.Scanner) (Author, error) {
	var a Author
	err := row.Scan(a.ScanFields()...)
	return a, err
}

// Query parameter names
const (
	ParamMinRatingCount   = "minRatingCount"
	ParamMaxRatingCount   = "maxRatingCount"
	ParamMinAverageRating = "minAverageRating"
	ParamMaxAverageRating = "maxAverageRating"
	ParamSortBy           = "sortBy"
	ParamSortOrder        = "sortOrder"
	ParamTerm             = "term"
)

// Listing defaults
const (
	DefaultMinRatingCount   int64   = 0
	DefaultMaxRatingCount   int64   = 10000
	DefaultMinAverageRating float64 = 0
	DefaultMaxAverageRating float64 = 10
	DefaultSortBy                   = "name"
	DefaultSortOrder                = "asc"
)

// SortColumns is the allow-list of author sort keys.
var SortColumns = database.SortColumns{
	"name":           schema.CatalogAuthor.Name,
	"fans_count":     schema.CatalogAuthor.FansCount,
	"ratings_count":  schema.CatalogAuthor.RatingsCount,
	"average_rating": schema.CatalogAuthor.AverageRating,
}

// Filter is a normalized author listing request.
type Filter struct {
	MinRatingCount   int64
	MaxRatingCount   int64
	MinAverageRating float64
	MaxAverageRating float64
	SortColumn       string
	Direction        database.Direction
	Page             pagination.Params
}

// ParseFilter validates raw query parameters into a [Filter].
func ParseFilter(values url.Values) (Filter, error) {
	query := validate.NewQuery(values)

	filter := Filter{
		MinRatingCount:   query.Int64(ParamMinRatingCount, DefaultMinRatingCount),
		MaxRatingCount:   query.Int64(ParamMaxRatingCount, DefaultMaxRatingCount),
		MinAverageRating: query.Float64(ParamMinAverageRating, DefaultMinAverageRating),
		MaxAverageRating: query.Float64(ParamMaxAverageRating, DefaultMaxAverageRating),
		Page:             pagination.Page(query.Offset()),
	}
	sortBy := query.Enum(ParamSortBy, DefaultSortBy, SortColumns.Names()...)
	sortOrder := query.Enum(ParamSortOrder, DefaultSortOrder, database.Directions...)

	query.Ordered(ParamMinRatingCount, filter.MinRatingCount <= filter.MaxRatingCount)
	query.Ordered(ParamMinAverageRating, filter.MinAverageRating <= filter.MaxAverageRating)

	if err := query.Err(); err != nil {
		return Filter{}, err
	}

	filter.SortColumn, _ = SortColumns.Resolve(sortBy)
	filter.Direction, _ = database.ParseDirection(sortOrder)
	return filter, nil
}

// CacheKey identifies the page selected by the filter.
func (f Filter) CacheKey() string {
	return cache.Key("authors", "list",
		f.MinRatingCount, f.MaxRatingCount, f.MinAverageRating, f.MaxAverageRating,
		f.SortColumn, f.Direction, f.Page.Offset, f.Page.Limit)
}

// searchKey identifies a name search by its folded tokens.
func searchKey(tokens []string) string {
	return cache.Key("authors", "search", strings.Join(tokens, " "))
}
