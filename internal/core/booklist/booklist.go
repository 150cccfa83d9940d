package booklist

import (
	"database/sql"
	"net/url"

	"github.com/taibuivan/biblioteca/internal/platform/cache"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/schema"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
	"github.com/taibuivan/biblioteca/pkg/pagination"
	"github.com/taibuivan/biblioteca/pkg/wire"
)

// List is a reader-curated book list with its embedded documents already coerced.
type List struct {
	ID              wire.Int64 `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DescriptionHTML string     `json:"description_html"`
	NumPages        wire.Int64 `json:"num_pages"`
	NumBooks        wire.Int64 `json:"num_books"`
	NumVoters       wire.Int64 `json:"num_voters"`
	NumLikes        wire.Int64 `json:"num_likes"`
	NumComments     wire.Int64 `json:"num_comments"`
	CreatedDate     string     `json:"created_date"`
	Tags            []string   `json:"tags"`
	CreatedBy       Creator    `json:"created_by"`
	Books           []ListBook `json:"books"`
}

// Creator identifies the reader who created a list.
type Creator struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ListBook is one ranked entry of a list.
type ListBook struct {
	Title    string      `json:"title"`
	Author   string      `json:"author"`
	Rank     wire.Int64  `json:"rank"`
	Score    wire.Int64  `json:"score"`
	NumVotes wire.Int64  `json:"num_votes"`
	BookID   *wire.Int64 `json:"book_id,omitempty"`
	WorkID   *wire.Int64 `json:"work_id,omitempty"`
}

// Columns returns the list select list, qualified with alias when non-empty.
func Columns(alias string) string {
	return database.Qualify(alias, schema.CatalogList.Columns())
}

// row carries the raw embedded documents until they are coerced.
type row struct {
	list      List
	tags      sql.NullString
	createdBy sql.NullString
	books     sql.NullString
}

// ScanFields returns the scan destinations matching [Columns] order.
func (r *row) ScanFields() []any {
	l := &r.list
	return []any{
		&l.ID, &l.Title, &l.Description, &l.DescriptionHTML, &l.NumPages, &l.NumBooks,
		&l.NumVoters, &l.NumLikes, &l.NumComments, &l.CreatedDate,
		&r.tags, &r.createdBy, &r.books,
	}
}

// Scan maps one list row and coerces its embedded documents.
func Scan(scanner database.Scanner) (List, error) {
	var r row
	if err := scanner.Scan(r.ScanFields()...); err != nil {
		return List{}, err
	}

	l := r.list
	l.Tags = decodeTags(r.tags.String)
	l.CreatedBy = decodeCreator(r.createdBy.String)
	l.Books = decodeBooks(r.books.String)
	return l, nil
}

// Query parameter names
const (
	ParamMinVoters = "minVoters"
	ParamMaxVoters = "maxVoters"
	ParamMinBooks  = "minBooks"
	ParamMaxBooks  = "maxBooks"
	ParamMinLikes  = "minLikes"
	ParamMaxLikes  = "maxLikes"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
	ParamID        = "id"
)

// Listing defaults
const (
	DefaultMinVoters int64 = 0
	DefaultMaxVoters int64 = 100000
	DefaultMinBooks  int64 = 0
	DefaultMaxBooks  int64 = 10000
	DefaultMinLikes  int64 = 0
	DefaultMaxLikes  int64 = 10000
	DefaultSortBy          = "title"
	DefaultSortOrder       = "asc"
)

// SortColumns is the allow-list of list sort keys.
var SortColumns = database.SortColumns{
	"title":      schema.CatalogList.Title,
	"num_voters": schema.CatalogList.NumVoters,
	"num_books":  schema.CatalogList.NumBooks,
	"num_likes":  schema.CatalogList.NumLikes,
}

// Filter is a normalized list listing request.
type Filter struct {
	MinVoters  int64
	MaxVoters  int64
	MinBooks   int64
	MaxBooks   int64
	MinLikes   int64
	MaxLikes   int64
	SortColumn string
	Direction  database.Direction
	Page       pagination.Params
}

// ParseFilter validates raw query parameters into a [Filter].
func ParseFilter(values url.Values) (Filter, error) {
	query := validate.NewQuery(values)

	filter := Filter{
		MinVoters: query.Int64(ParamMinVoters, DefaultMinVoters),
		MaxVoters: query.Int64(ParamMaxVoters, DefaultMaxVoters),
		MinBooks:  query.Int64(ParamMinBooks, DefaultMinBooks),
		MaxBooks:  query.Int64(ParamMaxBooks, DefaultMaxBooks),
		MinLikes:  query.Int64(ParamMinLikes, DefaultMinLikes),
		MaxLikes:  query.Int64(ParamMaxLikes, DefaultMaxLikes),
		Page:      pagination.Page(query.Offset()),
	}
	sortBy := query.Enum(ParamSortBy, DefaultSortBy, SortColumns.Names()...)
	sortOrder := query.Enum(ParamSortOrder, DefaultSortOrder, database.Directions...)

	query.Ordered(ParamMinVoters, filter.MinVoters <= filter.MaxVoters)
	query.Ordered(ParamMinBooks, filter.MinBooks <= filter.MaxBooks)
	query.Ordered(ParamMinLikes, filter.MinLikes <= filter.MaxLikes)

	if err := query.Err(); err != nil {
		return Filter{}, err
	}

	filter.SortColumn, _ = SortColumns.Resolve(sortBy)
	filter.Direction, _ = database.ParseDirection(sortOrder)
	return filter, nil
}

// CacheKey identifies the page selected by the filter.
func (f Filter) CacheKey() string {
	return cache.Key("lists", "list",
		f.MinVoters, f.MaxVoters, f.MinBooks, f.MaxBooks, f.MinLikes, f.MaxLikes,
		f.SortColumn, f.Direction, f.Page.Offset, f.Page.Limit)
}

func detailKey(id int64) string {
	return cache.Key("lists", "detail", id)
}
