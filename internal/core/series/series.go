package series

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/taibuivan/biblioteca/internal/platform/cache"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/schema"
	"github.com/taibuivan/biblioteca/pkg/search"
	"github.com/taibuivan/biblioteca/pkg/wire"
)

// Series groups the works of a saga.
type Series struct {
	ID               wire.Int64 `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	SeriesWorksCount wire.Int64 `json:"series_works_count"`
	Works            []Work     `json:"works"`
}

// Work is one entry of a series. UserPosition is free text ("1", "2.5", "0-3").
type Work struct {
	Title         string     `json:"title"`
	WorkID        wire.Int64 `json:"work_id"`
	BookID        wire.Int64 `json:"book_id"`
	UserPosition  string     `json:"user_position"`
	EditionsCount wire.Int64 `json:"editions_count"`
}

// ParamSearch is the query parameter holding the title fragment.
const ParamSearch = "search"

// Columns returns the series select list, qualified with alias when non-empty.
func Columns(alias string) string {
	return database.Qualify(alias, schema.CatalogSeries.Columns())
}

// Scan maps one series row. Works that do not decode as a JSON array become [].
func Scan(row database.Scanner) (Series, error) {
	var (
		s     Series
		works sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.SeriesWorksCount, &works); err != nil {
		return Series{}, err
	}

	if err := json.Unmarshal([]byte(works.String), &s.Works); err != nil || s.Works == nil {
		s.Works = []Work{}
	}
	return s, nil
}

func searchKey(term string) string {
	return cache.Key("series", "search", search.Fold(strings.TrimSpace(term)))
}
