package favorite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/taibuivan/biblioteca/internal/core/author"
	"github.com/taibuivan/biblioteca/internal/core/book"
	"github.com/taibuivan/biblioteca/internal/core/booklist"
	"github.com/taibuivan/biblioteca/internal/core/series"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/pkg/wire"
)

// # Kinds

// Kind is the catalog entity type a favorite points at.
type Kind string

const (
	KindAuthor Kind = "author"
	KindBook   Kind = "book"
	KindList   Kind = "list"
	KindSeries Kind = "series"
)

// Kinds lists every favorite kind in storage order.
var Kinds = []Kind{KindAuthor, KindBook, KindList, KindSeries}

var plurals = map[string]Kind{
	"authors": KindAuthor,
	"books":   KindBook,
	"lists":   KindList,
	"series":  KindSeries,
}

// ParseKind accepts a kind in singular or plural form.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if kind, ok := plurals[s]; ok {
		return kind, true
	}
	for _, kind := range Kinds {
		if string(kind) == s {
			return kind, true
		}
	}
	return "", false
}

// KindNames returns the accepted spellings of a kind, for validation messages.
func KindNames() []string {
	return []string{"author", "authors", "book", "books", "list", "lists", "series"}
}

// # Identity

// EntityID is the identifier of the favorited entity in its canonical text form.
//
// It decodes from a JSON string or number. Integral values are rewritten in plain
// decimal so "0042", 42 and 42.0 address the same favorite.
type EntityID string

// CanonicalID trims raw and normalizes integral values.
func CanonicalID(raw string) EntityID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if value, err := wire.ParseInt64(raw); err == nil {
		return EntityID(strconv.FormatInt(value, 10))
	}
	return EntityID(raw)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (id *EntityID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*id = CanonicalID(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*id = CanonicalID(number.String())
	return nil
}

// IsNumeric reports whether the id is an integer.
func (id EntityID) IsNumeric() bool {
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

// Key addresses one favorite.
type Key struct {
	Kind Kind
	ID   EntityID
}

// # Records

// Favorite is one saved entity. A nil Rating means saved but unrated.
type Favorite struct {
	Type      Kind     `json:"type"`
	ID        EntityID `json:"favorite_id"`
	Rating    *float64 `json:"rating"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// Key returns the favorite's address.
func (f Favorite) Key() Key {
	return Key{Kind: f.Type, ID: f.ID}
}

func scanFavorite(row database.Scanner) (Favorite, error) {
	var (
		f      Favorite
		rating sql.NullFloat64
	)
	err := row.Scan(&f.Type, &f.ID, &rating, &f.CreatedAt, &f.UpdatedAt)
	f.Rating = ratingOf(rating)
	return f, err
}

// Joined views carry the catalog row plus the favorite rating.

type Author struct {
	author.Author
	Rating *float64 `json:"rating"`
}

type Book struct {
	book.Book
	Rating *float64 `json:"rating"`
}

type List struct {
	booklist.List
	Rating *float64 `json:"rating"`
}

type Series struct {
	series.Series
	Rating *float64 `json:"rating"`
}

// # Requests

// SaveInput is the body of a save request.
type SaveInput struct {
	Type       string   `json:"type"`
	FavoriteID EntityID `json:"favorite_id"`
	Rating     *float64 `json:"rating"`
}

// UpdateInput is the body of a rating update. A null rating clears it.
type UpdateInput struct {
	Type       string   `json:"type"`
	FavoriteID EntityID `json:"favorite_id"`
	Rating     *float64 `json:"rating"`
}

// SaveResult reports the outcome of a save. A duplicate save writes nothing.
type SaveResult struct {
	Saved     bool      `json:"saved"`
	Duplicate bool      `json:"duplicate"`
	Message   string    `json:"message"`
	Favorite  *Favorite `json:"favorite,omitempty"`
}

// UpdateResult reports a rating update.
type UpdateResult struct {
	Updated  int64    `json:"updated"`
	Message  string   `json:"message"`
	Favorite Favorite `json:"favorite"`
}

// DeleteResult reports a verified delete.
type DeleteResult struct {
	Removed int64  `json:"removed"`
	Message string `json:"message"`
}

// Field names used in validation details.
const (
	FieldType       = "type"
	FieldFavoriteID = "favorite_id"
	FieldRating     = "rating"
)

// DeleteIDParam returns the query parameter carrying the id for a delete of rawType.
func DeleteIDParam(rawType string) string {
	return "id_" + strings.TrimSpace(rawType)
}
