// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/taibuivan/biblioteca/pkg/convert"
	"github.com/taibuivan/biblioteca/pkg/wire"
)

// # Loose scalars
//
// Catalog dumps are loosely typed: the same field is a number on one line, a quoted
// number on the next and "" when unknown.

var nullLiteral = []byte("null")

// blank reports whether data is null, "" or a quoted run of whitespace.
func blank(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return true
	}
	return len(data) >= 2 && data[0] == '"' && len(bytes.TrimSpace(data[1:len(data)-1])) == 0
}

// counter is a 64-bit integer column. Blank values load as zero.
type counter int64

func (c *counter) UnmarshalJSON(data []byte) error {
	if blank(data) {
		*c = 0
		return nil
	}

	var n wire.Int64
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = counter(n)
	return nil
}

// decimal is a rating column. Blank values load as zero; NaN and Inf are rejected.
type decimal float64

func (d *decimal) UnmarshalJSON(data []byte) error {
	if blank(data) {
		*d = 0
		return nil
	}

	raw := string(bytes.TrimSpace(data))
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("catalogload: invalid number %s: %w", raw, err)
		}
		raw = unquoted
	}

	value, err := convert.Float64D(raw, 0)
	if err != nil {
		return fmt.Errorf("catalogload: %q: %w", raw, err)
	}
	*d = decimal(value)
	return nil
}

// text is a text column that some dumps emit as a number (num_pages, user_position).
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, nullLiteral):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		*t = text(data)
	}
	return nil
}

// document is an embedded JSON column stored verbatim as text. Absent or null loads
// as SQL NULL; the API decodes it leniently on the way out.
type document json.RawMessage

func (d *document) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

func (d document) value() any {
	trimmed := bytes.TrimSpace(d)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return nil
	}
	return string(trimmed)
}

// # Records
//
// Each record lists its values in the order of the matching schema Columns().

type record interface {
	key() int64
	values() []any
}

type authorRecord struct {
	ID            counter `json:"id"`
	AuthorID      counter `json:"author_id"`
	Name          string  `json:"name"`
	ImageURL      string  `json:"image_url"`
	FansCount     counter `json:"fans_count"`
	AverageRating decimal `json:"average_rating"`
	RatingsCount  counter `json:"ratings_count"`
}

// key prefers id and falls back to the author_id spelling of older dumps.
func (r authorRecord) key() int64 {
	if r.ID != 0 {
		return int64(r.ID)
	}
	return int64(r.AuthorID)
}

func (r authorRecord) values() []any {
	return []any{r.key(), r.Name, r.ImageURL, int64(r.FansCount), float64(r.AverageRating), int64(r.RatingsCount)}
}

type bookRecord struct {
	BookID        counter `json:"book_id"`
	WorkID        counter `json:"work_id"`
	Title         string  `json:"title"`
	AuthorName    string  `json:"author_name"`
	AverageRating decimal `json:"average_rating"`
	NumPages      text    `json:"num_pages"`
	ImageURL      string  `json:"image_url"`
	RatingsCount  counter `json:"ratings_count"`
	Language      string  `json:"language"`
}

func (r bookRecord) key() int64 { return int64(r.BookID) }

func (r bookRecord) values() []any {
	return []any{
		int64(r.BookID), int64(r.WorkID), r.Title, r.AuthorName, float64(r.AverageRating),
		string(r.NumPages), r.ImageURL, int64(r.RatingsCount), r.Language,
	}
}

type listRecord struct {
	ID              counter  `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"description_html"`
	NumPages        counter  `json:"num_pages"`
	NumBooks        counter  `json:"num_books"`
	NumVoters       counter  `json:"num_voters"`
	NumLikes        counter  `json:"num_likes"`
	NumComments     counter  `json:"num_comments"`
	CreatedDate     string   `json:"created_date"`
	Tags            document `json:"tags"`
	CreatedBy       document `json:"created_by"`
	Books           document `json:"books"`
}

func (r listRecord) key() int64 { return int64(r.ID) }

func (r listRecord) values() []any {
	return []any{
		int64(r.ID), r.Title, r.Description, r.DescriptionHTML, int64(r.NumPages),
		int64(r.NumBooks), int64(r.NumVoters), int64(r.NumLikes), int64(r.NumComments),
		r.CreatedDate, r.Tags.value(), r.CreatedBy.value(), r.Books.value(),
	}
}

type seriesRecord struct {
	ID               counter  `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	SeriesWorksCount counter  `json:"series_works_count"`
	Works            document `json:"works"`
}

func (r seriesRecord) key() int64 { return int64(r.ID) }

func (r seriesRecord) values() []any {
	return []any{int64(r.ID), r.Title, r.Description, int64(r.SeriesWorksCount), r.Works.value()}
}
