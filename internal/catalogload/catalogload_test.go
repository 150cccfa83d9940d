// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogload_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/catalogload"
	"github.com/taibuivan/biblioteca/internal/core/booklist"
	"github.com/taibuivan/biblioteca/internal/core/series"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/dbtest"
)

func load(t *testing.T, db *database.DB, options catalogload.Options, entity catalogload.Entity, dump string) catalogload.Stats {
	t.Helper()
	stats, err := catalogload.New(db, dbtest.Logger(), options).Load(context.Background(), entity, strings.NewReader(dump))
	require.NoError(t, err)
	return stats
}

func count(t *testing.T, db *database.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

const booksDump = `{"book_id":"1","work_id":"10","title":"Rayuela","author_name":"Julio Cortázar","average_rating":"4.05","num_pages":"600","ratings_count":"1200","language":"spa"}
{"book_id":2,"work_id":10,"title":"Rayuela (MX)","average_rating":4.1,"num_pages":612,"ratings_count":30,"language":"es-MX"}
{"book_id":"3","work_id":"11","title":"Hopscotch","average_rating":"3.9","num_pages":"","ratings_count":"","language":"eng"}

{not json
{"title":"sin id","language":"spa"}
{"book_id":"1","work_id":"10","title":"Rayuela otra vez","language":"spa"}
`

func TestLoad_Books_FiltersLanguagesAndCounts(t *testing.T) {
	db := dbtest.New(t)

	stats := load(t, db, catalogload.DefaultOptions(), catalogload.Books, booksDump)

	assert.Equal(t, catalogload.Stats{
		Entity:     catalogload.Books,
		Read:       6,
		Kept:       2,
		Filtered:   1,
		Malformed:  2,
		Duplicates: 1,
	}, stats)
	assert.Equal(t, 2, count(t, db, "books"))

	var (
		title    string
		pages    string
		rating   float64
		ratings  int64
		language string
	)
	require.NoError(t, db.QueryRowContext(context.Background(),
		"SELECT title, num_pages, average_rating, ratings_count, language FROM books WHERE book_id = 2").
		Scan(&title, &pages, &rating, &ratings, &language))
	assert.Equal(t, "Rayuela (MX)", title)
	assert.Equal(t, "612", pages, "numeric page counts are stored as text")
	assert.InDelta(t, 4.1, rating, 1e-9)
	assert.EqualValues(t, 30, ratings)
	assert.Equal(t, "es-MX", language)
}

func TestLoad_Books_EmptyLanguagesKeepsAll(t *testing.T) {
	db := dbtest.New(t)

	stats := load(t, db, catalogload.Options{}, catalogload.Books, booksDump)

	assert.Equal(t, 3, stats.Kept)
	assert.Zero(t, stats.Filtered)
}

func TestLoad_ReplacesUnlessAppending(t *testing.T) {
	db := dbtest.New(t)

	load(t, db, catalogload.Options{}, catalogload.Authors,
		`{"id":"1","name":"Borges","fans_count":"10","average_rating":"4.3","ratings_count":"99"}`+"\n"+
			`{"author_id":"2","name":"Storni"}`)
	assert.Equal(t, 2, count(t, db, "authors"))

	load(t, db, catalogload.Options{Append: true}, catalogload.Authors, `{"id":3,"name":"Ocampo"}`)
	assert.Equal(t, 3, count(t, db, "authors"))

	load(t, db, catalogload.Options{}, catalogload.Authors, `{"id":4,"name":"Arlt"}`)
	assert.Equal(t, 1, count(t, db, "authors"))
}

func TestLoad_BadNumberIsMalformed(t *testing.T) {
	db := dbtest.New(t)

	stats := load(t, db, catalogload.Options{}, catalogload.Authors,
		`{"id":"1","name":"Borges","average_rating":"NaN"}`+"\n"+
			`{"id":"2","name":"Storni","fans_count":"muchos"}`+"\n"+
			`{"id":"3","name":"Pizarnik"}`)

	assert.Equal(t, 3, stats.Read)
	assert.Equal(t, 1, stats.Kept)
	assert.Equal(t, 2, stats.Malformed)
}

func TestLoad_ListsKeepEmbeddedJSON(t *testing.T) {
	db := dbtest.New(t)

	stats := load(t, db, catalogload.Options{}, catalogload.Lists,
		`{"id":"5","title":"Poesía","num_books":"2","num_voters":"12","num_likes":"3",`+
			`"tags":["poesia","latam"],"created_by":{"name":"Ana","id":"9"},`+
			`"books":[{"title":"Veinte poemas","author":"Pablo Neruda","rank":"1","score":"300","num_votes":"4","book_id":"8","work_id":"80"}]}`+"\n"+
			`{"id":"6","title":"Vacía","tags":null}`)
	require.Equal(t, 2, stats.Kept)

	repo := booklist.NewSQLRepository(db.Handle())

	list, err := repo.GetList(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Equal(t, []string{"poesia", "latam"}, list.Tags)
	assert.Equal(t, "Ana", list.CreatedBy.Name)
	require.Len(t, list.Books, 1)
	assert.Equal(t, "Pablo Neruda", list.Books[0].Author)
	assert.EqualValues(t, 4, list.Books[0].NumVotes)

	empty, err := repo.GetList(context.Background(), 6)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Empty(t, empty.Tags)
	assert.Empty(t, empty.Books)
}

func TestLoad_SeriesWorks(t *testing.T) {
	db := dbtest.New(t)

	load(t, db, catalogload.Options{}, catalogload.Series,
		`{"id":"40","title":"Mundodisco","series_works_count":"41",`+
			`"works":[{"title":"El color de la magia","work_id":"1","book_id":"2","user_position":"1","editions_count":"9"}]}`)

	found, err := series.NewSQLRepository(db.Handle()).SearchSeries(context.Background(), "mundo", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.EqualValues(t, 41, found[0].SeriesWorksCount)
	require.Len(t, found[0].Works, 1)
	assert.Equal(t, "El color de la magia", found[0].Works[0].Title)
}

func TestParseEntity(t *testing.T) {
	for _, name := range []string{"books", "Book", " LISTS ", "series", "author"} {
		_, err := catalogload.ParseEntity(name)
		assert.NoError(t, err, name)
	}

	_, err := catalogload.ParseEntity("users")
	assert.Error(t, err)
}
