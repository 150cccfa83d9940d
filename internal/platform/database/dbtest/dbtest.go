// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dbtest builds migrated, throwaway sqlite catalogs for tests.
package dbtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/migration"
)

// Fixture sizes other tests rely on.
const (
	// AuthorCount is the number of seeded authors. Every one has ratings_count <= 100.
	AuthorCount = 30
	// FillerWorks is the number of seeded two-edition works titled "Obra NN".
	FillerWorks = 40
	// FillerWorkBase is the work id of the first filler work.
	FillerWorkBase = 1000
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns an empty, fully migrated sqlite catalog in a temporary file.
func New(t testing.TB) *database.DB {
	t.Helper()

	options := database.Options{
		Driver: database.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "catalog.db"),
	}
	require.NoError(t, migration.RunUp(options, Logger()))

	db, err := database.New(context.Background(), options)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// Seeded returns a migrated catalog holding the standard fixture.
func Seeded(t testing.TB) *database.DB {
	t.Helper()

	db := New(t)
	Seed(t, db)
	return db
}

// Book is one fixture edition.
type Book struct {
	BookID        int64
	WorkID        int64
	Title         string
	AuthorName    string
	AverageRating float64
	NumPages      string
	RatingsCount  int64
	Language      string
}

// Books are the hand-written editions of the fixture.
//
//   - work 100 has three editions; the English one is out of scope.
//   - work 200 has two Spanish editions with equal ratings.
//   - work 500 has one edition with an empty page count.
//   - work 600 has a non-numeric page count.
var Books = []Book{
	{1001, 100, "Harry Potter y la piedra filosofal", "J.K. Rowling", 4.1, "264", 500, "es-MX"},
	{1002, 100, "Harry Potter y la Piedra Filosofal (edición ilustrada)", "J.K. Rowling", 4.5, "256", 900, "spa"},
	{1003, 100, "Harry Potter and the Philosopher's Stone", "J.K. Rowling", 4.9, "223", 9000000, "eng"},
	{2001, 200, "Harry Potter y la cámara secreta", "J.K. Rowling", 4.3, "288", 700, "spa"},
	{2002, 200, "HARRY POTTER Y LA CÁMARA SECRETA", "J.K. Rowling", 4.3, "290", 300, "es-MX"},
	{3001, 300, "Harry el sucio", "Anónimo", 3.2, "120", 20, "spa"},
	{4001, 400, "Harry Potter and the Goblet of Fire", "J.K. Rowling", 4.6, "636", 3000000, "eng"},
	{5001, 500, "Cien años de soledad", "Gabriel García Márquez", 4.4, "417", 800000, "spa"},
	{5002, 500, "Cien años de soledad (bolsillo)", "Gabriel García Márquez", 4.2, "", 1000, "spa"},
	{6001, 600, "Potter, Harry: biografía no oficial", "Varios", 2.9, "abc", 15, "es-MX"},
	{7001, 700, "Rayuela", "Julio Cortázar", 4.0, "600", 27003752, "spa"},
}

// Seed inserts the standard fixture: authors, books (with filler works), lists and
// series.
func Seed(t testing.TB, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	exec := func(query string, args ...any) {
		_, err := db.ExecContext(ctx, query, args...)
		require.NoError(t, err, query)
	}

	// Authors: fans_count is a permutation so "fans_count desc" has no ties.
	for i := 1; i <= AuthorCount; i++ {
		exec(`INSERT INTO authors (id, name, image_url, fans_count, average_rating, ratings_count)
			VALUES (?1, ?2, ?3, ?4, ?5, ?6)`,
			i, authorName(i), fmt.Sprintf("https://img.example/a/%d.jpg", i),
			(i*37)%101, float64(i%5)+0.5, i*3)
	}

	for _, b := range Books {
		insertBook(t, db, b)
	}

	// Filler works: two Spanish editions each, all rated 4.0 so ordering relies on the
	// tie-break key.
	for i := 0; i < FillerWorks; i++ {
		work := int64(FillerWorkBase + i)
		title := fmt.Sprintf("Obra %02d", i)
		insertBook(t, db, Book{work*10 + 1, work, title, "Autor de relleno", 4.0, "300", 100, "spa"})
		insertBook(t, db, Book{work*10 + 2, work, title + " (reedición)", "Autor de relleno", 4.0, "310", 90, "es-MX"})
	}

	exec(`INSERT INTO list (id, title, description, description_html, num_pages, num_books,
			num_voters, num_likes, num_comments, created_date, tags, created_by, books)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11, ?12, ?13)`,
		1, "Mejores novelas latinoamericanas", "Las imprescindibles", "<p>Las imprescindibles</p>",
		3, 2, 150, 40, 7, "2015-03-02",
		`["latam","clasicos"]`, `{"name":"Lucía","id":"77"}`,
		`[{"title":"Rayuela","author":"Julio Cortázar","rank":1,"score":980,"num_votes":10,"book_id":7001,"work_id":700},
		  {"title":"Cien años de soledad","author":"Gabriel García Márquez","rank":2,"score":870,"num_votes":"9"}]`)
	exec(`INSERT INTO list (id, title, num_books, num_voters, num_likes, tags, created_by, books)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8)`,
		2, "Lista rota", 0, 5, 1, `not json`, `[]`, `{"oops":true}`)
	exec(`INSERT INTO list (id, title, num_books, num_voters, num_likes)
		VALUES (?1, ?2, ?3, ?4, ?5)`,
		3, "Avalancha de lectores", 9000, 200000, 9999)

	exec(`INSERT INTO series (id, title, description, series_works_count, works)
		VALUES (?1, ?2, ?3, ?4, ?5)`,
		10, "Harry Potter", "La saga completa", 7,
		`[{"title":"Harry Potter y la piedra filosofal","work_id":100,"book_id":1001,"user_position":"1","editions_count":3}]`)
	exec(`INSERT INTO series (id, title, series_works_count, works) VALUES (?1, ?2, ?3, ?4)`,
		11, "Crónicas de Harry el sucio", 1, `garbage`)
	exec(`INSERT INTO series (id, title, series_works_count) VALUES (?1, ?2, ?3)`,
		12, "Mundodisco", 41)
}

func insertBook(t testing.TB, db *database.DB, b Book) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO books (book_id, work_id, title, author_name, average_rating, num_pages,
			image_url, ratings_count, language)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9)`,
		b.BookID, b.WorkID, b.Title, b.AuthorName, b.AverageRating, b.NumPages,
		fmt.Sprintf("https://img.example/b/%d.jpg", b.BookID), b.RatingsCount, b.Language)
	require.NoError(t, err)
}

var authorNames = []string{
	"Gabriel García Márquez", "Isabel Allende", "Julio Cortázar", "Jorge Luis Borges",
	"Mario Vargas Llosa", "Octavio Paz", "Laura Esquivel", "Carlos Fuentes",
	"Juan Rulfo", "Elena Poniatowska", "Rosario Castellanos", "Roberto Bolaño",
	"Pablo Neruda", "Gabriela Mistral", "Alejo Carpentier", "Horacio Quiroga",
	"Ernesto Sábato", "Juan Carlos Onetti", "Clarice Lispector", "José Martí",
	"Rubén Darío", "Alfonso Reyes", "Miguel Ángel Asturias", "Silvina Ocampo",
	"Adolfo Bioy Casares", "Mario Benedetti", "Manuel Puig", "Gabriel Miró",
	"Juan José Arreola", "Sor Juana Inés de la Cruz",
}

func authorName(i int) string {
	return authorNames[(i-1)%len(authorNames)]
}
