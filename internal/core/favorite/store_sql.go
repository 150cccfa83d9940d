package favorite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taibuivan/biblioteca/internal/core/author"
	"github.com/taibuivan/biblioteca/internal/core/book"
	"github.com/taibuivan/biblioteca/internal/core/booklist"
	"github.com/taibuivan/biblioteca/internal/core/series"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/schema"
	"github.com/taibuivan/biblioteca/internal/platform/dberr"
)

type SQLRepository struct {
	handle database.Handle
}

func NewSQLRepository(handle database.Handle) *SQLRepository {
	return &SQLRepository{handle: handle}
}

var fav = schema.LibraryFavorite

// keyed returns a builder matching key.
func keyed(db *database.DB, key Key) *database.Builder {
	return database.NewBuilder(db.Dialect()).
		Equal(fav.EntityType, string(key.Kind)).
		Equal(fav.EntityID, string(key.ID))
}

func (repository *SQLRepository) Exists(context context.Context, key Key) (bool, error) {
	count, err := repository.Count(context, key)
	return count > 0, err
}

func (repository *SQLRepository) Count(context context.Context, key Key) (int64, error) {
	db, err := repository.handle()
	if err != nil {
		return 0, dberr.Wrap(err, "count_favorite")
	}

	builder := keyed(db, key)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, fav.Table, builder.WhereClause())

	var count int64
	if err := db.QueryRowContext(context, query, builder.Args()...).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_favorite")
	}
	return count, nil
}

func (repository *SQLRepository) Insert(context context.Context, favorite Favorite) (bool, error) {
	db, err := repository.handle()
	if err != nil {
		return false, dberr.Wrap(err, "insert_favorite")
	}

	builder := database.NewBuilder(db.Dialect())
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s, %s, %s, %s, %s)`,
		fav.Table, database.Qualify("", fav.Columns()),
		builder.Bind(string(favorite.Type)), builder.Bind(string(favorite.ID)),
		builder.Bind(nullRating(favorite.Rating)),
		builder.Bind(favorite.CreatedAt), builder.Bind(favorite.UpdatedAt),
	)

	if _, err := db.ExecContext(context, query, builder.Args()...); err != nil {
		if dberr.IsUniqueViolation(err) {
			return false, nil
		}
		return false, dberr.Wrap(err, "insert_favorite")
	}
	return true, nil
}

func (repository *SQLRepository) UpdateRating(context context.Context, key Key, rating *float64, updatedAt string) (int64, error) {
	db, err := repository.handle()
	if err != nil {
		return 0, dberr.Wrap(err, "update_favorite")
	}

	builder := database.NewBuilder(db.Dialect())
	set := fmt.Sprintf(`%s = %s, %s = %s`,
		fav.Rating, builder.Bind(nullRating(rating)),
		fav.UpdatedAt, builder.Bind(updatedAt))
	builder.Equal(fav.EntityType, string(key.Kind)).Equal(fav.EntityID, string(key.ID))

	query := fmt.Sprintf(`UPDATE %s SET %s %s`, fav.Table, set, builder.WhereClause())

	result, err := db.ExecContext(context, query, builder.Args()...)
	if err != nil {
		return 0, dberr.Wrap(err, "update_favorite")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, dberr.Wrap(err, "update_favorite")
	}
	return affected, nil
}

func (repository *SQLRepository) Delete(context context.Context, key Key) (int64, error) {
	db, err := repository.handle()
	if err != nil {
		return 0, dberr.Wrap(err, "delete_favorite")
	}

	builder := keyed(db, key)
	query := fmt.Sprintf(`DELETE FROM %s %s`, fav.Table, builder.WhereClause())

	result, err := db.ExecContext(context, query, builder.Args()...)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_favorite")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, dberr.Wrap(err, "delete_favorite")
	}
	return affected, nil
}

func (repository *SQLRepository) Get(context context.Context, key Key) (*Favorite, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "get_favorite")
	}

	builder := keyed(db, key)
	query := fmt.Sprintf(`SELECT %s FROM %s %s`, database.Qualify("", fav.Columns()), fav.Table, builder.WhereClause())

	favorite, err := database.First(context, db, query, builder.Args(), scanFavorite)
	if err != nil {
		return nil, dberr.Wrap(err, "get_favorite")
	}
	return favorite, nil
}

func (repository *SQLRepository) ListAll(context context.Context) ([]Favorite, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorites")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC`,
		database.Qualify("", fav.Columns()), fav.Table, fav.EntityType, fav.EntityID)

	favorites, err := database.Collect(context, db, query, nil, scanFavorite)
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorites")
	}
	return favorites, nil
}

// # Catalog joins

// joinOn renders the join of favorites f against a catalog key. Catalog keys are
// integers and favorite ids are text, so the catalog side is cast.
func joinOn(column string) string {
	return fmt.Sprintf("JOIN %s f ON f.%s = CAST(%s AS TEXT)", fav.Table, fav.EntityID, column)
}

func (repository *SQLRepository) ListAuthors(context context.Context) ([]Author, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorite_authors")
	}

	builder := database.NewBuilder(db.Dialect()).Equal("f."+fav.EntityType, string(KindAuthor))
	query := fmt.Sprintf(`SELECT %s, f.%s FROM %s a %s %s ORDER BY a.%s ASC`,
		author.Columns("a"), fav.Rating, schema.CatalogAuthor.Table,
		joinOn("a."+schema.CatalogAuthor.ID), builder.WhereClause(), schema.CatalogAuthor.ID)

	authors, err := database.Collect(context, db, query, builder.Args(),
		withRating(author.Scan, func(a author.Author, rating *float64) Author { return Author{a, rating} }))
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorite_authors")
	}
	return authors, nil
}

// ListBooks joins favorites by work id and keeps one edition per work.
func (repository *SQLRepository) ListBooks(context context.Context) ([]Book, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorite_books")
	}

	builder := book.ScopeLanguages(database.NewBuilder(db.Dialect())).
		Equal("f."+fav.EntityType, string(KindBook))

	ranked := book.Ranked{
		Tiebreak: book.CatalogOrder,
		Join:     joinOn(book.Alias + "." + schema.CatalogBook.WorkID),
		Extra:    []string{"f." + fav.Rating + " AS favorite_rating"},
	}
	query := fmt.Sprintf(`%s SELECT %s, favorite_rating FROM %s WHERE %s ORDER BY %s ASC`,
		ranked.CTE(builder), book.Columns(""), book.RankedTable, book.Canonical, schema.CatalogBook.WorkID)

	books, err := database.Collect(context, db, query, builder.Args(),
		withRating(book.Scan, func(b book.Book, rating *float64) Book { return Book{b, rating} }))
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorite_books")
	}
	return books, nil
}

func (repository *SQLRepository) ListLists(context context.Context) ([]List, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorite_lists")
	}

	builder := database.NewBuilder(db.Dialect()).Equal("f."+fav.EntityType, string(KindList))
	query := fmt.Sprintf(`SELECT %s, f.%s FROM %s l %s %s ORDER BY l.%s ASC`,
		booklist.Columns("l"), fav.Rating, schema.CatalogList.Table,
		joinOn("l."+schema.CatalogList.ID), builder.WhereClause(), schema.CatalogList.ID)

	lists, err := database.Collect(context, db, query, builder.Args(),
		withRating(booklist.Scan, func(l booklist.List, rating *float64) List { return List{l, rating} }))
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorite_lists")
	}
	return lists, nil
}

func (repository *SQLRepository) ListSeries(context context.Context) ([]Series, error) {
	db, err := repository.handle()
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorite_series")
	}

	builder := database.NewBuilder(db.Dialect()).Equal("f."+fav.EntityType, string(KindSeries))
	query := fmt.Sprintf(`SELECT %s, f.%s FROM %s s %s %s ORDER BY s.%s ASC`,
		series.Columns("s"), fav.Rating, schema.CatalogSeries.Table,
		joinOn("s."+schema.CatalogSeries.ID), builder.WhereClause(), schema.CatalogSeries.ID)

	found, err := database.Collect(context, db, query, builder.Args(),
		withRating(series.Scan, func(s series.Series, rating *float64) Series { return Series{s, rating} }))
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorite_series")
	}
	return found, nil
}

// # Scanning

// ratedScanner appends the trailing favorite rating column to every scan.
type ratedScanner struct {
	database.Scanner
	rating *sql.NullFloat64
}

func (s ratedScanner) Scan(dest ...any) error {
	return s.Scanner.Scan(append(dest, s.rating)...)
}

// withRating adapts a catalog row mapper to rows that end with a rating column.
func withRating[T, R any](scan func(database.Scanner) (T, error), wrap func(T, *float64) R) func(database.Scanner) (R, error) {
	return func(row database.Scanner) (R, error) {
		var rating sql.NullFloat64
		item, err := scan(ratedScanner{Scanner: row, rating: &rating})
		if err != nil {
			var zero R
			return zero, err
		}
		return wrap(item, ratingOf(rating)), nil
	}
}

func ratingOf(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	rating := value.Float64
	return &rating
}

func nullRating(rating *float64) sql.NullFloat64 {
	if rating == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *rating, Valid: true}
}
