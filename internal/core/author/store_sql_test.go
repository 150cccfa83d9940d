package author_test

import (
	"context"
	"net/url"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/core/author"
	"github.com/taibuivan/biblioteca/internal/platform/apperr"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/database/dbtest"
	"github.com/taibuivan/biblioteca/pkg/search"
)

func newRepository(t *testing.T) *author.SQLRepository {
	t.Helper()
	return author.NewSQLRepository(dbtest.Seeded(t).Handle())
}

func mustFilter(t *testing.T, query string) author.Filter {
	t.Helper()
	values, err := url.ParseQuery(query)
	require.NoError(t, err)
	filter, err := author.ParseFilter(values)
	require.NoError(t, err)
	return filter
}

/*
TestListAuthors_FansCountDescending requests the first page ordered by fans_count
descending over the 30-author fixture and expects the 25 most-followed authors.
*/
func TestListAuthors_FansCountDescending(t *testing.T) {
	repository := newRepository(t)
	filter := mustFilter(t, "sortBy=fans_count&sortOrder=desc&minRatingCount=0&maxRatingCount=100&offset=0")

	authors, err := repository.ListAuthors(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, authors, 25)

	expected := make([]int64, 0, dbtest.AuthorCount)
	for i := 1; i <= dbtest.AuthorCount; i++ {
		expected = append(expected, int64((i*37)%101))
	}
	slices.Sort(expected)
	slices.Reverse(expected)

	got := make([]int64, len(authors))
	for i, a := range authors {
		got[i] = a.FansCount.Int()
	}
	assert.Equal(t, expected[:25], got)
}

/*
TestListAuthors_RangesAreInclusive checks every returned row against both bounds and
that a row sitting exactly on a bound is kept.
*/
func TestListAuthors_RangesAreInclusive(t *testing.T) {
	repository := newRepository(t)
	filter := mustFilter(t, "minRatingCount=30&maxRatingCount=60&minAverageRating=1.5&maxAverageRating=3.5")

	authors, err := repository.ListAuthors(context.Background(), filter)
	require.NoError(t, err)

	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		assert.GreaterOrEqual(t, a.RatingsCount.Int(), int64(30))
		assert.LessOrEqual(t, a.RatingsCount.Int(), int64(60))
		assert.GreaterOrEqual(t, a.AverageRating, 1.5)
		assert.LessOrEqual(t, a.AverageRating, 3.5)
		ids = append(ids, a.ID.Int())
	}
	assert.ElementsMatch(t, []int64{11, 12, 13, 16, 17, 18}, ids)

	exact := mustFilter(t, "minRatingCount=33&maxRatingCount=33")
	authors, err = repository.ListAuthors(context.Background(), exact)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, int64(11), authors[0].ID.Int())
}

/*
TestListAuthors_PaginationIsStable walks the pages with a tie-heavy sort key and checks
that no author appears twice and none is skipped.
*/
func TestListAuthors_PaginationIsStable(t *testing.T) {
	repository := newRepository(t)

	seen := make(map[int64]bool)
	for _, offset := range []string{"0", "25"} {
		filter := mustFilter(t, "sortBy=average_rating&sortOrder=desc&offset="+offset)

		first, err := repository.ListAuthors(context.Background(), filter)
		require.NoError(t, err)
		again, err := repository.ListAuthors(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, first, again)

		for _, a := range first {
			assert.False(t, seen[a.ID.Int()], "author %d returned twice", a.ID.Int())
			seen[a.ID.Int()] = true
		}
	}
	assert.Len(t, seen, dbtest.AuthorCount)
}

func TestSearchAuthors_AllTokensFolded(t *testing.T) {
	repository := newRepository(t)

	authors, err := repository.SearchAuthors(context.Background(), search.Tokens("GARCÍA márquez"), 10)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Gabriel García Márquez", authors[0].Name)

	authors, err = repository.SearchAuthors(context.Background(), search.Tokens("gabriel"), 10)
	require.NoError(t, err)

	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
	}
	// ratings_count descending
	assert.Equal(t, []string{"Gabriel Miró", "Gabriela Mistral", "Gabriel García Márquez"}, names)
}

func TestSearchAuthors_WildcardsAreLiteral(t *testing.T) {
	repository := newRepository(t)

	authors, err := repository.SearchAuthors(context.Background(), search.Tokens("%"), 10)
	require.NoError(t, err)
	assert.Empty(t, authors)
	assert.NotNil(t, authors)
}

func TestListAuthors_StoreNotInitialized(t *testing.T) {
	repository := author.NewSQLRepository(database.Shared)
	require.NoError(t, database.CloseShared())

	_, err := repository.ListAuthors(context.Background(), mustFilter(t, ""))
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreUnavailable))
}
