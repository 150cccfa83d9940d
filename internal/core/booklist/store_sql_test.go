package booklist_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/core/booklist"
	"github.com/taibuivan/biblioteca/internal/platform/database/dbtest"
)

func newRepository(t *testing.T) *booklist.SQLRepository {
	t.Helper()
	return booklist.NewSQLRepository(dbtest.Seeded(t).Handle())
}

func mustFilter(t *testing.T, query string) booklist.Filter {
	t.Helper()
	values, err := url.ParseQuery(query)
	require.NoError(t, err)
	filter, err := booklist.ParseFilter(values)
	require.NoError(t, err)
	return filter
}

func TestListLists_DefaultRangesExcludeOutliers(t *testing.T) {
	repository := newRepository(t)

	lists, err := repository.ListLists(context.Background(), mustFilter(t, ""))
	require.NoError(t, err)

	// List 3 has 200000 voters, above the default upper bound. Ordered by title asc.
	require.Len(t, lists, 2)
	assert.Equal(t, "Lista rota", lists[0].Title)
	assert.Equal(t, "Mejores novelas latinoamericanas", lists[1].Title)
}

func TestListLists_SortAndRange(t *testing.T) {
	repository := newRepository(t)

	lists, err := repository.ListLists(context.Background(),
		mustFilter(t, "maxVoters=1000000&sortBy=num_likes&sortOrder=desc&minLikes=0&maxLikes=10000"))
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{lists[0].ID.Int(), lists[1].ID.Int(), lists[2].ID.Int()})

	lists, err = repository.ListLists(context.Background(), mustFilter(t, "minVoters=150&maxVoters=150"))
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, int64(1), lists[0].ID.Int())
}

func TestGetList_CoercesEmbeddedDocuments(t *testing.T) {
	repository := newRepository(t)

	list, err := repository.GetList(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Equal(t, []string{"latam", "clasicos"}, list.Tags)
	assert.Equal(t, booklist.Creator{Name: "Lucía", ID: "77"}, list.CreatedBy)
	require.Len(t, list.Books, 2)
	assert.Equal(t, int64(9), list.Books[1].NumVotes.Int())

	broken, err := repository.GetList(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, broken)
	assert.Equal(t, []string{}, broken.Tags)
	assert.Equal(t, booklist.Creator{}, broken.CreatedBy)
	assert.Equal(t, []booklist.ListBook{}, broken.Books)

	bare, err := repository.GetList(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, bare)
	assert.Equal(t, []booklist.ListBook{}, bare.Books)
}

func TestGetList_MissingIsNilWithoutError(t *testing.T) {
	repository := newRepository(t)

	list, err := repository.GetList(context.Background(), 424242)
	assert.NoError(t, err)
	assert.Nil(t, list)
}
