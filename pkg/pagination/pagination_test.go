package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/pkg/pagination"
)

func TestPage_ClampsNegativeOffset(t *testing.T) {
	params := pagination.Page(-5)
	assert.Equal(t, 0, params.Offset)
	assert.Equal(t, pagination.PageSize, params.Limit)
}

func TestNewMeta(t *testing.T) {
	t.Run("full_page_has_more", func(t *testing.T) {
		meta := pagination.NewMeta(pagination.Page(25), 25)
		assert.True(t, meta.HasMore)
		require.NotNil(t, meta.NextOffset)
		assert.Equal(t, 50, *meta.NextOffset)
	})

	t.Run("short_page_is_last", func(t *testing.T) {
		meta := pagination.NewMeta(pagination.Page(25), 5)
		assert.False(t, meta.HasMore)
		assert.Nil(t, meta.NextOffset)
		assert.Equal(t, 5, meta.Count)
	})

	t.Run("empty_page", func(t *testing.T) {
		meta := pagination.NewMeta(pagination.Page(0), 0)
		assert.False(t, meta.HasMore)
	})
}
