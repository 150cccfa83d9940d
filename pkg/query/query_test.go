package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/biblioteca/pkg/query"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"es-MX", "spa"}, query.StringSlice(" es-MX, ,spa "))
}
