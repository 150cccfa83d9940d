package book_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/core/book"
	"github.com/taibuivan/biblioteca/internal/platform/cache"
	"github.com/taibuivan/biblioteca/internal/platform/database/dbtest"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	service := book.NewService(newRepository(t), cache.Noop{}, dbtest.Logger())
	router := chi.NewRouter()
	router.Route("/books", book.NewHandler(service).RegisterRoutes)
	return router
}

func TestHandler_SearchBooks(t *testing.T) {
	recorder := httptest.NewRecorder()
	newRouter(t).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/books/harry%20potter", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []struct {
			BookID string `json:"book_id"`
			WorkID string `json:"work_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	assert.Equal(t, "1002", body.Data[0].BookID)
	assert.Equal(t, "100", body.Data[0].WorkID)
}

func TestHandler_ListBooks_InvalidRange(t *testing.T) {
	recorder := httptest.NewRecorder()
	newRouter(t).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/books?minPages=500&maxPages=100", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"field":"minPages"`)
}

func TestHandler_ListBooks_EmptyPage(t *testing.T) {
	recorder := httptest.NewRecorder()
	newRouter(t).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/books?offset=5000", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"offset":5000,"limit":25,"count":0,"has_more":false}}`, recorder.Body.String())
}
