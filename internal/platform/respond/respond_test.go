// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/biblioteca/internal/platform/apperr"
	"github.com/taibuivan/biblioteca/internal/platform/ctxutil"
	"github.com/taibuivan/biblioteca/internal/platform/respond"
	"github.com/taibuivan/biblioteca/pkg/pagination"
	"github.com/taibuivan/biblioteca/pkg/wire"
)

type counter struct {
	RatingsCount wire.Int64 `json:"ratings_count"`
}

func TestPaginated_EmptyIsArray(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated[counter](recorder, nil, pagination.Page(50))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"offset":50,"limit":25,"count":0,"has_more":false}}`, recorder.Body.String())
}

/*
TestPaginated_LargeCountersAsStrings keeps counters beyond 2^53 exact.
*/
func TestPaginated_LargeCountersAsStrings(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []counter{{RatingsCount: 9007199254740993}}, pagination.Page(0))

	assert.Contains(t, recorder.Body.String(), `"ratings_count":"9007199254740993"`)
}

func TestList_NilIsArray(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.List[string](recorder, nil)
	assert.JSONEq(t, `{"data":[]}`, recorder.Body.String())
}

func TestError_ValidationDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/v1/authors?offset=x", nil)

	respond.Error(recorder, request, apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "offset", Message: "Must be an integer"}))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.JSONEq(t,
		`{"error":"Validation failed","code":"VALIDATION_ERROR","details":[{"field":"offset","message":"Must be an integer"}]}`,
		recorder.Body.String())
}

/*
TestError_ServerErrorsHideCause logs the cause of a 5xx but never returns it.
*/
func TestError_ServerErrorsHideCause(t *testing.T) {
	var logs bytes.Buffer
	request := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	request = request.WithContext(ctxutil.WithLogger(request.Context(), slog.New(slog.NewJSONHandler(&logs, nil))))

	recorder := httptest.NewRecorder()
	respond.Error(recorder, request, apperr.QueryFailed("list_books", errors.New("no such column: secret_col")))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "secret_col")
	assert.Contains(t, logs.String(), "secret_col")
	assert.Contains(t, logs.String(), "api_server_error")
}

func TestError_PlainErrorBecomesInternal(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apperr.CodeInternal)
}
