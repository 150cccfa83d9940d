// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/platform/apperr"
	"github.com/taibuivan/biblioteca/internal/platform/constants"
	"github.com/taibuivan/biblioteca/internal/platform/ctxutil"
	"github.com/taibuivan/biblioteca/internal/platform/middleware"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	// Generated when absent
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	// Propagated when present
	request := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	request.Header.Set(constants.HeaderXRequestID, "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "abc-123", seen)
}

/*
TestStructuredLogger checks the per-request logger injection and the final record.
*/
func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := middleware.RequestID()(middleware.StructuredLogger(logger)(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctxutil.GetLogger(request.Context()).Info("inside_handler")
			writer.WriteHeader(http.StatusNotFound)
		}),
	))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/lists/99", nil)
	request.Header.Set(constants.HeaderXRequestID, "rid-1")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	output := buf.String()
	assert.Contains(t, output, `"msg":"inside_handler"`)
	assert.Contains(t, output, `"msg":"http_request_finished"`)
	assert.Contains(t, output, `"request_id":"rid-1"`)
	assert.Contains(t, output, `"status":404`)
	assert.Contains(t, output, `"level":"WARN"`)
}

func TestRateLimitWith(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitWith(ctx, 1, 2)(okHandler)

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/authors", nil)
		request.Header.Set(constants.HeaderXRealIP, "10.0.0.1")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// Another client has its own bucket
	request := httptest.NewRequest(http.MethodGet, "/api/v1/authors", nil)
	request.Header.Set(constants.HeaderXRealIP, "10.0.0.2")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeInternal, body["code"])
}

func TestRateLimitWith_RejectsWithErrorEnvelope(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitWith(ctx, 1, 1)(okHandler)

	var recorder *httptest.ResponseRecorder
	for range 2 {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/series/search/mundo", nil)
		request.Header.Set(constants.HeaderXRealIP, "10.0.0.3")
		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
	}

	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeRateLimited, body["code"])
	assert.NotEmpty(t, body["error"])
}

func TestEntity_TagsLaterRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := middleware.StructuredLogger(logger)(middleware.Entity("books")(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctxutil.GetLogger(request.Context()).Warn("cache_get_failed")
		}),
	))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/books/1", nil))

	var record map[string]any
	line, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	require.NoError(t, json.Unmarshal(line, &record))
	assert.Equal(t, "cache_get_failed", record["msg"])
	assert.Equal(t, "books", record["entity"])
}

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool { return c.dev }
func (c corsConfig) Origins() []string   { return c.origins }

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     corsConfig
		origin  string
		allowed bool
	}{
		{"development_allows_any", corsConfig{dev: true}, "http://localhost:3000", true},
		{"production_listed_origin", corsConfig{origins: []string{"https://biblioteca.example/"}}, "https://biblioteca.example", true},
		{"production_unlisted_origin", corsConfig{origins: []string{"https://biblioteca.example"}}, "https://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/series", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(tt.cfg)(okHandler).ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	request := httptest.NewRequest(http.MethodOptions, "/api/v1/favorites", nil)
	request.Header.Set(constants.HeaderOrigin, "http://localhost:3000")
	recorder := httptest.NewRecorder()

	middleware.CORS(corsConfig{dev: true})(okHandler).ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))
}
