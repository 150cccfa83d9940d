// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	requestutil "github.com/taibuivan/biblioteca/internal/platform/request"
)

/*
TestParam_DecodesExactlyOnce checks that a search term survives routing with a single
level of percent-decoding, whichever path chi matched on.
*/
func TestParam_DecodesExactlyOnce(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"space", "/books/harry%20potter", "harry potter"},
		{"literal_percent_sequence", "/books/50%2520off", "50%20off"},
		{"escaped_slash", "/books/a%2Fb", "a/b"},
		{"plain", "/books/rayuela", "rayuela"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			router := chi.NewRouter()
			router.Get("/books/{term}", func(w http.ResponseWriter, r *http.Request) {
				got = requestutil.Param(r, "term")
			})

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}
