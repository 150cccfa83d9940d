// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/platform/apperr"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
	"github.com/taibuivan/biblioteca/pkg/pointer"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "favorite_id", "100", false},
		{"empty_string", "favorite_id", "", true},
		{"whitespace_only", "favorite_id", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Rating checks half-star granularity within [0, 5].
*/
func TestValidator_Rating(t *testing.T) {
	tests := []struct {
		name    string
		rating  *float64
		isValid bool
	}{
		{"unrated", nil, true},
		{"zero", pointer.To(0.0), true},
		{"half_star", pointer.To(3.5), true},
		{"five", pointer.To(5.0), true},
		{"quarter_star", pointer.To(3.25), false},
		{"negative", pointer.To(-0.5), false},
		{"above_five", pointer.To(5.5), false},
		{"nan", pointer.To(math.NaN()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Rating("rating", tt.rating)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_OneOf validates enumerated values.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("type", "book", "author", "book", "list", "series")
	assert.False(t, v.HasErrors())

	v.OneOf("type", "comic", "author", "book", "list", "series")
	assert.True(t, v.HasErrors())
}

/*
TestQuery_Defaults checks that absent parameters fall back to defaults.
*/
func TestQuery_Defaults(t *testing.T) {
	q := validate.NewQuery(url.Values{})

	assert.Equal(t, int64(10000), q.Int64("maxRatingCount", 10000))
	assert.Equal(t, 5.0, q.Float64("maxAverageRating", 5))
	assert.Equal(t, 0, q.Offset())
	assert.Equal(t, "name", q.Enum("sortBy", "name", "name", "fans_count"))
	assert.NoError(t, q.Err())
}

/*
TestQuery_CollectsEveryFailure ensures one response reports all malformed parameters.
*/
func TestQuery_CollectsEveryFailure(t *testing.T) {
	q := validate.NewQuery(url.Values{
		"minRatingCount":   {"ten"},
		"maxAverageRating": {"NaN"},
		"offset":           {"-25"},
		"sortBy":           {"password"},
	})

	q.Int64("minRatingCount", 0)
	q.Float64("maxAverageRating", 10)
	q.Offset()
	q.Enum("sortBy", "name", "name", "fans_count")

	ae := apperr.As(q.Err())
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.ElementsMatch(t, []string{"minRatingCount", "maxAverageRating", "offset", "sortBy"}, fields)
}

func TestQuery_Ordered(t *testing.T) {
	q := validate.NewQuery(url.Values{"minPages": {"500"}, "maxPages": {"100"}})
	lower := q.Int64("minPages", 0)
	upper := q.Int64("maxPages", 1000)
	q.Ordered("minPages", lower <= upper)

	require.Error(t, q.Err())
	assert.Equal(t, "minPages", apperr.As(q.Err()).Details[0].Field)
}
