// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"net/url"
	"strings"

	"github.com/taibuivan/biblioteca/pkg/convert"
	"github.com/taibuivan/biblioteca/pkg/pagination"
)

// Query reads typed values out of URL query parameters.
//
// Absent parameters take their default. A present value that does not parse is recorded
// as a field error and never clamped; the caller inspects [Query.Err] once after reading
// every parameter so a single response lists all problems.
//
//	q := validate.NewQuery(request.URL.Query())
//	minCount := q.Int64("minRatingCount", 0)
//	maxCount := q.Int64("maxRatingCount", 10000)
//	q.Ordered("minRatingCount", minCount <= maxCount)
//	if err := q.Err(); err != nil { ... }
type Query struct {
	Validator
	values url.Values
}

// NewQuery wraps raw query values.
func NewQuery(values url.Values) *Query {
	return &Query{values: values}
}

// Raw returns the trimmed raw value of name.
func (q *Query) Raw(name string) string {
	return strings.TrimSpace(q.values.Get(name))
}

// Int64 reads an integer parameter.
func (q *Query) Int64(name string, def int64) int64 {
	value, err := convert.Int64D(q.Raw(name), def)
	if err != nil {
		q.add(name, "Must be an integer")
		return def
	}
	return value
}

// Float64 reads a finite decimal parameter.
func (q *Query) Float64(name string, def float64) float64 {
	value, err := convert.Float64D(q.Raw(name), def)
	if err != nil {
		q.add(name, "Must be a number")
		return def
	}
	return value
}

// Offset reads the zero-based [pagination.ParamOffset] parameter.
func (q *Query) Offset() int {
	offset, err := convert.IntD(q.Raw(pagination.ParamOffset), 0)
	switch {
	case err != nil:
		q.add(pagination.ParamOffset, "Must be an integer")
		return 0
	case offset < 0:
		q.add(pagination.ParamOffset, "Must not be negative")
		return 0
	}
	return offset
}

// Enum reads a parameter restricted to allowed, returning def when absent.
func (q *Query) Enum(name, def string, allowed ...string) string {
	value := q.Raw(name)
	if value == "" {
		return def
	}
	q.OneOf(name, value, allowed...)
	return value
}

// Ordered records a failure on minName unless the pair is ordered.
func (q *Query) Ordered(minName string, ordered bool) *Query {
	q.Custom(minName, !ordered, "Must not exceed the upper bound")
	return q
}
