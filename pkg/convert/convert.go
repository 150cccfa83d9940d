// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides strict type-conversion utilities for request parameters.

Unlike a lenient parser, every function here distinguishes "absent" from "malformed":
an empty string yields the default, anything else must parse completely or an error is
returned. Catalog filters rely on this so a typo never silently widens a range.
*/
package convert

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned when a non-empty value does not parse as a finite number.
var ErrNotANumber = errors.New("convert: not a number")

// IntD parses a base-10 integer, returning def when s is blank.
func IntD(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrNotANumber
	}
	return v, nil
}

// Int64D parses a base-10 64-bit integer, returning def when s is blank.
func Int64D(s string, def int64) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	return v, nil
}

// Float64D parses a finite float, returning def when s is blank.
// "NaN" and "Inf" are rejected.
func Float64D(s string, def float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	return v, nil
}
