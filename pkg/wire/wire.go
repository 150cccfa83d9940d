// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package wire holds JSON-safe representations of catalog values.

Catalog counters are 64-bit integers (ratings counts reach tens of millions and ids are
opaque 64-bit keys). JavaScript clients lose precision above 2^53, so every 64-bit
integer leaves the API as a decimal string and is accepted back as either a string or a
number.

Usage:

	type Author struct {
	    RatingsCount wire.Int64 `json:"ratings_count"`
	}
*/
package wire

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Int64 is an int64 that marshals to a JSON string.
type Int64 int64

// Int returns the plain integer value.
func (n Int64) Int() int64 { return int64(n) }

// String implements [fmt.Stringer].
func (n Int64) String() string { return strconv.FormatInt(int64(n), 10) }

// MarshalJSON encodes the value as a quoted decimal string.
func (n Int64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(n.String())), nil
}

// UnmarshalJSON accepts a quoted decimal, a bare JSON number or null (zero).
func (n *Int64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("wire: invalid int64 string %s: %w", raw, err)
		}
		raw = unquoted
	}

	value, err := ParseInt64(raw)
	if err != nil {
		return err
	}

	*n = Int64(value)
	return nil
}

// Scan implements [database/sql.Scanner].
//
// Catalog engines hand counters back as int64, float64 (analytical engines widen
// aggregates), text or raw bytes. NULL scans to zero.
func (n *Int64) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*n = 0
	case int64:
		*n = Int64(value)
	case int32:
		*n = Int64(value)
	case int:
		*n = Int64(value)
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
			return fmt.Errorf("wire: cannot scan non-integral %v into Int64", value)
		}
		if value >= math.MaxInt64 || value < math.MinInt64 {
			return fmt.Errorf("wire: cannot scan %v into Int64: out of range", value)
		}
		*n = Int64(value)
	case []byte:
		return n.scanText(string(value))
	case string:
		return n.scanText(value)
	default:
		return fmt.Errorf("wire: cannot scan %T into Int64", src)
	}
	return nil
}

// Value implements [database/sql/driver.Valuer].
func (n Int64) Value() (driver.Value, error) {
	return int64(n), nil
}

func (n *Int64) scanText(text string) error {
	if strings.TrimSpace(text) == "" {
		*n = 0
		return nil
	}
	value, err := ParseInt64(text)
	if err != nil {
		return err
	}
	*n = Int64(value)
	return nil
}

// ParseInt64 parses a decimal integer. Integral float notation ("12.0", "1e3") is
// accepted because loosely typed dumps emit counters that way. The conversion is exact:
// values outside the int64 range and fractions are rejected, never rounded.
func ParseInt64(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if value, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value, nil
	}

	if text == "" || strings.IndexFunc(text, notDecimal) >= 0 {
		return 0, fmt.Errorf("wire: %q is not an integer", text)
	}

	// The float only bounds the magnitude before the exact parse; float64(MaxInt64) is 2^63.
	float, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("wire: %q is not an integer", text)
	}
	if err != nil || float >= math.MaxInt64 || float < math.MinInt64 {
		return 0, fmt.Errorf("wire: %q overflows int64", text)
	}

	exact, ok := new(big.Rat).SetString(text)
	if !ok || !exact.IsInt() {
		return 0, fmt.Errorf("wire: %q is not an integer", text)
	}
	if !exact.Num().IsInt64() {
		return 0, fmt.Errorf("wire: %q overflows int64", text)
	}
	return exact.Num().Int64(), nil
}

// notDecimal reports runes outside plain decimal and exponent notation.
func notDecimal(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.', r == 'e', r == 'E', r == '+', r == '-':
		return false
	}
	return true
}
