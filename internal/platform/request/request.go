// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/biblioteca/internal/platform/apperr"
	"github.com/taibuivan/biblioteca/internal/platform/constants"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

The body is capped at [constants.MaxRequestBody] and must hold exactly one JSON value.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}

	decoder := json.NewDecoder(io.LimitReader(request.Body, constants.MaxRequestBody))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}

	// Trailing garbage after the first value is a malformed payload.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.

chi matches on URL.RawPath when it is set and on the decoded URL.Path otherwise, so only
the first case needs unescaping. Either way "harry%20potter" reaches the service as
"harry potter" and "50%2520off" as "50%20off".
*/
func Param(request *http.Request, name string) string {
	raw := chi.URLParam(request, name)
	if request.URL.RawPath == "" {
		return raw
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return value
}

/*
RequiredParam returns a URL parameter that must be non-blank once trimmed.

Returns:
  - string: The trimmed value
  - error: VALIDATION_ERROR naming the parameter when it is blank
*/
func RequiredParam(request *http.Request, name string) (string, error) {
	value := strings.TrimSpace(Param(request, name))
	if value == "" {
		return "", validate.RequiredError(name, "This field is required")
	}
	return value, nil
}

/*
RequiredQuery returns a query parameter that must be non-blank once trimmed.
*/
func RequiredQuery(request *http.Request, name string) (string, error) {
	value := strings.TrimSpace(request.URL.Query().Get(name))
	if value == "" {
		return "", apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   name,
			Message: "This field is required",
		})
	}
	return value, nil
}
