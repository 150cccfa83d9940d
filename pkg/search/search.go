// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package search normalizes free-text catalog search terms.
//
// # Usage
//
// A term such as "  Harry   POTTER " becomes the tokens ["harry", "potter"]; every
// token must then be contained in the searched column. The same folding is registered
// as the sqlite `fold` function so both sides of the comparison agree.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// LikeEscape is the escape character used by [EscapeLike] patterns.
const LikeEscape = `\`

// Fold normalizes s to NFC and applies Unicode case folding.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC (composes "e" + combining acute into "é").
// 2. Applies full case folding ("É" → "é", "ß" → "ss").
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Tokens splits a search term on whitespace and folds every token.
// It returns nil for a blank term.
func Tokens(term string) []string {
	fields := strings.Fields(term)
	if len(fields) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, Fold(field))
	}
	return tokens
}

// EscapeLike escapes LIKE wildcards so a token matches literally.
func EscapeLike(token string) string {
	replacer := strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")
	return replacer.Replace(token)
}

// Contains returns the LIKE pattern matching any value containing token.
func Contains(token string) string {
	return "%" + EscapeLike(token) + "%"
}
