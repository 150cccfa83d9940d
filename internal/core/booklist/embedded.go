package booklist

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Embedded documents are stored as JSON text by the loader. Anything that does not
// decode to the expected shape falls back to an empty value.

func decodeTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

func decodeCreator(raw string) Creator {
	var fields map[string]any
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil || fields == nil {
		return Creator{}
	}
	return Creator{Name: text(fields["name"]), ID: text(fields["id"])}
}

func decodeBooks(raw string) []ListBook {
	var books []ListBook
	if err := json.Unmarshal([]byte(raw), &books); err != nil || books == nil {
		return []ListBook{}
	}
	return books
}

// text renders a scalar JSON value as a string. Ids arrive as numbers or strings.
func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
