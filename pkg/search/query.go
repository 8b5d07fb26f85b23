// Package search filters vault files with a small query language:
// bare words, quoted phrases and the path:, file:, ext: and tag: operators.
// Terms are combined with AND; a leading '-' negates a term.
package search

import (
	"strings"
	"unicode"
)

// Field is what a term is matched against
type Field string

const (
	FieldAny       Field = ""          // Path, title or note text
	FieldPath      Field = "path"      // Vault-relative path
	FieldFile      Field = "file"      // File name
	FieldExtension Field = "extension" // Extension without the dot
	FieldTag       Field = "tag"       // Note tag; nested tags match their parent
)

// fieldAliases maps operator spellings to fields
var fieldAliases = map[string]Field{
	"path":      FieldPath,
	"file":      FieldFile,
	"ext":       FieldExtension,
	"extension": FieldExtension,
	"tag":       FieldTag,
}

// Term is one condition of a query. Value is lowercase.
type Term struct {
	Field  Field
	Value  string
	Negate bool
}

// Config is a parsed query
type Config struct {
	Query string
	Terms []Term
}

// Empty reports whether the query has no terms
func (c Config) Empty() bool {
	return len(c.Terms) == 0
}

// Parse splits a query into terms. Unknown operators are treated as plain
// words, so "a:b" searches for the text "a:b".
func Parse(query string) Config {
	config := Config{Query: query}

	for _, token := range tokenize(query) {
		term := Term{}

		if strings.HasPrefix(token, "-") && len(token) > 1 {
			term.Negate = true
			token = token[1:]
		}

		if name, value, ok := strings.Cut(token, ":"); ok {
			if field, known := fieldAliases[strings.ToLower(name)]; known {
				term.Field = field
				token = value
			}
		}

		value := strings.ToLower(unquote(token))
		switch term.Field {
		case FieldTag:
			value = strings.TrimPrefix(value, "#")
		case FieldExtension:
			value = strings.TrimPrefix(value, ".")
		}
		if value == "" {
			continue
		}

		term.Value = value
		config.Terms = append(config.Terms, term)
	}

	return config
}

// tokenize splits on whitespace outside double quotes. Quotes are kept.
func tokenize(query string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range query {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case unicode.IsSpace(r) && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func unquote(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
