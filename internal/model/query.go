package model

import "strings"

// DefaultDelimiter separates keywords in a raw query string.
const DefaultDelimiter = " "

// Query is a conjunctive list of regular expression terms. A block matches
// only when every term matches, tested in order.
type Query struct {
	Terms         []string
	CaseSensitive bool
}

// ParseQuery splits raw on delimiter and drops empty fragments.
func ParseQuery(raw, delimiter string, caseSensitive bool) Query {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	var terms []string

	for _, term := range strings.Split(raw, delimiter) {
		if term == "" {
			continue
		}

		terms = append(terms, term)
	}

	return Query{Terms: terms, CaseSensitive: caseSensitive}
}
