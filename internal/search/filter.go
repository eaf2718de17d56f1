// Package search filters comment records by a free-text query.
package search

import "strings"

// Filter returns the records containing query, compared case-insensitively, in
// their original order. An empty query returns every record.
func Filter(records []string, query string) []string {
	out := make([]string, 0, len(records))
	if query == "" {
		return append(out, records...)
	}

	needle := strings.ToLower(query)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r), needle) {
			out = append(out, r)
		}
	}
	return out
}
