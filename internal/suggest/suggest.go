// Package suggest turns raw search text into a capped, ordered list of
// matching countries.
package suggest

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hightemp/countrypick/internal/countries"
)

// DefaultLimit is the maximum number of suggestions returned.
const DefaultLimit = 5

// Normalize lowercases s. It does not trim or fold diacritics, so "ö" only
// matches "ö".
func Normalize(s string) string {
	// A Caser keeps state and is not safe for concurrent use.
	return cases.Lower(language.Und).String(s)
}

// Match returns the first limit countries, in list order, whose lowercased
// name starts with the lowercased query. A limit below one means DefaultLimit.
func Match(list []countries.Country, query string, limit int) []countries.Country {
	return NewIndex(list).Match(query, limit)
}

// Index is a country list with its names already normalized.
type Index struct {
	list  []countries.Country
	names []string
}

// NewIndex builds an index over list. The list is not copied and must not
// be modified afterwards.
func NewIndex(list []countries.Country) *Index {
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = Normalize(c.Name)
	}
	return &Index{list: list, names: names}
}

// Len returns the number of indexed countries.
func (idx *Index) Len() int {
	return len(idx.list)
}

// Match is like the package-level Match over the indexed list.
func (idx *Index) Match(query string, limit int) []countries.Country {
	if limit < 1 {
		limit = DefaultLimit
	}
	q := Normalize(query)

	result := make([]countries.Country, 0, min(limit, len(idx.names)))
	for i, name := range idx.names {
		if !strings.HasPrefix(name, q) {
			continue
		}
		result = append(result, idx.list[i])
		if len(result) == limit {
			break
		}
	}
	return result
}
