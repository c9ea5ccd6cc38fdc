// Package countries provides the Country type, the embedded ISO-3166
// dataset and the loaders that deliver a country list to the picker.
package countries

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed iso3166.csv
var iso3166Data []byte

// Country is a selectable name/code pair. Name is the display and match key,
// CountryCode is passed on untouched to whoever consumes the selection.
type Country struct {
	Name        string `json:"name" yaml:"name"`
	CountryCode string `json:"countryCode" yaml:"countryCode"`
}

var (
	embedded   []Country
	codeToName map[string]string
	once       sync.Once
)

func loadData() {
	once.Do(func() {
		list, err := ParseList(iso3166Data, FormatCSV)
		if err != nil {
			panic("countries: embedded dataset: " + err.Error())
		}
		embedded = list
		codeToName = make(map[string]string, len(list))
		for _, c := range list {
			codeToName[strings.ToUpper(c.CountryCode)] = c.Name
		}
	})
}

// All returns a copy of the embedded country list in dataset order.
func All() []Country {
	loadData()
	result := make([]Country, len(embedded))
	copy(result, embedded)
	return result
}

// GetName returns the country name for the given ISO-3166 alpha-2 code.
// Returns empty string if not found.
func GetName(code string) string {
	loadData()
	return codeToName[strings.ToUpper(code)]
}

// IsValid checks if the given code is a known ISO-3166 alpha-2 code.
func IsValid(code string) bool {
	loadData()
	_, ok := codeToName[strings.ToUpper(code)]
	return ok
}

// Count returns the number of embedded countries.
func Count() int {
	loadData()
	return len(embedded)
}
