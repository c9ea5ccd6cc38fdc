package countries

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialized country list format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the list format from a file extension.
// Unknown extensions are treated as CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// ParseList decodes a country list. Entries without a name or a code are
// skipped; order is preserved.
//
// CSV rows are "code,name" with '#' comments and an optional header row.
// JSON accepts [{"name": "...", "countryCode": "..."}] as well as REST
// Countries records ({"name": {"common": "..."}, "cca2": "..."}).
// YAML is a sequence of {name, countryCode} mappings.
func ParseList(data []byte, format Format) ([]Country, error) {
	switch format {
	case FormatCSV:
		return parseCSV(data)
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

func parseCSV(data []byte) ([]Country, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	result := make([]Country, 0, 256)
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		if len(record) < 2 {
			continue
		}
		result = appendValid(result, record[1], record[0])
	}
	return result, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(record[0])) {
	case "code", "countrycode", "country_code":
		return true
	}
	return false
}

// jsonRecord accepts both the flat shape and the REST Countries shape.
type jsonRecord struct {
	Name        json.RawMessage `json:"name"`
	CountryCode string          `json:"countryCode"`
	CCA2        string          `json:"cca2"`
	Alpha2Code  string          `json:"alpha2Code"`
}

func (r jsonRecord) name() string {
	var s string
	if err := json.Unmarshal(r.Name, &s); err == nil {
		return s
	}
	var nested struct {
		Common string `json:"common"`
	}
	if err := json.Unmarshal(r.Name, &nested); err == nil {
		return nested.Common
	}
	return ""
}

func (r jsonRecord) code() string {
	switch {
	case r.CountryCode != "":
		return r.CountryCode
	case r.CCA2 != "":
		return r.CCA2
	default:
		return r.Alpha2Code
	}
}

func parseJSON(data []byte) ([]Country, error) {
	var records []jsonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	result := make([]Country, 0, len(records))
	for _, rec := range records {
		result = appendValid(result, rec.name(), rec.code())
	}
	return result, nil
}

func parseYAML(data []byte) ([]Country, error) {
	var records []Country
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	result := make([]Country, 0, len(records))
	for _, rec := range records {
		result = appendValid(result, rec.Name, rec.CountryCode)
	}
	return result, nil
}

func appendValid(list []Country, name, code string) []Country {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" || code == "" {
		return list
	}
	return append(list, Country{Name: name, CountryCode: code})
}
