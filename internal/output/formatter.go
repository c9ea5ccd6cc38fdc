// Package output handles output formatting.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/hightemp/countrypick/internal/countries"
)

// Selection describes a committed country choice.
type Selection struct {
	CountryCode string    `json:"country_code" yaml:"country_code"`
	CountryName string    `json:"country_name" yaml:"country_name"`
	SelectedAt  time.Time `json:"selected_at,omitempty" yaml:"selected_at,omitempty"`
}

// NewSelection builds a selection from a country.
func NewSelection(c countries.Country, at time.Time) *Selection {
	return &Selection{
		CountryCode: c.CountryCode,
		CountryName: c.Name,
		SelectedAt:  at,
	}
}

// FormatText formats the selection as tab-separated text.
func (s *Selection) FormatText() string {
	name := s.CountryName
	if name == "" {
		name = "-"
	}
	return fmt.Sprintf("%s\t%s", s.CountryCode, name)
}

// FormatJSON formats the selection as JSON.
func (s *Selection) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatYAML formats the selection as YAML.
func (s *Selection) FormatYAML() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write prints the selection in the given format. "table" prints a
// single-row table.
func (s *Selection) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		out, err := s.FormatJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case "yaml":
		out, err := s.FormatYAML()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	case "table":
		return WriteTable(w, []countries.Country{{Name: s.CountryName, CountryCode: s.CountryCode}})
	default:
		_, err := fmt.Fprintln(w, s.FormatText())
		return err
	}
}

// WriteSuggestions prints a suggestion list in the given format.
// Text output is one "code<TAB>name" line per entry.
func WriteSuggestions(w io.Writer, list []countries.Country, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(list)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "table":
		return WriteTable(w, list)
	default:
		for _, c := range list {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", c.CountryCode, c.Name); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteTable renders countries as a table.
func WriteTable(w io.Writer, list []countries.Country) error {
	table := tablewriter.NewWriter(w)
	table.Header("CODE", "NAME")
	for _, c := range list {
		if err := table.Append(c.CountryCode, c.Name); err != nil {
			return err
		}
	}
	return table.Render()
}
