// Package tabular reads the tab-separated tables the external NLP tool
// writes next to its output prefix.
package tabular

import (
	"fmt"
	"os"
	"strings"
)

// Row is one record of a delimited file, keyed by header name.
type Row map[string]string

// Get returns the value of the first key present in the row. The boolean
// reports whether any of the keys existed as a column.
func (r Row) Get(keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			return v, true
		}
	}
	return "", false
}

// NonEmpty returns the first non-empty value among the given keys, or "".
func (r Row) NonEmpty(keys ...string) string {
	for _, key := range keys {
		if v := r[key]; v != "" {
			return v
		}
	}
	return ""
}

// ReadFile parses a tab-separated file with a header row into a sequence of
// field-name to value mappings. Rows shorter than the header pad missing
// fields with the empty string; surplus fields are ignored.
//
// A missing or empty file yields no rows and no error: some of the tool's
// output files are optional depending on which sub-pipelines ran, and their
// absence means "no data", not failure.
func ReadFile(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}

	lines := strings.Split(content, "\n")
	headers := strings.Split(strings.TrimRight(lines[0], "\r"), "\t")

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		parts := strings.Split(strings.TrimRight(line, "\r"), "\t")
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(parts) {
				row[header] = parts[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
