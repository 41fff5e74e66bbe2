// Package tabular parses delimited text with a header row into named-field
// records.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/monitor/pkg/metrics"
)

var bom = []byte("\xef\xbb\xbf")

// ParseError reports malformed tabular input. No partial data accompanies it.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tabular: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Record maps header names to cell values.
type Record map[string]string

// Get returns the trimmed value of the named field, or "".
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// First returns the first non-empty value among fields.
func (r Record) First(fields ...string) string {
	for _, f := range fields {
		if v := r.Get(f); v != "" {
			return v
		}
	}
	return ""
}

// Parse reads comma-separated data. The first row names the fields; blank
// rows are skipped and short rows read missing cells as "".
func Parse(data []byte) ([]Record, error) {
	return ParseDelimited(data, ',')
}

// ParseDelimited is Parse with a custom delimiter.
func ParseDelimited(data []byte, delim rune) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom)))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.ReuseRecord = false

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, parseError(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	out := make([]Record, 0)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		if blank(row) {
			continue
		}
		rec := make(Record, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseError(err error) error {
	metrics.RecordParseFailure("tabular")
	line := 0
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		line = ce.Line
	}
	return &ParseError{Line: line, Err: err}
}
