package snapshotdb

import (
	"fmt"
	"strconv"
	"strings"
)

// Row maps column names to scanned values.
type Row map[string]any

// String returns the column as text. NULL and missing columns are "".
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the column as an integer, parsing text when needed.
func (r Row) Int(col string) (int64, bool) {
	switch v := r[col].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string, []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(r.String(col)), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Float returns the column as a float, parsing text when needed.
func (r Row) Float(col string) (float64, bool) {
	switch v := r[col].(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string, []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.String(col)), 64)
		return f, err == nil
	}
	return 0, false
}

// Null reports whether the column is NULL or missing.
func (r Row) Null(col string) bool {
	return r[col] == nil
}
