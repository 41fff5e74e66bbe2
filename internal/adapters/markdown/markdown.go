// Package markdown treats text resources as opaque bodies.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for markdown payloads.
var (
	ErrHTML  = errors.New("payload is an HTML page")
	ErrEmpty = errors.New("payload is empty")
)

// IsHTML reports whether data looks like an HTML page rather than text.
// Static hosts answer unknown paths with their index page.
func IsHTML(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype")) || bytes.HasPrefix(head, []byte("<html"))
}

// Parse returns data as text. HTML pages and blank payloads are rejected.
func Parse(name string, data []byte) (string, error) {
	if IsHTML(data) {
		return "", fmt.Errorf("%s: %w", name, ErrHTML)
	}
	text := string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}
