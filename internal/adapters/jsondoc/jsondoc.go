// Package jsondoc decodes JSON documents strictly and falls back to lenient
// field recovery when the payload is only JSON-like.
package jsondoc

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/okian/monitor/internal/domain/extract"
	"github.com/okian/monitor/pkg/metrics"
)

var fence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// Result is the outcome of Decode. When Strict is false, Value is zero and
// Recovered holds whatever fields could be salvaged from Text.
type Result[T any] struct {
	Value     T
	Strict    bool
	Recovered extract.Fields
	Text      string
}

// StripFence removes a surrounding markdown code fence.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// Decode attempts strict decoding of raw into T. It never fails: on a
// decode error the recovered fields are returned instead.
func Decode[T any](raw []byte) Result[T] {
	text := StripFence(string(raw))
	var r Result[T]
	r.Text = text
	if err := json.Unmarshal([]byte(text), &r.Value); err == nil {
		r.Strict = true
		return r
	}
	metrics.RecordParseFailure("json")
	var zero T
	r.Value = zero
	r.Recovered = extract.RecoverFields(text)
	if !r.Recovered.Empty() {
		metrics.RecordPayloadRecovered("json")
	}
	return r
}

// DecodeStrict decodes raw into T, stripping a code fence first.
func DecodeStrict[T any](raw []byte) (T, error) {
	var v T
	err := json.Unmarshal([]byte(StripFence(string(raw))), &v)
	return v, err
}
