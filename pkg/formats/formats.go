// Package formats normalizes heterogeneous agent backend responses into
// payloads the chart, grid, and document views can consume.
//
// Agent responses arrive in no reliable shape: sometimes typed JSON,
// sometimes a JSON envelope ({"data": ...}, {"result": ...}), sometimes
// prose with a fenced JSON block, sometimes a markdown table. Each
// normalizer runs a fallback cascade over these shapes, most structured
// first, and returns the first payload it can build:
//
//  1. Typed payload JSON
//  2. Envelope unwrapping (data/result/response/output/payload keys)
//  3. JSON embedded in text (fenced block, then first balanced value)
//  4. Markdown table
//  5. Last-resort per view (plain text for doc; error for chart and grid)
//
// Normalizers never panic on malformed input. Failures return structured
// errors with [errors.ErrCodeInvalidPayload].
package formats

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Point is a single labeled value in a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is a named sequence of points.
type Series struct {
	Name   string  `json:"name,omitempty"`
	Points []Point `json:"points"`
}

// ChartPayload is the normalized shape consumed by chart views.
type ChartPayload struct {
	Type   string   `json:"type,omitempty"`
	Title  string   `json:"title,omitempty"`
	Series []Series `json:"series"`
}

// Column describes one grid column.
type Column struct {
	Field string `json:"field"`
	Title string `json:"title,omitempty"`
}

// GridPayload is the normalized shape consumed by grid views.
type GridPayload struct {
	Columns []Column         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// DocPayload is the normalized shape consumed by document views.
type DocPayload struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// envelopeKeys are unwrapped, in order, when a JSON object does not match
// the target shape directly.
var envelopeKeys = []string{"data", "result", "response", "output", "payload"}

// maxEnvelopeDepth bounds envelope unwrapping so a self-referential payload
// cannot loop.
const maxEnvelopeDepth = 4

// unwrap peels one envelope layer off a decoded JSON object.
func unwrap(v any) (any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range envelopeKeys {
		if inner, ok := obj[key]; ok {
			return inner, true
		}
	}
	return nil, false
}

// decodeLoose parses data as JSON into untyped form.
// Numbers keep full precision via json.Number.
func decodeLoose(data []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// asFloat coerces a decoded JSON value to a float64. Strings are parsed
// leniently: currency symbols, thousands separators, and a trailing percent
// sign are stripped first, since agent backends frequently return formatted
// financial figures.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		s = strings.TrimPrefix(s, "$")
		s = strings.TrimPrefix(s, "€")
		s = strings.TrimPrefix(s, "£")
		s = strings.TrimSuffix(s, "%")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// asString coerces a decoded JSON value to a display string.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}
