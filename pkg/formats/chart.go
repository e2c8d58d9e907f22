package formats

import (
	"sort"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

// NormalizeChart converts a raw agent response into a chart payload.
//
// The cascade, most structured first:
//  1. Typed chart JSON ({"series": [...]}), with optional type/title
//  2. Envelope unwrapping
//  3. Labels/values pairs ({"labels": [...], "values": [...]})
//  4. An array of {name|label, value} objects, or a flat name→number map
//  5. JSON embedded in surrounding text
//  6. A markdown table (first column labels, first numeric column values)
func NormalizeChart(raw []byte) (*ChartPayload, error) {
	if v, ok := decodeLoose(raw); ok {
		if p, ok := chartFromValue(v, 0); ok {
			return p, nil
		}
	}

	text := string(raw)
	if v, ok := extractJSON(text); ok {
		if p, ok := chartFromValue(v, 0); ok {
			return p, nil
		}
	}
	if table, ok := parseMarkdownTable(text); ok {
		if p, ok := chartFromTable(table); ok {
			return p, nil
		}
	}

	return nil, errors.New(errors.ErrCodeInvalidPayload, "response contains no chart-shaped data")
}

// chartFromValue attempts every known chart shape on a decoded JSON value.
func chartFromValue(v any, depth int) (*ChartPayload, bool) {
	switch val := v.(type) {
	case map[string]any:
		if p, ok := chartFromTyped(val); ok {
			return p, true
		}
		if p, ok := chartFromLabelsValues(val); ok {
			return p, true
		}
		if depth < maxEnvelopeDepth {
			if inner, ok := unwrap(val); ok {
				if p, ok := chartFromValue(inner, depth+1); ok {
					// Carry title/type hints from the envelope if the inner
					// payload has none.
					if p.Title == "" {
						p.Title, _ = asString(val["title"])
					}
					if p.Type == "" {
						p.Type, _ = asString(val["type"])
					}
					return p, true
				}
			}
		}
		if p, ok := chartFromFlatMap(val); ok {
			return p, true
		}
	case []any:
		if points, ok := pointsFromArray(val); ok {
			return &ChartPayload{Series: []Series{{Points: points}}}, true
		}
	}
	return nil, false
}

// chartFromTyped handles the canonical {"series": [...]} shape.
func chartFromTyped(obj map[string]any) (*ChartPayload, bool) {
	rawSeries, ok := obj["series"].([]any)
	if !ok || len(rawSeries) == 0 {
		return nil, false
	}

	p := &ChartPayload{}
	p.Type, _ = asString(obj["type"])
	p.Title, _ = asString(obj["title"])

	for _, rs := range rawSeries {
		sObj, ok := rs.(map[string]any)
		if !ok {
			return nil, false
		}
		s := Series{}
		s.Name, _ = asString(sObj["name"])

		rawPoints := sObj["points"]
		if rawPoints == nil {
			rawPoints = sObj["data"]
		}
		arr, ok := rawPoints.([]any)
		if !ok {
			return nil, false
		}
		points, ok := pointsFromArray(arr)
		if !ok {
			return nil, false
		}
		s.Points = points
		p.Series = append(p.Series, s)
	}
	return p, true
}

// chartFromLabelsValues handles parallel {"labels": [...], "values": [...]}.
func chartFromLabelsValues(obj map[string]any) (*ChartPayload, bool) {
	labels, ok := obj["labels"].([]any)
	if !ok {
		return nil, false
	}
	values, ok := obj["values"].([]any)
	if !ok || len(values) != len(labels) || len(values) == 0 {
		return nil, false
	}

	points := make([]Point, len(labels))
	for i := range labels {
		label, ok := asString(labels[i])
		if !ok {
			return nil, false
		}
		value, ok := asFloat(values[i])
		if !ok {
			return nil, false
		}
		points[i] = Point{Label: label, Value: value}
	}

	p := &ChartPayload{Series: []Series{{Points: points}}}
	p.Title, _ = asString(obj["title"])
	p.Type, _ = asString(obj["type"])
	return p, true
}

// chartFromFlatMap handles a plain name→number object. Keys are sorted for
// deterministic output, since Go map iteration order is random.
func chartFromFlatMap(obj map[string]any) (*ChartPayload, bool) {
	if len(obj) == 0 {
		return nil, false
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]Point, 0, len(keys))
	for _, k := range keys {
		v, ok := asFloat(obj[k])
		if !ok {
			return nil, false
		}
		points = append(points, Point{Label: k, Value: v})
	}
	return &ChartPayload{Series: []Series{{Points: points}}}, true
}

// pointsFromArray converts an array of point-shaped objects.
// Accepted element shapes: {label|name|x, value|y} objects, or [label, value]
// pairs.
func pointsFromArray(arr []any) ([]Point, bool) {
	if len(arr) == 0 {
		return nil, false
	}
	points := make([]Point, 0, len(arr))
	for _, el := range arr {
		switch e := el.(type) {
		case map[string]any:
			label, ok := firstString(e, "label", "name", "x")
			if !ok {
				return nil, false
			}
			value, ok := firstFloat(e, "value", "y", "amount")
			if !ok {
				return nil, false
			}
			points = append(points, Point{Label: label, Value: value})
		case []any:
			if len(e) < 2 {
				return nil, false
			}
			label, ok := asString(e[0])
			if !ok {
				return nil, false
			}
			value, ok := asFloat(e[1])
			if !ok {
				return nil, false
			}
			points = append(points, Point{Label: label, Value: value})
		default:
			return nil, false
		}
	}
	return points, true
}

// chartFromTable converts a markdown table: the first column supplies
// labels, the first column whose cells all parse as numbers supplies values.
func chartFromTable(t *mdTable) (*ChartPayload, bool) {
	if len(t.headers) < 2 {
		return nil, false
	}

	valueCol := -1
	for col := 1; col < len(t.headers); col++ {
		numeric := true
		for _, row := range t.rows {
			if _, ok := asFloat(row[col]); !ok {
				numeric = false
				break
			}
		}
		if numeric {
			valueCol = col
			break
		}
	}
	if valueCol == -1 {
		return nil, false
	}

	points := make([]Point, len(t.rows))
	for i, row := range t.rows {
		value, _ := asFloat(row[valueCol])
		points[i] = Point{Label: row[0], Value: value}
	}
	return &ChartPayload{Series: []Series{{Name: t.headers[valueCol], Points: points}}}, true
}

func firstString(obj map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if s, ok := asString(v); ok {
				return s, true
			}
		}
	}
	return "", false
}

func firstFloat(obj map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if f, ok := asFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}
