package formats

import (
	"sort"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

// NormalizeGrid converts a raw agent response into a grid payload.
//
// The cascade, most structured first:
//  1. Typed grid JSON ({"columns": [...], "rows": [...]})
//  2. Envelope unwrapping
//  3. A bare array of row objects (columns inferred from row keys)
//  4. JSON embedded in surrounding text
//  5. A markdown table
func NormalizeGrid(raw []byte) (*GridPayload, error) {
	if v, ok := decodeLoose(raw); ok {
		if p, ok := gridFromValue(v, 0); ok {
			return p, nil
		}
	}

	text := string(raw)
	if v, ok := extractJSON(text); ok {
		if p, ok := gridFromValue(v, 0); ok {
			return p, nil
		}
	}
	if table, ok := parseMarkdownTable(text); ok {
		return gridFromTable(table), nil
	}

	return nil, errors.New(errors.ErrCodeInvalidPayload, "response contains no grid-shaped data")
}

// gridFromValue attempts every known grid shape on a decoded JSON value.
func gridFromValue(v any, depth int) (*GridPayload, bool) {
	switch val := v.(type) {
	case map[string]any:
		if p, ok := gridFromTyped(val); ok {
			return p, true
		}
		if depth < maxEnvelopeDepth {
			if inner, ok := unwrap(val); ok {
				return gridFromValue(inner, depth+1)
			}
		}
	case []any:
		return gridFromRowArray(val)
	}
	return nil, false
}

// gridFromTyped handles the canonical {"columns": [...], "rows": [...]} shape.
// Columns may be objects ({field, title}) or plain strings; when absent they
// are inferred from the rows.
func gridFromTyped(obj map[string]any) (*GridPayload, bool) {
	rawRows, ok := obj["rows"].([]any)
	if !ok {
		return nil, false
	}
	rows, ok := rowMaps(rawRows)
	if !ok {
		return nil, false
	}

	var columns []Column
	if rawCols, ok := obj["columns"].([]any); ok {
		for _, rc := range rawCols {
			switch c := rc.(type) {
			case string:
				columns = append(columns, Column{Field: c})
			case map[string]any:
				col := Column{}
				col.Field, _ = firstString(c, "field", "key", "id")
				col.Title, _ = firstString(c, "title", "label", "headerName")
				if col.Field == "" {
					return nil, false
				}
				columns = append(columns, col)
			default:
				return nil, false
			}
		}
	}
	if len(columns) == 0 {
		columns = inferColumns(rows)
	}
	if len(columns) == 0 {
		return nil, false
	}
	return &GridPayload{Columns: columns, Rows: rows}, true
}

// gridFromRowArray handles a bare array of row objects.
func gridFromRowArray(arr []any) (*GridPayload, bool) {
	rows, ok := rowMaps(arr)
	if !ok || len(rows) == 0 {
		return nil, false
	}
	columns := inferColumns(rows)
	if len(columns) == 0 {
		return nil, false
	}
	return &GridPayload{Columns: columns, Rows: rows}, true
}

// rowMaps requires every element to be an object.
func rowMaps(arr []any) ([]map[string]any, bool) {
	rows := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, false
		}
		rows = append(rows, obj)
	}
	return rows, true
}

// inferColumns derives the column set from the union of row keys, sorted
// for determinism.
func inferColumns(rows []map[string]any) []Column {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	columns := make([]Column, len(fields))
	for i, f := range fields {
		columns[i] = Column{Field: f}
	}
	return columns
}

// gridFromTable converts a markdown table: headers become columns, cells
// become row values. Numeric-looking cells are stored as floats so grid
// consumers can sort and aggregate them.
func gridFromTable(t *mdTable) *GridPayload {
	columns := make([]Column, len(t.headers))
	for i, h := range t.headers {
		columns[i] = Column{Field: h}
	}

	rows := make([]map[string]any, len(t.rows))
	for i, raw := range t.rows {
		row := make(map[string]any, len(t.headers))
		for j, h := range t.headers {
			if f, ok := asFloat(raw[j]); ok {
				row[h] = f
			} else {
				row[h] = raw[j]
			}
		}
		rows[i] = row
	}
	return &GridPayload{Columns: columns, Rows: rows}
}
