package formats

import (
	"regexp"
	"strings"
)

// fencedBlockRe matches a fenced code block, optionally tagged json.
var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\n(.*?)```")

// extractJSON pulls an embedded JSON value out of free-form text.
// It tries a fenced code block first, then the first balanced object or
// array found in the text. Returns false when neither parses.
func extractJSON(text string) (any, bool) {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		if v, ok := decodeLoose([]byte(strings.TrimSpace(m[1]))); ok {
			return v, true
		}
	}

	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		candidate, ok := balancedValue(text[i:])
		if !ok {
			continue
		}
		if v, ok := decodeLoose([]byte(candidate)); ok {
			return v, true
		}
		// A balanced span that failed to parse means the rest of the text
		// after it can still hold a valid value; skip past the opener only.
	}
	return nil, false
}

// balancedValue returns the shortest prefix of s that forms a balanced
// object or array, honoring string literals and escapes.
func balancedValue(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
			if depth < 0 {
				return "", false
			}
		}
	}
	return "", false
}

// mdTable is a parsed markdown table.
type mdTable struct {
	headers []string
	rows    [][]string
}

// mdSeparatorRe matches a markdown header separator row like |---|:---:|.
var mdSeparatorRe = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)

// parseMarkdownTable finds the first markdown table in text.
// A table is a header row, a separator row of dashes, and at least one data
// row, all pipe-delimited.
func parseMarkdownTable(text string) (*mdTable, bool) {
	lines := strings.Split(text, "\n")
	for i := 0; i+1 < len(lines); i++ {
		if !strings.Contains(lines[i], "|") {
			continue
		}
		if !mdSeparatorRe.MatchString(lines[i+1]) || !strings.Contains(lines[i+1], "-") {
			continue
		}

		headers := splitMarkdownRow(lines[i])
		if len(headers) == 0 {
			continue
		}

		var rows [][]string
		for j := i + 2; j < len(lines); j++ {
			if !strings.Contains(lines[j], "|") {
				break
			}
			row := splitMarkdownRow(lines[j])
			if len(row) == 0 {
				break
			}
			// Pad or trim to the header width.
			for len(row) < len(headers) {
				row = append(row, "")
			}
			rows = append(rows, row[:len(headers)])
		}
		if len(rows) == 0 {
			continue
		}
		return &mdTable{headers: headers, rows: rows}, true
	}
	return nil, false
}

// splitMarkdownRow splits a pipe-delimited row into trimmed cells,
// dropping the empty edge cells produced by leading/trailing pipes.
func splitMarkdownRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
