package formats

import "testing"

func TestBalancedValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"simple object", `{"a": 1} trailing`, `{"a": 1}`, true},
		{"nested", `{"a": {"b": [1, 2]}}`, `{"a": {"b": [1, 2]}}`, true},
		{"brace in string", `{"a": "}"}`, `{"a": "}"}`, true},
		{"escaped quote", `{"a": "\"}"}`, `{"a": "\"}"}`, true},
		{"unterminated", `{"a": 1`, "", false},
		{"array", `[1, 2] rest`, `[1, 2]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := balancedValue(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("balancedValue(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExtractJSONPrefersFencedBlock(t *testing.T) {
	// An inline object appears before the fence, but the fence wins.
	text := "see {\"inline\": true} or:\n```json\n{\"fenced\": true}\n```"
	v, ok := extractJSON(text)
	if !ok {
		t.Fatal("extractJSON failed")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("extracted %T", v)
	}
	if _, fenced := obj["fenced"]; !fenced {
		t.Errorf("expected fenced block to win, got %v", obj)
	}
}

func TestExtractJSONNothing(t *testing.T) {
	if _, ok := extractJSON("no json here {broken"); ok {
		t.Error("extractJSON should fail on unparseable text")
	}
}

func TestParseMarkdownTable(t *testing.T) {
	text := `Intro line.

| Name | Value |
|:-----|------:|
| a    | 1     |
| b    | 2     |

Closing remarks.`

	table, ok := parseMarkdownTable(text)
	if !ok {
		t.Fatal("parseMarkdownTable failed")
	}
	if len(table.headers) != 2 || table.headers[0] != "Name" {
		t.Errorf("headers = %v", table.headers)
	}
	if len(table.rows) != 2 || table.rows[1][1] != "2" {
		t.Errorf("rows = %v", table.rows)
	}
}

func TestParseMarkdownTableRagged(t *testing.T) {
	// Short rows are padded, long rows trimmed, to the header width.
	text := `| A | B | C |
|---|---|---|
| 1 | 2 |
| 1 | 2 | 3 | 4 |`

	table, ok := parseMarkdownTable(text)
	if !ok {
		t.Fatal("parseMarkdownTable failed")
	}
	for i, row := range table.rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(row))
		}
	}
}

func TestParseMarkdownTableAbsent(t *testing.T) {
	for _, text := range []string{
		"no pipes at all",
		"| header only |",
		"| header |\n| data without separator |",
	} {
		if _, ok := parseMarkdownTable(text); ok {
			t.Errorf("parseMarkdownTable(%q) should fail", text)
		}
	}
}
