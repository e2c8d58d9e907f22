package errors

import (
	"strings"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"dot", false},
		{"bmp", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "bmp"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateGrouping(t *testing.T) {
	tests := []struct {
		grouping string
		wantErr  bool
	}{
		{"flat", false},
		{"sector", false},
		{"country", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateGrouping(tt.grouping)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGrouping(%q) error = %v, wantErr %v", tt.grouping, err, tt.wantErr)
		}
	}
}

func TestValidateView(t *testing.T) {
	for _, view := range []string{"chart", "grid", "doc"} {
		if err := ValidateView(view); err != nil {
			t.Errorf("ValidateView(%q) should pass: %v", view, err)
		}
	}
	if err := ValidateView("table"); err == nil {
		t.Error("unknown view should fail")
	}
}

func TestValidateChartName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Q3 allocation", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 257), true},
		{"control character", "bad\x00name", true},
		{"max length ok", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChartName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChartName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
