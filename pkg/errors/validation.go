package errors

import (
	"strings"
	"unicode"
)

// Supported output formats and grouping modes. These are the single source
// of truth used by the CLI, pipeline, and HTTP API.
var (
	ValidFormats   = map[string]bool{"svg": true, "png": true, "json": true, "dot": true}
	ValidGroupings = map[string]bool{"flat": true, "sector": true}
	ValidViews     = map[string]bool{"chart": true, "grid": true, "doc": true}
)

// ValidateFormat checks that an output format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGrouping checks that a grouping mode is supported.
func ValidateGrouping(grouping string) error {
	if !ValidGroupings[grouping] {
		return New(ErrCodeInvalidGrouping, "invalid grouping: %q (must be one of: flat, sector)", grouping)
	}
	return nil
}

// ValidateView checks that a normalization view is supported.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return New(ErrCodeInvalidPayload, "invalid view: %q (must be one of: chart, grid, doc)", view)
	}
	return nil
}

// ValidateChartName validates a saved-chart name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateChartName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "chart name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "chart name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "chart name contains invalid control characters")
		}
	}
	return nil
}
