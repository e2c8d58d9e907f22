package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mosaicviz/mosaic/pkg/portfolio"
)

// Load reads and validates the portfolio described by opts.
//
// Sources are resolved in priority order: a pre-loaded Portfolio, an inline
// Manifest document, then a Source file path. File extensions select the
// decoder (.toml for TOML, JSON otherwise).
func Load(ctx context.Context, opts Options) (*portfolio.Portfolio, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	var p *portfolio.Portfolio
	var err error

	switch {
	case opts.Portfolio != nil:
		p = opts.Portfolio
	case opts.Manifest != "":
		p, err = portfolio.Unmarshal([]byte(opts.Manifest))
	default:
		p, err = portfolio.ReadFile(opts.Source)
	}
	if err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// sourceFormat infers the portfolio document format from a source path.
func sourceFormat(source string) string {
	if strings.EqualFold(filepath.Ext(source), ".toml") {
		return "toml"
	}
	return "json"
}

// sourceName describes the load source for logging and hooks.
func sourceName(opts Options) string {
	switch {
	case opts.Portfolio != nil:
		return "inline"
	case opts.Manifest != "":
		return "manifest"
	default:
		return opts.Source
	}
}
