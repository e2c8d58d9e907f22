// Package pipeline provides the core layout pipeline for Mosaic.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate a portfolio from a file or inline document
//  2. Layout: Compute squarified treemap positions for every position
//  3. Render: Generate output in various formats (SVG, PNG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:   "portfolio.json",
//	    Grouping: "sector",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	p, err := runner.Load(ctx, opts)
//
//	// Layout with an existing portfolio
//	layout, err := runner.GenerateLayout(ctx, p, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, layout, p, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mosaicviz/mosaic/pkg/cache"
	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/portfolio"
	"github.com/mosaicviz/mosaic/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// DefaultGrouping is the default grouping mode.
	DefaultGrouping = GroupingSector

	// DefaultPadding is the default inset between a sector outline and the
	// tiles inside it, in pixels. Only applies to grouped layouts.
	DefaultPadding = 4.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Grouping constants.
const (
	GroupingFlat   = "flat"
	GroupingSector = "sector"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source   string `json:"source,omitempty"`   // portfolio file path (.json or .toml)
	Manifest string `json:"manifest,omitempty"` // inline portfolio JSON document
	Refresh  bool   `json:"refresh,omitempty"`  // bypass the load cache

	// Layout options
	Grouping string  `json:"grouping,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Padding  float64 `json:"padding,omitempty"`
	MaxDepth int     `json:"max_depth,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Title    string   `json:"title,omitempty"` // defaults to the portfolio name
	NoLabels bool     `json:"no_labels,omitempty"`
	Hover    bool     `json:"hover,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // include values in DOT output

	// Runtime options (not serialized)
	Portfolio *portfolio.Portfolio `json:"-"` // pre-loaded portfolio, skips the load stage
	Logger    *log.Logger          `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Portfolio is the loaded, validated portfolio.
	Portfolio portfolio.Portfolio

	// PortfolioHash is the content hash of the normalized portfolio.
	PortfolioHash string

	// Layout contains the positioned tiles.
	Layout render.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PositionCount int
	SectorCount   int
	TileCount     int
	LoadTime      time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the portfolio came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" && o.Manifest == "" && o.Portfolio == nil {
		return errors.New(errors.ErrCodeInvalidInput, "source, manifest, or portfolio is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Grouping == "" {
		o.Grouping = DefaultGrouping
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == 0 && o.Grouping == GroupingSector {
		o.Padding = DefaultPadding
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidBounds, "width and height must be non-negative")
	}
	return errors.ValidateGrouping(o.Grouping)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return errors.ValidateFormats(o.Formats)
}

// IsGrouped returns true if the layout nests positions under sectors.
func (o *Options) IsGrouped() bool {
	return o.Grouping == "" || o.Grouping == GroupingSector
}

// PortfolioKeyOpts returns cache key options for the load stage.
func (o *Options) PortfolioKeyOpts() cache.PortfolioKeyOpts {
	return cache.PortfolioKeyOpts{Format: sourceFormat(o.Source)}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		Grouping: o.Grouping,
		Padding:  o.Padding,
		MaxDepth: o.MaxDepth,
		Title:    o.Title,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Labels: !o.NoLabels,
		Hover:  o.Hover,
	}
}
