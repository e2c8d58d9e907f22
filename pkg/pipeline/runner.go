package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mosaicviz/mosaic/pkg/cache"
	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/observability"
	"github.com/mosaicviz/mosaic/pkg/portfolio"
	"github.com/mosaicviz/mosaic/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, sourceName(opts))
	p, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, sourceName(opts), positionCount(p), result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}
	result.Portfolio = *p
	result.Stats.PositionCount = len(p.Positions)
	result.Stats.SectorCount = len(p.GroupBySector())
	result.CacheInfo.LoadHit = loadHit

	// Compute portfolio hash for cache keys and API responses
	if data, err := p.Marshal(); err == nil {
		result.PortfolioHash = cache.Hash(data)
	}

	r.Logger.Info("loaded portfolio",
		"positions", result.Stats.PositionCount,
		"sectors", result.Stats.SectorCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Grouping, len(p.Positions))
	layout, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, p, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Grouping, len(layout.Tiles), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.TileCount = len(layout.Tiles)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"tiles", result.Stats.TileCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, p, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the portfolio with caching and returns cache hit info.
// Pre-loaded portfolios and inline manifests skip the cache: there is nothing
// cheaper than the document already in memory.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*portfolio.Portfolio, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if opts.Portfolio != nil || opts.Manifest != "" {
		p, err := Load(ctx, opts)
		return p, false, err
	}

	cacheKey := r.Keyer.PortfolioKey(cache.Hash([]byte(opts.Source)), opts.PortfolioKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "portfolio")
			if p, err := portfolio.Unmarshal(data); err == nil {
				return p, true, nil // Cache hit
			}
		} else {
			observability.Cache().OnCacheMiss(ctx, "portfolio")
		}
	}

	p, err := Load(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the normalized document
	if data, err := p.Marshal(); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPortfolio)
		observability.Cache().OnCacheSet(ctx, "portfolio", len(data))
	}

	return p, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*portfolio.Portfolio, error) {
	p, _, err := r.LoadWithCacheInfo(ctx, opts)
	return p, err
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, p *portfolio.Portfolio, opts Options) (render.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return render.Layout{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the normalized portfolio
	data, _ := p.Marshal()
	portfolioHash := cache.Hash(data)
	cacheKey := r.Keyer.LayoutKey(portfolioHash, opts.LayoutKeyOpts())

	// Try cache first
	if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "layout")
		if l, err := unmarshalLayout(cached); err == nil {
			return l, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	} else {
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	layout, err := GenerateLayout(p, opts)
	if err != nil {
		return render.Layout{}, false, err
	}

	// Cache the result
	if data, err := marshalLayout(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return layout, false, nil // Cache miss
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, p *portfolio.Portfolio, opts Options) (render.Layout, error) {
	layout, _, err := r.GenerateLayoutWithCacheInfo(ctx, p, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout render.Layout, p *portfolio.Portfolio, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := marshalLayout(layout)
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		renderStart := time.Now()
		observability.Pipeline().OnRenderStart(ctx, format)
		data, err := renderFormat(layout, p, format, opts)
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(renderStart), err)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout render.Layout, p *portfolio.Portfolio, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, p, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func positionCount(p *portfolio.Portfolio) int {
	if p == nil {
		return 0
	}
	return len(p.Positions)
}
