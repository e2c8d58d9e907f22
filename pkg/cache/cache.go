// Package cache provides pluggable caching for pipeline stages.
//
// Three backends are available: FileCache for CLI usage, RedisCache for
// server deployments, and NullCache to disable caching entirely. Keys are
// derived through a Keyer so that every stage's inputs (portfolio content,
// layout parameters, render options) are part of the key.
package cache

import (
	"context"
	"time"
)

// Default TTLs per pipeline stage. Portfolio snapshots change most often,
// layouts are pure functions of their inputs, artifacts are cheap to keep.
const (
	TTLPortfolio = 1 * time.Hour
	TTLLayout    = 24 * time.Hour
	TTLArtifact  = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
// Get returns (data, found, error); a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PortfolioKeyOpts captures the inputs that affect portfolio loading.
type PortfolioKeyOpts struct {
	Format string
}

// LayoutKeyOpts captures the inputs that affect the computed layout,
// including the title baked into it.
type LayoutKeyOpts struct {
	Width    float64
	Height   float64
	Grouping string
	Padding  float64
	MaxDepth int
	Title    string
}

// ArtifactKeyOpts captures the inputs that affect rendered output.
type ArtifactKeyOpts struct {
	Format string
	Scale  float64
	Labels bool
	Hover  bool
}

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// PortfolioKey generates a key for normalized portfolio caching.
	PortfolioKey(sourceHash string, opts PortfolioKeyOpts) string

	// LayoutKey generates a key for layout caching.
	LayoutKey(portfolioHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for rendered artifact caching.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes stage inputs into keys of the form prefix:sha256hex.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PortfolioKey generates a key for normalized portfolio caching.
func (k *DefaultKeyer) PortfolioKey(sourceHash string, opts PortfolioKeyOpts) string {
	return hashKey("portfolio", sourceHash, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(portfolioHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", portfolioHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
