// Package store persists saved charts: a named portfolio snapshot together
// with the layout options used to render it.
//
// Two backends are provided: MemoryStore for tests and single-process CLI
// usage, and MongoStore for the server. Both implement the Store interface.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/portfolio"
)

// Chart is a saved portfolio snapshot with its layout settings.
type Chart struct {
	ID        string              `json:"id" bson:"_id"`
	Name      string              `json:"name" bson:"name"`
	Portfolio portfolio.Portfolio `json:"portfolio" bson:"portfolio"`
	Grouping  string              `json:"grouping,omitempty" bson:"grouping,omitempty"`
	Width     float64             `json:"width,omitempty" bson:"width,omitempty"`
	Height    float64             `json:"height,omitempty" bson:"height,omitempty"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
}

// NewChart creates a chart with a fresh ID and timestamps.
func NewChart(name string, p portfolio.Portfolio) *Chart {
	now := time.Now().UTC()
	return &Chart{
		ID:        uuid.NewString(),
		Name:      name,
		Portfolio: p,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the chart before it is stored.
func (c *Chart) Validate() error {
	if err := errors.ValidateChartName(c.Name); err != nil {
		return err
	}
	if err := c.Portfolio.Validate(); err != nil {
		return err
	}
	if c.Grouping != "" {
		if err := errors.ValidateGrouping(c.Grouping); err != nil {
			return err
		}
	}
	return nil
}

// Store is the persistence interface for saved charts.
type Store interface {
	// Put inserts or replaces a chart by ID.
	Put(ctx context.Context, chart *Chart) error

	// Get retrieves a chart by ID. Returns CHART_NOT_FOUND if missing.
	Get(ctx context.Context, id string) (*Chart, error)

	// List returns all charts sorted by update time, newest first.
	List(ctx context.Context) ([]*Chart, error)

	// Delete removes a chart by ID. Returns CHART_NOT_FOUND if missing.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
