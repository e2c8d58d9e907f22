package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/observability"
)

// MemoryStore is an in-memory Store for tests and single-process usage.
type MemoryStore struct {
	mu     sync.RWMutex
	charts map[string]*Chart
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{charts: make(map[string]*Chart)}
}

// Put inserts or replaces a chart by ID.
func (s *MemoryStore) Put(ctx context.Context, chart *Chart) error {
	start := time.Now()
	err := s.put(chart)
	observability.Store().OnStoreOp(ctx, "put", time.Since(start), err)
	return err
}

func (s *MemoryStore) put(chart *Chart) error {
	if err := chart.Validate(); err != nil {
		return err
	}
	cp := *chart
	cp.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.charts[cp.ID] = &cp
	return nil
}

// Get retrieves a chart by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Chart, error) {
	start := time.Now()
	chart, err := s.get(id)
	observability.Store().OnStoreOp(ctx, "get", time.Since(start), err)
	return chart, err
}

func (s *MemoryStore) get(id string) (*Chart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chart, ok := s.charts[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeChartNotFound, "chart not found: %s", id)
	}
	cp := *chart
	return &cp, nil
}

// List returns all charts sorted by update time, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]*Chart, error) {
	start := time.Now()

	s.mu.RLock()
	charts := make([]*Chart, 0, len(s.charts))
	for _, chart := range s.charts {
		cp := *chart
		charts = append(charts, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(charts, func(i, j int) bool {
		if !charts[i].UpdatedAt.Equal(charts[j].UpdatedAt) {
			return charts[i].UpdatedAt.After(charts[j].UpdatedAt)
		}
		return charts[i].ID < charts[j].ID
	})

	observability.Store().OnStoreOp(ctx, "list", time.Since(start), nil)
	return charts, nil
}

// Delete removes a chart by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.delete(id)
	observability.Store().OnStoreOp(ctx, "delete", time.Since(start), err)
	return err
}

func (s *MemoryStore) delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.charts[id]; !ok {
		return errors.New(errors.ErrCodeChartNotFound, "chart not found: %s", id)
	}
	delete(s.charts, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
