package venue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager resolves venues against a Table and caches each venue's catalog
// after its first load. All methods are safe for concurrent use.
type Manager struct {
	table  *Table
	source Source
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]*Catalog // slug → catalog
}

// NewManager creates a Manager.
//
// Precondition: table, source and logger must be non-nil.
func NewManager(table *Table, source Source, logger *zap.Logger) *Manager {
	return &Manager{
		table:  table,
		source: source,
		logger: logger,
		cache:  make(map[string]*Catalog),
	}
}

// Table returns the venue table.
func (m *Manager) Table() *Table { return m.table }

// Catalog returns the catalog for the venue named by key (display name or slug).
//
// Postcondition: Returns a cached or freshly loaded catalog, or an error
// wrapping ErrUnknownVenue or the source's error. Failed loads are not cached.
func (m *Manager) Catalog(ctx context.Context, key string) (*Catalog, error) {
	v, err := m.table.Resolve(key)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	cat, ok := m.cache[v.Slug]
	m.mu.RUnlock()
	if ok {
		return cat, nil
	}

	start := time.Now()
	cat, err = m.source.Catalog(ctx, v)
	if err != nil {
		m.logger.Warn("loading venue catalog",
			zap.String("venue", v.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("loading catalog for %q: %w", v.Name, err)
	}

	m.mu.Lock()
	if existing, ok := m.cache[v.Slug]; ok {
		cat = existing
	} else {
		m.cache[v.Slug] = cat
	}
	m.mu.Unlock()

	m.logger.Info("venue catalog loaded",
		zap.String("venue", v.Name),
		zap.Int("monsters", len(cat.Monsters)),
		zap.Int("encounters", len(cat.Encounters)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cat, nil
}

// Invalidate drops the cached catalog for the venue named by key, so the
// next Catalog call reloads it from the source.
//
// Postcondition: Returns an error wrapping ErrUnknownVenue if key names no venue.
func (m *Manager) Invalidate(key string) error {
	v, err := m.table.Resolve(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.cache, v.Slug)
	m.mu.Unlock()
	m.logger.Info("venue catalog invalidated", zap.String("venue", v.Name))
	return nil
}
