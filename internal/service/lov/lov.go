// Package lov resolves named "list of values" sources into ordered
// (value, label) pairs. Static sources enumerate a closed set known at build
// time; dynamic sources execute a bound query against live data on every call.
package lov

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/SreeGowri/webutils/pkg/logger"
	"github.com/SreeGowri/webutils/pkg/types"
	"gorm.io/gorm"
)

var (
	// ErrUnknownLovType is returned when a static type identifier does not
	// match any registered enumeration.
	ErrUnknownLovType = errors.New("unknown static lov type")

	// ErrUnknownLovName is returned when a dynamic source name is unbound.
	ErrUnknownLovName = errors.New("unknown dynamic lov name")

	// ErrDuplicateLovSource is returned when a source name is registered twice.
	ErrDuplicateLovSource = errors.New("lov source is already registered")
)

// QueryFunc executes the query bound to a dynamic source and returns one
// entry per row, in the order the persistence layer produced them.
type QueryFunc func(ctx context.Context, db *gorm.DB) ([]types.ValueLabel, error)

// Service resolves static and dynamic LOV sources. Both variants share the
// return shape so callers need not know which variant served them.
type Service struct {
	db  *gorm.DB
	log logger.Logger

	mu          sync.RWMutex
	staticTypes map[string][]types.ValueLabel
	dynamic     map[string]QueryFunc
}

func NewService(db *gorm.DB, log logger.Logger) *Service {
	return &Service{
		db:          db,
		log:         log,
		staticTypes: make(map[string][]types.ValueLabel),
		dynamic:     make(map[string]QueryFunc),
	}
}

// RegisterStaticType binds a type identifier to its enumeration members, in
// declaration order. Entries with an empty label default to their value.
// Registration happens at startup; the resolved list is stable for the
// process lifetime.
func (s *Service) RegisterStaticType(name string, entries []types.ValueLabel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.staticTypes[name]; exists {
		return fmt.Errorf("%w: static type %s", ErrDuplicateLovSource, name)
	}
	normalized := make([]types.ValueLabel, len(entries))
	for i, e := range entries {
		if e.Label == "" {
			e.Label = e.Value
		}
		normalized[i] = e
	}
	s.staticTypes[name] = normalized
	return nil
}

// RegisterDynamicSource binds a source name to a query executed against live
// data on every resolution call.
func (s *Service) RegisterDynamicSource(name string, query QueryFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.dynamic[name]; exists {
		return fmt.Errorf("%w: dynamic source %s", ErrDuplicateLovSource, name)
	}
	s.dynamic[name] = query
	return nil
}

// ResolveStatic returns the entries of a registered enumeration, in
// declaration order. Repeated calls within one process return the same list.
func (s *Service) ResolveStatic(name string) ([]types.ValueLabel, error) {
	s.mu.RLock()
	entries, ok := s.staticTypes[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLovType, name)
	}
	return slices.Clone(entries), nil
}

// ResolveDynamic re-executes the query bound to the source name and returns
// its rows in persistence-layer order. Results are never cached: data deleted
// between calls disappears from the next resolution. Zero rows is a valid
// result, not an error.
func (s *Service) ResolveDynamic(ctx context.Context, name string) ([]types.ValueLabel, error) {
	s.mu.RLock()
	query, ok := s.dynamic[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLovName, name)
	}
	entries, err := query(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("dynamic lov %s failed: %w", name, err)
	}
	if entries == nil {
		entries = []types.ValueLabel{}
	}
	return entries, nil
}
