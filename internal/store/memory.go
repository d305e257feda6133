package store

import (
	"context"
	"fmt"

	"github.com/roach88/ctgraph/internal/transform"
)

var _ transform.ParameterSource = Memory(nil)

// Memory is a map-backed parameter source keyed by cleaned path.
type Memory map[string]transform.Parameters

// NewMemory creates an empty Memory.
func NewMemory() Memory {
	return make(Memory)
}

// Put stores parameters at path.
func (m Memory) Put(path string, p transform.Parameters) error {
	if err := checkShape(p); err != nil {
		return fmt.Errorf("put %q: %w", path, err)
	}
	m[CleanPath(path)] = p
	return nil
}

// Read implements transform.ParameterSource.
func (m Memory) Read(_ context.Context, path string) (transform.Parameters, error) {
	p, ok := m[CleanPath(path)]
	if !ok {
		return transform.Parameters{}, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return p, nil
}
