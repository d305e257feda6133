package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/ctgraph/internal/transform"
)

// ErrNotFound is returned when no parameter exists at a path.
var ErrNotFound = errors.New("parameter not found")

// ErrShapeMismatch is returned by Put when the shape does not match the data.
var ErrShapeMismatch = errors.New("shape does not match data")

var _ transform.ParameterSource = (*Store)(nil)

// CleanPath trims surrounding whitespace and slashes from a parameter path.
func CleanPath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

func checkShape(p transform.Parameters) error {
	if len(p.Shape) == 0 {
		return nil
	}
	n := 1
	for _, d := range p.Shape {
		if d <= 0 {
			return fmt.Errorf("%w: non-positive dimension in %v", ErrShapeMismatch, p.Shape)
		}
		n *= d
	}
	if n != len(p.Data) {
		return fmt.Errorf("%w: shape %v holds %d values, got %d", ErrShapeMismatch, p.Shape, n, len(p.Data))
	}
	return nil
}

// Put writes parameters at path, replacing any previous value.
func (s *Store) Put(ctx context.Context, path string, p transform.Parameters) error {
	path = CleanPath(path)
	if path == "" {
		return fmt.Errorf("put: empty path")
	}
	if err := checkShape(p); err != nil {
		return fmt.Errorf("put %q: %w", path, err)
	}

	shape := p.Shape
	if shape == nil {
		shape = []int{}
	}
	shapeJSON, err := json.Marshal(shape)
	if err != nil {
		return fmt.Errorf("marshal shape: %w", err)
	}
	dataJSON, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO parameters (path, shape, data) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET shape = excluded.shape, data = excluded.data
	`, path, string(shapeJSON), string(dataJSON))
	if err != nil {
		return fmt.Errorf("insert parameter %q: %w", path, err)
	}
	return nil
}

// Read implements transform.ParameterSource.
func (s *Store) Read(ctx context.Context, path string) (transform.Parameters, error) {
	path = CleanPath(path)

	var shapeJSON, dataJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT shape, data FROM parameters WHERE path = ?
	`, path).Scan(&shapeJSON, &dataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return transform.Parameters{}, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	if err != nil {
		return transform.Parameters{}, fmt.Errorf("query parameter %q: %w", path, err)
	}

	var p transform.Parameters
	if err := json.Unmarshal([]byte(shapeJSON), &p.Shape); err != nil {
		return transform.Parameters{}, fmt.Errorf("unmarshal shape of %q: %w", path, err)
	}
	if err := json.Unmarshal([]byte(dataJSON), &p.Data); err != nil {
		return transform.Parameters{}, fmt.Errorf("unmarshal data of %q: %w", path, err)
	}
	if len(p.Shape) == 0 {
		p.Shape = nil
	}
	return p, nil
}

// List returns all paths with the given prefix in byte order.
// An empty prefix lists everything.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	prefix = CleanPath(prefix)
	rows, err := s.db.QueryContext(ctx, `
		SELECT path FROM parameters
		WHERE substr(path, 1, length(?)) = ?
		ORDER BY path COLLATE BINARY ASC
	`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("query paths: %w", err)
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paths: %w", err)
	}
	return paths, nil
}

// Delete removes the parameter at path. Deleting a missing path returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, path string) error {
	path = CleanPath(path)
	res, err := s.db.ExecContext(ctx, `DELETE FROM parameters WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("delete parameter %q: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete parameter %q: %w", path, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return nil
}
