// Package index provides the shared types for exact vector search indexes.
package index

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidK is returned when k is negative.
	ErrInvalidK = errors.New("k must be non-negative")

	// ErrClosed is returned when an index is queried after Close.
	ErrClosed = errors.New("index is closed")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrNonFinite indicates a NaN or infinite coordinate in an input buffer.
type ErrNonFinite struct {
	Offset int     // Offset is the flat position of the offending coordinate.
	Value  float64 // Value is the offending coordinate.
}

func (e *ErrNonFinite) Error() string {
	return fmt.Sprintf("non-finite coordinate %v at offset %d", e.Value, e.Offset)
}

// SearchResult represents a search result.
type SearchResult struct {
	// Index is the original data-point index of the neighbor.
	Index int

	// Distance is the Euclidean distance between the query and the neighbor.
	Distance float64
}

// Index is the interface shared by the exact search indexes.
type Index interface {
	// KNNSearch returns the min(k, n) nearest data points to query,
	// ascending by distance with ties broken by lower index.
	KNNSearch(query []float64, k int) ([]SearchResult, error)

	// NumPoints returns the number of indexed data points.
	NumPoints() int

	// Dimension returns the coordinate dimensionality.
	Dimension() int

	// Close releases internal storage. Close is idempotent.
	Close() error
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateData checks a flat row-major coordinate buffer against the
// configured dimension and returns the number of points it holds.
func ValidateData(data []float64, dimension int) (int, error) {
	if dimension <= 0 {
		return 0, &ErrInvalidDimension{Dimension: dimension}
	}
	if len(data)%dimension != 0 {
		return 0, fmt.Errorf("index: data length %d is not a multiple of dimension %d", len(data), dimension)
	}
	for i, v := range data {
		if !isFinite(v) {
			return 0, &ErrNonFinite{Offset: i, Value: v}
		}
	}
	return len(data) / dimension, nil
}

// ValidateQuery checks a single query vector against the configured dimension.
func ValidateQuery(query []float64, dimension int) error {
	if len(query) != dimension {
		return &ErrDimensionMismatch{Expected: dimension, Actual: len(query)}
	}
	for i, v := range query {
		if !isFinite(v) {
			return &ErrNonFinite{Offset: i, Value: v}
		}
	}
	return nil
}
