package distance

import (
	"fmt"
	"math"
)

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// L2 calculates the L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func L2(a, b []float64) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricSquaredL2 Metric = iota
	MetricL2
)

func (m Metric) String() string {
	switch m {
	case MetricSquaredL2:
		return "SquaredL2"
	case MetricL2:
		return "L2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricSquaredL2:
		return SquaredL2, nil
	case MetricL2:
		return L2, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
