// Package reduce derives the final answer of a connection run.
//
// A budget run is summarized by [TopProduct] over the sizes of its circuits;
// a unify run by [EndpointProduct] over the two endpoints of the edge that
// joined the last two circuits. [Summarize] adds descriptive statistics over
// circuit sizes for reports.
package reduce

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/junction/pkg/circuit"
	"github.com/matzehuels/junction/pkg/junction"
)

// DefaultTop is the number of largest circuits multiplied for a budget run.
const DefaultTop = 3

// TopProduct multiplies the sizes of the k largest circuits. Missing
// circuits count as 1, so an empty forest yields 1. Sizes are at most the
// point count n, so the product for k = 3 is at most n³.
func TopProduct(circuits []circuit.Circuit, k int) int64 {
	sizes := make([]int, len(circuits))
	for i, c := range circuits {
		sizes[i] = c.Size()
	}
	return TopSizeProduct(sizes, k)
}

// TopSizeProduct is TopProduct over bare sizes.
func TopSizeProduct(sizes []int, k int) int64 {
	sorted := slices.Clone(sizes)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })

	product := int64(1)
	for i := 0; i < k && i < len(sorted); i++ {
		product *= int64(sorted[i])
	}
	return product
}

// EndpointProduct multiplies the X coordinates of two points. For
// coordinates within junction.MaxCoordinate it cannot overflow.
func EndpointProduct(a, b junction.Point) int64 {
	return a.X * b.X
}

// Summary describes the circuit structure at the end of a run.
type Summary struct {
	Points      int     `json:"points"`
	Circuits    int     `json:"circuits"`
	Largest     int     `json:"largest"`
	Unconnected int     `json:"unconnected"`
	MeanSize    float64 `json:"mean_size"`
	StdDevSize  float64 `json:"stddev_size"`
}

// Summarize computes statistics over the circuits of a forest of n points.
// The standard deviation is the sample deviation and is 0 for fewer than
// two circuits.
func Summarize(circuits []circuit.Circuit, n int) Summary {
	s := Summary{Points: n, Circuits: len(circuits), Unconnected: n}
	if len(circuits) == 0 {
		return s
	}

	sizes := make([]float64, len(circuits))
	for i, c := range circuits {
		size := c.Size()
		sizes[i] = float64(size)
		s.Unconnected -= size
		s.Largest = max(s.Largest, size)
	}

	s.MeanSize = stat.Mean(sizes, nil)
	if len(sizes) > 1 {
		s.StdDevSize = stat.StdDev(sizes, nil)
	}
	if math.IsNaN(s.StdDevSize) {
		s.StdDevSize = 0
	}
	return s
}
