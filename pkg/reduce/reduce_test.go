package reduce_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/junction/pkg/circuit"
	"github.com/matzehuels/junction/pkg/junction"
	"github.com/matzehuels/junction/pkg/reduce"
)

func circuitsOfSize(sizes ...int) []circuit.Circuit {
	out := make([]circuit.Circuit, len(sizes))
	next := 0
	for i, s := range sizes {
		members := make([]int, s)
		for j := range members {
			members[j] = next
			next++
		}
		out[i] = circuit.Circuit{ID: i, Members: members}
	}
	return out
}

func TestTopProduct(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		k     int
		want  int64
	}{
		{"empty", nil, 3, 1},
		{"single", []int{3}, 3, 3},
		{"two", []int{2, 5}, 3, 10},
		{"unsorted", []int{2, 5, 4, 3}, 3, 60},
		{"ties", []int{2, 2, 2, 2}, 3, 8},
		{"k zero", []int{7, 7}, 0, 1},
		{"k one", []int{4, 9, 1}, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reduce.TopProduct(circuitsOfSize(tt.sizes...), tt.k))
		})
	}
}

func TestTopSizeProduct_DoesNotReorderInput(t *testing.T) {
	sizes := []int{1, 3, 2}
	reduce.TopSizeProduct(sizes, 2)
	assert.Equal(t, []int{1, 3, 2}, sizes)
}

func TestEndpointProduct(t *testing.T) {
	a := junction.Point{Key: "216,146,977", X: 216}
	b := junction.Point{Key: "117,168,530", X: 117}
	assert.Equal(t, int64(25272), reduce.EndpointProduct(a, b))

	neg := junction.Point{X: -4}
	assert.Equal(t, int64(-8), reduce.EndpointProduct(neg, junction.Point{X: 2}))
}

func TestSummarize(t *testing.T) {
	s := reduce.Summarize(circuitsOfSize(4, 2), 10)
	assert.Equal(t, 10, s.Points)
	assert.Equal(t, 2, s.Circuits)
	assert.Equal(t, 4, s.Largest)
	assert.Equal(t, 4, s.Unconnected)
	assert.InDelta(t, 3.0, s.MeanSize, 1e-9)
	assert.InDelta(t, 1.4142135, s.StdDevSize, 1e-6)
}

func TestSummarize_Degenerate(t *testing.T) {
	empty := reduce.Summarize(nil, 5)
	assert.Equal(t, reduce.Summary{Points: 5, Unconnected: 5}, empty)

	one := reduce.Summarize(circuitsOfSize(3), 3)
	assert.Equal(t, 0, one.Unconnected)
	assert.Equal(t, 3.0, one.MeanSize)
	assert.Equal(t, 0.0, one.StdDevSize)
}

func ExampleTopProduct() {
	fmt.Println(reduce.TopProduct(circuitsOfSize(5, 4, 2, 2), reduce.DefaultTop))
	// Output: 40
}
