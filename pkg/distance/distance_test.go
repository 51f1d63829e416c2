package distance_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/junction/pkg/distance"
	"github.com/matzehuels/junction/pkg/junction"
)

// randomPoints returns n distinct points drawn from a fixed seed.
func randomPoints(n int, seed int64) []junction.Point {
	r := rand.New(rand.NewSource(seed))
	seen := make(map[string]bool, n)
	points := make([]junction.Point, 0, n)
	for len(points) < n {
		x, y, z := r.Int63n(50), r.Int63n(50), r.Int63n(50)
		key := fmt.Sprintf("%d,%d,%d", x, y, z)
		if seen[key] {
			continue
		}
		seen[key] = true
		points = append(points, junction.Point{Key: key, Index: len(points), X: x, Y: y, Z: z})
	}
	return points
}

func mustParse(t *testing.T, records ...string) []junction.Point {
	t.Helper()
	points := make([]junction.Point, len(records))
	for i, r := range records {
		p, err := junction.ParsePoint(r, i)
		require.NoError(t, err)
		points[i] = p
	}
	return points
}

func build(t *testing.T, points []junction.Point, workers int) *distance.Index {
	t.Helper()
	idx, err := distance.Build(context.Background(), points, distance.Options{Workers: workers})
	require.NoError(t, err)
	return idx
}

func TestPairCount(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 0, 2: 1, 3: 3, 10: 45, 1000: 499500} {
		assert.Equal(t, want, distance.PairCount(n), "n=%d", n)
	}
}

// TestBuild_EveryPairOnce checks that n·(n−1)/2 edges are produced and no
// pair is missing or repeated.
func TestBuild_EveryPairOnce(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 130} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			points := randomPoints(n, 7)
			idx := build(t, points, 4)

			edges := idx.Edges()
			require.Len(t, edges, n*(n-1)/2)
			assert.Equal(t, len(edges), idx.Len())

			seen := make(map[[2]int]bool, len(edges))
			for _, e := range edges {
				lo, hi := min(e.A, e.B), max(e.A, e.B)
				require.NotEqual(t, lo, hi, "self pair")
				pair := [2]int{lo, hi}
				require.False(t, seen[pair], "pair %v repeated", pair)
				seen[pair] = true
				assert.Equal(t, points[lo].DistanceSquared(points[hi]), e.Weight)
			}
		})
	}
}

func TestWeight_SymmetricAndIdempotent(t *testing.T) {
	points := mustParse(t, "0,0,0", "0,0,1", "0,0,3")
	idx := build(t, points, 1)

	assert.Equal(t, int64(1), idx.Weight(0, 1))
	assert.Equal(t, int64(4), idx.Weight(1, 2))
	assert.Equal(t, int64(9), idx.Weight(0, 2))
	assert.Equal(t, idx.Weight(0, 2), idx.Weight(2, 0))
	assert.Equal(t, int64(0), idx.Weight(1, 1))

	again := build(t, points, 3)
	assert.Equal(t, idx.Edges(), again.Edges())
}

func TestEdge_EndpointsInKeyOrder(t *testing.T) {
	// Input order is the reverse of key order.
	points := mustParse(t, "9,0,0", "5,0,0", "1,0,0")
	idx := build(t, points, 1)

	for _, e := range idx.Edges() {
		assert.Less(t, points[e.A].Key, points[e.B].Key)
	}
	assert.Equal(t, "1,0,0:5,0,0", idx.CanonicalKey(idx.Sorted()[0]))
}

func TestSorted_NonDecreasing(t *testing.T) {
	idx := build(t, randomPoints(200, 11), 0)
	sorted := idx.Sorted()
	require.Len(t, sorted, distance.PairCount(200))

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		require.LessOrEqual(t, prev.Weight, cur.Weight, "position %d", i)
		if prev.Weight == cur.Weight {
			require.Less(t, idx.CanonicalKey(prev), idx.CanonicalKey(cur), "tie at position %d", i)
		}
	}
}

func TestSorted_TieBreakByCanonicalKey(t *testing.T) {
	// a–b and b–c both weigh 1; a–c weighs 4.
	points := mustParse(t, "0,0,2", "0,0,1", "0,0,0")
	idx := build(t, points, 1)

	var got []string
	for _, e := range idx.Sorted() {
		got = append(got, idx.CanonicalKey(e))
	}
	assert.Equal(t, []string{"0,0,0:0,0,1", "0,0,1:0,0,2", "0,0,0:0,0,2"}, got)
}

// TestSorted_JoinedKeyComparison covers keys where one is a prefix of another:
// the comparison is on the joined string, so "1,2,30:…" sorts before "1,2,3:…".
func TestSorted_JoinedKeyComparison(t *testing.T) {
	points := mustParse(t, "1,2,3", "2,2,3", "1,2,30", "2,2,30")
	idx := build(t, points, 1)

	sorted := idx.Sorted()
	require.Equal(t, int64(1), sorted[0].Weight)
	require.Equal(t, int64(1), sorted[1].Weight)
	assert.Equal(t, "1,2,30:2,2,30", idx.CanonicalKey(sorted[0]))
	assert.Equal(t, "1,2,3:2,2,3", idx.CanonicalKey(sorted[1]))
	assert.Less(t, idx.CanonicalKey(sorted[0]), idx.CanonicalKey(sorted[1]))
}

func TestSorted_StableAcrossCallsAndWorkers(t *testing.T) {
	points := randomPoints(300, 3)
	one := build(t, points, 1)
	many := build(t, points, 8)

	first := one.Sorted()
	assert.Equal(t, first, one.Sorted())
	assert.Equal(t, first, many.Sorted())

	// Callers get a copy.
	first[0] = distance.Edge{}
	assert.NotEqual(t, first[0], one.Sorted()[0])
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := distance.Build(ctx, randomPoints(100, 1), distance.Options{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitCanonicalKey(t *testing.T) {
	a, b, ok := distance.SplitCanonicalKey("1,2,3:4,5,6")
	require.True(t, ok)
	assert.Equal(t, "1,2,3", a)
	assert.Equal(t, "4,5,6", b)
}

// TestWeight_ExtremeCoordinates uses opposite corners of the accepted
// coordinate range: the weight must stay positive and order after a short pair.
func TestWeight_ExtremeCoordinates(t *testing.T) {
	const m = junction.MaxCoordinate
	far := fmt.Sprintf("%d,%d,%d", m, m, m)
	near := fmt.Sprintf("%d,%d,%d", m-1, m, m)
	opposite := fmt.Sprintf("%d,%d,%d", -m, -m, -m)
	idx := build(t, mustParse(t, opposite, far, near), 1)

	want := int64(3) * (2 * m) * (2 * m)
	assert.Equal(t, want, idx.Weight(0, 1))
	assert.Positive(t, idx.Weight(0, 1))

	sorted := idx.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, int64(1), sorted[0].Weight)
	for _, e := range sorted {
		assert.Positive(t, e.Weight)
	}
	assert.LessOrEqual(t, sorted[1].Weight, sorted[2].Weight)
}
