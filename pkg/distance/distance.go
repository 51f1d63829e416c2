// Package distance computes the complete set of pairwise squared Euclidean
// distances among junction boxes and orders them for processing.
//
// Weights are stored in a flat upper-triangular array addressed by dense
// point indices, so every unordered pair is computed exactly once and looked
// up without building string keys.
//
// # Ordering
//
// [Index.Sorted] orders edges by weight ascending. Edges of equal weight are
// ordered by their canonical key, the two endpoint keys sorted byte-wise and
// joined with ":" (see [Edge.CanonicalKey]). The order is total, so repeated
// runs over the same input process edges identically.
//
// # Concurrency
//
// [Build] shards the outer loop across worker goroutines. Each shard writes a
// disjoint range of the weight array; the points are only read. The resulting
// Index is immutable apart from the lazily cached sort, which is guarded.
package distance

import (
	"context"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/junction/pkg/junction"
)

// Separator joins the two endpoint keys of a canonical edge key.
const Separator = ":"

// minShardRows is the smallest number of outer rows given to one worker.
const minShardRows = 64

// Edge is an unordered pair of points with its squared distance.
// A is always the endpoint whose key sorts first.
type Edge struct {
	A      int   // Index of the endpoint with the smaller key
	B      int   // Index of the endpoint with the larger key
	Weight int64 // Squared Euclidean distance
}

// Options configures [Build].
type Options struct {
	// Workers is the number of goroutines computing weights.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int
}

// Index holds every pairwise weight of a point set.
type Index struct {
	points  []junction.Point
	weights []int64 // upper triangle, row-major, diagonal excluded

	once   sync.Once
	sorted []Edge
}

// Build computes the weights for every pair i < j of points.
// It only fails if ctx is cancelled.
func Build(ctx context.Context, points []junction.Point, opts Options) (*Index, error) {
	n := len(points)
	idx := &Index{
		points:  points,
		weights: make([]int64, PairCount(n)),
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if rows := (n + minShardRows - 1) / minShardRows; workers > rows {
		workers = max(rows, 1)
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			// Rows are dealt round-robin so early (long) rows spread evenly.
			for i := w; i < n; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				idx.fillRow(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) fillRow(i int) {
	a := idx.points[i]
	base := rowOffset(len(idx.points), i)
	for j := i + 1; j < len(idx.points); j++ {
		idx.weights[base+j-i-1] = a.DistanceSquared(idx.points[j])
	}
}

// PairCount returns n·(n−1)/2, the number of unordered pairs of n points.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// rowOffset is the position of pair (i, i+1) in the upper triangle.
func rowOffset(n, i int) int {
	return i*n - i*(i+1)/2
}

// Len returns the number of stored edges.
func (idx *Index) Len() int { return len(idx.weights) }

// Points returns the indexed points. The slice must not be modified.
func (idx *Index) Points() []junction.Point { return idx.points }

// Point returns the point with index i.
func (idx *Index) Point(i int) junction.Point { return idx.points[i] }

// Weight returns the stored squared distance between points i and j.
// The lookup is symmetric; Weight(i, i) is 0.
func (idx *Index) Weight(i, j int) int64 {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return idx.weights[rowOffset(len(idx.points), i)+j-i-1]
}

// Edges returns every edge in index order (i ascending, then j ascending).
func (idx *Index) Edges() []Edge {
	n := len(idx.points)
	edges := make([]Edge, 0, len(idx.weights))
	for i := 0; i < n; i++ {
		base := rowOffset(n, i)
		for j := i + 1; j < n; j++ {
			edges = append(edges, idx.edge(i, j, idx.weights[base+j-i-1]))
		}
	}
	return edges
}

// edge orients (i, j) so that A holds the smaller key.
func (idx *Index) edge(i, j int, w int64) Edge {
	if idx.points[j].Key < idx.points[i].Key {
		i, j = j, i
	}
	return Edge{A: i, B: j, Weight: w}
}

// Sorted returns the edges ordered by weight, then canonical key.
// The sort runs once; each call returns a fresh copy.
func (idx *Index) Sorted() []Edge {
	idx.once.Do(func() {
		edges := idx.Edges()
		slices.SortFunc(edges, idx.Compare)
		idx.sorted = edges
	})
	return slices.Clone(idx.sorted)
}

// Compare orders two edges of this index: weight first, then canonical key.
func (idx *Index) Compare(x, y Edge) int {
	if x.Weight != y.Weight {
		if x.Weight < y.Weight {
			return -1
		}
		return 1
	}
	return compareJoined(
		idx.points[x.A].Key, idx.points[x.B].Key,
		idx.points[y.A].Key, idx.points[y.B].Key,
	)
}

// CanonicalKey returns the canonical key of e, e.g. "0,0,0:0,0,1".
func (idx *Index) CanonicalKey(e Edge) string {
	return idx.points[e.A].Key + Separator + idx.points[e.B].Key
}

// compareJoined compares a1+":"+a2 with b1+":"+b2 byte-wise without
// allocating the joined strings.
func compareJoined(a1, a2, b1, b2 string) int {
	for i := 0; ; i++ {
		ca, okA := joinedByte(a1, a2, i)
		cb, okB := joinedByte(b1, b2, i)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return -1
		case !okB:
			return 1
		case ca != cb:
			if ca < cb {
				return -1
			}
			return 1
		}
	}
}

func joinedByte(s1, s2 string, i int) (byte, bool) {
	switch {
	case i < len(s1):
		return s1[i], true
	case i == len(s1):
		return Separator[0], true
	case i-len(s1)-1 < len(s2):
		return s2[i-len(s1)-1], true
	}
	return 0, false
}

// SplitCanonicalKey splits a canonical key into its endpoint keys.
// Point keys never contain the separator.
func SplitCanonicalKey(key string) (string, string, bool) {
	return strings.Cut(key, Separator)
}
