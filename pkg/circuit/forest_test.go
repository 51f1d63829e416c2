package circuit_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/junction/pkg/circuit"
)

// checkPartition asserts that the live circuits partition exactly the set of
// points in touched, with no point in two circuits and the membership table
// agreeing with the snapshots.
func checkPartition(t *testing.T, f *circuit.Forest, touched map[int]bool) {
	t.Helper()

	seen := make(map[int]int)
	for _, c := range f.Circuits() {
		require.NotEmpty(t, c.Members, "live circuit %d is empty", c.ID)
		for _, p := range c.Members {
			prev, dup := seen[p]
			require.False(t, dup, "point %d in circuits %d and %d", p, prev, c.ID)
			seen[p] = c.ID

			id, ok := f.CircuitOf(p)
			require.True(t, ok)
			require.Equal(t, c.ID, id, "membership of point %d", p)
		}
	}

	require.Len(t, seen, len(touched))
	for p := range touched {
		_, ok := seen[p]
		require.True(t, ok, "connected point %d missing from circuits", p)
	}
	assert.Equal(t, len(touched), f.Connected())
}

func TestConnect_Created(t *testing.T) {
	f := circuit.New(4)

	r := f.Connect(0, 1)
	assert.Equal(t, circuit.Created, r.Outcome)
	assert.Equal(t, circuit.Unconnected, r.Absorbed)
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 2, f.Size(r.Circuit))
	assert.True(t, f.SameCircuit(0, 1))

	_, ok := f.CircuitOf(2)
	assert.False(t, ok)
}

func TestConnect_Extended(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want []int
	}{
		{"second point new", 1, 2, []int{0, 1, 2}},
		{"first point new", 2, 0, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := circuit.New(3)
			first := f.Connect(0, 1)

			r := f.Connect(tt.a, tt.b)
			assert.Equal(t, circuit.Extended, r.Outcome)
			assert.Equal(t, first.Circuit, r.Circuit)
			assert.Equal(t, 1, f.Len())
			assert.Equal(t, tt.want, f.Circuits()[0].Members)
		})
	}
}

// TestConnect_RedundantIsStructuralNoOp checks that connecting two points of
// the same circuit again leaves membership untouched.
func TestConnect_RedundantIsStructuralNoOp(t *testing.T) {
	f := circuit.New(3)
	f.Connect(0, 1)
	f.Connect(1, 2)
	before := f.Circuits()

	r := f.Connect(0, 2)
	assert.Equal(t, circuit.Redundant, r.Outcome)
	assert.False(t, r.Outcome.Changed())
	assert.Equal(t, before, f.Circuits())

	r = f.Connect(0, 2)
	assert.Equal(t, circuit.Redundant, r.Outcome)
	assert.Equal(t, before, f.Circuits())
}

func TestConnect_MergeLargerSurvives(t *testing.T) {
	f := circuit.New(5)
	small := f.Connect(0, 1).Circuit // {0,1}
	big := f.Connect(2, 3).Circuit   // {2,3}
	f.Connect(3, 4)                  // {2,3,4}

	r := f.Connect(0, 4)
	require.Equal(t, circuit.Merged, r.Outcome)
	assert.Equal(t, big, r.Circuit)
	assert.Equal(t, small, r.Absorbed)
	assert.False(t, f.Alive(small))
	assert.Equal(t, 0, f.Size(small))
	assert.Equal(t, 1, f.Len())

	got := f.Circuits()
	require.Len(t, got, 1)
	assert.Equal(t, big, got[0].ID)
	assert.Equal(t, []int{2, 3, 4, 0, 1}, got[0].Members)
}

func TestConnect_MergeTieFirstArgumentSurvives(t *testing.T) {
	f := circuit.New(4)
	left := f.Connect(0, 1).Circuit
	right := f.Connect(2, 3).Circuit

	r := f.Connect(3, 0)
	require.Equal(t, circuit.Merged, r.Outcome)
	assert.Equal(t, right, r.Circuit)
	assert.Equal(t, left, r.Absorbed)
	assert.Equal(t, []int{2, 3, 0, 1}, f.Circuits()[0].Members)
}

func TestCircuitIDsAreNotReused(t *testing.T) {
	f := circuit.New(6)
	a := f.Connect(0, 1).Circuit
	b := f.Connect(2, 3).Circuit
	f.Connect(0, 2) // absorbs b
	c := f.Connect(4, 5).Circuit

	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
	assert.Equal(t, []int{4, 2}, f.Sizes())
}

func TestUnified(t *testing.T) {
	f := circuit.New(3)
	assert.False(t, f.Unified())

	f.Connect(0, 1)
	assert.False(t, f.Unified())

	f.Connect(2, 1)
	assert.True(t, f.Unified())

	assert.False(t, circuit.New(1).Unified())
	assert.False(t, circuit.New(0).Unified())
}

func TestCircuitsSnapshotIsCopy(t *testing.T) {
	f := circuit.New(2)
	f.Connect(0, 1)

	snap := f.Circuits()
	snap[0].Members[0] = 99

	assert.Equal(t, []int{0, 1}, f.Circuits()[0].Members)
}

// TestConnect_PartitionInvariant applies random connections and checks the
// partition after every call.
func TestConnect_PartitionInvariant(t *testing.T) {
	const n = 60
	r := rand.New(rand.NewSource(42))
	f := circuit.New(n)
	touched := make(map[int]bool)

	for i := 0; i < 400; i++ {
		a, b := r.Intn(n), r.Intn(n)
		if a == b {
			continue
		}
		wantSize := 1
		if ca, okA := f.CircuitOf(a); okA {
			wantSize = f.Size(ca)
		}
		if cb, okB := f.CircuitOf(b); !okB {
			wantSize++
		} else if !f.SameCircuit(a, b) {
			wantSize += f.Size(cb)
		}

		res := f.Connect(a, b)
		touched[a], touched[b] = true, true

		require.True(t, f.SameCircuit(a, b))
		require.Equal(t, wantSize, f.Size(res.Circuit), "step %d (%v)", i, res.Outcome)
		checkPartition(t, f, touched)
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "created", circuit.Created.String())
	assert.Equal(t, "extended", circuit.Extended.String())
	assert.Equal(t, "redundant", circuit.Redundant.String())
	assert.Equal(t, "merged", circuit.Merged.String())
	assert.Equal(t, "unknown", circuit.Outcome(42).String())
}
