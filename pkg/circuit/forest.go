package circuit

import "slices"

// Unconnected is the circuit ID of a point that has not taken part in any
// connection yet.
const Unconnected = -1

// Outcome is the structural effect of one [Forest.Connect] call.
type Outcome int

const (
	// Created means neither point was connected; a new circuit holds both.
	Created Outcome = iota
	// Extended means one point was connected; the other joined its circuit.
	Extended
	// Redundant means both points already shared a circuit; nothing changed.
	Redundant
	// Merged means the points were in different circuits, now one.
	Merged
)

var outcomeNames = [...]string{
	Created:   "created",
	Extended:  "extended",
	Redundant: "redundant",
	Merged:    "merged",
}

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Changed reports whether the outcome altered circuit membership.
func (o Outcome) Changed() bool { return o != Redundant }

// Result describes a Connect call.
type Result struct {
	Outcome  Outcome
	Circuit  int // Circuit containing both points afterwards
	Absorbed int // Tombstoned circuit for Merged, otherwise Unconnected
}

// Circuit is a read-only snapshot of one live circuit.
type Circuit struct {
	ID      int
	Members []int // Point indices in join order
}

// Size returns the number of members.
func (c Circuit) Size() int { return len(c.Members) }

// slot is one arena entry. A nil members slice marks a tombstone.
type slot struct {
	members []int
}

// Forest tracks which circuit every point belongs to.
//
// Circuits live in an arena and keep their ID for their whole lifetime; a
// circuit absorbed by a merge is tombstoned and its ID is never reused.
// The zero value is not usable; use [New].
type Forest struct {
	owner []int  // point index -> circuit ID or Unconnected
	arena []slot // circuit ID -> members
	live  int
}

// New returns a forest over n points, none of them connected.
func New(n int) *Forest {
	owner := make([]int, n)
	for i := range owner {
		owner[i] = Unconnected
	}
	return &Forest{owner: owner}
}

// Points returns the number of points the forest was created for.
func (f *Forest) Points() int { return len(f.owner) }

// Connect joins the circuits of points a and b.
//
// When two circuits merge, the larger one survives and the smaller one's
// members are appended to it; on equal sizes the circuit of a survives.
// Calling Connect with a == b is not supported.
func (f *Forest) Connect(a, b int) Result {
	ca, cb := f.owner[a], f.owner[b]

	switch {
	case ca == Unconnected && cb == Unconnected:
		id := len(f.arena)
		f.arena = append(f.arena, slot{members: []int{a, b}})
		f.owner[a], f.owner[b] = id, id
		f.live++
		return Result{Outcome: Created, Circuit: id, Absorbed: Unconnected}

	case cb == Unconnected:
		f.add(ca, b)
		return Result{Outcome: Extended, Circuit: ca, Absorbed: Unconnected}

	case ca == Unconnected:
		f.add(cb, a)
		return Result{Outcome: Extended, Circuit: cb, Absorbed: Unconnected}

	case ca == cb:
		return Result{Outcome: Redundant, Circuit: ca, Absorbed: Unconnected}
	}

	survivor, absorbed := ca, cb
	if len(f.arena[cb].members) > len(f.arena[ca].members) {
		survivor, absorbed = cb, ca
	}
	f.merge(survivor, absorbed)
	return Result{Outcome: Merged, Circuit: survivor, Absorbed: absorbed}
}

func (f *Forest) add(id, p int) {
	f.arena[id].members = append(f.arena[id].members, p)
	f.owner[p] = id
}

// merge relabels absorbed's members to survivor before tombstoning it.
func (f *Forest) merge(survivor, absorbed int) {
	moved := f.arena[absorbed].members
	for _, p := range moved {
		f.owner[p] = survivor
	}
	f.arena[survivor].members = append(f.arena[survivor].members, moved...)
	f.arena[absorbed].members = nil
	f.live--
}

// CircuitOf returns the circuit ID of point p and whether p is connected.
func (f *Forest) CircuitOf(p int) (int, bool) {
	id := f.owner[p]
	return id, id != Unconnected
}

// SameCircuit reports whether a and b are connected to each other.
func (f *Forest) SameCircuit(a, b int) bool {
	return f.owner[a] != Unconnected && f.owner[a] == f.owner[b]
}

// Size returns the member count of circuit id, or 0 for a tombstone.
func (f *Forest) Size(id int) int {
	if id < 0 || id >= len(f.arena) {
		return 0
	}
	return len(f.arena[id].members)
}

// Alive reports whether circuit id exists and has not been absorbed.
func (f *Forest) Alive(id int) bool { return f.Size(id) > 0 }

// Len returns the number of live circuits.
func (f *Forest) Len() int { return f.live }

// Connected returns the number of points that belong to some circuit.
func (f *Forest) Connected() int {
	n := 0
	for _, id := range f.owner {
		if id != Unconnected {
			n++
		}
	}
	return n
}

// Unified reports whether a single circuit contains every point.
// A forest over fewer than two points is never unified.
func (f *Forest) Unified() bool {
	if f.live != 1 || len(f.owner) < 2 {
		return false
	}
	id := f.owner[0]
	return id != Unconnected && len(f.arena[id].members) == len(f.owner)
}

// Circuits returns a snapshot of the live circuits ordered by ID.
func (f *Forest) Circuits() []Circuit {
	out := make([]Circuit, 0, f.live)
	for id, s := range f.arena {
		if s.members == nil {
			continue
		}
		out = append(out, Circuit{ID: id, Members: slices.Clone(s.members)})
	}
	return out
}

// Sizes returns the member count of every live circuit ordered by ID.
func (f *Forest) Sizes() []int {
	out := make([]int, 0, f.live)
	for _, s := range f.arena {
		if s.members != nil {
			out = append(out, len(s.members))
		}
	}
	return out
}
