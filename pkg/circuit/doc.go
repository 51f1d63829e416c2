// Package circuit maintains the partition of connected junction boxes into
// circuits (connected components).
//
// A [Forest] is an index-based union-find: every circuit occupies a slot in
// an arena and is addressed by a stable integer ID, and a membership table
// maps each point index to the ID of the circuit that contains it. Merging
// two circuits relabels the members of the absorbed circuit and tombstones
// its slot, so no two table entries ever alias a shared mutable collection.
//
// # Connect Outcomes
//
// [Forest.Connect] always completes with one of four outcomes:
//
//   - [Created]: neither point was connected; a new circuit holds both
//   - [Extended]: one point was connected; the other joins its circuit
//   - [Redundant]: both points already share a circuit; nothing changes
//   - [Merged]: the points were in different circuits; the smaller circuit
//     is absorbed into the larger (the first point's circuit wins ties)
//
// The forest does not decide whether a call counts toward a connection
// budget. That is up to the caller; see package connect.
//
// # Example
//
//	f := circuit.New(3)
//	f.Connect(0, 1)     // Created
//	f.Connect(1, 2)     // Extended
//	f.Connect(0, 2)     // Redundant
//	fmt.Println(f.Len(), f.Unified()) // 1 true
package circuit
