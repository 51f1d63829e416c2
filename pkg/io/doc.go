// Package io reads and writes run reports as JSON.
//
// # Overview
//
// A [Report] is the complete, self-describing outcome of one connection run:
// the answer, the final circuits, and the links that built them. Points are
// referenced by their key (the literal input record), so a report can be
// read without the input it was computed from.
//
// The same encoding is used for the CLI's --json output and for cached run
// results.
//
// # JSON Format
//
//	{
//	  "input_hash": "9f2c...",
//	  "policy": "budget",
//	  "budget": 2,
//	  "answer": 3,
//	  "points": 3,
//	  "pairs": 3,
//	  "connections": 2,
//	  "circuits": [
//	    {"id": 0, "size": 3, "members": ["0,0,0", "0,0,1", "0,0,3"]}
//	  ],
//	  "links": [
//	    {"a": "0,0,0", "b": "0,0,1", "weight": 1},
//	    {"a": "0,0,1", "b": "0,0,3", "weight": 4}
//	  ],
//	  "summary": {"points": 3, "circuits": 1, "largest": 3, ...}
//	}
//
// "links" lists only the connections that changed circuit membership, in the
// order they were made. "last" is present for unify runs and names the
// connection that joined the final two circuits.
//
// # Import and Export
//
// Use [WriteJSON] / [ReadJSON] with any stream, or [ExportJSON] /
// [ImportJSON] with a file path. [ReadJSON] checks that the report is
// internally consistent (known policy, links that reference circuit
// members) and returns a wrapped error naming the problem otherwise.
package io
