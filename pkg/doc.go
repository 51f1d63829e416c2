// Package pkg provides the core libraries for junction.
//
// # Overview
//
// Junction reads a set of 3D points ("junction boxes"), repeatedly connects
// the closest pair that has not been tried yet, and tracks the connected
// groups ("circuits") that form. A run stops either after a fixed number of
// connection attempts or at the first connection that puts every box into a
// single circuit.
//
// # Architecture
//
// The data flow of a run:
//
//	Input records (x,y,z per line)
//	         ↓
//	    [junction] package (parse points, optional budget line)
//	         ↓
//	    [distance] package (all pairwise weights, sorted edge order)
//	         ↓
//	    [connect] package (apply edges to a [circuit] forest under a policy)
//	         ↓
//	    [reduce] package (answer and size statistics)
//
// [pipeline] runs these stages with caching, timing and observability hooks,
// and renders the final circuits through [render].
//
// # Quick Start
//
//	in, _ := junction.ReadString(data)
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, in, pipeline.Options{Policy: "unify"})
//	fmt.Println(result.Answer)
//
// # Main Packages
//
// ## Engine
//
// [junction] - Points and input parsing. The literal record text of a point
// is its identity.
//
// [distance] - Squared Euclidean weights for every unordered pair, ordered by
// weight and then by canonical pair key.
//
// [circuit] - Arena-based union-find that reports whether each connection
// created, extended, merged or left a circuit unchanged.
//
// [connect] - The budget and unify stopping policies.
//
// [reduce] - Products over circuit sizes or endpoints, and size statistics.
//
// ## Infrastructure
//
// [pipeline] - load → index → connect → reduce, used by the CLI.
//
// [cache] - Opt-in result and rendering cache with null and file backends.
//
// [io] - JSON run reports.
//
// [render] - Graphviz DOT, SVG and PNG drawings of circuits.
//
// [observability] - Hooks for engine and cache events.
//
// [errors] - Coded errors such as PARSE_ERROR and EXHAUSTED_INPUT.
//
// # Testing
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/connect/...        # Specific package
//	go test -run Example ./pkg/...   # Examples only
//
// [junction]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/junction
// [distance]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/distance
// [circuit]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/circuit
// [connect]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/connect
// [reduce]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/reduce
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/junction/pkg/errors
package pkg
