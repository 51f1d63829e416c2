// Package render draws the final circuits of a run as a Graphviz diagram.
//
// # Overview
//
// Every circuit becomes a labelled cluster containing its member points;
// the links that built the circuit are drawn as undirected edges. Points
// that never took part in a connection are drawn outside all clusters with
// a dashed outline. For unify runs, the link that joined the last two
// circuits is highlighted.
//
// # Usage
//
//	dot := render.ToDOT(scene, render.Options{Detailed: false})
//	svg, err := render.RenderSVG(ctx, dot)
//	png, err := render.RenderPNG(ctx, dot)
//
// [Render] dispatches on a format name (dot, svg, png).
//
// # Options
//
//   - Detailed: label points with their index and links with their
//     squared distance
//
// # Dependencies
//
// SVG and PNG output is produced in-process by [github.com/goccy/go-graphviz];
// no Graphviz installation is required.
package render
