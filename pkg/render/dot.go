package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/junction/pkg/circuit"
	"github.com/matzehuels/junction/pkg/distance"
	"github.com/matzehuels/junction/pkg/errors"
	"github.com/matzehuels/junction/pkg/junction"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// Options configures diagram generation.
type Options struct {
	// Detailed adds point indices and link weights to the labels.
	Detailed bool
}

// Scene is everything drawn in one diagram.
type Scene struct {
	Points   []junction.Point
	Circuits []circuit.Circuit
	Links    []distance.Edge
	Last     *distance.Edge // Highlighted link, if any
}

// palette cycles fill colors across circuits.
var palette = []string{
	"#e8f1fa", "#fdf0e1", "#e9f6ec", "#fbe9ea", "#f1ecf7",
	"#f9f4dc", "#e6f5f4", "#f5e9f1",
}

// ToDOT converts a scene to Graphviz DOT source. The output is
// deterministic: circuits appear in ID order, members in join order.
func ToDOT(s Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")

	placed := make([]bool, len(s.Points))
	for i, c := range s.Circuits {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", c.ID)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("circuit %d (%d)", c.ID, c.Size()))
		buf.WriteString("    style=\"rounded,filled\";\n")
		fmt.Fprintf(&buf, "    fillcolor=%q;\n", palette[i%len(palette)])
		for _, p := range c.Members {
			placed[p] = true
			fmt.Fprintf(&buf, "    %s [label=%q];\n", nodeID(p), label(s.Points[p], opts.Detailed))
		}
		buf.WriteString("  }\n")
	}

	var loose []int
	for p, ok := range placed {
		if !ok {
			loose = append(loose, p)
		}
	}
	if len(loose) > 0 {
		buf.WriteString("\n")
		for _, p := range loose {
			fmt.Fprintf(&buf, "  %s [label=%q, style=\"rounded,dashed\"];\n", nodeID(p), label(s.Points[p], opts.Detailed))
		}
	}

	if len(s.Links) > 0 || s.Last != nil {
		buf.WriteString("\n")
	}
	for _, e := range s.Links {
		if s.Last != nil && e == *s.Last {
			continue
		}
		fmt.Fprintf(&buf, "  %s -- %s%s;\n", nodeID(e.A), nodeID(e.B), edgeAttrs(e, opts.Detailed, false))
	}
	if s.Last != nil {
		fmt.Fprintf(&buf, "  %s -- %s%s;\n", nodeID(s.Last.A), nodeID(s.Last.B), edgeAttrs(*s.Last, opts.Detailed, true))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(p int) string { return "p" + strconv.Itoa(p) }

func label(p junction.Point, detailed bool) string {
	if !detailed {
		return p.Key
	}
	return fmt.Sprintf("%s\n#%d", p.Key, p.Index)
}

func edgeAttrs(e distance.Edge, detailed, last bool) string {
	var attrs []string
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatInt(e.Weight, 10)))
	}
	if last {
		attrs = append(attrs, `color="#d62728"`, "penwidth=2.5")
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

// Render produces the scene in the given format.
func Render(ctx context.Context, s Scene, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	dot := ToDOT(s, opts)
	switch format {
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot)
	}
	return []byte(dot), nil
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := renderGraphviz(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderGraphviz(ctx, dot, graphviz.PNG)
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the image scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
