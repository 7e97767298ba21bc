package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/neuroc/pkg/morph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the point count and length to each label. When false,
	// only the section id and type are shown.
	Detailed bool
}

const somaNode = "soma"

var fillColors = map[morph.SectionType]string{
	morph.Axon:           "#9ecae1",
	morph.BasalDendrite:  "#fdae6b",
	morph.ApicalDendrite: "#fd8d3c",
}

// ToDOT converts the section tree of m to Graphviz DOT.
func ToDOT(m *morph.Morphology, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	if len(m.Soma.Points) > 0 {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=lightgrey];\n", somaNode, somaNode)
	}
	for s := range m.IterAll() {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(s.ID), strings.Join(fmtAttrs(s, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for s := range m.IterAll() {
		if p, ok := m.Parent(s.ID); ok {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(p), nodeID(s.ID))
		} else if len(m.Soma.Points) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", somaNode, nodeID(s.ID))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id morph.SectionID) string {
	return "s" + strconv.Itoa(int(id))
}

func fmtAttrs(s *morph.Section, detailed bool) []string {
	label := fmt.Sprintf("#%d %s", s.ID, s.Type)
	if detailed {
		label += fmt.Sprintf("\n%d points\n%.1f µm", len(s.Points), s.Length())
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c, ok := fillColors[s.Type]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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

// normalizeViewBox replaces the root svg element so the drawing scales with
// its container.
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
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
