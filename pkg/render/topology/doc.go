// Package topology renders the section tree of a morphology as a node-link
// diagram.
//
// # Overview
//
// Every section becomes a box and every parent-child link an arrow. The soma
// sits at the top with an arrow to each root. Boxes are filled by neurite
// type so the axon stands out from the dendrites.
//
// # Usage
//
// Convert a morphology to DOT format, then render to SVG or PNG:
//
//	dot := topology.ToDOT(m, topology.Options{Detailed: true})
//	svg, err := topology.RenderSVG(ctx, dot)
//	png, err := topology.RenderPNG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// and PNG rendering.
package topology
