// Package render holds the diagram renderers of neuroc.
//
// # Topology
//
// The [topology] subpackage draws the section tree of a morphology as a
// Graphviz node-link diagram, with the soma at the top and one box per
// section filled by neurite type:
//
//	dot := topology.ToDOT(m, topology.Options{Detailed: true})
//	svg, err := topology.RenderSVG(ctx, dot)
//
// Rendering runs in-process through go-graphviz; no external Graphviz
// installation is needed.
package render
