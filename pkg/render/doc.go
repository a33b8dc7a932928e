// Package render draws computed day layouts.
//
// # Overview
//
// Every renderer consumes a [view.Day]; none of them lays anything out.
// The horizontal geometry comes straight from the layout engine.
//
//   - [svg]: a day column as a standalone SVG document
//   - [text]: a character grid for terminals
//   - [hierarchy]: the container/row/leaf grouping as a Graphviz diagram
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	doc := svg.Render(day)
//	pdf, err := render.ToPDF(doc)
//	png, err := render.ToPNG(doc, 2.0)  // 2x scale
//
// [view.Day]: github.com/matzehuels/dayview/pkg/view.Day
// [svg]: github.com/matzehuels/dayview/pkg/render/svg
// [text]: github.com/matzehuels/dayview/pkg/render/text
// [hierarchy]: github.com/matzehuels/dayview/pkg/render/hierarchy
package render
