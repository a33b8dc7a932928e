// Package hierarchy draws the grouping structure behind a day layout.
//
// The overlap and nested policies build containers, rows and leaves; the
// column policies assign each event a column. [ToDOT] turns the nodes of a
// [view.Day] into a Graphviz digraph, and [RenderSVG] lays it out in
// process with go-graphviz. `dayview explain` uses both.
//
//	dot := hierarchy.ToDOT(day)
//	svg, err := hierarchy.RenderSVG(ctx, dot)
package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/view"
)

// ToDOT converts the nodes of d to DOT. A day without nodes yields a
// graph with a single "empty" note.
func ToDOT(d *view.Day) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [color=\"#999999\"];\n")
	buf.WriteString("\n")

	if len(d.Nodes) == 0 {
		buf.WriteString("  empty [shape=note, label=\"no events\"];\n}\n")
		return buf.String()
	}

	columns := map[int][]layout.Node{}
	var colOrder []int
	for _, n := range d.Nodes {
		if n.Kind == layout.KindColumn {
			if _, ok := columns[n.Column]; !ok {
				colOrder = append(colOrder, n.Column)
			}
			columns[n.Column] = append(columns[n.Column], n)
			continue
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs(d, n), ", "))
	}

	for _, c := range colOrder {
		fmt.Fprintf(&buf, "  subgraph cluster_col%d {\n", c)
		fmt.Fprintf(&buf, "    label=%q;\n    style=dashed;\n    color=\"#bbbbbb\";\n", fmt.Sprintf("column %d", c))
		for _, n := range columns[c] {
			fmt.Fprintf(&buf, "    n%d [%s];\n", n.ID, strings.Join(attrs(d, n), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, n := range d.Nodes {
		if n.Parent >= 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.Parent, n.ID)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func attrs(d *view.Day, n layout.Node) []string {
	span := clock(d, n.Start) + "-" + clock(d, n.End)
	var lines []string
	if n.Event >= 0 {
		lines = append(lines, title(d, n))
	}
	switch n.Kind {
	case layout.KindContainer:
		lines = append(lines, "container "+span, "ends "+clock(d, n.ContainerEnd))
		if n.Indent > 0 {
			lines = append(lines, fmt.Sprintf("indent %.0f%%", n.Indent))
		}
	case layout.KindRow:
		lines = append(lines, "row "+span)
	default:
		lines = append(lines, span)
	}
	if n.Event >= 0 {
		lines = append(lines, fmt.Sprintf("w=%.1f x=%.1f", n.Width, n.XOffset))
	}
	label := strings.Join(lines, "\n")

	out := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Synthetic():
		out = append(out, "style=\"rounded,dashed\"", "fontcolor=\"#666666\"")
	case n.Kind == layout.KindContainer:
		out = append(out, "fillcolor=\"#dbe8f6\"")
	case n.Kind == layout.KindRow:
		out = append(out, "fillcolor=\"#eef4fb\"")
	case n.Adjusted:
		out = append(out, "fillcolor=\"#fdebd3\"")
	}
	return out
}

func title(d *view.Day, n layout.Node) string {
	if n.Event >= 0 && n.Event < len(d.Items) {
		if t := d.Items[n.Event].Event.Title; t != "" {
			return t
		}
	}
	return fmt.Sprintf("event %d", n.Event)
}

func clock(d *view.Day, minutes float64) string {
	return d.Grid.Start.Add(time.Duration(minutes * float64(time.Minute))).Format("15:04")
}

// RenderSVG lays out dot with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel one so the SVG scales when embedded.
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
