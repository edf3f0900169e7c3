// Package render converts pathways to Graphviz DOT and renders them to SVG
// or PNG for inspection. Rendering is purely a debugging aid; the hosting
// document format is JSON (see pkg/pathway).
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pathforge/pathforge/pkg/pathway"
)

// Options configures pathway rendering.
type Options struct {
	// Detailed includes the node prompt and intent in labels.
	// When false, only the node name and type are shown.
	Detailed bool
}

// ToDOT converts a pathway to Graphviz DOT format. The resulting DOT string
// can be rendered using [RenderSVG] or [RenderPNG].
//
// Node types are distinguished visually: the start node is green, terminals
// are red (end) and orange (transfer), global handlers are dashed.
func ToDOT(p *pathway.Pathway, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pathway {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range p.NodeList() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range p.EdgeList() {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=10];\n", e.Source, e.Target, e.Data.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *pathway.Node, detailed bool) string {
	label := fmt.Sprintf("%s\n(%s)", n.Data.Name, n.Type)
	if !detailed {
		return label
	}

	var parts []string
	if n.Data.Intent != "" {
		parts = append(parts, "intent: "+n.Data.Intent)
	}
	if prompt := truncate(n.Data.Prompt, 60); prompt != "" {
		parts = append(parts, prompt)
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *pathway.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Data.IsStart:
		attrs = append(attrs, "fillcolor=palegreen")
	case n.Data.IsGlobal:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightyellow")
	case n.Type == pathway.NodeEndCall:
		attrs = append(attrs, "fillcolor=mistyrose")
	case n.Type == pathway.NodeTransferCall:
		attrs = append(attrs, "fillcolor=peachpuff")
	case n.Type == pathway.NodeKnowledgeBase:
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG, nil)
}

func renderFormat(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
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
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
