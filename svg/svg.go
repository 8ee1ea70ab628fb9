// Package svg renders diagram models to standalone SVG documents.
//
// The output is deterministic: the same model always produces the same
// bytes, so exports can be cached and compared by digest. Elements are
// written in model child order, floats use their shortest exact decimal
// form, and styling lives in one embedded stylesheet instead of
// per-element attributes.
//
// Nodes render as rectangles, or as circles when their type tag carries
// a "circle" subtype such as "node:circle". Edges render as polylines
// from the center of the source element through any routing points to
// the center of the target. Labels render as text. Selection and hover
// state map to the "selected" and "mouseover" classes, and collapsed
// elements render without their children.
//
// When the model root carries canvas bounds the document reproduces the
// client viewport, including the scroll and zoom transform. Without
// canvas bounds it frames the whole diagram with a padding margin.
package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/measure"
)

// ErrNilModel is returned when rendering is attempted without a model.
var ErrNilModel = errors.New("svg: nil model root")

// DefaultPadding is the margin, in diagram units, added around the
// content when the model has no canvas bounds.
const DefaultPadding = 20

// styleFmt is the embedded stylesheet. Selection and hover styling keys
// off classes so the markup stays stable when only state changes.
const styleFmt = `rect.node, circle.node { fill: #e8eef7; stroke: #4f81bd; }
.edge { fill: none; stroke: #555; }
.label { font-family: sans-serif; font-size: %spx; dominant-baseline: hanging; fill: #333; }
.selected { stroke: #1d3f72; stroke-width: 2; }
.mouseover { fill: #d6e2f3; }`

// Renderer writes models as SVG documents.
type Renderer struct {
	fontSize float64
	padding  float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFontSize sets the label font size. The default is
// [measure.DefaultFontSize], so exported labels occupy the bounds the
// measuring pass computed for them.
func WithFontSize(size float64) Option {
	return func(r *Renderer) {
		r.fontSize = size
	}
}

// WithPadding sets the margin added around the content when the model
// has no canvas bounds. The default is [DefaultPadding].
func WithPadding(p float64) Option {
	return func(r *Renderer) {
		r.padding = p
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		fontSize: measure.DefaultFontSize,
		padding:  DefaultPadding,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the model as an SVG document.
func (r *Renderer) Render(w io.Writer, root *sprotty.Root) error {
	if root == nil {
		return ErrNilModel
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")

	canvas := root.CanvasBounds
	if canvas.Width > 0 && canvas.Height > 0 {
		fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
			fmtFloat(canvas.Width), fmtFloat(canvas.Height), fmtFloat(canvas.Width), fmtFloat(canvas.Height))
	} else {
		content := contentBounds(root)
		if content.Empty() {
			content = sprotty.Bounds{}
		}
		fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
			fmtFloat(content.Width+2*r.padding), fmtFloat(content.Height+2*r.padding),
			fmtFloat(content.X-r.padding), fmtFloat(content.Y-r.padding),
			fmtFloat(content.Width+2*r.padding), fmtFloat(content.Height+2*r.padding))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  <style>%s</style>\n", fmt.Sprintf(styleFmt, fmtFloat(r.fontSize)))

	depth := 1
	zoom := root.Zoom
	if zoom == 0 {
		zoom = 1
	}
	viewport := canvas.Width > 0 && canvas.Height > 0 && (zoom != 1 || root.Scroll != sprotty.Point{})
	if viewport {
		fmt.Fprintf(&b, `  <g transform="scale(%s) translate(%s,%s)">`+"\n",
			fmtFloat(zoom), fmtFloat(neg(root.Scroll.X)), fmtFloat(neg(root.Scroll.Y)))
		depth = 2
	}

	for _, c := range root.Children {
		r.writeElement(&b, c, depth)
	}

	if viewport {
		b.WriteString("  </g>\n")
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderCompressed writes the model as a gzip-compressed SVG document
// (the .svgz format). The compressed stream carries no timestamp, so it
// is as deterministic as the uncompressed output.
func (r *Renderer) RenderCompressed(w io.Writer, root *sprotty.Root) error {
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	if err := r.Render(zw, root); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func (r *Renderer) writeElement(b *strings.Builder, e *sprotty.Element, depth int) {
	ind := strings.Repeat("  ", depth)
	collapsed := e.HasFeature(sprotty.FeatureExpand) && !e.Expanded

	switch base, sub := splitType(e.Type); base {
	case "edge":
		points := r.edgePoints(e)
		if points == "" {
			sprotty.Logger().Warn("svg: skipped edge with unresolvable endpoint",
				"id", e.ID, "source", e.SourceID, "target", e.TargetID)
			return
		}
		fmt.Fprintf(b, `%s<g id="%s"%s>`+"\n", ind, escape(e.ID), opacityAttr(e))
		fmt.Fprintf(b, `%s  <polyline class="%s" points="%s"/>`+"\n", ind, classes("edge", e), points)
		for _, c := range e.Children {
			r.writeElement(b, c, depth+1)
		}
		fmt.Fprintf(b, "%s</g>\n", ind)

	case "label":
		fmt.Fprintf(b, `%s<g id="%s"%s%s>`+"\n", ind, escape(e.ID), translateAttr(e), opacityAttr(e))
		fmt.Fprintf(b, `%s  <text class="%s">%s</text>`+"\n", ind, classes("label", e), escape(e.Text))
		for _, c := range e.Children {
			r.writeElement(b, c, depth+1)
		}
		fmt.Fprintf(b, "%s</g>\n", ind)

	case "node":
		fmt.Fprintf(b, `%s<g id="%s"%s%s>`+"\n", ind, escape(e.ID), translateAttr(e), opacityAttr(e))
		if sub == "circle" {
			rad := min(e.Size.Width, e.Size.Height) / 2
			fmt.Fprintf(b, `%s  <circle class="%s" cx="%s" cy="%s" r="%s"/>`+"\n",
				ind, classes("node", e), fmtFloat(e.Size.Width/2), fmtFloat(e.Size.Height/2), fmtFloat(rad))
		} else {
			fmt.Fprintf(b, `%s  <rect class="%s" width="%s" height="%s"/>`+"\n",
				ind, classes("node", e), fmtFloat(e.Size.Width), fmtFloat(e.Size.Height))
		}
		if !collapsed {
			for _, c := range e.Children {
				r.writeElement(b, c, depth+1)
			}
		}
		fmt.Fprintf(b, "%s</g>\n", ind)

	default:
		fmt.Fprintf(b, `%s<g id="%s"%s%s>`+"\n", ind, escape(e.ID), translateAttr(e), opacityAttr(e))
		if !collapsed {
			for _, c := range e.Children {
				r.writeElement(b, c, depth+1)
			}
		}
		fmt.Fprintf(b, "%s</g>\n", ind)
	}
}

// edgePoints builds the polyline point list for an edge: source center,
// routing points, target center, all in the edge's parent coordinates.
// The empty string marks an edge with an unresolvable endpoint.
func (r *Renderer) edgePoints(e *sprotty.Element) string {
	root := e.Root()
	if root == nil {
		return ""
	}
	src := root.Index().ByID(e.SourceID)
	tgt := root.Index().ByID(e.TargetID)
	if src == nil || tgt == nil {
		return ""
	}

	var origin sprotty.Point
	if p := e.Parent(); p != nil {
		origin = p.AbsolutePosition()
	}

	pts := make([]sprotty.Point, 0, len(e.RoutingPoints)+2)
	pts = append(pts, src.AbsoluteBounds().Center().Sub(origin))
	pts = append(pts, e.RoutingPoints...)
	pts = append(pts, tgt.AbsoluteBounds().Center().Sub(origin))

	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmtFloat(p.X) + "," + fmtFloat(p.Y)
	}
	return strings.Join(parts, " ")
}

// contentBounds returns the union of the absolute bounds of every sized
// element. Unsized elements contribute nothing; their extent is unknown
// until a measuring pass has run.
func contentBounds(root *sprotty.Root) sprotty.Bounds {
	bounds := sprotty.EmptyBounds
	root.Walk(func(e *sprotty.Element) {
		if e == root.Element || (e.Size.Width <= 0 && e.Size.Height <= 0) {
			return
		}
		bounds = bounds.Union(e.AbsoluteBounds())
	})
	return bounds
}

func classes(base string, e *sprotty.Element) string {
	cls := base
	if e.Selected {
		cls += " selected"
	}
	if e.Hover {
		cls += " mouseover"
	}
	return cls
}

func translateAttr(e *sprotty.Element) string {
	if e.Position == (sprotty.Point{}) {
		return ""
	}
	return fmt.Sprintf(` transform="translate(%s,%s)"`, fmtFloat(e.Position.X), fmtFloat(e.Position.Y))
}

func opacityAttr(e *sprotty.Element) string {
	if e.Opacity == 1 {
		return ""
	}
	return fmt.Sprintf(` opacity="%s"`, fmtFloat(e.Opacity))
}

func splitType(t string) (base, sub string) {
	base, sub, _ = strings.Cut(t, ":")
	return base, sub
}

// fmtFloat formats a coordinate with the shortest decimal form that
// parses back exactly, keeping the output free of trailing zeros.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// neg negates v without producing a negative zero.
func neg(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

func escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
