package command

import (
	"math"

	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/animation"
)

// viewportTransition is the captured endpoint pair of one viewport
// change. The zero value is an unresolved transition whose operations
// all no-op, which is how viewport commands handle models without a
// usable viewport or canvas.
type viewportTransition struct {
	root *sprotty.Root
	old  sprotty.Viewport
	new  sprotty.Viewport
}

// capture records the root's current viewport as the old endpoint and
// the target as the new one.
func (t *viewportTransition) capture(root *sprotty.Root, target sprotty.Viewport) {
	t.root = root
	t.old = sprotty.Viewport{Scroll: root.Scroll, Zoom: root.Zoom}
	t.new = target
}

// run applies the transition. With reverse it plays new back to old.
func (t *viewportTransition) run(ctx *Context, reverse, animate bool) Result {
	if t.root == nil {
		return Result{Root: ctx.Root}
	}
	from, to := t.old, t.new
	if reverse {
		from, to = to, from
	}
	if animate {
		tween := animation.NewViewportTween(t.root, from, to)
		return Result{Root: ctx.Root, Animation: ctx.Animate(tween)}
	}
	t.root.Scroll = to.Scroll
	t.root.Zoom = to.Zoom
	return Result{Root: ctx.Root}
}

// SetViewport scrolls and zooms a root element. Consecutive synchronous
// viewport changes on the same root merge into one history entry, the
// same discipline as [Move], so a scroll gesture undoes in one step.
// Undo and redo always animate.
type SetViewport struct {
	action *sprotty.SetViewportAction
	t      viewportTransition
}

// NewSetViewport creates the command for a viewport action.
func NewSetViewport(action *sprotty.SetViewportAction) *SetViewport {
	return &SetViewport{action: action}
}

// Execute resolves the target root and applies the new viewport with the
// zoom clamped to the configured limits.
func (c *SetViewport) Execute(ctx *Context) (Result, error) {
	el := ctx.Root.Index().ByID(c.action.ElementID)
	if el == nil || el != ctx.Root.Element || !el.HasFeature(sprotty.FeatureViewport) {
		logger().Warn("viewport change skipped, target is not the viewport root", "id", c.action.ElementID)
		return Result{Root: ctx.Root}, nil
	}
	c.t.capture(ctx.Root, sprotty.Viewport{
		Scroll: c.action.Viewport.Scroll,
		Zoom:   ctx.Zoom.Clamp(c.action.Viewport.Zoom),
	})
	return c.t.run(ctx, false, c.action.Animate), nil
}

// Undo animates the viewport back to where it was.
func (c *SetViewport) Undo(ctx *Context) Result {
	return c.t.run(ctx, true, true)
}

// Redo animates the viewport forward to the target again.
func (c *SetViewport) Redo(ctx *Context) Result {
	return c.t.run(ctx, false, true)
}

// Merge folds a later synchronous viewport change on the same root into
// this one by taking over its target.
func (c *SetViewport) Merge(other Command, ctx *Context) bool {
	if c.action.Animate || c.t.root == nil {
		return false
	}
	ov, ok := other.(*SetViewport)
	if !ok || ov.t.root != c.t.root {
		return false
	}
	c.t.new = ov.t.new
	return true
}

// unionBounds returns the union of the absolute bounds of the elements
// with the given ids. Without ids it covers every bounds-carrying
// element of the model.
func unionBounds(root *sprotty.Root, ids []string) sprotty.Bounds {
	u := sprotty.EmptyBounds
	if len(ids) > 0 {
		for _, id := range ids {
			el := root.Index().ByID(id)
			if el == nil {
				logger().Warn("viewport target skipped unresolvable element", "id", id)
				continue
			}
			if el.HasFeature(sprotty.FeatureBounds) {
				u = u.Union(el.AbsoluteBounds())
			}
		}
		return u
	}
	root.Element.Walk(func(el *sprotty.Element) {
		if el.HasFeature(sprotty.FeatureBounds) {
			u = u.Union(el.AbsoluteBounds())
		}
	})
	return u
}

// scrollToCenter computes the scroll that puts center in the middle of
// the canvas at the given zoom.
func scrollToCenter(center sprotty.Point, canvas sprotty.Bounds, zoom float64) sprotty.Point {
	return sprotty.Pt(
		center.X-0.5*canvas.Width/zoom,
		center.Y-0.5*canvas.Height/zoom,
	)
}

// Center scrolls so that the given elements (or the whole model) sit in
// the middle of the canvas. The zoom resets to 1 unless the action
// retains it. On a model without a measured canvas the command no-ops.
type Center struct {
	action *sprotty.CenterAction
	t      viewportTransition
}

// NewCenter creates the command for a center action.
func NewCenter(action *sprotty.CenterAction) *Center {
	return &Center{action: action}
}

// Execute computes the target viewport from the element bounds and
// applies it.
func (c *Center) Execute(ctx *Context) (Result, error) {
	bounds := unionBounds(ctx.Root, c.action.ElementIDs)
	canvas := ctx.Root.CanvasBounds
	if bounds.Empty() || canvas.Width <= 0 || canvas.Height <= 0 {
		return Result{Root: ctx.Root}, nil
	}
	zoom := 1.0
	if c.action.RetainZoom {
		zoom = ctx.Root.Zoom
	}
	zoom = ctx.Zoom.Clamp(zoom)
	c.t.capture(ctx.Root, sprotty.Viewport{
		Scroll: scrollToCenter(bounds.Center(), canvas, zoom),
		Zoom:   zoom,
	})
	return c.t.run(ctx, false, c.action.Animate), nil
}

// Undo plays the transition back.
func (c *Center) Undo(ctx *Context) Result {
	return c.t.run(ctx, true, c.action.Animate)
}

// Redo plays the transition forward again.
func (c *Center) Redo(ctx *Context) Result {
	return c.t.run(ctx, false, c.action.Animate)
}

// Merge always rejects.
func (c *Center) Merge(Command, *Context) bool { return false }

// FitToScreen zooms and scrolls so that the given elements (or the whole
// model) fill the canvas with the requested padding around them. The
// zoom is capped by the action's MaxZoom when positive and always by the
// configured zoom limits.
type FitToScreen struct {
	action *sprotty.FitToScreenAction
	t      viewportTransition
}

// NewFitToScreen creates the command for a fit-to-screen action.
func NewFitToScreen(action *sprotty.FitToScreenAction) *FitToScreen {
	return &FitToScreen{action: action}
}

// Execute computes the fitting viewport from the element bounds and
// applies it.
func (c *FitToScreen) Execute(ctx *Context) (Result, error) {
	bounds := unionBounds(ctx.Root, c.action.ElementIDs)
	canvas := ctx.Root.CanvasBounds
	if bounds.Empty() || canvas.Width <= 0 || canvas.Height <= 0 {
		return Result{Root: ctx.Root}, nil
	}
	pad := 2 * c.action.Padding
	zoom := math.Min(
		canvas.Width/(bounds.Width+pad),
		canvas.Height/(bounds.Height+pad),
	)
	if c.action.MaxZoom > 0 {
		zoom = math.Min(zoom, c.action.MaxZoom)
	}
	if math.IsInf(zoom, 1) {
		zoom = 1
	}
	zoom = ctx.Zoom.Clamp(zoom)
	c.t.capture(ctx.Root, sprotty.Viewport{
		Scroll: scrollToCenter(bounds.Center(), canvas, zoom),
		Zoom:   zoom,
	})
	return c.t.run(ctx, false, c.action.Animate), nil
}

// Undo plays the transition back.
func (c *FitToScreen) Undo(ctx *Context) Result {
	return c.t.run(ctx, true, c.action.Animate)
}

// Redo plays the transition forward again.
func (c *FitToScreen) Redo(ctx *Context) Result {
	return c.t.run(ctx, false, c.action.Animate)
}

// Merge always rejects.
func (c *FitToScreen) Merge(Command, *Context) bool { return false }
