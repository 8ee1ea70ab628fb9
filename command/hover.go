package command

import (
	sprotty "github.com/tortmayr/sprotty-1"
)

// HoverFeedback toggles the transient mouseover flag on an element. It
// is a system command: it never enters the undo history, and when it
// sits on top of user commands it is rolled back before those are
// undone or redone.
type HoverFeedback struct {
	action *sprotty.HoverFeedbackAction
	el     *sprotty.Element
	was    bool
}

// NewHoverFeedback creates the command for a hover feedback action.
func NewHoverFeedback(action *sprotty.HoverFeedbackAction) *HoverFeedback {
	return &HoverFeedback{action: action}
}

// SystemCommand marks hover feedback as transient model upkeep.
func (c *HoverFeedback) SystemCommand() {}

// Execute resolves the mouseover element, records its prior flag, and
// applies the new one. Unresolvable or non-hoverable elements make the
// command a no-op.
func (c *HoverFeedback) Execute(ctx *Context) (Result, error) {
	el := ctx.Root.Index().ByID(c.action.MouseoverID)
	if el == nil {
		logger().Warn("hover feedback skipped unresolvable element", "id", c.action.MouseoverID)
		return Result{Root: ctx.Root}, nil
	}
	if !el.HasFeature(sprotty.FeatureHover) {
		return Result{Root: ctx.Root}, nil
	}
	c.el = el
	c.was = el.Hover
	el.Hover = c.action.MouseIsOver
	return Result{Root: ctx.Root}, nil
}

// Undo restores the prior hover flag.
func (c *HoverFeedback) Undo(ctx *Context) Result {
	if c.el != nil {
		c.el.Hover = c.was
	}
	return Result{Root: ctx.Root}
}

// Redo reapplies the hover flag.
func (c *HoverFeedback) Redo(ctx *Context) Result {
	if c.el != nil {
		c.el.Hover = c.action.MouseIsOver
	}
	return Result{Root: ctx.Root}
}

// Merge always rejects.
func (c *HoverFeedback) Merge(Command, *Context) bool { return false }
