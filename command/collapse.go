package command

import (
	sprotty "github.com/tortmayr/sprotty-1"
)

// expandEntry journals one expansion flag change.
type expandEntry struct {
	el       *sprotty.Element
	expanded bool
}

// CollapseExpand toggles the expansion state of individual expandable
// elements. Ids that do not resolve or elements already in the requested
// state are skipped.
type CollapseExpand struct {
	action  *sprotty.CollapseExpandAction
	entries []expandEntry
}

// NewCollapseExpand creates the command for a collapse/expand action.
func NewCollapseExpand(action *sprotty.CollapseExpandAction) *CollapseExpand {
	return &CollapseExpand{action: action}
}

// Execute resolves the action's ids, records prior flags, and applies
// the new expansion states.
func (c *CollapseExpand) Execute(ctx *Context) (Result, error) {
	index := ctx.Root.Index()
	apply := func(ids []string, expand bool) {
		for _, id := range ids {
			el := index.ByID(id)
			if el == nil {
				logger().Warn("collapse/expand skipped unresolvable element", "id", id)
				continue
			}
			if !el.HasFeature(sprotty.FeatureExpand) || el.Expanded == expand {
				continue
			}
			el.Expanded = expand
			c.entries = append(c.entries, expandEntry{el: el, expanded: expand})
		}
	}
	apply(c.action.ExpandIDs, true)
	apply(c.action.CollapseIDs, false)
	return Result{Root: ctx.Root}, nil
}

// Undo restores the prior expansion flags in reverse order.
func (c *CollapseExpand) Undo(ctx *Context) Result {
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		e.el.Expanded = !e.expanded
	}
	return Result{Root: ctx.Root}
}

// Redo reapplies the recorded expansion flags.
func (c *CollapseExpand) Redo(ctx *Context) Result {
	for _, e := range c.entries {
		e.el.Expanded = e.expanded
	}
	return Result{Root: ctx.Root}
}

// Merge always rejects.
func (c *CollapseExpand) Merge(Command, *Context) bool { return false }

// CollapseExpandAll expands or collapses every expandable element.
type CollapseExpandAll struct {
	action  *sprotty.CollapseExpandAllAction
	touched []*sprotty.Element
}

// NewCollapseExpandAll creates the command for an expand-all or
// collapse-all.
func NewCollapseExpandAll(action *sprotty.CollapseExpandAllAction) *CollapseExpandAll {
	return &CollapseExpandAll{action: action}
}

// Execute flips every expandable element whose state differs from the
// target and records it for undo.
func (c *CollapseExpandAll) Execute(ctx *Context) (Result, error) {
	want := c.action.Expand
	ctx.Root.Element.Walk(func(el *sprotty.Element) {
		if !el.HasFeature(sprotty.FeatureExpand) || el.Expanded == want {
			return
		}
		el.Expanded = want
		c.touched = append(c.touched, el)
	})
	return Result{Root: ctx.Root}, nil
}

// Undo restores the prior state on every touched element.
func (c *CollapseExpandAll) Undo(ctx *Context) Result {
	for _, el := range c.touched {
		el.Expanded = !c.action.Expand
	}
	return Result{Root: ctx.Root}
}

// Redo reapplies the state on every touched element.
func (c *CollapseExpandAll) Redo(ctx *Context) Result {
	for _, el := range c.touched {
		el.Expanded = c.action.Expand
	}
	return Result{Root: ctx.Root}
}

// Merge always rejects.
func (c *CollapseExpandAll) Merge(Command, *Context) bool { return false }
