package command

import (
	sprotty "github.com/tortmayr/sprotty-1"
)

// boundsEntry journals one element's bounds before and after a bounds
// pass.
type boundsEntry struct {
	el       *sprotty.Element
	old, new sprotty.Bounds
}

// SetBounds applies measured element bounds, e.g. the result of a label
// measurement pass. It is a system command: layout upkeep tracks the
// model rather than the user's intent, so it stays out of the undo
// history and is rolled back together with other system commands.
type SetBounds struct {
	action  *sprotty.SetBoundsAction
	entries []boundsEntry
}

// NewSetBounds creates the command for a set-bounds action.
func NewSetBounds(action *sprotty.SetBoundsAction) *SetBounds {
	return &SetBounds{action: action}
}

// SystemCommand marks bounds passes as model upkeep.
func (c *SetBounds) SystemCommand() {}

// Execute resolves each element, records its current bounds, and applies
// the new size. The position is only touched when the action carries
// one; pure measurement passes leave it alone.
func (c *SetBounds) Execute(ctx *Context) (Result, error) {
	index := ctx.Root.Index()
	for _, b := range c.action.Bounds {
		el := index.ByID(b.ElementID)
		if el == nil {
			logger().Warn("set bounds skipped unresolvable element", "id", b.ElementID)
			continue
		}
		if !el.HasFeature(sprotty.FeatureBounds) {
			continue
		}
		entry := boundsEntry{el: el, old: el.Bounds()}
		el.Size = b.NewSize
		if b.NewPosition != nil {
			el.Position = *b.NewPosition
		}
		entry.new = el.Bounds()
		c.entries = append(c.entries, entry)
	}
	return Result{Root: ctx.Root}, nil
}

// Undo restores the recorded bounds.
func (c *SetBounds) Undo(ctx *Context) Result {
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		e.el.Position = e.old.Position()
		e.el.Size = e.old.Size()
	}
	return Result{Root: ctx.Root}
}

// Redo reapplies the recorded bounds.
func (c *SetBounds) Redo(ctx *Context) Result {
	for _, e := range c.entries {
		e.el.Position = e.new.Position()
		e.el.Size = e.new.Size()
	}
	return Result{Root: ctx.Root}
}

// Merge always rejects.
func (c *SetBounds) Merge(Command, *Context) bool { return false }
