package command

import (
	sprotty "github.com/tortmayr/sprotty-1"
)

// selectEntry journals one selection flag change. For elements that were
// selected (and therefore raised), order holds the parent's child ids as
// they were right before the raise; it is nil for deselections.
type selectEntry struct {
	el       *sprotty.Element
	selected bool
	order    []string
}

// Select changes the selection state of individual elements. Newly
// selected elements are raised above their siblings so they render on
// top; deselection keeps the paint order. Elements whose id does not
// resolve are skipped, so a selection raced by a model update still
// applies to the elements that survived.
//
// Select commands never merge: every selection is a discrete user event
// and stays independently undoable.
type Select struct {
	action  *sprotty.SelectAction
	entries []selectEntry
}

// NewSelect creates the command for a selection change.
func NewSelect(action *sprotty.SelectAction) *Select {
	return &Select{action: action}
}

// Execute resolves the action's ids against the model, records the prior
// flags and child orders, and applies the new selection.
func (c *Select) Execute(ctx *Context) (Result, error) {
	index := ctx.Root.Index()
	for _, id := range c.action.SelectedIDs {
		el := index.ByID(id)
		if el == nil {
			logger().Warn("select skipped unresolvable element", "id", id)
			continue
		}
		if !el.HasFeature(sprotty.FeatureSelect) || el.Selected {
			continue
		}
		entry := selectEntry{el: el, selected: true}
		if p := el.Parent(); p != nil {
			entry.order = p.ChildIDs()
		}
		el.Selected = true
		el.Raise()
		c.entries = append(c.entries, entry)
	}
	for _, id := range c.action.DeselectedIDs {
		el := index.ByID(id)
		if el == nil {
			logger().Warn("deselect skipped unresolvable element", "id", id)
			continue
		}
		if !el.HasFeature(sprotty.FeatureSelect) || !el.Selected {
			continue
		}
		el.Selected = false
		c.entries = append(c.entries, selectEntry{el: el, selected: false})
	}
	return Result{Root: ctx.Root}, nil
}

// Undo restores the recorded flags and child orders in reverse of
// Execute's effects.
func (c *Select) Undo(ctx *Context) Result {
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		e.el.Selected = !e.selected
		if e.order != nil {
			if p := e.el.Parent(); p != nil {
				p.RestoreChildOrder(e.order)
			}
		}
	}
	return Result{Root: ctx.Root}
}

// Redo replays the recorded changes without re-resolving any ids.
func (c *Select) Redo(ctx *Context) Result {
	for _, e := range c.entries {
		e.el.Selected = e.selected
		if e.selected {
			e.el.Raise()
		}
	}
	return Result{Root: ctx.Root}
}

// Merge always rejects; selection changes never coalesce.
func (c *Select) Merge(Command, *Context) bool { return false }

// SelectAll selects or deselects every selectable element. Unlike
// [Select] it does not reorder anything; only individual selection
// raises elements.
type SelectAll struct {
	action  *sprotty.SelectAllAction
	touched []*sprotty.Element
}

// NewSelectAll creates the command for a select-all or deselect-all.
func NewSelectAll(action *sprotty.SelectAllAction) *SelectAll {
	return &SelectAll{action: action}
}

// Execute flips every selectable element whose flag differs from the
// target state and records it for undo. The walk is in tree order, so
// the journal is deterministic.
func (c *SelectAll) Execute(ctx *Context) (Result, error) {
	want := c.action.Select
	ctx.Root.Element.Walk(func(el *sprotty.Element) {
		if !el.HasFeature(sprotty.FeatureSelect) || el.Selected == want {
			return
		}
		el.Selected = want
		c.touched = append(c.touched, el)
	})
	return Result{Root: ctx.Root}, nil
}

// Undo restores the prior flag on every touched element.
func (c *SelectAll) Undo(ctx *Context) Result {
	for _, el := range c.touched {
		el.Selected = !c.action.Select
	}
	return Result{Root: ctx.Root}
}

// Redo reapplies the flag on every touched element.
func (c *SelectAll) Redo(ctx *Context) Result {
	for _, el := range c.touched {
		el.Selected = c.action.Select
	}
	return Result{Root: ctx.Root}
}

// Merge always rejects.
func (c *SelectAll) Merge(Command, *Context) bool { return false }
