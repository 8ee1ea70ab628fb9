package command

import (
	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/animation"
)

// SetModel replaces the model outright. It is a reset command: the undo,
// redo, and parked histories are cleared after it executes, because a
// brand-new model is a new history baseline. A model that fails to build
// (nil tree, duplicate ids) leaves the current model and history in
// place.
type SetModel struct {
	action  *sprotty.SetModelAction
	oldRoot *sprotty.Root
	newRoot *sprotty.Root
}

// NewSetModel creates the command for a set-model action.
func NewSetModel(action *sprotty.SetModelAction) *SetModel {
	return &SetModel{action: action}
}

// ResetCommand marks the command as a history baseline.
func (c *SetModel) ResetCommand() {}

// Execute builds a root from the action's element tree and installs it.
func (c *SetModel) Execute(ctx *Context) (Result, error) {
	root, err := ctx.BuildRoot(c.action.Model)
	if err != nil {
		return Result{}, err
	}
	c.oldRoot = ctx.Root
	c.newRoot = root
	return Result{Root: root}, nil
}

// Undo reinstalls the replaced model. The stack never calls it (reset
// commands do not enter the history), but a custom stack may.
func (c *SetModel) Undo(ctx *Context) Result {
	if c.oldRoot == nil {
		return Result{Root: ctx.Root}
	}
	return Result{Root: c.oldRoot}
}

// Redo reinstalls the new model.
func (c *SetModel) Redo(ctx *Context) Result {
	if c.newRoot == nil {
		return Result{Root: ctx.Root}
	}
	return Result{Root: c.newRoot}
}

// Merge always rejects.
func (c *SetModel) Merge(Command, *Context) bool { return false }

// UpdateModel morphs the model into a new one. When the update is
// animated and the new root keeps the old root's id, elements are
// matched by id across the two models: matched movable elements glide
// to their new positions, appearing fadeable elements fade in, and
// disappearing fadeable elements linger as temporary copies that fade
// out and then detach. In every other case the new model is installed
// as-is.
//
// Unlike [SetModel] an update is undoable: undo morphs back to the old
// model the same way.
type UpdateModel struct {
	action  *sprotty.UpdateModelAction
	oldRoot *sprotty.Root
	newRoot *sprotty.Root
}

// NewUpdateModel creates the command for an update-model action.
func NewUpdateModel(action *sprotty.UpdateModelAction) *UpdateModel {
	return &UpdateModel{action: action}
}

// Execute builds the new root and performs the forward transition.
func (c *UpdateModel) Execute(ctx *Context) (Result, error) {
	root, err := ctx.BuildRoot(c.action.Model)
	if err != nil {
		return Result{}, err
	}
	c.oldRoot = ctx.Root
	c.newRoot = root
	return c.performUpdate(ctx, c.oldRoot, c.newRoot), nil
}

// Undo morphs from the new model back to the old one.
func (c *UpdateModel) Undo(ctx *Context) Result {
	return c.performUpdate(ctx, c.newRoot, c.oldRoot)
}

// Redo morphs from the old model to the new one again.
func (c *UpdateModel) Redo(ctx *Context) Result {
	return c.performUpdate(ctx, c.oldRoot, c.newRoot)
}

// Merge always rejects.
func (c *UpdateModel) Merge(Command, *Context) bool { return false }

// performUpdate installs to as the model, morphing when the action asks
// for animation and the two roots share an id. A morph with nothing to
// do degrades to a plain install.
func (c *UpdateModel) performUpdate(ctx *Context, from, to *sprotty.Root) Result {
	if !c.action.Animate || from.ID != to.ID {
		return Result{Root: to}
	}
	morph := c.computeMorph(from, to)
	if morph.Len() == 0 {
		return Result{Root: to}
	}
	return Result{Root: to, Animation: ctx.Animate(morph)}
}

// computeMorph matches the two models by id and builds the transition.
// It prepares to for the animation's first frame: matched elements that
// moved are pinned at their old positions, appearing elements start
// fully transparent, and copies of disappearing elements are attached
// under their old parent.
func (c *UpdateModel) computeMorph(from, to *sprotty.Root) *animation.Compound {
	var moves []animation.ElementMove
	var fades []animation.ElementFade
	for id, m := range sprotty.MatchModels(from, to) {
		switch {
		case m.Left != nil && m.Right != nil:
			if !m.Right.HasFeature(sprotty.FeatureMove) || m.Left.Position == m.Right.Position {
				continue
			}
			moves = append(moves, animation.ElementMove{
				Element: m.Right,
				From:    m.Left.Position,
				To:      m.Right.Position,
			})
			m.Right.Position = m.Left.Position
		case m.Right != nil:
			if !m.Right.HasFeature(sprotty.FeatureFade) {
				continue
			}
			m.Right.Opacity = 0
			fades = append(fades, animation.ElementFade{Element: m.Right, Type: animation.FadeIn})
		case m.Left != nil:
			// The element is gone from the new model. Fade out a copy
			// under its old parent, if that parent still exists.
			if !m.Left.HasFeature(sprotty.FeatureFade) || m.LeftParentID == "" {
				continue
			}
			parent := to.Index().ByID(m.LeftParentID)
			if parent == nil {
				continue
			}
			ghost := m.Left.Clone()
			if err := parent.Append(ghost); err != nil {
				logger().Warn("update skipped fade-out", "id", id, "err", err)
				continue
			}
			fades = append(fades, animation.ElementFade{
				Element:     ghost,
				Type:        animation.FadeOut,
				RemoveOnEnd: true,
			})
		}
	}
	morph := animation.NewCompound()
	if len(fades) > 0 {
		morph.Add(animation.NewFade(fades))
	}
	if len(moves) > 0 {
		morph.Add(animation.NewMove(moves, false))
	}
	return morph
}
