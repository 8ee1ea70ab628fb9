package command

import (
	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/animation"
)

// resolvedMove is one element's movement with its ids resolved and its
// start position pinned down.
type resolvedMove struct {
	el   *sprotty.Element
	from sprotty.Point
	to   sprotty.Point
}

// Move repositions a set of elements. A non-animated move mutates
// positions synchronously, which is what drag gestures use: each mouse
// tick applies directly, and consecutive non-animated moves merge into
// one history entry, so undoing a drag returns to where the gesture
// started. An animated move interpolates positions over the context's
// duration instead.
//
// Undo and redo are always animated, regardless of the original animate
// flag, so history navigation reads as motion rather than teleports.
type Move struct {
	action   *sprotty.MoveAction
	resolved []resolvedMove
}

// NewMove creates the command for a move action.
func NewMove(action *sprotty.MoveAction) *Move {
	return &Move{action: action}
}

// resolve pins down one element move against the model. A move without
// an explicit start uses the element's current position, which hands a
// mid-animation element over without a jump.
func resolve(m sprotty.ElementMove, index *sprotty.Index) (resolvedMove, bool) {
	el := index.ByID(m.ElementID)
	if el == nil {
		logger().Warn("move skipped unresolvable element", "id", m.ElementID)
		return resolvedMove{}, false
	}
	if !el.HasFeature(sprotty.FeatureMove) {
		return resolvedMove{}, false
	}
	from := el.Position
	if m.FromPosition != nil {
		from = *m.FromPosition
	}
	return resolvedMove{el: el, from: from, to: m.ToPosition}, true
}

// Execute resolves the moves and applies them, synchronously or through
// an animation depending on the action's animate flag.
func (c *Move) Execute(ctx *Context) (Result, error) {
	for _, m := range c.action.Moves {
		if rm, ok := resolve(m, ctx.Root.Index()); ok {
			c.resolved = append(c.resolved, rm)
		}
	}
	if c.action.Animate {
		return Result{Root: ctx.Root, Animation: ctx.Animate(c.animation(false))}, nil
	}
	for _, rm := range c.resolved {
		rm.el.Position = rm.to
	}
	return Result{Root: ctx.Root}, nil
}

// Undo animates every element back to its start position.
func (c *Move) Undo(ctx *Context) Result {
	return Result{Root: ctx.Root, Animation: ctx.Animate(c.animation(true))}
}

// Redo animates every element forward to its target position again.
func (c *Move) Redo(ctx *Context) Result {
	return Result{Root: ctx.Root, Animation: ctx.Animate(c.animation(false))}
}

func (c *Move) animation(reverse bool) *animation.Move {
	moves := make([]animation.ElementMove, len(c.resolved))
	for i, rm := range c.resolved {
		moves[i] = animation.ElementMove{Element: rm.el, From: rm.from, To: rm.to}
	}
	return animation.NewMove(moves, reverse)
}

// Merge folds a later move into this one while this command is a
// synchronous drag (animate false) and other is also a move. Elements
// already tracked keep their original start and take the newer target;
// elements new to the gesture adopt other's captured paths, whose
// starts were pinned before other executed. A merged drag undoes to the
// gesture's true starting positions in one step.
func (c *Move) Merge(other Command, _ *Context) bool {
	if c.action.Animate {
		return false
	}
	om, ok := other.(*Move)
	if !ok {
		return false
	}
	for _, rm := range om.resolved {
		if i := c.indexOf(rm.el.ID); i >= 0 {
			c.resolved[i].to = rm.to
			continue
		}
		c.resolved = append(c.resolved, rm)
	}
	return true
}

func (c *Move) indexOf(id string) int {
	for i, rm := range c.resolved {
		if rm.el.ID == id {
			return i
		}
	}
	return -1
}
