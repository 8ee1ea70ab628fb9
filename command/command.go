// Package command implements the undoable command core of the diagram
// framework: the commands that mutate a model, the registry that maps
// action kinds to command factories, the stack that keeps undo/redo
// history, and the dispatcher that routes incoming actions.
//
// # Execution Model
//
// A [Stack] owns its model on a single goroutine. Execute, Undo, and Redo
// submit work to that goroutine and return a channel that delivers the
// resulting model root once the command and any animation it started have
// completed. Animation frames are posted into the same goroutine as
// continuations, so no command ever runs concurrently with a tick.
//
// # Command Taxonomy
//
// Three behaviors, distinguished by marker interfaces rather than
// inheritance:
//
//   - plain [Command]: undoable, may merge into the previous command,
//     clears the redo history when executed
//   - [System]: transient feedback (hover, measured bounds); never clears
//     the redo history and is rolled back before undo/redo so feedback
//     does not pollute the user's history
//   - [Reset]: a new history baseline (replacing the whole model); clears
//     the undo, redo, and parked histories
package command

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/animation"
)

// Command is a model-bound, reversible unit of execution derived from an
// action. A command resolves element ids against the model when it first
// executes and caches the resolution, so undo and redo never re-resolve
// (and never fail on elements that were deleted later).
//
// The stack calls Execute exactly once, then alternates Undo and Redo.
// All four methods run on the stack's goroutine and must not block.
type Command interface {
	// Execute applies the command to the model in the context. It may
	// mutate the model in place, replace it wholesale, or start an
	// animation that applies the change over several frames.
	Execute(ctx *Context) (Result, error)

	// Undo reverts the command using the state captured by Execute.
	Undo(ctx *Context) Result

	// Redo reapplies the command using the state captured by Execute.
	Redo(ctx *Context) Result

	// Merge folds a later command into this one so that both are undone
	// as a single history entry. It reports whether the merge was
	// accepted; when it returns false the caller pushes other as its own
	// entry. Merge is called after other has already executed.
	Merge(other Command, ctx *Context) bool
}

// System marks a command as transient feedback. System commands never
// clear the redo history: executed while redos are pending they are
// parked off-stack and rolled back before the next undo or redo.
type System interface {
	Command

	// SystemCommand is a marker method with no behavior.
	SystemCommand()
}

// Reset marks a command as a history baseline. After a reset command
// executes, the undo, redo, and parked histories are cleared.
type Reset interface {
	Command

	// ResetCommand is a marker method with no behavior.
	ResetCommand()
}

// Result is what one command operation produces: the model root after
// the synchronous part of the change, and the handle of an animation
// that is still applying the rest of it. Animation is nil when the
// change applied synchronously.
type Result struct {
	Root      *sprotty.Root
	Animation *animation.Handle
}

// ZoomLimits bounds the zoom factor viewport commands may install. The
// zero value disables clamping.
type ZoomLimits struct {
	Min float64
	Max float64
}

// DefaultZoomLimits allows zooming between 1% and 1000%.
var DefaultZoomLimits = ZoomLimits{Min: 0.01, Max: 10}

// Clamp returns zoom constrained to the limits.
func (z ZoomLimits) Clamp(zoom float64) float64 {
	if z == (ZoomLimits{}) {
		return zoom
	}
	if zoom < z.Min {
		return z.Min
	}
	if zoom > z.Max {
		return z.Max
	}
	return zoom
}

// Context carries everything a command operation may touch: the current
// model, the animation clock, and the stack's configuration. The stack
// builds a fresh Context for every Execute, Undo, Redo, and Merge call.
type Context struct {
	// Root is the current model.
	Root *sprotty.Root

	// Duration is how long animated transitions run. Zero makes every
	// animation complete synchronously on its first tick.
	Duration time.Duration

	// Scheduler drives animations started by this command. Prefer
	// [Context.Animate] over calling it directly.
	Scheduler *animation.Scheduler

	// BuildRoot wraps an element tree in a model root with a fresh
	// index. Commands that install a new model use it instead of
	// constructing roots themselves.
	BuildRoot func(*sprotty.Element) (*sprotty.Root, error)

	// Zoom bounds the zoom factor viewport commands may install.
	Zoom ZoomLimits

	// Notify is the change-notification hook. The stack invokes it
	// after every synchronous mutation and every animation frame;
	// custom commands may additionally call it to signal intermediate
	// states of a multi-stage change.
	Notify func(*sprotty.Root)
}

// Animate schedules an animation over the context's duration with the
// default easing and returns its handle.
func (c *Context) Animate(a animation.Animation) *animation.Handle {
	return c.Scheduler.Start(a, c.Duration)
}

// logger returns the package logger shared through the root package.
func logger() *slog.Logger {
	return sprotty.Logger()
}

// commandName returns a short command name for log attributes, e.g.
// "Move" for a *Move.
func commandName(c Command) string {
	name := fmt.Sprintf("%T", c)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
