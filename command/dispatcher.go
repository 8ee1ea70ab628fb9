package command

import (
	"errors"

	sprotty "github.com/tortmayr/sprotty-1"
)

// ErrNilAction is returned when a nil action is dispatched.
var ErrNilAction = errors.New("command: nil action")

// Dispatcher routes incoming actions to a stack. Model-changing actions
// become commands through the registry and are executed; undo and redo
// actions drive the history; request actions are answered through the
// responder without touching the model.
type Dispatcher struct {
	stack   *Stack
	respond func(sprotty.Action)
}

// DispatcherOption configures a Dispatcher during creation.
type DispatcherOption func(*Dispatcher)

// WithResponder installs the hook that sends response actions back to
// the client, e.g. the model answering a request-model action. Without
// a responder, responses are dropped.
func WithResponder(fn func(sprotty.Action)) DispatcherOption {
	return func(d *Dispatcher) { d.respond = fn }
}

// NewDispatcher creates a dispatcher for the given stack.
func NewDispatcher(stack *Stack, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{stack: stack}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes one action. For actions that run a command the
// returned channel behaves like [Stack.Execute]'s; for request actions
// the response has been handed to the responder by the time Dispatch
// returns, and the channel is already closed. An unroutable action
// (nil, or a kind with no registered command) returns an error and
// leaves the model alone.
func (d *Dispatcher) Dispatch(a sprotty.Action) (<-chan *sprotty.Root, error) {
	if a == nil {
		return nil, ErrNilAction
	}
	switch act := a.(type) {
	case *sprotty.UndoAction:
		return d.stack.Undo(), nil
	case *sprotty.RedoAction:
		return d.stack.Redo(), nil
	case *sprotty.RequestModelAction:
		return d.requestModel(act), nil
	}
	c, err := For(a)
	if err != nil {
		return nil, err
	}
	return d.stack.Execute(c), nil
}

// requestModel answers a request-model action with a set-model action
// carrying a snapshot of the current model.
func (d *Dispatcher) requestModel(act *sprotty.RequestModelAction) <-chan *sprotty.Root {
	done := make(chan *sprotty.Root)
	if el, ok := <-d.stack.Snapshot(); ok && d.respond != nil {
		d.respond(&sprotty.SetModelAction{Model: el, ResponseID: act.RequestID})
	}
	close(done)
	return done
}
