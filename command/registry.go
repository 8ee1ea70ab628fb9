package command

import (
	"fmt"
	"sort"
	"sync"

	sprotty "github.com/tortmayr/sprotty-1"
)

// Factory constructs the command that handles one action kind. The
// action passed in has the concrete type that was registered for the
// kind with [sprotty.RegisterAction].
type Factory func(a sprotty.Action) (Command, error)

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register registers a command factory for an action kind. The built-in
// commands register themselves; call this only for custom kinds,
// typically from init():
//
//	func init() {
//	    command.Register("myAction", func(a sprotty.Action) (command.Command, error) {
//	        return NewMyCommand(a.(*MyAction)), nil
//	    })
//	}
//
// Register panics if:
//   - factory is nil
//   - a factory for the same kind is already registered
//
// This ensures that duplicate registrations are caught early during
// program initialization rather than silently overwriting factories.
func Register(kind string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("command: Register factory is nil")
	}
	if _, dup := factories[kind]; dup {
		panic("command: Register called twice for " + kind)
	}
	factories[kind] = factory
}

// Unregister removes a factory from the registry.
// This is primarily useful for testing to clean up between tests.
// If the kind is not registered, this is a no-op.
func Unregister(kind string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, kind)
}

// For constructs the command handling the given action. It returns an
// error when no factory is registered for the action's kind.
func For(a sprotty.Action) (Command, error) {
	registryMu.RLock()
	factory, ok := factories[a.Kind()]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("command: no command for action kind %q (forgotten registration?)", a.Kind())
	}
	return factory(a)
}

// Kinds returns a sorted list of the action kinds with a registered
// command factory.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for kind := range factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// IsRegistered checks if a command factory is registered for the kind.
func IsRegistered(kind string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[kind]
	return ok
}

// as asserts that an action has the concrete type its factory expects.
func as[T sprotty.Action](a sprotty.Action) (T, error) {
	t, ok := a.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("command: action %T does not match its registered kind %q", a, a.Kind())
	}
	return t, nil
}

func init() {
	Register(sprotty.KindSelect, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.SelectAction](a)
		if err != nil {
			return nil, err
		}
		return NewSelect(act), nil
	})
	Register(sprotty.KindSelectAll, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.SelectAllAction](a)
		if err != nil {
			return nil, err
		}
		return NewSelectAll(act), nil
	})
	Register(sprotty.KindMove, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.MoveAction](a)
		if err != nil {
			return nil, err
		}
		return NewMove(act), nil
	})
	Register(sprotty.KindSetViewport, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.SetViewportAction](a)
		if err != nil {
			return nil, err
		}
		return NewSetViewport(act), nil
	})
	Register(sprotty.KindCenter, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.CenterAction](a)
		if err != nil {
			return nil, err
		}
		return NewCenter(act), nil
	})
	Register(sprotty.KindFitToScreen, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.FitToScreenAction](a)
		if err != nil {
			return nil, err
		}
		return NewFitToScreen(act), nil
	})
	Register(sprotty.KindCollapseExpand, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.CollapseExpandAction](a)
		if err != nil {
			return nil, err
		}
		return NewCollapseExpand(act), nil
	})
	Register(sprotty.KindCollapseExpandAll, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.CollapseExpandAllAction](a)
		if err != nil {
			return nil, err
		}
		return NewCollapseExpandAll(act), nil
	})
	Register(sprotty.KindHoverFeedback, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.HoverFeedbackAction](a)
		if err != nil {
			return nil, err
		}
		return NewHoverFeedback(act), nil
	})
	Register(sprotty.KindSetBounds, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.SetBoundsAction](a)
		if err != nil {
			return nil, err
		}
		return NewSetBounds(act), nil
	})
	Register(sprotty.KindSetModel, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.SetModelAction](a)
		if err != nil {
			return nil, err
		}
		return NewSetModel(act), nil
	})
	Register(sprotty.KindUpdateModel, func(a sprotty.Action) (Command, error) {
		act, err := as[*sprotty.UpdateModelAction](a)
		if err != nil {
			return nil, err
		}
		return NewUpdateModel(act), nil
	})
}
