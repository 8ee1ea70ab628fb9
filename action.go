package sprotty

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Action is a serializable description of a model change or query. An
// action carries data only; the dispatcher resolves its kind tag to a
// handler or command through a registry, so new kinds can be added
// without touching any existing code.
type Action interface {
	// Kind returns the kind tag used for dispatch and as the "kind"
	// field of the JSON envelope.
	Kind() string
}

var (
	actionMu     sync.RWMutex
	actionProtos = make(map[string]func() Action)
)

// RegisterAction makes an action kind available to DecodeAction. The
// proto function must return a fresh zero value ready to be unmarshaled
// into.
//
// If RegisterAction is called twice with the same kind or if proto is
// nil, it panics. The built-in actions register themselves; call this
// only for custom action kinds.
func RegisterAction(kind string, proto func() Action) {
	actionMu.Lock()
	defer actionMu.Unlock()
	if proto == nil {
		panic("sprotty: RegisterAction proto is nil")
	}
	if _, dup := actionProtos[kind]; dup {
		panic("sprotty: RegisterAction called twice for kind " + kind)
	}
	actionProtos[kind] = proto
}

// ActionKinds returns a sorted list of the registered action kinds.
func ActionKinds() []string {
	actionMu.RLock()
	defer actionMu.RUnlock()
	kinds := make([]string, 0, len(actionProtos))
	for kind := range actionProtos {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DecodeAction decodes a JSON action envelope into its registered
// concrete type. The envelope is an object whose "kind" field selects
// the type; the remaining fields are the action's own.
func DecodeAction(data []byte) (Action, error) {
	var env struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("sprotty: invalid action envelope: %w", err)
	}
	if env.Kind == "" {
		return nil, errors.New("sprotty: action envelope has no kind")
	}
	actionMu.RLock()
	proto := actionProtos[env.Kind]
	actionMu.RUnlock()
	if proto == nil {
		return nil, fmt.Errorf("sprotty: unknown action kind %q (forgotten registration?)", env.Kind)
	}
	a := proto()
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("sprotty: decode %s action: %w", env.Kind, err)
	}
	return a, nil
}

// EncodeAction encodes an action as a JSON envelope with its kind tag
// spliced in. Object keys are emitted in sorted order, so the encoding
// of a given action is deterministic.
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("sprotty: encode %s action: %w", a.Kind(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("sprotty: %s action does not encode to an object: %w", a.Kind(), err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	kind, err := json.Marshal(a.Kind())
	if err != nil {
		return nil, err
	}
	fields["kind"] = kind
	return json.Marshal(fields)
}

// NewRequestID returns a fresh id for request actions that expect a
// response.
func NewRequestID() string {
	return uuid.NewString()
}
