package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"lukechampine.com/blake3"

	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/command"
	"github.com/tortmayr/sprotty-1/measure"
)

// pendingPush tracks one dispatched action whose completion triggers a
// model push.
type pendingPush struct {
	action sprotty.Action
	result <-chan *sprotty.Root
}

// Session binds one WebSocket connection to its own command stack, so
// every client gets an isolated model and history. Inbound frames are
// decoded through the action registry and dispatched; once a dispatched
// action completes, the session pushes the updated model back to the
// client, unless its digest shows the client already has it.
type Session struct {
	id    string
	conn  *websocket.Conn
	stack *command.Stack
	disp  *command.Dispatcher
	meas  measure.Measurer

	// pending carries dispatched actions to the push worker in dispatch
	// order, so a slow animation cannot publish behind a later command.
	pending chan pendingPush

	writeMu sync.Mutex

	// digestMu guards the blake3 digest of the last model the client
	// received. Pushes with an unchanged digest are suppressed.
	digestMu sync.Mutex
	digest   [32]byte
	pushed   bool

	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, cfg Config, root *sprotty.Root, meas measure.Measurer) *Session {
	s := &Session{
		id:      id,
		conn:    conn,
		meas:    meas,
		pending: make(chan pendingPush, 64),
	}
	s.stack = command.NewStack(root,
		command.WithDuration(time.Duration(cfg.AnimationDuration)),
		command.WithFrameInterval(time.Duration(cfg.FrameInterval)),
		command.WithZoomLimits(cfg.zoomLimits()),
	)
	s.disp = command.NewDispatcher(s.stack, command.WithResponder(s.respond))
	return s
}

// ID returns the session identifier used in export URLs.
func (s *Session) ID() string { return s.id }

// Model returns a detached snapshot of the session's current model, or
// nil when the session is closed.
func (s *Session) Model() *sprotty.Element {
	el, ok := <-s.stack.Snapshot()
	if !ok {
		return nil
	}
	return el
}

// serve runs the session until the connection drops: a read loop that
// decodes and dispatches inbound actions, and a push worker that
// publishes model updates in dispatch order. It returns once both have
// stopped; the caller closes the stack afterwards.
func (s *Session) serve() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range s.pending {
			s.afterAction(p.action, p.result)
		}
	}()

	s.readLoop()
	close(s.pending)
	<-done
}

func (s *Session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger().Warn("session read failed", "session", s.id, "error", err)
			}
			return
		}
		s.handleFrame(data)
	}
}

func (s *Session) handleFrame(data []byte) {
	action, err := sprotty.DecodeAction(data)
	if err != nil {
		logger().Warn("session received undecodable action", "session", s.id, "error", err)
		return
	}
	ch, err := s.disp.Dispatch(action)
	if err != nil {
		logger().Warn("session action not dispatched", "session", s.id, "kind", action.Kind(), "error", err)
		return
	}
	logger().Debug("session dispatched action", "session", s.id, "kind", action.Kind())
	s.pending <- pendingPush{action: action, result: ch}
}

// afterAction completes one dispatched action: it waits for the command
// and its animation, runs the measuring pass when the model was
// replaced, and pushes the result to the client.
func (s *Session) afterAction(a sprotty.Action, ch <-chan *sprotty.Root) {
	if _, ok := <-ch; !ok {
		return
	}
	if s.meas != nil && replacesModel(a) {
		s.measureBounds()
	}
	s.pushModel()
}

func replacesModel(a sprotty.Action) bool {
	kind := a.Kind()
	return kind == sprotty.KindSetModel || kind == sprotty.KindUpdateModel
}

// measureBounds runs the label measuring pass against a snapshot of the
// model and applies the result through the dispatcher, so measured
// bounds enter the history as transparent system commands.
func (s *Session) measureBounds() {
	el, ok := <-s.stack.Snapshot()
	if !ok {
		return
	}
	root, err := sprotty.NewRoot(el)
	if err != nil {
		logger().Warn("session measuring pass skipped", "session", s.id, "error", err)
		return
	}
	action, err := measure.ComputeBounds(root, s.meas)
	if err != nil {
		logger().Warn("session measuring pass failed", "session", s.id, "error", err)
		return
	}
	if action == nil {
		return
	}
	ch, err := s.disp.Dispatch(action)
	if err != nil {
		logger().Warn("session bounds not applied", "session", s.id, "error", err)
		return
	}
	<-ch
}

// pushModel sends the current model to the client as an update, unless
// the client already has a model with the same digest.
func (s *Session) pushModel() {
	el, ok := <-s.stack.Snapshot()
	if !ok {
		return
	}
	if !s.recordModel(el) {
		return
	}
	s.send(&sprotty.UpdateModelAction{Model: el, Animate: true})
}

// recordModel digests the model and reports whether the client needs it.
func (s *Session) recordModel(el *sprotty.Element) bool {
	data, err := json.Marshal(el)
	if err != nil {
		logger().Warn("session model digest failed", "session", s.id, "error", err)
		return true
	}
	sum := blake3.Sum256(data)
	s.digestMu.Lock()
	defer s.digestMu.Unlock()
	if s.pushed && sum == s.digest {
		return false
	}
	s.pushed = true
	s.digest = sum
	return true
}

// respond sends a response action to the client. Models leaving through
// a response count as pushed, so the follow-up update is suppressed.
func (s *Session) respond(a sprotty.Action) {
	if sm, ok := a.(*sprotty.SetModelAction); ok && sm.Model != nil {
		s.recordModel(sm.Model)
	}
	s.send(a)
}

func (s *Session) send(a sprotty.Action) {
	data, err := sprotty.EncodeAction(a)
	if err != nil {
		logger().Warn("session response not encodable", "session", s.id, "kind", a.Kind(), "error", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logger().Debug("session write failed", "session", s.id, "error", err)
	}
}

// close drops the connection, which unwinds serve. Safe to call more
// than once and from any goroutine.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}
