package command

import (
	"sync"
	"time"

	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/animation"
)

// DefaultDuration is the default length of animated transitions.
const DefaultDuration = 250 * time.Millisecond

type opKind uint8

const (
	opExecute opKind = iota
	opUndo
	opRedo
	opSnapshot
)

// request is one unit of work submitted to the stack goroutine. Exactly
// one of result and snap is non-nil, depending on the operation.
type request struct {
	op     opKind
	cmd    Command
	result chan *sprotty.Root
	snap   chan *sprotty.Element
}

// StackOption configures a Stack during creation.
type StackOption func(*Stack)

// WithDuration sets how long animated transitions run. Zero or negative
// durations make every animation apply synchronously, which is useful in
// tests and batch tools.
func WithDuration(d time.Duration) StackOption {
	return func(s *Stack) { s.duration = d }
}

// WithFrameInterval sets the animation frame interval. The default is
// [animation.DefaultInterval].
func WithFrameInterval(d time.Duration) StackOption {
	return func(s *Stack) { s.interval = d }
}

// WithNotify installs the change-notification hook. The stack calls it
// on its own goroutine after every synchronous mutation and after every
// animation frame, passing the model root that changed; rendering
// collaborators use it to re-render. The hook must not call back into
// the stack.
func WithNotify(fn func(*sprotty.Root)) StackOption {
	return func(s *Stack) { s.notify = fn }
}

// WithZoomLimits bounds the zoom factor viewport commands may install.
func WithZoomLimits(z ZoomLimits) StackOption {
	return func(s *Stack) { s.zoom = z }
}

// WithRootBuilder replaces the factory that wraps element trees in model
// roots. The default is [sprotty.NewRoot].
func WithRootBuilder(fn func(*sprotty.Element) (*sprotty.Root, error)) StackOption {
	return func(s *Stack) {
		if fn != nil {
			s.buildRoot = fn
		}
	}
}

// Stack executes commands against a model and keeps their undo/redo
// history. All model access is serialized through one goroutine that the
// stack owns: submissions are processed strictly in order, and animation
// frames run as continuations between them, so no command ever observes
// a model that another mutation is halfway through.
//
// Undo and redo honor the command taxonomy: [System] commands executed
// while redos are pending are parked off-stack and rolled back before
// the next undo or redo, and [Reset] commands clear every history.
//
// A Stack must be closed when no longer needed. Close must not be called
// concurrently with Execute, Undo, Redo, or Snapshot.
type Stack struct {
	reqCh   chan request
	frameCh chan func()
	closeCh chan struct{}
	doneCh  chan struct{}
	closing sync.Once

	scheduler *animation.Scheduler
	duration  time.Duration
	interval  time.Duration
	notify    func(*sprotty.Root)
	zoom      ZoomLimits
	buildRoot func(*sprotty.Element) (*sprotty.Root, error)

	// Owned by the run goroutine; never touched from outside it.
	root      *sprotty.Root
	undoStack []Command
	redoStack []Command
	offStack  []Command
}

// NewStack creates a stack owning the given model and starts its
// goroutine. A nil root starts the stack on an empty placeholder model,
// to be replaced by the first SetModel command.
func NewStack(root *sprotty.Root, opts ...StackOption) *Stack {
	if root == nil {
		root = sprotty.EmptyRoot()
	}
	s := &Stack{
		reqCh:     make(chan request, 64),
		frameCh:   make(chan func(), 16),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
		duration:  DefaultDuration,
		interval:  animation.DefaultInterval,
		zoom:      DefaultZoomLimits,
		buildRoot: sprotty.NewRoot,
		root:      root,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scheduler = animation.NewScheduler(
		animation.WithInterval(s.interval),
		animation.WithPost(s.postFrame),
	)
	go s.run()
	return s
}

// Execute runs the command and records it for undo, unless it merges
// into the previous command or is transient. The returned channel
// delivers the resulting model root once the command and any animation
// it started have completed, then closes. On a closed stack the channel
// closes without a value.
func (s *Stack) Execute(c Command) <-chan *sprotty.Root {
	return s.submit(request{op: opExecute, cmd: c, result: make(chan *sprotty.Root, 1)})
}

// Undo reverts the latest undoable command. Transient feedback sitting
// on top of it is rolled back first. The channel contract matches
// [Stack.Execute]; when there is nothing to undo, the current root is
// delivered unchanged.
func (s *Stack) Undo() <-chan *sprotty.Root {
	return s.submit(request{op: opUndo, result: make(chan *sprotty.Root, 1)})
}

// Redo reapplies the latest undone command. The channel contract matches
// [Stack.Execute]; when there is nothing to redo, the current root is
// delivered unchanged.
func (s *Stack) Redo() <-chan *sprotty.Root {
	return s.submit(request{op: opRedo, result: make(chan *sprotty.Root, 1)})
}

// Snapshot delivers a deep copy of the current model tree, taken between
// commands on the stack goroutine. The copy is detached and safe to
// serialize while the stack keeps mutating the live model.
func (s *Stack) Snapshot() <-chan *sprotty.Element {
	req := request{op: opSnapshot, snap: make(chan *sprotty.Element, 1)}
	select {
	case <-s.doneCh:
		close(req.snap)
		return req.snap
	default:
	}
	select {
	case s.reqCh <- req:
	case <-s.doneCh:
		close(req.snap)
	}
	return req.snap
}

// Close stops the stack goroutine and abandons in-flight animations.
// Result channels of commands whose animations were abandoned still
// deliver; channels of requests that never ran close without a value.
// Close is idempotent.
func (s *Stack) Close() {
	s.closing.Do(func() { close(s.closeCh) })
	s.scheduler.Close()
	<-s.doneCh
	s.drain()
}

func (s *Stack) submit(req request) <-chan *sprotty.Root {
	// The done check comes first so that a submission on a closed stack
	// deterministically gets a closed channel instead of racing the
	// buffered queue.
	select {
	case <-s.doneCh:
		close(req.result)
		return req.result
	default:
	}
	select {
	case s.reqCh <- req:
	case <-s.doneCh:
		close(req.result)
	}
	return req.result
}

// postFrame delivers one animation frame into the stack goroutine. On a
// closing stack the frame is dropped; the scheduler's Close resolves the
// affected handles.
func (s *Stack) postFrame(f func()) {
	select {
	case s.frameCh <- f:
	case <-s.closeCh:
	}
}

// run is the goroutine that owns the model and the history stacks.
func (s *Stack) run() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.closeCh:
			s.drain()
			return
		case req := <-s.reqCh:
			s.handle(req)
		case f := <-s.frameCh:
			f()
			s.afterMutation()
		}
	}
}

// drain closes the channels of requests that will never run.
func (s *Stack) drain() {
	for {
		select {
		case req := <-s.reqCh:
			if req.result != nil {
				close(req.result)
			}
			if req.snap != nil {
				close(req.snap)
			}
		default:
			return
		}
	}
}

func (s *Stack) handle(req request) {
	switch req.op {
	case opExecute:
		s.execute(req.cmd, req.result)
	case opUndo:
		s.undo(req.result)
	case opRedo:
		s.redo(req.result)
	case opSnapshot:
		req.snap <- s.root.Element.Clone()
		close(req.snap)
	}
}

func (s *Stack) execute(c Command, res chan *sprotty.Root) {
	ctx := s.context()
	result, err := c.Execute(ctx)
	if err != nil {
		logger().Warn("command failed, model unchanged", "command", commandName(c), "error", err)
		s.deliver(nil, res)
		return
	}
	if result.Root != nil {
		s.root = result.Root
	}
	if _, ok := c.(Reset); ok {
		s.undoStack, s.redoStack, s.offStack = nil, nil, nil
	} else {
		s.mergeOrPush(c, ctx)
	}
	logger().Debug("command executed", "command", commandName(c),
		"undo", len(s.undoStack), "redo", len(s.redoStack))
	s.afterMutation()
	s.deliver(result.Animation, res)
}

// mergeOrPush records an executed command in the history. System
// commands executed while redos are pending park off-stack; any parked
// commands released by another command join the history in their
// original order right before it. Only user commands clear the redo
// history and take part in merging.
func (s *Stack) mergeOrPush(c Command, ctx *Context) {
	_, system := c.(System)
	if system && len(s.redoStack) > 0 {
		s.offStack = append(s.offStack, c)
		return
	}
	s.undoStack = append(s.undoStack, s.offStack...)
	s.offStack = nil
	if system {
		s.undoStack = append(s.undoStack, c)
		return
	}
	s.redoStack = nil
	if n := len(s.undoStack); n > 0 && s.undoStack[n-1].Merge(c, ctx) {
		logger().Debug("command merged", "command", commandName(c))
		return
	}
	s.undoStack = append(s.undoStack, c)
}

func (s *Stack) undo(res chan *sprotty.Root) {
	rolled := s.rollBackOffStack() + s.rollBackTopSystemCommands()
	n := len(s.undoStack)
	if n == 0 {
		if rolled > 0 {
			s.afterMutation()
		}
		s.deliver(nil, res)
		return
	}
	c := s.undoStack[n-1]
	s.undoStack = s.undoStack[:n-1]
	result := c.Undo(s.context())
	if result.Root != nil {
		s.root = result.Root
	}
	s.redoStack = append(s.redoStack, c)
	logger().Debug("command undone", "command", commandName(c))
	s.afterMutation()
	s.deliver(result.Animation, res)
}

func (s *Stack) redo(res chan *sprotty.Root) {
	rolled := s.rollBackOffStack()
	n := len(s.redoStack)
	if n == 0 {
		if rolled > 0 {
			s.afterMutation()
		}
		s.deliver(nil, res)
		return
	}
	c := s.redoStack[n-1]
	s.redoStack = s.redoStack[:n-1]
	result := c.Redo(s.context())
	if result.Root != nil {
		s.root = result.Root
	}
	s.undoStack = append(s.undoStack, c)
	logger().Debug("command redone", "command", commandName(c))
	s.afterMutation()
	s.deliver(result.Animation, res)
}

// rollBackOffStack undoes every parked system command, most recent
// first, and reports how many ran.
func (s *Stack) rollBackOffStack() int {
	rolled := 0
	for n := len(s.offStack); n > 0; n = len(s.offStack) {
		c := s.offStack[n-1]
		s.offStack = s.offStack[:n-1]
		s.applyUndo(c)
		rolled++
	}
	return rolled
}

// rollBackTopSystemCommands undoes and discards system commands sitting
// on top of the undo history, so the next undo hits a user command.
func (s *Stack) rollBackTopSystemCommands() int {
	rolled := 0
	for n := len(s.undoStack); n > 0; n = len(s.undoStack) {
		c, ok := s.undoStack[n-1].(System)
		if !ok {
			break
		}
		s.undoStack = s.undoStack[:n-1]
		s.applyUndo(c)
		rolled++
	}
	return rolled
}

func (s *Stack) applyUndo(c Command) {
	result := c.Undo(s.context())
	if result.Root != nil {
		s.root = result.Root
	}
}

// afterMutation bumps the model revision and invokes the notification
// hook. Called once per synchronous command and once per animation
// frame, so a frame covering several animations counts as one batch.
func (s *Stack) afterMutation() {
	s.root.Touch()
	if s.notify != nil {
		s.notify(s.root)
	}
}

// deliver sends the current root on res once the command's animation
// completes; synchronous commands deliver immediately.
func (s *Stack) deliver(h *animation.Handle, res chan *sprotty.Root) {
	root := s.root
	if h == nil {
		res <- root
		close(res)
		return
	}
	go func() {
		<-h.Done()
		res <- root
		close(res)
	}()
}

func (s *Stack) context() *Context {
	return &Context{
		Root:      s.root,
		Duration:  s.duration,
		Scheduler: s.scheduler,
		BuildRoot: s.buildRoot,
		Zoom:      s.zoom,
		Notify:    s.notify,
	}
}
