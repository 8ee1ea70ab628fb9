package animation

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the default frame interval, roughly 60 frames per
// second.
const DefaultInterval = 16 * time.Millisecond

// Handle tracks one scheduled animation. The scheduler returns it from
// Start; waiters block on Done to observe completion.
type Handle struct {
	anim     Animation
	duration time.Duration
	ease     Easing
	started  time.Time

	state atomic.Int32
	done  chan struct{}
}

// State returns the animation's lifecycle state. Safe for concurrent
// use.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Done returns a channel that is closed once the animation has received
// its final tick or was abandoned by a closing scheduler.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// step advances the animation to the given time. It runs on whatever
// goroutine the scheduler's post function chooses, one call at a time.
func (h *Handle) step(now time.Time) {
	switch h.State() {
	case Complete:
		return
	case Scheduled:
		h.started = now
		h.state.Store(int32(Ticking))
		h.anim.Tick(h.ease(0))
		return
	}
	elapsed := now.Sub(h.started)
	if elapsed >= h.duration {
		h.finish()
		return
	}
	h.anim.Tick(h.ease(float64(elapsed) / float64(h.duration)))
}

// finish delivers the terminal tick. The easing is bypassed so the
// animation lands exactly on t=1.
func (h *Handle) finish() {
	h.anim.Tick(1)
	h.complete()
}

// complete transitions to Complete and unblocks waiters. Only the first
// transition closes the channel.
func (h *Handle) complete() {
	if State(h.state.Swap(int32(Complete))) != Complete {
		close(h.done)
	}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithInterval sets the frame interval. Values below one millisecond are
// clamped to DefaultInterval.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d >= time.Millisecond {
			s.interval = d
		}
	}
}

// WithPost sets the function that delivers frame work. The scheduler
// calls it once per frame with a closure that ticks every active
// animation; the embedder runs that closure on the goroutine that owns
// the model. Without WithPost frames run inline on the scheduler's clock
// goroutine, which is only safe for single-threaded embeddings.
func WithPost(post func(func())) SchedulerOption {
	return func(s *Scheduler) {
		if post != nil {
			s.post = post
		}
	}
}

// Scheduler owns the frame clock that drives animations. Its goroutine
// starts lazily with the first animation and stops when none are left.
type Scheduler struct {
	interval time.Duration
	post     func(func())

	mu      sync.Mutex
	handles []*Handle
	running bool
	closed  bool
	quit    chan struct{}
}

// NewScheduler creates a scheduler. See WithPost for the threading
// contract.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		interval: DefaultInterval,
		post:     func(f func()) { f() },
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules an animation over the given duration and returns its
// handle. A non-positive duration completes synchronously: the animation
// receives its terminal tick before Start returns. On a closed scheduler
// the animation is abandoned without ticking.
func (s *Scheduler) Start(a Animation, d time.Duration) *Handle {
	return s.StartEased(a, d, EaseInOut)
}

// StartEased schedules an animation with a specific easing. A nil easing
// falls back to Linear.
func (s *Scheduler) StartEased(a Animation, d time.Duration, ease Easing) *Handle {
	if ease == nil {
		ease = Linear
	}
	h := &Handle{anim: a, duration: d, ease: ease, done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		h.complete()
		return h
	}
	if d <= 0 {
		s.mu.Unlock()
		h.state.Store(int32(Ticking))
		h.finish()
		return h
	}
	s.handles = append(s.handles, h)
	if !s.running {
		s.running = true
		go s.run()
	}
	s.mu.Unlock()
	return h
}

// Close stops the clock and abandons in-flight animations: their Done
// channels close without a final tick. Further Start calls complete
// immediately.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	abandoned := s.handles
	s.handles = nil
	close(s.quit)
	s.mu.Unlock()

	for _, h := range abandoned {
		h.complete()
	}
}

// run is the clock goroutine. It exits when the scheduler closes or all
// animations complete; the next Start launches a fresh one.
func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			if !s.frame() {
				return
			}
		}
	}
}

// frame posts one tick covering all active animations. It returns false
// once no animations remain, which stops the clock goroutine.
func (s *Scheduler) frame() bool {
	s.mu.Lock()
	s.handles = slices.DeleteFunc(s.handles, func(h *Handle) bool {
		return h.State() == Complete
	})
	if len(s.handles) == 0 {
		s.running = false
		s.mu.Unlock()
		return false
	}
	active := slices.Clone(s.handles)
	s.mu.Unlock()

	s.post(func() {
		now := time.Now()
		for _, h := range active {
			h.step(now)
		}
	})
	return true
}
