// Package animation drives smooth model transitions from a frame clock.
//
// An [Animation] knows how to apply one interpolated state for a progress
// value t in [0,1]. The [Scheduler] owns the clock: it computes t from
// elapsed wall time and posts the resulting ticks through a configurable
// post function, so the embedder decides on which goroutine animations
// touch the model. The command stack posts ticks into its own loop, which
// interleaves animation frames with command executions.
//
// Every animation moves through three states: Scheduled (accepted, not
// yet ticked), Ticking, and Complete. The final frame always passes
// exactly t=1, so interpolations land on their target values without
// floating-point drift.
package animation

// Animation applies one interpolated state for a progress value.
//
// Tick is called with monotonically increasing values of t in [0,1]. The
// value may already be eased; implementations must treat t=0 as the start
// state and t=1 as the terminal state.
type Animation interface {
	Tick(t float64)
}

// State describes where an animation is in its lifecycle.
type State uint8

const (
	// Scheduled animations are accepted but have not ticked yet.
	Scheduled State = iota
	// Ticking animations are being driven by the frame clock.
	Ticking
	// Complete animations have received their final tick (or were
	// abandoned by a closing scheduler).
	Complete
)

var stateNames = [...]string{
	Scheduled: "scheduled",
	Ticking:   "ticking",
	Complete:  "complete",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Compound fans a tick out to several animations, so they run in
// lockstep over one duration.
type Compound struct {
	anims []Animation
}

// NewCompound combines animations into one. Nil entries are dropped.
func NewCompound(anims ...Animation) *Compound {
	c := &Compound{}
	for _, a := range anims {
		c.Add(a)
	}
	return c
}

// Add appends an animation to the compound.
func (c *Compound) Add(a Animation) {
	if a != nil {
		c.anims = append(c.anims, a)
	}
}

// Len returns the number of combined animations.
func (c *Compound) Len() int { return len(c.anims) }

// Tick forwards t to every combined animation.
func (c *Compound) Tick(t float64) {
	for _, a := range c.anims {
		a.Tick(t)
	}
}
