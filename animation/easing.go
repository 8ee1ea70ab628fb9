package animation

// Easing shapes the raw progress value before it reaches an animation.
// An easing must map 0 to 0 and 1 to 1; the scheduler additionally
// bypasses it on the final frame so the terminal tick is exactly 1.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseInOut accelerates through the first half and decelerates through
// the second, which reads as natural motion for element moves and
// viewport transitions.
func EaseInOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - 2*(1-t)*(1-t)
}
