package animation

import (
	sprotty "github.com/tortmayr/sprotty-1"
)

// ElementMove is one element's path through a Move animation.
type ElementMove struct {
	Element *sprotty.Element
	From    sprotty.Point
	To      sprotty.Point
}

// Move interpolates element positions between two endpoints. Reverse
// playback swaps the endpoints rather than reflecting t, so a reversed
// animation is driven by the same increasing progress values as a
// forward one.
type Move struct {
	moves   []ElementMove
	reverse bool
}

// NewMove creates a move animation over the given element paths.
func NewMove(moves []ElementMove, reverse bool) *Move {
	return &Move{moves: moves, reverse: reverse}
}

// Tick positions every element at progress t along its path.
func (m *Move) Tick(t float64) {
	for _, mv := range m.moves {
		from, to := mv.From, mv.To
		if m.reverse {
			from, to = to, from
		}
		mv.Element.Position = from.Lerp(to, t)
	}
}

// FadeType selects the direction of an element fade.
type FadeType uint8

const (
	// FadeIn raises opacity from 0 to 1 for appearing elements.
	FadeIn FadeType = iota
	// FadeOut lowers opacity from 1 to 0 for disappearing elements.
	FadeOut
)

// ElementFade is one element's part in a Fade animation. RemoveOnEnd
// detaches a faded-out element from its parent after the final tick,
// which is how disappearing elements leave the model once they are
// invisible.
type ElementFade struct {
	Element     *sprotty.Element
	Type        FadeType
	RemoveOnEnd bool
}

// Fade animates element opacities for appearing and disappearing
// elements.
type Fade struct {
	fades []ElementFade
}

// NewFade creates a fade animation over the given element fades.
func NewFade(fades []ElementFade) *Fade {
	return &Fade{fades: fades}
}

// Tick applies the opacity for progress t and, on the final tick,
// detaches the fades marked RemoveOnEnd.
func (f *Fade) Tick(t float64) {
	for _, fd := range f.fades {
		switch fd.Type {
		case FadeIn:
			fd.Element.Opacity = t
		case FadeOut:
			fd.Element.Opacity = 1 - t
		}
	}
	if t >= 1 {
		for _, fd := range f.fades {
			if fd.Type == FadeOut && fd.RemoveOnEnd {
				// Already-detached elements are fine to skip.
				_ = fd.Element.Detach()
			}
		}
	}
}

// ViewportTween animates a root's scroll and zoom between two viewports.
type ViewportTween struct {
	root       *sprotty.Root
	fromScroll sprotty.Point
	toScroll   sprotty.Point
	fromZoom   float64
	toZoom     float64
}

// NewViewportTween creates a viewport animation on the given root.
func NewViewportTween(root *sprotty.Root, from, to sprotty.Viewport) *ViewportTween {
	return &ViewportTween{
		root:       root,
		fromScroll: from.Scroll,
		toScroll:   to.Scroll,
		fromZoom:   from.Zoom,
		toZoom:     to.Zoom,
	}
}

// Tick applies the interpolated viewport for progress t.
func (v *ViewportTween) Tick(t float64) {
	v.root.Scroll = v.fromScroll.Lerp(v.toScroll, t)
	v.root.Zoom = sprotty.Lerp(v.fromZoom, v.toZoom, t)
}
