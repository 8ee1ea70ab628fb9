// Package measure computes rendered text sizes for diagram labels.
//
// Diagram clients normally measure label bounds in a hidden DOM pass and
// report them back to the server. When the server renders on its own,
// for SVG export or for models no client has touched yet, it needs an
// equivalent pass. This package provides it: a [Measurer] turns a label
// string and a font size into a width and height, and [ComputeBounds]
// walks a model and collects the measured sizes into a
// [sprotty.SetBoundsAction] ready for dispatch.
//
// Two measurers are included. [Shaped] runs full HarfBuzz shaping via
// go-text/typesetting and is the default choice; [Basic] is a
// fixed-advance fallback that needs no font file at all.
package measure

import (
	"fmt"

	sprotty "github.com/tortmayr/sprotty-1"
)

// DefaultFontSize is the label font size, in diagram units, assumed when
// no [WithFontSize] option is given. It matches the font size the SVG
// exporter renders labels with.
const DefaultFontSize = 14

// Measurer computes the rendered size of a single line of text at a
// given font size. Implementations must be safe for concurrent use;
// every server session may measure through the same instance.
type Measurer interface {
	Measure(text string, size float64) (sprotty.Size, error)
}

// Option configures a [ComputeBounds] pass.
type Option func(*config)

type config struct {
	fontSize float64
}

func defaultConfig() config {
	return config{fontSize: DefaultFontSize}
}

// WithFontSize sets the font size labels are measured at. The default is
// [DefaultFontSize].
func WithFontSize(size float64) Option {
	return func(c *config) {
		c.fontSize = size
	}
}

// ComputeBounds measures every label under root and returns a
// [sprotty.SetBoundsAction] carrying the sizes that changed. Elements
// without display text or without the bounds feature are skipped, as are
// labels whose recorded size already matches the measurement. The
// returned action is nil when no element needs new bounds.
//
// Positions are left untouched: the action's entries carry a size only,
// so applying them never moves an element.
func ComputeBounds(root *sprotty.Root, m Measurer, opts ...Option) (*sprotty.SetBoundsAction, error) {
	if root == nil || m == nil {
		return nil, nil
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var bounds []sprotty.ElementAndBounds
	var walkErr error
	root.Walk(func(e *sprotty.Element) {
		if walkErr != nil || e.Text == "" || !e.HasFeature(sprotty.FeatureBounds) {
			return
		}
		size, err := m.Measure(e.Text, cfg.fontSize)
		if err != nil {
			walkErr = fmt.Errorf("measure: label %q: %w", e.ID, err)
			return
		}
		if size == e.Size {
			return
		}
		bounds = append(bounds, sprotty.ElementAndBounds{
			ElementID: e.ID,
			NewSize:   size,
		})
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if len(bounds) == 0 {
		return nil, nil
	}
	return &sprotty.SetBoundsAction{Bounds: bounds}, nil
}
