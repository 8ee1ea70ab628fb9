package measure

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	sprotty "github.com/tortmayr/sprotty-1"
)

// Shaped measures text with HarfBuzz shaping via go-text/typesetting, so
// kerning, ligatures and complex scripts produce the same advances a
// client renderer would. The base direction of each label is derived
// from its content with the Unicode bidi algorithm, so Hebrew and Arabic
// labels shape right-to-left without configuration.
//
// Shaped is safe for concurrent use. The parsed font is read-only and
// shared; font.Face and shaping.HarfbuzzShaper are not concurrent-safe,
// so each Measure call builds a fresh lightweight Face and borrows a
// shaper from an internal pool.
type Shaped struct {
	font *font.Font

	// pool recycles HarfbuzzShaper instances. A shaper carries mutable
	// buffers, so concurrent Measure calls must not share one.
	pool sync.Pool
}

// NewShaped parses a TTF/OTF font and returns a measurer shaping with
// it. A nil ttf selects the embedded Go Regular face, so
// NewShaped(nil) never fails.
func NewShaped(ttf []byte) (*Shaped, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("measure: parse font: %w", err)
	}
	return &Shaped{
		font: face.Font,
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}, nil
}

// Measure implements the Measurer interface. The returned width is the
// total shaped advance and the height is the face's line height (ascent
// plus descent) at the given size.
func (s *Shaped) Measure(text string, size float64) (sprotty.Size, error) {
	if text == "" || size <= 0 {
		return sprotty.Size{}, nil
	}

	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: paragraphDirection(text),
		Face:      font.NewFace(s.font),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	shaper := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := shaper.Shape(input)
	s.pool.Put(shaper)

	// LineBounds.Descent extends below the baseline and is negative.
	height := output.LineBounds.Ascent - output.LineBounds.Descent
	return sprotty.Size{
		Width:  fixedToFloat(output.Advance),
		Height: fixedToFloat(height),
	}, nil
}

// paragraphDirection resolves the base direction of a label from its
// content. Mixed and neutral paragraphs fall back to left-to-right.
func paragraphDirection(text string) di.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return di.DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	if ordering.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune. Labels
// are short single-script runs, so one lookup is enough; mixed-script
// text would need splitting before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a font size to 26.6 fixed point.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a 26.6 fixed-point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
