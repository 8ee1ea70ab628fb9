package measure

import (
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	sprotty "github.com/tortmayr/sprotty-1"
)

// Basic measures text against the fixed-advance bitmap face from
// golang.org/x/image/font/basicfont. It needs no font file and never
// fails, which makes it the fallback when no TTF is available or when
// deterministic sizes matter more than fidelity.
//
// The bitmap face has a single native size, so measurements are scaled
// linearly: the returned height equals the requested size and the width
// is the face advance scaled by the same factor. The zero value is ready
// to use and safe for concurrent use.
type Basic struct {
	// Face is the bitmap face advances are read from. Nil selects
	// basicfont.Face7x13.
	Face *basicfont.Face
}

// Measure implements the Measurer interface.
func (b *Basic) Measure(text string, size float64) (sprotty.Size, error) {
	if text == "" || size <= 0 {
		return sprotty.Size{}, nil
	}
	face := b.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	advance := xfont.MeasureString(face, text)
	scale := size / float64(face.Ascent+face.Descent)
	return sprotty.Size{
		Width:  fixedToFloat(advance) * scale,
		Height: size,
	}, nil
}
