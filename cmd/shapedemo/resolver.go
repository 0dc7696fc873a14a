// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// singleFaceResolver is the demo's capability.FaceResolver: it ignores the
// face/language/charset attributes (there is only ever one face loaded)
// and approximates ascent/descent from the requested point size, since
// neither fontdriver/opentype nor fontdriver/freetype's Face exposes real
// font-wide vertical metrics.
type singleFaceResolver struct {
	face capability.RealizedFace
	size fixed.Int26_6
}

func (r *singleFaceResolver) Realize(faces []string, language, charset string, size fixed.Int26_6) (capability.RealizedFace, error) {
	return r.face, nil
}

func (r *singleFaceResolver) ForChars(script, language, charset string, glyphs []glyph.Glyph, size fixed.Int26_6) []glyph.Glyph {
	for i := range glyphs {
		if glyphs[i].Kind != glyph.Char {
			continue
		}
		glyphs[i].Face = r.face
		if code, ok := r.face.Driver().EncodeChar(glyphs[i].Char); ok {
			glyphs[i].Code = code
		} else {
			glyphs[i].Code = glyph.InvalidCode
		}
	}
	return glyphs
}

func (r *singleFaceResolver) Metrics(gs *glyph.GlyphString, from, to int) error {
	ascent := r.size * 4 / 5
	descent := r.size - ascent
	for i := from; i < to; i++ {
		g := &gs.Glyphs[i]
		if g.Kind != glyph.Char {
			continue
		}
		if g.Width == 0 {
			g.Width = r.size / 2
		}
		g.Ascent, g.Descent = ascent, descent
		g.RBearing = g.Width
	}
	return nil
}
