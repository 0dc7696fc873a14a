// SPDX-License-Identifier: Unlicense OR MIT

// Package opentype implements a reference capability.FontDriver (and its
// optional capability.Shaper) over an OpenType font, grounded on
// gioui.org/text/gotext.go's shapeText pipeline: one HarfbuzzShaper.Shape
// call per already-itemized, same-face run.
//
// NOTE: the OpenType spec allows bitmap glyph images in several formats;
// in the interest of small binary sizes only the PNG decoder is imported.
package opentype

import (
	"bytes"
	"fmt"
	_ "image/png"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// Face is a shapeable capability.RealizedFace backed by a parsed OpenType
// font at a fixed size.
type Face struct {
	face   gofont.Face
	size   fixed.Int26_6
	space  fixed.Int26_6
	driver *driver
}

// Parse constructs a Face from font file bytes at the given pixels-per-em
// size.
func Parse(src []byte, size fixed.Int26_6) (*Face, error) {
	f, err := gofont.ParseTTF(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("opentype: parse face: %w", err)
	}
	face := &Face{face: f, size: size}
	face.driver = &driver{face: face}
	face.space = face.advanceOf(' ')
	return face, nil
}

func (f *Face) SpaceWidth() fixed.Int26_6 { return f.space }
func (f *Face) Box() interface{}          { return nil }
func (f *Face) BoxMetrics() (inner, width, outer fixed.Int26_6) {
	return 0, 0, 0
}
func (f *Face) Driver() capability.FontDriver { return f.driver }

func (f *Face) advanceOf(r rune) fixed.Int26_6 {
	out := f.shapeRunes([]rune{r}, language.Common)
	if len(out.Glyphs) == 0 {
		return f.size / 2
	}
	return out.Glyphs[0].XAdvance
}

func (f *Face) shapeRunes(runes []rune, script language.Script) shaping.Output {
	var shaper shaping.HarfbuzzShaper
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Size:      f.size,
		Face:      f.face,
		Script:    script,
		Language:  language.NewLanguage("en"),
		Direction: di.DirectionLTR,
	}
	return shaper.Shape(input)
}

// driver implements capability.FontDriver and capability.Shaper for a
// single Face.
type driver struct {
	face *Face
}

// EncodeChar shapes a single-rune input and reports its glyph id; this
// reuses the same harfbuzz entry point as full-run shaping rather than a
// separate cmap lookup, since the shaper already resolves substitution
// and fallback for a lone rune.
func (d *driver) EncodeChar(r rune) (uint32, bool) {
	out := d.face.shapeRunes([]rune{r}, language.LookupScript(r))
	if len(out.Glyphs) == 0 || out.Glyphs[0].GlyphID == 0 {
		return 0, false
	}
	return uint32(out.Glyphs[0].GlyphID), true
}

func (d *driver) Shaper() (capability.Shaper, bool) { return d, true }

// Run shapes gs.Glyphs[from:to] (one same-face, same-script, same-language
// run the composer has already itemized) through harfbuzz and splices the
// shaped glyphs back in, since harfbuzz may cluster multiple source
// characters into one glyph or split one character into several.
func (d *driver) Run(gs *glyph.GlyphString, from, to int, face capability.RealizedFace) (int, error) {
	if to <= from {
		return to, nil
	}
	run := gs.Glyphs[from:to]
	runes := make([]rune, len(run))
	for i, g := range run {
		runes[i] = g.Char
	}
	script := language.Common
	if len(runes) > 0 {
		script = language.LookupScript(runes[0])
	}
	out := d.face.shapeRunes(runes, script)

	shaped := make([]glyph.Glyph, 0, len(out.Glyphs))
	base := run[0].Pos
	for _, g := range out.Glyphs {
		pos := base + glyph.CharPos(g.ClusterIndex)
		clusterEnd := pos + glyph.CharPos(g.RuneCount)
		if g.RuneCount == 0 {
			clusterEnd = pos + 1
		}
		shaped = append(shaped, glyph.Glyph{
			Kind:  glyph.Char,
			Code:  uint32(g.GlyphID),
			Pos:   pos,
			To:    clusterEnd,
			Face:  face,
			Width: g.XAdvance,
			XOff:  g.XOffset,
			YOff:  g.YOffset,
		})
	}
	if len(shaped) == 0 {
		shaped = append(shaped, glyph.Glyph{Kind: glyph.Char, Code: glyph.InvalidCode, Pos: run[0].Pos, To: run[len(run)-1].To, Face: face})
	}

	newEnd := from + len(shaped)
	gs.Glyphs = append(gs.Glyphs[:from], append(shaped, gs.Glyphs[to:]...)...)
	return newEnd, nil
}

// Render draws gs.Glyphs[from:to] by delegating to win's DrawGlyphs
// method (framedriver/raster and framedriver/pdf both provide one); it
// returns an error when win has no such method.
func (d *driver) Render(win interface{}, x, y fixed.Int26_6, gs *glyph.GlyphString, from, to int, reverse bool, region interface{}) error {
	r, ok := win.(interface {
		DrawGlyphs(gs *glyph.GlyphString, from, to int, x, y fixed.Int26_6, reverse bool) error
	})
	if !ok {
		return fmt.Errorf("opentype: render target does not implement glyph drawing")
	}
	return r.DrawGlyphs(gs, from, to, x, y, reverse)
}
