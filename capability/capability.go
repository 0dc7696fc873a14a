// SPDX-License-Identifier: Unlicense OR MIT

// Package capability declares the collaborator interfaces the shaping and
// layout engine consumes: text-property storage, face resolution, font and
// frame drawing, and the pluggable bidi/line-break/format callbacks that
// DrawControl carries. None of these are implemented by the engine itself;
// package fontdriver, framedriver and internal/textstore provide reference
// implementations used by tests and cmd/shapedemo.
package capability

import (
	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/glyph"
)

// PropKey names a recognized text-property key.
type PropKey string

const (
	PropFace           PropKey = "face"
	PropLanguage       PropKey = "language"
	PropCharset        PropKey = "charset"
	PropScript         PropKey = "script"
	PropCategory       PropKey = "category"
	PropCombiningClass PropKey = "combining-class"
	PropBidiCategory   PropKey = "bidi-category"
	PropGlyphString    PropKey = "glyph-string"
)

// AttachFlags controls the lifetime semantics of an attached property.
type AttachFlags uint8

const (
	// VolatileWeak detaches silently on any edit overlapping its span.
	VolatileWeak AttachFlags = 1 << iota
	// VolatileStrong additionally forbids the span from being split by an
	// edit at its interior without detaching (used by the glyph cache).
	VolatileStrong
)

// Prop is an opaque handle to an attached property, returned by
// TextStore.AttachProp and consumed by TextStore.DetachProp.
type Prop interface{}

// TextStore is the text-property storage capability consumed by the
// composer, the glyph cache and the query APIs.
type TextStore interface {
	CharAt(pos glyph.CharPos) rune
	Len() int

	GetProp(pos glyph.CharPos, key PropKey) (value interface{}, ok bool)
	GetProps(pos glyph.CharPos, key PropKey, limit int) []interface{}

	// PropRange returns the contiguous range over which the property value
	// at pos for key is constant, optionally limited to backward/forward
	// neighborhoods; deep additionally crosses sub-property boundaries
	// (e.g. face sub-fields) when true.
	PropRange(pos glyph.CharPos, key PropKey, backward, forward bool, deep bool) (from, to glyph.CharPos)

	AttachProp(key PropKey, from, to glyph.CharPos, value interface{}, flags AttachFlags) Prop
	DetachProp(p Prop)
	Property(pos glyph.CharPos, key PropKey) (Prop, bool)
}

// RealizedFace is the result of FaceResolver.Realize: a face bound to a
// concrete size and frame. The engine treats it as an opaque glyph.Face
// plus a FontDriver for shaping/encoding.
type RealizedFace interface {
	glyph.Face
	Driver() FontDriver
}

// FaceResolver resolves logical face/language/charset/size attributes to a
// RealizedFace, and assigns per-glyph face/code during itemization.
type FaceResolver interface {
	Realize(faces []string, language, charset string, size fixed.Int26_6) (RealizedFace, error)

	// ForChars assigns Face and Code to every glyph in glyphs (which share
	// script/language/charset) in place. It may shrink glyphs (compaction)
	// but never grows it; callers should use the returned slice.
	ForChars(script, language, charset string, glyphs []glyph.Glyph, size fixed.Int26_6) []glyph.Glyph

	// Metrics fills Width/LBearing/RBearing/Ascent/Descent for every glyph
	// in gs.Glyphs[from:to].
	Metrics(gs *glyph.GlyphString, from, to int) error
}

// Shaper is the font-layout-table ("FLT") shaping capability a FontDriver
// may optionally expose.
type Shaper interface {
	// Run shapes gs.Glyphs[from:to] in place (may reorder/replace/grow
	// within that window) and returns the new end index.
	Run(gs *glyph.GlyphString, from, to int, face RealizedFace) (newEnd int, err error)
}

// FontDriver is the per-realized-font drawing/encoding capability.
type FontDriver interface {
	Render(win interface{}, x, y fixed.Int26_6, gs *glyph.GlyphString, from, to int, reverse bool, region interface{}) error
	EncodeChar(r rune) (code uint32, ok bool)
	// Shaper returns the optional layout-table shaper for this font.
	Shaper() (Shaper, bool)
}

// FrameDriver is the device drawing capability consumed by the renderer.
type FrameDriver interface {
	FillSpace(frame, win interface{}, face glyph.Face, isCursor bool, x, y, w, h fixed.Int26_6, clip interface{}) error
	DrawEmptyBoxes(win interface{}, x, y fixed.Int26_6, gs *glyph.GlyphString, from, to int, reverse bool, clip interface{}) error
	DrawBox(frame, win interface{}, gs *glyph.GlyphString, g *glyph.Glyph, x, y, width fixed.Int26_6, clip interface{}) error
	DrawHLine(frame, win interface{}, gs *glyph.GlyphString, face glyph.Face, reverse bool, x, y, width fixed.Int26_6) error

	RegionFromRect(x, y, w, h fixed.Int26_6) interface{}
	RegionAddRect(region interface{}, x, y, w, h fixed.Int26_6) interface{}
	IntersectRegion(a, b interface{}) interface{}
	FreeRegion(region interface{})
	RegionToRect(region interface{}) (x, y, w, h fixed.Int26_6)
}

// Environment carries process-wide character-property lookups and symbol
// interning as an explicit capability instead of global state.
type Environment interface {
	// Script returns the Unicode script of r ("Latn", "Arab", ...), or ""
	// for Common/Inherited/unassigned.
	Script(r rune) string
	// Category returns the two-letter Unicode general category ("Lu",
	// "Mn", ...).
	Category(r rune) string
	// CombiningClass returns the Unicode canonical combining class (0-255).
	CombiningClass(r rune) uint16
	// BidiCategory returns the bidi character type ("L", "R", "AL", "EN", ...).
	BidiCategory(r rune) string
	// Mirror returns the bidi mirror-glyph for r, if any.
	Mirror(r rune) (rune, bool)
}

// Reorderer is the bidi capability. Two implementations
// are provided: a full-Unicode-Bidi one and a legacy naive reversal.
type Reorderer interface {
	// Reorder rewrites gs into visual order in place, given the base
	// paragraph direction (rtl) and environment for per-character bidi
	// types. It returns whether any character was found to require RTL
	// handling.
	Reorder(gs *glyph.GlyphString, env Environment, rtl bool) (hadRTL bool, err error)
}

// LineBreaker is the pluggable custom line-break callback from DrawControl.
// It picks a break position near overflowPos (the default policy may pick
// one after it); the breaker splits the line only when the result lies
// strictly inside (from, to).
type LineBreaker interface {
	LineBreak(store TextStore, overflowPos, from, to glyph.CharPos) glyph.CharPos
}

// LineBreakerFunc adapts a function to LineBreaker.
type LineBreakerFunc func(store TextStore, overflowPos, from, to glyph.CharPos) glyph.CharPos

func (f LineBreakerFunc) LineBreak(store TextStore, overflowPos, from, to glyph.CharPos) glyph.CharPos {
	return f(store, overflowPos, from, to)
}

// Formatter is the per-line formatter callback from DrawControl: given
// the physical line number and its y-coordinate, it may override
// indent/width-limit for that line.
type Formatter interface {
	Format(line int, y fixed.Int26_6) (indent, widthLimit fixed.Int26_6, ok bool)
}
