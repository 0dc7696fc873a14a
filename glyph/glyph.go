// SPDX-License-Identifier: Unlicense OR MIT

// Package glyph defines the shared data model that flows between the
// composer, layouter, bidi reorderer, line breaker and renderer: a
// GlyphString is an Anchor-bounded sequence of Glyphs, each covering a
// range of source characters.
package glyph

import "golang.org/x/image/math/fixed"

// CharPos is a 0-based index into the backing text.
type CharPos int

// Kind discriminates the role a Glyph plays in a GlyphString.
type Kind uint8

const (
	// Char is an ordinary glyph produced from one or more source characters.
	Char Kind = iota
	// Space is a whitespace or tab glyph.
	Space
	// Pad is a padding pseudo-glyph inserted to cover negative bearings.
	Pad
	// Box is a pseudo-glyph marking the edge of a face's box decoration.
	Box
	// Anchor is a sentinel glyph bounding a GlyphString on both ends.
	Anchor
)

func (k Kind) String() string {
	switch k {
	case Char:
		return "Char"
	case Space:
		return "Space"
	case Pad:
		return "Pad"
	case Box:
		return "Box"
	case Anchor:
		return "Anchor"
	default:
		return "Kind(?)"
	}
}

// InvalidCode marks a glyph whose font could not supply a glyph id.
const InvalidCode = ^uint32(0)

// Face is the opaque realized-face handle a Glyph carries. The concrete
// type is supplied by a capability.FaceResolver; the layout engine never
// looks inside it beyond what capability.FontDriver exposes.
type Face interface {
	// SpaceWidth is the advance of an ordinary space in this face, in
	// device units, used to size Space/tab glyphs and empty-box fallbacks.
	SpaceWidth() fixed.Int26_6
	// Box reports the box decoration pointer used to detect box-edge
	// transitions between adjacent glyphs (nil means "no box"). Distinct
	// faces sharing the same non-nil box are considered the same box.
	Box() interface{}
	// BoxMetrics reports the inner/outer horizontal margins and width used
	// to size a Box pseudo-glyph when this face's Box() is non-nil.
	BoxMetrics() (innerHMargin, width, outerHMargin fixed.Int26_6)
}

// Glyph is one element of a GlyphString.
type Glyph struct {
	Kind Kind
	Char rune
	Code uint32

	// Pos, To describe the covered source-character range; Pos < To for
	// every non-Anchor glyph. Within a combining cluster every member
	// shares the same [Pos, To).
	Pos, To CharPos

	Face Face

	// Category is the Unicode general-category symbol of Char ("Mn", "Lu",
	// ...), or "" when not applicable (Anchor, Box, Pad).
	Category string

	// CombiningCode is the packed 6-field code from package combining.
	// Zero means "base glyph".
	CombiningCode uint32

	// BidiLevel is the embedding level assigned by the bidi reorderer.
	BidiLevel uint8

	Width, LBearing, RBearing, Ascent, Descent fixed.Int26_6
	XOff, YOff                                 fixed.Int26_6

	LeftPadding, RightPadding bool
	OTFEncoded                bool
	Enabled                   bool
}

// IsBase reports whether g is a base glyph (not itself a combining mark).
func (g *Glyph) IsBase() bool {
	return g.CombiningCode == 0
}

// GlyphString is an ordered sequence of glyphs flanked by two Anchor
// sentinels (index 0 and len-1). All walks over a GlyphString should treat
// those positions as boundaries rather than payload.
type GlyphString struct {
	Glyphs []Glyph

	// From, To is the logical char range this GlyphString covers.
	From, To CharPos

	Indent     fixed.Int26_6
	WidthLimit fixed.Int26_6

	Width, LBearing, RBearing                     fixed.Int26_6
	Ascent, Descent                                fixed.Int26_6
	PhysicalAscent, PhysicalDescent                fixed.Int26_6
	TextAscent, TextDescent                        fixed.Int26_6
	LineAscent, LineDescent                        fixed.Int26_6
	Height                                         fixed.Int26_6
	SubWidth, SubLBearing, SubRBearing             fixed.Int26_6

	// Control is a snapshot of the draw control used to produce this
	// GlyphString; the cache uses it to decide whether a cached chain may
	// be reused for a new request. Stored as interface{} here to avoid an
	// import cycle with package capability; capability.DrawControl is the
	// concrete type in practice.
	Control interface{}

	// Next links to the GlyphString of the physical line below, when line
	// breaking split the logical range into more than one physical line.
	Next *GlyphString
}

// NewAnchored returns a GlyphString containing only the two sentinel
// Anchor glyphs, covering the empty range [from, from).
func NewAnchored(from CharPos) *GlyphString {
	gs := &GlyphString{From: from, To: from}
	gs.Glyphs = []Glyph{
		{Kind: Anchor, Pos: from, To: from},
		{Kind: Anchor, Pos: from, To: from},
	}
	return gs
}

// Len returns the number of glyphs, including the two anchors.
func (gs *GlyphString) Len() int { return len(gs.Glyphs) }

// FirstAnchor and LastAnchor return pointers to the sentinel glyphs.
func (gs *GlyphString) FirstAnchor() *Glyph { return &gs.Glyphs[0] }
func (gs *GlyphString) LastAnchor() *Glyph  { return &gs.Glyphs[len(gs.Glyphs)-1] }

// Interior returns the glyph slice excluding the two anchors.
func (gs *GlyphString) Interior() []Glyph {
	if len(gs.Glyphs) < 2 {
		return nil
	}
	return gs.Glyphs[1 : len(gs.Glyphs)-1]
}

// InsertAt inserts g at index i (which must be in (0, len-1], i.e. strictly
// between the leading anchor and at or before the trailing anchor),
// relocating the backing array. Callers must not retain pointers into
// gs.Glyphs across a call to InsertAt.
func (gs *GlyphString) InsertAt(i int, g Glyph) {
	gs.Glyphs = append(gs.Glyphs, Glyph{})
	copy(gs.Glyphs[i+1:], gs.Glyphs[i:])
	gs.Glyphs[i] = g
}

// ClusterEnd returns the index one past the last glyph sharing base's
// cluster (base plus any immediately following combining marks), starting
// the search at baseIdx.
func (gs *GlyphString) ClusterEnd(baseIdx int) int {
	i := baseIdx + 1
	for i < len(gs.Glyphs)-1 && gs.Glyphs[i].CombiningCode != 0 {
		i++
	}
	return i
}
