// SPDX-License-Identifier: Unlicense OR MIT

// Package query implements the read-only introspection APIs over an
// already composed, laid-out GlyphString: overall/per-character extents,
// coordinate hit-testing, and cluster/neighbor lookup.
package query

import (
	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// Rect is an axis-aligned device-unit rectangle relative to a line's
// baseline origin.
type Rect struct {
	X, Y, W, H fixed.Int26_6
}

// Extents bundles the ink (actual drawn pixels) and logical (advance-based)
// bounding boxes of a range.
type Extents struct {
	Ink, Logical Rect
}

// TextExtents returns the widest physical line's width, plus the ink and
// logical bounding box of the whole chain when requested.
func TextExtents(gs *glyph.GlyphString, control *capability.DrawControl, withBoxes bool) (width fixed.Int26_6, ext Extents) {
	var ink, logical Rect
	first := true
	for line := gs; line != nil; line = line.Next {
		if line.Width > width {
			width = line.Width
		}
		if !withBoxes {
			if !control.TwoDimensional {
				break
			}
			continue
		}
		lineInk := Rect{X: -line.LBearing, Y: -line.Ascent, W: line.LBearing + line.RBearing, H: line.Ascent + line.Descent}
		lineLogical := Rect{X: 0, Y: -line.LineAscent, W: line.Width, H: line.LineAscent + line.LineDescent}
		if first {
			ink, logical = lineInk, lineLogical
			first = false
		} else {
			ink = union(ink, lineInk)
			logical = union(logical, lineLogical)
		}
		if !control.TwoDimensional {
			break
		}
	}
	return width, Extents{Ink: ink, Logical: logical}
}

func union(a, b Rect) Rect {
	x0, y0 := min6(a.X, b.X), min6(a.Y, b.Y)
	x1, y1 := max6(a.X+a.W, b.X+b.W), max6(a.Y+a.H, b.Y+b.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func min6(a, b fixed.Int26_6) fixed.Int26_6 {
	if a < b {
		return a
	}
	return b
}

func max6(a, b fixed.Int26_6) fixed.Int26_6 {
	if a > b {
		return a
	}
	return b
}

// PerCharExtents fills ink and logical boxes indexed by (char position -
// from) for every source character covered by the first physical line
// (the only line measured when control.TwoDimensional, per the two-dimensional
// per-character contract).
func PerCharExtents(gs *glyph.GlyphString, from glyph.CharPos, control *capability.DrawControl) (ink, logical []Rect) {
	n := int(gs.To - from)
	if n < 0 {
		n = 0
	}
	ink = make([]Rect, n)
	logical = make([]Rect, n)
	var x fixed.Int26_6
	for _, g := range gs.Interior() {
		idx := int(g.Pos - from)
		if idx < 0 || idx >= n {
			x += g.Width
			continue
		}
		logical[idx] = Rect{X: x, Y: -gs.LineAscent, W: g.Width, H: gs.LineAscent + gs.LineDescent}
		ink[idx] = Rect{X: x - g.LBearing, Y: -g.Ascent, W: g.LBearing + g.RBearing, H: g.Ascent + g.Descent}
		x += g.Width
	}
	return ink, logical
}

// CoordinatesPosition hit-tests (x, y) against gs's physical-line chain,
// clamping to gs.From when y sits above the chain and to the last line's
// To when below, and otherwise walking the line's glyphs left to right in
// buffer (visual) order to find the covering glyph. The walk is the same
// whatever control.OrientationReversed says.
func CoordinatesPosition(gs *glyph.GlyphString, control *capability.DrawControl, x, y fixed.Int26_6) glyph.CharPos {
	line := gs
	var lineTop fixed.Int26_6
	for line != nil {
		lineBottom := lineTop + line.LineAscent + line.LineDescent
		if y < lineTop {
			return gs.From
		}
		if y < lineBottom {
			return coordinatesPositionInLine(line, x)
		}
		if line.Next == nil {
			return line.To
		}
		lineTop = lineBottom
		line = line.Next
	}
	return gs.From
}

func coordinatesPositionInLine(line *glyph.GlyphString, x fixed.Int26_6) glyph.CharPos {
	interior := line.Interior()
	if len(interior) == 0 {
		return line.From
	}
	var cur fixed.Int26_6
	for _, g := range interior {
		if x >= cur && x < cur+g.Width {
			return g.Pos
		}
		cur += g.Width
	}
	if x < 0 {
		return interior[0].Pos
	}
	return line.To
}

// GlyphInfo describes the cluster containing a queried position plus its
// logical/visual neighbors.
type GlyphInfo struct {
	ClusterFrom, ClusterTo glyph.CharPos
	PrevFrom               glyph.CharPos
	LeftFrom, LeftTo       glyph.CharPos
	RightFrom, RightTo     glyph.CharPos
	NextTo                 glyph.CharPos
}

// LineProvider resolves the physical lines adjacent to a chain, used by
// GlyphInfoAt to cross a line boundary via the glyph cache instead of
// assuming the neighbor is already linked into the queried chain.
type LineProvider interface {
	LineBefore(from glyph.CharPos) (*glyph.GlyphString, error)
	LineAfter(to glyph.CharPos) (*glyph.GlyphString, error)
}

// GlyphInfoAt locates the cluster covering pos within gs's chain and
// reports its logical-previous, visual-left, visual-right and
// logical-next neighbors, consulting lines when pos sits at a chain edge.
func GlyphInfoAt(gs *glyph.GlyphString, pos glyph.CharPos, lines LineProvider) (GlyphInfo, error) {
	line := gs
	for line != nil {
		if pos >= line.From && pos < line.To || (line.Next == nil && pos == line.To) {
			return glyphInfoInLine(line, pos, lines)
		}
		line = line.Next
	}
	return GlyphInfo{}, nil
}

func glyphInfoInLine(line *glyph.GlyphString, pos glyph.CharPos, lines LineProvider) (GlyphInfo, error) {
	interior := line.Interior()
	idx := -1
	for i, g := range interior {
		if pos >= g.Pos && pos < g.To {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = len(interior) - 1
	}
	if idx < 0 {
		return GlyphInfo{}, nil
	}
	base := idx
	for base > 0 && interior[base].CombiningCode != 0 {
		base--
	}
	end := base + 1
	for end < len(interior) && interior[end].CombiningCode != 0 {
		end++
	}

	info := GlyphInfo{
		ClusterFrom: interior[base].Pos,
		ClusterTo:   interior[end-1].To,
	}

	if base > 0 {
		info.PrevFrom = interior[base-1].Pos
	} else if lines != nil {
		if prev, err := lines.LineBefore(line.From); err == nil && prev != nil {
			if pi := prev.Interior(); len(pi) > 0 {
				info.PrevFrom = pi[len(pi)-1].Pos
			}
		}
	}

	leftIdx, rightIdx := base, base
	if interior[base].BidiLevel%2 == 1 {
		leftIdx, rightIdx = neighbors(interior, base, true)
	} else {
		leftIdx, rightIdx = neighbors(interior, base, false)
	}
	if leftIdx >= 0 {
		info.LeftFrom, info.LeftTo = interior[leftIdx].Pos, interior[leftIdx].To
	}
	if rightIdx >= 0 {
		info.RightFrom, info.RightTo = interior[rightIdx].Pos, interior[rightIdx].To
	}

	if end < len(interior) {
		info.NextTo = interior[end].To
	} else if lines != nil {
		if next, err := lines.LineAfter(line.To); err == nil && next != nil {
			if ni := next.Interior(); len(ni) > 0 {
				info.NextTo = ni[0].To
			}
		}
	}
	return info, nil
}

// neighbors returns the interior indices immediately visually-left and
// visually-right of base. rtl reverses which array-adjacent index is
// "left" for a right-to-left embedding level.
func neighbors(interior []glyph.Glyph, base int, rtl bool) (left, right int) {
	left, right = base-1, base+1
	if left < 0 {
		left = -1
	}
	if right >= len(interior) {
		right = -1
	}
	if rtl {
		left, right = right, left
	}
	return left, right
}
