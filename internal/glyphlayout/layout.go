// SPDX-License-Identifier: Unlicense OR MIT

// Package glyphlayout implements the layouter: per-cluster
// mark placement using the packed combining code, box-edge and padding
// glyph insertion, space/tab/newline sizing, and line ascent/descent
// clamping.
//
// The cluster-grouping technique (walk glyphs, treat a base followed by
// marks sharing CombiningCode != 0 as one unit) is grounded on the
// run/cluster bookkeeping in gioui.org/text/gotext.go (computeVisualOrder
// groups by cluster index); the two-point mark alignment arithmetic itself
// is this package's own domain logic.
package glyphlayout

import (
	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
	"github.com/inkrune/shaping/internal/combining"
	"golang.org/x/image/math/fixed"
)

// Layouter assigns metrics and positions glyphs within a GlyphString.
type Layouter struct {
	Faces           capability.FaceResolver
	FrameSpaceWidth fixed.Int26_6
}

// Layout runs the full per-cluster placement, padding/box/tab insertion
// and line clamping pass over gs.
func (l *Layouter) Layout(gs *glyph.GlyphString, control *capability.DrawControl) error {
	if err := l.Faces.Metrics(gs, 1, len(gs.Glyphs)-1); err != nil {
		return err
	}
	l.placeClusters(gs)
	l.sizeSpacesAndTabs(gs, control)
	if control.OrientationReversed {
		l.fixupRTLTabs(gs, control)
	}
	l.insertBoxes(gs)
	l.insertPadding(gs, control)
	l.sumWidths(gs)
	l.clampLineBox(gs, control)
	return nil
}

// placeClusters implements the per-cluster placement pass: for every base
// glyph followed by combining marks, compute each mark's
// xoff/yoff from its packed combining code and the running cluster
// bounding box, then fold the box back into the base's own metrics.
func (l *Layouter) placeClusters(gs *glyph.GlyphString) {
	interior := gs.Interior()
	i := 0
	for i < len(interior) {
		if interior[i].Kind != glyph.Char || !interior[i].IsBase() {
			i++
			continue
		}
		end := i + 1
		for end < len(interior) && interior[end].CombiningCode != 0 {
			end++
		}
		if end > i+1 {
			placeCluster(&interior[i], interior[i+1:end])
		}
		i = end
	}
}

func placeCluster(base *glyph.Glyph, marks []glyph.Glyph) {
	left := -base.Width
	right := fixed.Int26_6(0)
	top := -base.Ascent
	bottom := base.Descent
	lbearing, rbearing := base.LBearing, base.RBearing

	boxWidth := base.Width
	boxHeight := base.Ascent + base.Descent

	for mi := range marks {
		m := &marks[mi]
		f := combining.Unpack(combining.Code(m.CombiningCode))

		bx := scaledFraction(boxWidth, xFrac(f.BaseX))
		ax := scaledFraction(m.Width, xFrac(f.AddX))
		offX := offsetToFixed(f.OffX, m.Face)
		m.XOff = left + (bx-ax)/2 + offX

		if m.XOff < left {
			left = m.XOff
		}
		if m.XOff+m.Width > right {
			right = m.XOff + m.Width
		}

		var yoff fixed.Int26_6
		if f.BaseY < combining.Baseline {
			yoff = top + scaledFraction(boxHeight, yFrac(f.BaseY))/2
		}
		if f.AddY < combining.Baseline {
			yoff -= (m.Ascent+m.Descent)*fixed.Int26_6(yFrac(f.AddY))/2 - m.Ascent
		}
		offY := offsetToFixed(f.OffY, m.Face)
		yoff -= offY
		m.YOff = yoff

		if -yoff+m.Ascent > -top {
			top = yoff - m.Ascent
		}
		if yoff+m.Descent > bottom {
			bottom = yoff + m.Descent
		}
		if m.XOff+m.LBearing < lbearing {
			lbearing = m.XOff + m.LBearing
		}
		if m.XOff+m.RBearing > rbearing {
			rbearing = m.XOff + m.RBearing
		}

		// Marks never advance the cursor.
		m.Width = 0
	}

	base.Ascent = -top
	base.Descent = bottom
	base.LBearing = lbearing
	base.RBearing = rbearing

	if left < -base.Width {
		shift := -base.Width - left
		base.XOff -= shift
	}
	if right > base.Width {
		extra := right - base.Width
		base.Width += extra
		for mi := range marks {
			marks[mi].XOff -= extra
		}
	}
}

// xFrac/yFrac map an alignment enum to a 0/1/2 numerator over a
// denominator of 2, used for "(box_width*b_x)/2" style placement
// arithmetic (left/top=0, center=1, right/bottom=2; baseline is handled
// separately by the "< 3" guards in placeCluster).
func xFrac(x combining.XAlign) int {
	switch x {
	case combining.Left:
		return 0
	case combining.XCenter:
		return 1
	default: // Right
		return 2
	}
}

func yFrac(y combining.YAlign) int {
	switch y {
	case combining.Top:
		return 0
	case combining.Center:
		return 1
	case combining.Bottom:
		return 2
	default: // Baseline
		return 0
	}
}

func scaledFraction(extent fixed.Int26_6, numer int) fixed.Int26_6 {
	return extent * fixed.Int26_6(numer)
}

// offsetToFixed scales an unbiased offset field by an estimate of the
// glyph's font size: off_scaled = size * (stored_offset - 128) / 1000, where
// size is twice the face's space width, or 12 units when the glyph has no
// face.
func offsetToFixed(v int8, face glyph.Face) fixed.Int26_6 {
	size := fixed.I(12)
	if face != nil {
		size = face.SpaceWidth() * 2
	}
	return fixed.Int26_6(int64(size) * int64(v) / 1000)
}

// spaceWidthOf falls back to the frame's space width when a glyph carries
// no realized face (e.g. the virtual trailing newline glyph Compose
// appends at end of text).
func (l *Layouter) spaceWidthOf(g *glyph.Glyph) fixed.Int26_6 {
	if g.Face != nil {
		return g.Face.SpaceWidth()
	}
	return l.FrameSpaceWidth
}

// sizeSpacesAndTabs assigns Width to every Space-kind glyph: an ordinary
// space or newline gets the face's (or frame's) space width, and a tab
// advances to the next stop on a tabWidth*spaceWidth grid measured from
// the start of the GlyphString.
func (l *Layouter) sizeSpacesAndTabs(gs *glyph.GlyphString, control *capability.DrawControl) {
	tabStop := l.FrameSpaceWidth * fixed.Int26_6(control.EffectiveTabWidth())
	var x fixed.Int26_6
	for i := range gs.Glyphs {
		g := &gs.Glyphs[i]
		switch g.Kind {
		case glyph.Anchor, glyph.Box, glyph.Pad:
			continue
		case glyph.Space:
			if g.Char == '\t' && tabStop > 0 {
				next := ((x / tabStop) + 1) * tabStop
				g.Width = next - x
			} else {
				g.Width = l.spaceWidthOf(g)
			}
		}
		x += g.Width
	}
}

// insertBoxes inserts a Box pseudo-glyph at every transition into or out
// of a face's box decoration: entering uses the outer margin, leaving
// uses the inner margin, both from the entering/leaving face's BoxMetrics.
func (l *Layouter) insertBoxes(gs *glyph.GlyphString) {
	i := 1
	for i < len(gs.Glyphs)-1 {
		g := gs.Glyphs[i]
		prevBox := boxOf(gs.Glyphs[i-1])
		curBox := boxOf(g)
		if curBox == prevBox {
			i++
			continue
		}
		switch {
		case curBox != nil && g.Face != nil:
			_, _, outer := g.Face.BoxMetrics()
			gs.InsertAt(i, glyph.Glyph{Kind: glyph.Box, Pos: g.Pos, To: g.Pos, Width: outer})
			i++
		case prevBox != nil && gs.Glyphs[i-1].Face != nil:
			inner, _, _ := gs.Glyphs[i-1].Face.BoxMetrics()
			gs.InsertAt(i, glyph.Glyph{Kind: glyph.Box, Pos: g.Pos, To: g.Pos, Width: inner})
			i++
		}
		i++
	}
}

func boxOf(g glyph.Glyph) interface{} {
	if g.Face == nil {
		return nil
	}
	return g.Face.Box()
}

// insertPadding covers negative left/right bearings with Pad pseudo-glyphs
// so no glyph's ink extends past its neighbor's advance box. When the
// adjacent glyph is a Space, padding is absorbed by shrinking that space
// instead of inserting a new glyph, as long as the space does not shrink
// below two device units.
func (l *Layouter) insertPadding(gs *glyph.GlyphString, control *capability.DrawControl) {
	const minSpaceWidth = fixed.Int26_6(2 << 6)
	i := 1
	for i < len(gs.Glyphs)-1 {
		g := &gs.Glyphs[i]
		if g.Kind != glyph.Char {
			i++
			continue
		}
		if g.LBearing < 0 {
			need := -g.LBearing
			if i > 1 && gs.Glyphs[i-1].Kind == glyph.Space && gs.Glyphs[i-1].Width-need >= minSpaceWidth {
				gs.Glyphs[i-1].Width -= need
			} else {
				gs.InsertAt(i, glyph.Glyph{Kind: glyph.Pad, Pos: g.Pos, To: g.Pos, Width: need})
				gs.Glyphs[i+1].LeftPadding = true
				i++
			}
		}
		g = &gs.Glyphs[i]
		if overhang := g.RBearing - g.Width; overhang > 0 {
			if i+1 < len(gs.Glyphs)-1 && gs.Glyphs[i+1].Kind == glyph.Space && gs.Glyphs[i+1].Width-overhang >= minSpaceWidth {
				gs.Glyphs[i+1].Width -= overhang
			} else {
				gs.InsertAt(i+1, glyph.Glyph{Kind: glyph.Pad, Pos: g.To, To: g.To, Width: overhang})
				gs.Glyphs[i].RightPadding = true
			}
		}
		i++
	}
}

// sumWidths accumulates the GlyphString's aggregate metrics from its
// (now fully sized and placed) glyphs.
func (l *Layouter) sumWidths(gs *glyph.GlyphString) {
	var width, ascent, descent fixed.Int26_6
	var lbearing, rbearing fixed.Int26_6
	var x fixed.Int26_6
	first := true
	for _, g := range gs.Interior() {
		if g.Ascent > ascent {
			ascent = g.Ascent
		}
		if g.Descent > descent {
			descent = g.Descent
		}
		lb := x + g.XOff + g.LBearing
		rb := x + g.XOff + g.RBearing
		if first || lb < lbearing {
			lbearing = lb
		}
		if first || rb > rbearing {
			rbearing = rb
		}
		first = false
		x += g.Width
		width += g.Width
	}
	gs.Width = width
	gs.LBearing = lbearing
	gs.RBearing = rbearing
	gs.Ascent = ascent
	gs.Descent = descent
	gs.PhysicalAscent = ascent
	gs.PhysicalDescent = descent
	gs.TextAscent = ascent
	gs.TextDescent = descent
}

// clampLineBox resolves the final line ascent/descent from the text's own
// metrics through DrawControl's min/max clamps, matching the fixed-width
// grid forced layouts need.
func (l *Layouter) clampLineBox(gs *glyph.GlyphString, control *capability.DrawControl) {
	gs.LineAscent = control.ClampLineAscent(gs.Ascent)
	gs.LineDescent = control.ClampLineDescent(gs.Descent)
	gs.Height = gs.LineAscent + gs.LineDescent
}

// fixupRTLTabs re-derives tab glyph widths for a right-to-left line by
// walking the (visual-order) buffer from its right end, since
// sizeSpacesAndTabs measured stops from the left end.
func (l *Layouter) fixupRTLTabs(gs *glyph.GlyphString, control *capability.DrawControl) {
	tabStop := l.FrameSpaceWidth * fixed.Int26_6(control.EffectiveTabWidth())
	if tabStop <= 0 {
		return
	}
	var x fixed.Int26_6
	for i := len(gs.Glyphs) - 1; i >= 0; i-- {
		g := &gs.Glyphs[i]
		if g.Kind == glyph.Space && g.Char == '\t' {
			next := ((x / tabStop) + 1) * tabStop
			g.Width = next - x
		}
		x += g.Width
	}
}
