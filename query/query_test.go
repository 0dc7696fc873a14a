// SPDX-License-Identifier: Unlicense OR MIT

package query

import (
	"testing"

	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

func buildLine(from glyph.CharPos, glyphs []glyph.Glyph) *glyph.GlyphString {
	gs := glyph.NewAnchored(from)
	for _, g := range glyphs {
		gs.InsertAt(len(gs.Glyphs)-1, g)
	}
	var w fixed.Int26_6
	for _, g := range glyphs {
		w += g.Width
	}
	gs.Width = w
	gs.To = from
	if len(glyphs) > 0 {
		gs.To = glyphs[len(glyphs)-1].To
	}
	gs.LineAscent = fixed.I(9)
	gs.LineDescent = fixed.I(3)
	return gs
}

func TestTextExtentsSingleLineWidth(t *testing.T) {
	gs := buildLine(0, []glyph.Glyph{
		{Kind: glyph.Char, Pos: 0, To: 1, Width: fixed.I(5)},
		{Kind: glyph.Char, Pos: 1, To: 2, Width: fixed.I(7)},
	})
	width, _ := TextExtents(gs, &capability.DrawControl{}, false)
	if width != fixed.I(12) {
		t.Fatalf("width = %v, want %v", width, fixed.I(12))
	}
}

func TestTextExtentsTwoDimensionalUsesWidestLine(t *testing.T) {
	line1 := buildLine(0, []glyph.Glyph{{Kind: glyph.Char, Pos: 0, To: 1, Width: fixed.I(5)}})
	line2 := buildLine(1, []glyph.Glyph{{Kind: glyph.Char, Pos: 1, To: 2, Width: fixed.I(20)}})
	line1.Next = line2
	width, _ := TextExtents(line1, &capability.DrawControl{TwoDimensional: true}, false)
	if width != fixed.I(20) {
		t.Fatalf("width = %v, want %v (the wider of the two lines)", width, fixed.I(20))
	}
}

func TestPerCharExtentsIndexesRelativeToFrom(t *testing.T) {
	gs := buildLine(5, []glyph.Glyph{
		{Kind: glyph.Char, Pos: 5, To: 6, Width: fixed.I(4)},
		{Kind: glyph.Char, Pos: 6, To: 7, Width: fixed.I(6)},
	})
	ink, logical := PerCharExtents(gs, 5, &capability.DrawControl{})
	if len(logical) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logical))
	}
	if logical[0].W != fixed.I(4) || logical[1].X != fixed.I(4) {
		t.Fatalf("unexpected logical extents: %+v", logical)
	}
	_ = ink
}

func TestCoordinatesPositionHitTestsWithinLine(t *testing.T) {
	gs := buildLine(0, []glyph.Glyph{
		{Kind: glyph.Char, Pos: 0, To: 1, Width: fixed.I(4)},
		{Kind: glyph.Char, Pos: 1, To: 2, Width: fixed.I(4)},
	})
	pos := CoordinatesPosition(gs, &capability.DrawControl{}, fixed.I(5), fixed.I(1))
	if pos != 1 {
		t.Fatalf("pos = %d, want 1", pos)
	}
}

func TestCoordinatesPositionClampsAboveAndBelow(t *testing.T) {
	gs := buildLine(0, []glyph.Glyph{{Kind: glyph.Char, Pos: 0, To: 1, Width: fixed.I(4)}})
	above := CoordinatesPosition(gs, &capability.DrawControl{}, fixed.I(1), -fixed.I(100))
	if above != gs.From {
		t.Fatalf("above clamp = %d, want gs.From = %d", above, gs.From)
	}
	below := CoordinatesPosition(gs, &capability.DrawControl{}, fixed.I(100), fixed.I(100))
	if below != gs.To {
		t.Fatalf("below/past-end clamp = %d, want gs.To = %d", below, gs.To)
	}
}

func TestGlyphInfoAtFindsClusterAndNeighbors(t *testing.T) {
	gs := buildLine(0, []glyph.Glyph{
		{Kind: glyph.Char, Pos: 0, To: 1, Width: fixed.I(4)},
		{Kind: glyph.Char, Pos: 1, To: 2, Width: fixed.I(4)},
		{CombiningCode: 1, Pos: 1, To: 2, Width: 0},
		{Kind: glyph.Char, Pos: 2, To: 3, Width: fixed.I(4)},
	})
	info, err := GlyphInfoAt(gs, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if info.ClusterFrom != 1 || info.ClusterTo != 2 {
		t.Fatalf("cluster = [%d,%d), want [1,2)", info.ClusterFrom, info.ClusterTo)
	}
	if info.PrevFrom != 0 {
		t.Fatalf("PrevFrom = %d, want 0", info.PrevFrom)
	}
	if info.NextTo != 3 {
		t.Fatalf("NextTo = %d, want 3", info.NextTo)
	}
}
