// SPDX-License-Identifier: Unlicense OR MIT

package glyphlayout

import (
	"testing"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
	"github.com/inkrune/shaping/internal/combining"
	"golang.org/x/image/math/fixed"
)

type boxFace struct {
	space            fixed.Int26_6
	box              interface{}
	inner, width, outer fixed.Int26_6
}

func (f boxFace) SpaceWidth() fixed.Int26_6 { return f.space }
func (f boxFace) Box() interface{}          { return f.box }
func (f boxFace) BoxMetrics() (fixed.Int26_6, fixed.Int26_6, fixed.Int26_6) {
	return f.inner, f.width, f.outer
}

type fakeResolver struct{}

func (fakeResolver) Realize(faces []string, language, charset string, size fixed.Int26_6) (capability.RealizedFace, error) {
	return nil, nil
}
func (fakeResolver) ForChars(script, language, charset string, glyphs []glyph.Glyph, size fixed.Int26_6) []glyph.Glyph {
	return glyphs
}
func (fakeResolver) Metrics(gs *glyph.GlyphString, from, to int) error { return nil }

func buildGS(glyphs []glyph.Glyph) *glyph.GlyphString {
	gs := glyph.NewAnchored(0)
	for _, g := range glyphs {
		gs.InsertAt(len(gs.Glyphs)-1, g)
	}
	return gs
}

func TestSizeSpacesAndTabsAdvancesToNextStop(t *testing.T) {
	gs := buildGS([]glyph.Glyph{
		{Kind: glyph.Char, Width: fixed.I(3)},
		{Kind: glyph.Space, Char: '\t'},
	})
	l := &Layouter{Faces: fakeResolver{}, FrameSpaceWidth: fixed.I(1)}
	l.sizeSpacesAndTabs(gs, &capability.DrawControl{TabWidth: 8})
	tab := gs.Interior()[1]
	if tab.Width != fixed.I(8)-fixed.I(3) {
		t.Fatalf("tab width = %v, want %v", tab.Width, fixed.I(8)-fixed.I(3))
	}
}

func TestSizeSpacesUsesFaceSpaceWidth(t *testing.T) {
	gs := buildGS([]glyph.Glyph{
		{Kind: glyph.Space, Char: ' ', Face: boxFace{space: fixed.I(5)}},
	})
	l := &Layouter{Faces: fakeResolver{}, FrameSpaceWidth: fixed.I(1)}
	l.sizeSpacesAndTabs(gs, &capability.DrawControl{})
	if gs.Interior()[0].Width != fixed.I(5) {
		t.Fatalf("space width = %v, want %v", gs.Interior()[0].Width, fixed.I(5))
	}
}

func TestInsertBoxesOnFaceTransition(t *testing.T) {
	plain := boxFace{space: fixed.I(1)}
	boxed := boxFace{space: fixed.I(1), box: "box-marker", width: fixed.I(4), outer: fixed.I(2), inner: fixed.I(1)}
	gs := buildGS([]glyph.Glyph{
		{Kind: glyph.Char, Char: 'a', Face: plain},
		{Kind: glyph.Char, Char: 'b', Face: boxed},
		{Kind: glyph.Char, Char: 'c', Face: plain},
	})
	l := &Layouter{Faces: fakeResolver{}, FrameSpaceWidth: fixed.I(1)}
	l.insertBoxes(gs)
	interior := gs.Interior()
	var boxKinds []glyph.Kind
	for _, g := range interior {
		boxKinds = append(boxKinds, g.Kind)
	}
	if len(interior) != 5 {
		t.Fatalf("expected 2 inserted box glyphs, got %d glyphs: %v", len(interior), boxKinds)
	}
	if interior[1].Kind != glyph.Box || interior[1].Width != fixed.I(2) {
		t.Fatalf("expected entering box glyph with outer margin, got %+v", interior[1])
	}
	if interior[3].Kind != glyph.Box || interior[3].Width != fixed.I(1) {
		t.Fatalf("expected leaving box glyph with inner margin, got %+v", interior[3])
	}
}

func TestInsertPaddingShrinksAdjacentSpace(t *testing.T) {
	gs := buildGS([]glyph.Glyph{
		{Kind: glyph.Space, Width: fixed.I(5)},
		{Kind: glyph.Char, Char: 'j', Width: fixed.I(4), LBearing: -fixed.I(1)},
	})
	l := &Layouter{Faces: fakeResolver{}, FrameSpaceWidth: fixed.I(1)}
	l.insertPadding(gs, &capability.DrawControl{})
	interior := gs.Interior()
	if len(interior) != 2 {
		t.Fatalf("expected padding absorbed into the existing space, got %d glyphs", len(interior))
	}
	if interior[0].Width != fixed.I(4) {
		t.Fatalf("space should shrink by 1, got width %v", interior[0].Width)
	}
}

func TestInsertPaddingInsertsPadGlyphWhenNoSpaceToAbsorb(t *testing.T) {
	gs := buildGS([]glyph.Glyph{
		{Kind: glyph.Char, Char: 'a', Width: fixed.I(4)},
		{Kind: glyph.Char, Char: 'j', Width: fixed.I(4), LBearing: -fixed.I(1)},
	})
	l := &Layouter{Faces: fakeResolver{}, FrameSpaceWidth: fixed.I(1)}
	l.insertPadding(gs, &capability.DrawControl{})
	interior := gs.Interior()
	if len(interior) != 3 || interior[1].Kind != glyph.Pad {
		t.Fatalf("expected an inserted Pad glyph, got %+v", interior)
	}
	if interior[1].Width != fixed.I(1) {
		t.Fatalf("pad width = %v, want %v", interior[1].Width, fixed.I(1))
	}
	if !interior[2].LeftPadding {
		t.Fatalf("glyph after the pad should be marked LeftPadding")
	}
}

func TestClampLineBoxAppliesMinMax(t *testing.T) {
	gs := buildGS(nil)
	gs.Ascent = fixed.I(2)
	gs.Descent = fixed.I(1)
	l := &Layouter{}
	l.clampLineBox(gs, &capability.DrawControl{MinLineAscent: fixed.I(5)})
	if gs.LineAscent != fixed.I(5) {
		t.Fatalf("line ascent = %v, want clamped to %v", gs.LineAscent, fixed.I(5))
	}
	if gs.Height != gs.LineAscent+gs.LineDescent {
		t.Fatalf("height must equal line ascent + descent")
	}
}

func TestPlaceClusterKeepsMarkAdjacentAndZeroWidth(t *testing.T) {
	base := glyph.Glyph{Width: fixed.I(6), Ascent: fixed.I(8), Descent: fixed.I(2)}
	mark := glyph.Glyph{
		Width:         fixed.I(3),
		Ascent:        fixed.I(2),
		Descent:       fixed.I(1),
		CombiningCode: uint32(combining.FromClass(230)), // above, centered
	}
	marks := []glyph.Glyph{mark}
	placeCluster(&base, marks)
	if marks[0].Width != 0 {
		t.Fatalf("mark must not advance the cursor, got width %v", marks[0].Width)
	}
	if base.Ascent < fixed.I(8) {
		t.Fatalf("base ascent should grow to cover the mark above it, got %v", base.Ascent)
	}
}
