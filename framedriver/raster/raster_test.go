// SPDX-License-Identifier: Unlicense OR MIT

package raster

import (
	"image"
	"testing"

	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/glyph"
)

func TestNewSurfaceIsWhiteBackground(t *testing.T) {
	s := NewSurface(10, 10)
	r, g, b, _ := s.Img.At(0, 0).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("expected white background pixel, got %v %v %v", r, g, b)
	}
}

func TestFillSpaceUsesCursorColorWhenCursor(t *testing.T) {
	s := NewSurface(10, 10)
	if err := s.FillSpace(nil, nil, nil, true, fixed.I(0), fixed.I(0), fixed.I(4), fixed.I(4), nil); err != nil {
		t.Fatal(err)
	}
	got := s.Img.At(1, 1)
	want := s.CursorColor
	gr, gg, gb, _ := got.RGBA()
	wr, wg, wb, _ := want.RGBA()
	if gr != wr || gg != wg || gb != wb {
		t.Fatalf("cursor fill = %v, want %v", got, want)
	}
}

func TestRegionAddRectUnionsBounds(t *testing.T) {
	s := NewSurface(100, 100)
	r := s.RegionFromRect(fixed.I(0), fixed.I(0), fixed.I(5), fixed.I(5))
	r = s.RegionAddRect(r, fixed.I(10), fixed.I(10), fixed.I(5), fixed.I(5))
	x, y, w, h := s.RegionToRect(r)
	if x != 0 || y != 0 || w != fixed.I(15) || h != fixed.I(15) {
		t.Fatalf("union rect = (%v,%v,%v,%v), want (0,0,15,15)", x, y, w, h)
	}
}

func TestIntersectRegionNarrowsToOverlap(t *testing.T) {
	s := NewSurface(100, 100)
	a := image.Rect(0, 0, 10, 10)
	b := image.Rect(5, 5, 15, 15)
	got := s.IntersectRegion(a, b)
	r, _ := got.(image.Rectangle)
	if r != image.Rect(5, 5, 10, 10) {
		t.Fatalf("intersect = %v, want (5,5,10,10)", r)
	}
}

func TestDrawGlyphsSkipsCombiningAndInvalidCodes(t *testing.T) {
	s := NewSurface(50, 50)
	gs := &glyph.GlyphString{Glyphs: []glyph.Glyph{
		{Kind: glyph.Char, Code: glyph.InvalidCode, Width: fixed.I(5)},
		{CombiningCode: 1, Width: 0},
		{Kind: glyph.Char, Code: 3, Width: fixed.I(5), LBearing: fixed.I(1), RBearing: fixed.I(1), Ascent: fixed.I(8), Descent: fixed.I(2)},
	}}
	if err := s.DrawGlyphs(gs, 0, len(gs.Glyphs), fixed.I(0), fixed.I(20), false); err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := s.Img.At(5, 13).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("expected foreground-filled pixel under the valid glyph's ink, got %v %v %v", r, g, b)
	}
}
