// SPDX-License-Identifier: Unlicense OR MIT

package pdf

import (
	"path/filepath"
	"testing"

	"golang.org/x/image/math/fixed"
)

func TestPdfRectUnion(t *testing.T) {
	a := pdfRect{x: fixed.I(0), y: fixed.I(0), w: fixed.I(5), h: fixed.I(5)}
	b := pdfRect{x: fixed.I(10), y: fixed.I(10), w: fixed.I(5), h: fixed.I(5)}
	u := a.union(b)
	if u.x != 0 || u.y != 0 || u.w != fixed.I(15) || u.h != fixed.I(15) {
		t.Fatalf("union = %+v, want (0,0,15,15)", u)
	}
}

func TestPdfRectIntersectEmptyWhenDisjoint(t *testing.T) {
	a := pdfRect{x: 0, y: 0, w: fixed.I(5), h: fixed.I(5)}
	b := pdfRect{x: fixed.I(10), y: fixed.I(10), w: fixed.I(5), h: fixed.I(5)}
	got := a.intersect(b)
	if got != (pdfRect{}) {
		t.Fatalf("disjoint intersect = %+v, want zero rect", got)
	}
}

func TestEscapeTextEscapesParensAndBackslash(t *testing.T) {
	got := escapeText(`a(b)c\d`)
	want := `a\(b\)c\\d`
	if got != want {
		t.Fatalf("escapeText = %q, want %q", got, want)
	}
}

func TestNewSurfaceAndCloseWriteAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	s, err := NewSurface(path, 200, 200)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.FillSpace(nil, nil, nil, false, fixed.I(0), fixed.I(0), fixed.I(10), fixed.I(10), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
