// SPDX-License-Identifier: Unlicense OR MIT

package shaping

import (
	"testing"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
	"github.com/inkrune/shaping/internal/bidi"
	"github.com/inkrune/shaping/internal/textstore"
	"golang.org/x/image/math/fixed"
)

// fakeFace is a minimal glyph.Face + capability.RealizedFace for tests
// that don't need a real font.
type fakeFace struct{ space fixed.Int26_6 }

func (f fakeFace) SpaceWidth() fixed.Int26_6 { return f.space }
func (f fakeFace) Box() interface{}          { return nil }
func (f fakeFace) BoxMetrics() (fixed.Int26_6, fixed.Int26_6, fixed.Int26_6) {
	return 0, 0, 0
}
func (f fakeFace) Driver() capability.FontDriver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Render(interface{}, fixed.Int26_6, fixed.Int26_6, *glyph.GlyphString, int, int, bool, interface{}) error {
	return nil
}
func (fakeDriver) EncodeChar(r rune) (uint32, bool) { return uint32(r), true }
func (fakeDriver) Shaper() (capability.Shaper, bool) { return nil, false }

// fakeResolver assigns the same fakeFace and a code equal to the rune
// value to every glyph.
type fakeResolver struct{}

func (fakeResolver) Realize(faces []string, language, charset string, size fixed.Int26_6) (capability.RealizedFace, error) {
	return fakeFace{space: fixed.I(10)}, nil
}

func (fakeResolver) ForChars(script, language, charset string, glyphs []glyph.Glyph, size fixed.Int26_6) []glyph.Glyph {
	for i := range glyphs {
		glyphs[i].Face = fakeFace{space: fixed.I(10)}
		glyphs[i].Code = uint32(glyphs[i].Char)
	}
	return glyphs
}

func (fakeResolver) Metrics(gs *glyph.GlyphString, from, to int) error {
	for i := from; i < to; i++ {
		gs.Glyphs[i].Width = fixed.I(10)
		gs.Glyphs[i].Ascent = fixed.I(8)
		gs.Glyphs[i].Descent = fixed.I(2)
	}
	return nil
}

func newComposer(text string) (*Composer, *textstore.Store) {
	store := textstore.New(text)
	return &Composer{
		Store:   store,
		Env:     textstore.Environment{},
		Faces:   fakeResolver{},
		Reorder: &bidi.UnicodeReorderer{},
		Size:    fixed.I(12),
	}, store
}

func TestComposeBasicLatin(t *testing.T) {
	c, store := newComposer("hello")
	gs, err := c.Compose(0, glyph.CharPos(store.Len()), &capability.DrawControl{})
	if err != nil {
		t.Fatal(err)
	}
	interior := gs.Interior()
	// "hello" + virtual trailing newline glyph.
	if len(interior) != 6 {
		t.Fatalf("got %d glyphs, want 6: %+v", len(interior), interior)
	}
	for i, want := range []rune("hello") {
		if interior[i].Char != want {
			t.Fatalf("glyph %d: got %q want %q", i, interior[i].Char, want)
		}
	}
}

func TestControlCharacterExpansion(t *testing.T) {
	// Control character 0x07 in latin text expands into glyphs '^','G';
	// pos/to of both equal the source position.
	c, store := newComposer("a\x07b")
	gs, err := c.Compose(0, glyph.CharPos(store.Len()), &capability.DrawControl{})
	if err != nil {
		t.Fatal(err)
	}
	interior := gs.Interior()
	// a, ^, G, b, virtual-newline
	if len(interior) != 5 {
		t.Fatalf("got %d glyphs, want 5: %+v", len(interior), interior)
	}
	if interior[1].Char != '^' || interior[2].Char != 'G' {
		t.Fatalf("expected ^G expansion, got %q %q", interior[1].Char, interior[2].Char)
	}
	if interior[1].Pos != 1 || interior[1].To != 2 || interior[2].Pos != 1 || interior[2].To != 2 {
		t.Fatalf("expansion glyphs must share the source position: %+v %+v", interior[1], interior[2])
	}
}

func TestTrailingCombiningMarkStaysBoundToBase(t *testing.T) {
	c, store := newComposer("Á")
	gs, err := c.Compose(0, glyph.CharPos(store.Len()), &capability.DrawControl{})
	if err != nil {
		t.Fatal(err)
	}
	interior := gs.Interior()
	if len(interior) < 2 {
		t.Fatalf("expected at least base+mark, got %+v", interior)
	}
	if interior[0].Char != 'A' {
		t.Fatalf("expected base A first, got %q", interior[0].Char)
	}
	if interior[1].CombiningCode == 0 {
		t.Fatalf("expected the combining mark to carry a nonzero combining code")
	}
	if interior[0].Pos != interior[1].Pos || interior[0].To != interior[1].To {
		t.Fatalf("base and mark must share the cluster's expanded range: base=%+v mark=%+v", interior[0], interior[1])
	}
}
