// SPDX-License-Identifier: Unlicense OR MIT

package glyphcache

import (
	"testing"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
	"github.com/inkrune/shaping/internal/textstore"
)

// countingBuilder returns a fresh one-glyph chain covering [from, to) on
// every call and counts how many times it was invoked.
type countingBuilder struct {
	calls int
}

func (b *countingBuilder) Build(from, to glyph.CharPos, control *capability.DrawControl) (*glyph.GlyphString, error) {
	b.calls++
	gs := glyph.NewAnchored(from)
	gs.To = to
	gs.InsertAt(1, glyph.Glyph{Kind: glyph.Char, Pos: from, To: to})
	return gs, nil
}

func TestGetBuildsOnMiss(t *testing.T) {
	store := textstore.New("hello world")
	b := &countingBuilder{}
	c := &Cache{Store: store, Build: b}

	gs, err := c.Get(0, glyph.CharPos(store.Len()), "frame", 1, &capability.DrawControl{})
	if err != nil {
		t.Fatal(err)
	}
	if b.calls != 1 {
		t.Fatalf("calls = %d, want 1", b.calls)
	}
	if gs.From != 0 || gs.To != glyph.CharPos(store.Len()) {
		t.Fatalf("unexpected span %d..%d", gs.From, gs.To)
	}
}

func TestGetReusesOnMatchingRequest(t *testing.T) {
	store := textstore.New("hello world")
	b := &countingBuilder{}
	c := &Cache{Store: store, Build: b}
	control := &capability.DrawControl{}

	first, err := c.Get(0, glyph.CharPos(store.Len()), "frame", 1, control)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Get(0, glyph.CharPos(store.Len()), "frame", 1, control)
	if err != nil {
		t.Fatal(err)
	}
	if b.calls != 1 {
		t.Fatalf("calls = %d, want 1 (second Get should hit the cache)", b.calls)
	}
	if first != second {
		t.Fatalf("expected the same cached chain to be returned")
	}
}

func TestGetIgnoresCursorFieldsWhenComparingControl(t *testing.T) {
	store := textstore.New("hello world")
	b := &countingBuilder{}
	c := &Cache{Store: store, Build: b}

	_, err := c.Get(0, glyph.CharPos(store.Len()), "frame", 1, &capability.DrawControl{})
	if err != nil {
		t.Fatal(err)
	}
	moved := &capability.DrawControl{WithCursor: true, CursorPos: 3}
	_, err = c.Get(0, glyph.CharPos(store.Len()), "frame", 1, moved)
	if err != nil {
		t.Fatal(err)
	}
	if b.calls != 1 {
		t.Fatalf("calls = %d, want 1 (a cursor-only change must not force a rebuild)", b.calls)
	}
}

func TestGetRebuildsOnTickMismatch(t *testing.T) {
	store := textstore.New("hello world")
	b := &countingBuilder{}
	c := &Cache{Store: store, Build: b}
	control := &capability.DrawControl{}

	if _, err := c.Get(0, glyph.CharPos(store.Len()), "frame", 1, control); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(0, glyph.CharPos(store.Len()), "frame", 2, control); err != nil {
		t.Fatal(err)
	}
	if b.calls != 2 {
		t.Fatalf("calls = %d, want 2 (tick change must force a rebuild)", b.calls)
	}
}

func TestGetRebuildsOnFrameMismatch(t *testing.T) {
	store := textstore.New("hello world")
	b := &countingBuilder{}
	c := &Cache{Store: store, Build: b}
	control := &capability.DrawControl{}

	if _, err := c.Get(0, glyph.CharPos(store.Len()), "frame-a", 1, control); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(0, glyph.CharPos(store.Len()), "frame-b", 1, control); err != nil {
		t.Fatal(err)
	}
	if b.calls != 2 {
		t.Fatalf("calls = %d, want 2 (frame change must force a rebuild)", b.calls)
	}
}

func TestGetRebuildsOnNonBoundarySpan(t *testing.T) {
	// "hello world" has no newline, so a span ending mid-string (not at
	// len(text)) is not a valid line boundary and must not be cached as
	// reusable against a request for the same non-boundary span.
	store := textstore.New("hello world")
	b := &countingBuilder{}
	c := &Cache{Store: store, Build: b}
	control := &capability.DrawControl{}

	if _, err := c.Get(0, 5, "frame", 1, control); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(0, 5, "frame", 1, control); err != nil {
		t.Fatal(err)
	}
	if b.calls != 2 {
		t.Fatalf("calls = %d, want 2 (non-boundary span must never be treated as a cache hit)", b.calls)
	}
}

func TestGetDisableCachingSkipsAttach(t *testing.T) {
	store := textstore.New("hello world")
	b := &countingBuilder{}
	c := &Cache{Store: store, Build: b}
	control := &capability.DrawControl{DisableCaching: true}

	if _, err := c.Get(0, glyph.CharPos(store.Len()), "frame", 1, control); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(0, glyph.CharPos(store.Len()), "frame", 1, control); err != nil {
		t.Fatal(err)
	}
	if b.calls != 2 {
		t.Fatalf("calls = %d, want 2 (DisableCaching must never attach a cache entry)", b.calls)
	}
}

func TestGetTranslatesCachedPositionsOnAttachmentShift(t *testing.T) {
	// "xx\nhello world": the cached span starts right after the newline at
	// index 2, a valid boundary.
	store := textstore.New("xx\nhello world")
	b := &countingBuilder{}
	c := &Cache{Store: store, Build: b}
	control := &capability.DrawControl{}

	first, err := c.Get(3, glyph.CharPos(store.Len()), "frame", 1, control)
	if err != nil {
		t.Fatal(err)
	}
	if first.From != 3 || first.Interior()[0].Pos != 3 {
		t.Fatalf("unexpected initial positions: From=%d glyphPos=%d", first.From, first.Interior()[0].Pos)
	}

	// Deleting the leading "x" shifts everything from index 1 onward left
	// by one. Store.Edit auto-shifts the property's own [from, to) span
	// (3 -> 2), but the cached chain's baked-in Pos/To values are still
	// 3-based until Get translates them.
	store.Edit(0, 1, "")

	second, err := c.Get(2, glyph.CharPos(store.Len()), "frame", 1, control)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Fatalf("expected the same chain object to be reused and translated in place")
	}
	if second.From != 2 {
		t.Fatalf("From = %d, want 2 after translate", second.From)
	}
	if second.Interior()[0].Pos != 2 {
		t.Fatalf("glyph Pos = %d, want 2 after translate", second.Interior()[0].Pos)
	}
}
