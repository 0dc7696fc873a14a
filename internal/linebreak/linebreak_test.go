// SPDX-License-Identifier: Unlicense OR MIT

package linebreak

import (
	"testing"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
	"github.com/inkrune/shaping/internal/textstore"
)

func TestDefaultPolicyBreaksAtPrecedingWhitespace(t *testing.T) {
	store := textstore.New("hello world wide")
	pos := DefaultPolicy{}.LineBreak(store, 8, 0, glyph.CharPos(store.Len()))
	// "hello world wide"
	//  0123456789...
	// pos 8 is inside "world"; nearest preceding space is at 5, so break
	// should land right after it, at 6.
	if pos != 6 {
		t.Fatalf("break pos = %d, want 6", pos)
	}
}

func TestDefaultPolicySkipsOverWhitespaceAtPos(t *testing.T) {
	store := textstore.New("hello world")
	pos := DefaultPolicy{}.LineBreak(store, 5, 0, glyph.CharPos(store.Len()))
	if pos != 6 {
		t.Fatalf("break pos = %d, want 6 (first non-whitespace after the space)", pos)
	}
}

func TestDefaultPolicyNoWhitespaceReturnsPosUnchanged(t *testing.T) {
	store := textstore.New("abcdefgh")
	pos := DefaultPolicy{}.LineBreak(store, 5, 0, glyph.CharPos(store.Len()))
	if pos != 5 {
		t.Fatalf("break pos = %d, want 5 (unchanged, no whitespace found)", pos)
	}
}

func TestBreakNoOpWhenNotTwoDimensional(t *testing.T) {
	b := &Breaker{Fallback: DefaultPolicy{}}
	gs := glyph.NewAnchored(0)
	if err := b.Break(gs, &capability.DrawControl{}); err != nil {
		t.Fatal(err)
	}
	if gs.Next != nil {
		t.Fatalf("expected no split when two_dimensional is false")
	}
}
