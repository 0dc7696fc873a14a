// SPDX-License-Identifier: Unlicense OR MIT

// Package glyphcache implements the volatile glyph-string cache: a
// text property keyed "glyph-string" holding a GlyphString chain, reused
// across requests as long as the frame, tick and draw control it was
// built for still match and the text in its span is unchanged.
//
// The doubly-linked attach/detach bookkeeping technique is grounded on
// gioui.org/text/lru.go's layoutCache, generalized from a fixed-size
// LRU keyed by a value struct to a text-property-anchored cache keyed by
// position, since here a cached entry's lifetime is tied to a span of
// text rather than to recency alone.
package glyphcache

import (
	"reflect"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// Builder produces a fully composed, laid-out (and, when requested,
// line-broken) GlyphString chain for [from, to). Cache calls it on a miss.
type Builder interface {
	Build(from, to glyph.CharPos, control *capability.DrawControl) (*glyph.GlyphString, error)
}

// entry is the value attached under capability.PropGlyphString. origFrom
// records the span start at build time so a later Get can detect that the
// property's attachment point shifted (an edit strictly before the span)
// and translate the chain's baked-in char positions by the difference.
type entry struct {
	chain    *glyph.GlyphString
	frame    interface{}
	tick     uint64
	control  capability.DrawControl
	origFrom glyph.CharPos
}

// Cache wraps a TextStore's volatile-property mechanism to cache
// GlyphString chains per span.
type Cache struct {
	Store capability.TextStore
	Build Builder
}

// Get returns the GlyphString chain covering [from, to) for the given
// frame/tick/control, reusing a cached chain when its boundaries,
// frame, tick and cursor-insensitive control prefix all still match.
func (c *Cache) Get(from, to glyph.CharPos, frame interface{}, tick uint64, control *capability.DrawControl) (*glyph.GlyphString, error) {
	prop, ok := c.Store.Property(from, capability.PropGlyphString)
	if ok {
		value, _ := c.Store.GetProp(from, capability.PropGlyphString)
		if e, ok := value.(*entry); ok && c.reusable(e, from, to, frame, tick, control) {
			if delta := from - e.origFrom; delta != 0 {
				translate(e.chain, delta)
				e.origFrom = from
			}
			return e.chain, nil
		}
		c.Store.DetachProp(prop)
	}

	chain, err := c.Build.Build(from, to, control)
	if err != nil {
		return nil, err
	}
	if !control.DisableCaching {
		e := &entry{chain: chain, frame: frame, tick: tick, control: *control, origFrom: from}
		c.Store.AttachProp(capability.PropGlyphString, from, to, e, capability.VolatileStrong)
	}
	return chain, nil
}

// translate shifts every glyph's Pos/To and the chain's own From/To by
// delta, following GlyphString.Next through the whole chain.
func translate(gs *glyph.GlyphString, delta glyph.CharPos) {
	for g := gs; g != nil; g = g.Next {
		g.From += delta
		g.To += delta
		for i := range g.Glyphs {
			g.Glyphs[i].Pos += delta
			g.Glyphs[i].To += delta
		}
	}
}

// reusable implements the cache-validity checks: span boundaries must sit
// at a newline or a text endpoint, the frame and tick must be identical,
// and the control must agree on everything except the with-cursor fields
// (a cursor move alone should not force a rebuild).
func (c *Cache) reusable(e *entry, from, to glyph.CharPos, frame interface{}, tick uint64, control *capability.DrawControl) bool {
	if !c.isBoundary(from) || !c.isBoundary(to) {
		return false
	}
	if e.frame != frame || e.tick != tick {
		return false
	}
	return samePrefix(e.control, *control)
}

func (c *Cache) isBoundary(pos glyph.CharPos) bool {
	if pos == 0 || int(pos) == c.Store.Len() {
		return true
	}
	return c.Store.CharAt(pos-1) == '\n'
}

// samePrefix compares two DrawControl values ignoring the with-cursor
// fields, via reflect.DeepEqual rather than == since Format/LineBreak may
// hold a non-comparable func-backed LineBreakerFunc.
func samePrefix(a, b capability.DrawControl) bool {
	a.WithCursor, b.WithCursor = false, false
	a.CursorPos, b.CursorPos = 0, 0
	a.CursorBidi, b.CursorBidi = false, false
	return reflect.DeepEqual(a, b)
}
