// SPDX-License-Identifier: Unlicense OR MIT

// Package textstore provides a reference, in-memory implementation of
// capability.TextStore suitable for tests and for embedders that have no
// text-property storage of their own. It is grounded on the LRU
// attach/detach style in gioui.org/text/lru.go, generalized from a glyph
// cache to a general interval-property store.
package textstore

import (
	"sort"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// interval is one attached property span.
type interval struct {
	key        capability.PropKey
	from, to   glyph.CharPos
	value      interface{}
	flags      capability.AttachFlags
	detached   bool
}

// Store is an in-memory TextStore: a rune slice plus a set of attached
// interval properties. It is not safe for concurrent use from multiple
// goroutines single-threaded-per-frame model.
type Store struct {
	runes     []rune
	intervals []*interval
}

// New constructs a Store over the given text.
func New(text string) *Store {
	return &Store{runes: []rune(text)}
}

func (s *Store) CharAt(pos glyph.CharPos) rune {
	if pos < 0 || int(pos) >= len(s.runes) {
		return 0
	}
	return s.runes[pos]
}

func (s *Store) Len() int { return len(s.runes) }

// Edit replaces the runes in [from, to) with replacement, detaching any
// VolatileWeak/VolatileStrong property whose span overlaps the edit and
// shifting the positions of properties entirely after it. This models the
// "mutation in range" trigger
func (s *Store) Edit(from, to glyph.CharPos, replacement string) {
	repl := []rune(replacement)
	delta := glyph.CharPos(len(repl)) - (to - from)
	newRunes := make([]rune, 0, len(s.runes)+int(delta))
	newRunes = append(newRunes, s.runes[:from]...)
	newRunes = append(newRunes, repl...)
	newRunes = append(newRunes, s.runes[to:]...)
	s.runes = newRunes

	kept := s.intervals[:0]
	for _, iv := range s.intervals {
		switch {
		case iv.to <= from:
			kept = append(kept, iv)
		case iv.from >= to:
			iv.from += delta
			iv.to += delta
			kept = append(kept, iv)
		default:
			iv.detached = true
		}
	}
	s.intervals = kept
}

func (s *Store) findAt(pos glyph.CharPos, key capability.PropKey) *interval {
	// Later attachments shadow earlier ones at the same position/key,
	// matching typical text-property stacking.
	for i := len(s.intervals) - 1; i >= 0; i-- {
		iv := s.intervals[i]
		if iv.detached || iv.key != key {
			continue
		}
		if pos >= iv.from && pos < iv.to {
			return iv
		}
		// Zero-width properties (from==to) still apply exactly at from,
		// used for point character properties like "script" at len(text).
		if iv.from == iv.to && pos == iv.from {
			return iv
		}
	}
	return nil
}

func (s *Store) GetProp(pos glyph.CharPos, key capability.PropKey) (interface{}, bool) {
	if iv := s.findAt(pos, key); iv != nil {
		return iv.value, true
	}
	return nil, false
}

func (s *Store) GetProps(pos glyph.CharPos, key capability.PropKey, limit int) []interface{} {
	var out []interface{}
	for p := pos; p < glyph.CharPos(s.Len()) && len(out) < limit; p++ {
		if v, ok := s.GetProp(p, key); ok {
			out = append(out, v)
		} else {
			break
		}
	}
	return out
}

func (s *Store) PropRange(pos glyph.CharPos, key capability.PropKey, backward, forward, _ bool) (glyph.CharPos, glyph.CharPos) {
	iv := s.findAt(pos, key)
	if iv == nil {
		return pos, pos + 1
	}
	from, to := iv.from, iv.to
	if !backward {
		from = pos
	}
	if !forward {
		to = pos + 1
	}
	return from, to
}

func (s *Store) AttachProp(key capability.PropKey, from, to glyph.CharPos, value interface{}, flags capability.AttachFlags) capability.Prop {
	iv := &interval{key: key, from: from, to: to, value: value, flags: flags}
	idx := sort.Search(len(s.intervals), func(i int) bool { return s.intervals[i].from >= from })
	s.intervals = append(s.intervals, nil)
	copy(s.intervals[idx+1:], s.intervals[idx:])
	s.intervals[idx] = iv
	return iv
}

func (s *Store) DetachProp(p capability.Prop) {
	if iv, ok := p.(*interval); ok {
		iv.detached = true
	}
}

func (s *Store) Property(pos glyph.CharPos, key capability.PropKey) (capability.Prop, bool) {
	if iv := s.findAt(pos, key); iv != nil {
		return iv, true
	}
	return nil, false
}

// PropSpan returns the [from, to) span and detached state of a handle
// previously returned by AttachProp/Property.
func PropSpan(p capability.Prop) (from, to glyph.CharPos, detached bool, ok bool) {
	iv, ok := p.(*interval)
	if !ok {
		return 0, 0, false, false
	}
	return iv.from, iv.to, iv.detached, true
}
