// SPDX-License-Identifier: Unlicense OR MIT

// Package linebreak implements the default whitespace line-break policy
// and the driver that splits an over-wide GlyphString into a chain of
// physical lines when two-dimensional layout is requested.
package linebreak

import (
	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
	"golang.org/x/image/math/fixed"
)

// DefaultPolicy implements capability.LineBreaker with the fallback
// algorithm: given the greedy overflow position pos inside [from, to), it
// prefers the first non-whitespace position at or after pos if pos itself
// lands on whitespace, otherwise it walks backward for the nearest
// preceding whitespace and returns the position right after it, or pos
// unchanged if none exists.
type DefaultPolicy struct{}

func (DefaultPolicy) LineBreak(store capability.TextStore, pos, from, to glyph.CharPos) glyph.CharPos {
	if pos <= from || pos >= to {
		return pos
	}
	if isBreakSpace(store.CharAt(pos)) {
		p := pos
		for p < to && isBreakSpace(store.CharAt(p)) {
			p++
		}
		return p
	}
	for p := pos - 1; p > from; p-- {
		if isBreakSpace(store.CharAt(p)) {
			return p + 1
		}
	}
	return pos
}

func isBreakSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// Composer is the subset of shaping.Composer's API the breaker needs to
// recompose a line after finding its break point.
type Composer interface {
	Compose(from, to glyph.CharPos, control *capability.DrawControl) (*glyph.GlyphString, error)
}

// Layouter is the subset of glyphlayout.Layouter's API the breaker needs.
type Layouter interface {
	Layout(gs *glyph.GlyphString, control *capability.DrawControl) error
}

// Breaker drives the two-dimensional line-splitting algorithm: find the
// greedy overflow point, ask the configured policy (or the default) where
// to actually break, then recompose/re-layout each physical line and
// chain them via GlyphString.Next.
type Breaker struct {
	Store    capability.TextStore
	Compose  Composer
	Layout   Layouter
	Fallback capability.LineBreaker
}

// Break takes an already composed-and-laid-out GlyphString for [from, to)
// and, if control demands two-dimensional layout with a width limit that
// the string exceeds, truncates it in place and links successor lines.
func (b *Breaker) Break(gs *glyph.GlyphString, control *capability.DrawControl) error {
	if !control.TwoDimensional || control.MaxLineWidth <= 0 {
		return nil
	}
	return b.breakFrom(gs, control)
}

func (b *Breaker) breakFrom(gs *glyph.GlyphString, control *capability.DrawControl) error {
	overflow, ok := b.findOverflow(gs, control.MaxLineWidth)
	if !ok {
		return nil
	}
	policy := control.LineBreak
	if policy == nil {
		policy = b.Fallback
	}
	breakPos := policy.LineBreak(b.Store, overflow, gs.From, gs.To)
	if breakPos <= gs.From || breakPos >= gs.To {
		return nil
	}

	rest := gs.To
	recomposed, err := b.Compose.Compose(gs.From, breakPos, control)
	if err != nil {
		return err
	}
	if err := b.Layout.Layout(recomposed, control); err != nil {
		return err
	}
	*gs = *recomposed

	next, err := b.Compose.Compose(breakPos, rest, control)
	if err != nil {
		return err
	}
	if err := b.Layout.Layout(next, control); err != nil {
		return err
	}
	gs.Next = next
	return b.breakFrom(next, control)
}

// findOverflow computes per-source-character width by summing the widths
// of glyphs whose Pos equals each char index (a combining cluster
// contributes only through its base, since marks carry width 0), then
// walks forward accumulating width until adding the next cluster would
// exceed limit.
func (b *Breaker) findOverflow(gs *glyph.GlyphString, limit fixed.Int26_6) (glyph.CharPos, bool) {
	var width fixed.Int26_6
	interior := gs.Interior()
	i := 0
	for i < len(interior) {
		g := interior[i]
		j := i + 1
		for j < len(interior) && interior[j].CombiningCode != 0 {
			j++
		}
		var clusterWidth fixed.Int26_6
		for k := i; k < j; k++ {
			clusterWidth += interior[k].Width
		}
		if width+clusterWidth > limit {
			return g.Pos, true
		}
		width += clusterWidth
		i = j
	}
	return 0, false
}
