// SPDX-License-Identifier: Unlicense OR MIT

// Package shaping implements the composer: it itemizes a
// character range into same-script/same-face/same-language/same-charset
// runs, resolves a RealizedFace per run through capability.FaceResolver,
// invokes each run's FLT shaper when available, and otherwise assigns
// combining codes from the Unicode combining-class table and
// stable-sorts marks within a cluster.
//
// The run-splitting technique (three synchronized "stop" positions, flush
// on transition) is grounded on the splitByScript/splitByFaces pipeline in
// gioui.org/text/gotext.go, generalized from script/face-coverage-only
// splitting to script+face+language+charset itemization.
package shaping

import (
	"fmt"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
	"github.com/inkrune/shaping/internal/combining"
	"golang.org/x/image/math/fixed"
)

// Composer holds the collaborators needed to itemize and shape a run of
// text; it carries no per-call state so one Composer may be reused.
type Composer struct {
	Store   capability.TextStore
	Env     capability.Environment
	Faces   capability.FaceResolver
	Reorder capability.Reorderer
	Size    fixed.Int26_6
}

// Compose itemizes, resolves faces, shapes, then (unless
// control.EnableBidi is false) reorders, end to end over [from, to).
func (c *Composer) Compose(from, to glyph.CharPos, control *capability.DrawControl) (*glyph.GlyphString, error) {
	if from > to || to > glyph.CharPos(c.Store.Len()) || from < 0 {
		return nil, fmt.Errorf("compose %d..%d: %w", from, to, capability.ErrRange)
	}
	gs := glyph.NewAnchored(from)

	pos := from
	end := to
	if control.TwoDimensional {
		// Stop at the first newline within [from, to).
		for p := from; p < to; p++ {
			if c.Store.CharAt(p) == '\n' {
				end = p + 1
				break
			}
		}
	}

	run := newItemizer(c.Store, c.Env, pos, end)
	for run.next() {
		c.flushRun(gs, run)
	}

	// Virtual trailing newline so a cursor can be positioned past the last
	// character.
	if end == glyph.CharPos(c.Store.Len()) {
		gs.InsertAt(len(gs.Glyphs)-1, glyph.Glyph{
			Kind: glyph.Space,
			Pos:  end,
			To:   end,
		})
	}
	gs.To = end

	if control.EnableBidi {
		if _, err := c.Reorder.Reorder(gs, c.Env, control.OrientationReversed); err != nil {
			return nil, fmt.Errorf("bidi reorder: %w", err)
		}
	}
	return gs, nil
}

// flushRun expands one itemized run into glyphs (control-character
// expansion), resolves its face via ForChars, and runs its shaper or
// combining-class fallback.
func (c *Composer) flushRun(gs *glyph.GlyphString, run *itemizer) {
	start := len(gs.Glyphs) - 1
	for p := run.runFrom; p < run.runTo; p++ {
		ch := c.Store.CharAt(p)
		if (ch < 32 && ch != '\t' && ch != '\n') || ch == 127 {
			// ^X expansion: two latin-script glyphs sharing the source
			// position.
			caret := rune('^')
			letter := ch + 64
			if ch == 127 {
				letter = '?'
			}
			gs.InsertAt(len(gs.Glyphs)-1, glyph.Glyph{Kind: glyph.Char, Char: caret, Pos: p, To: p + 1})
			gs.InsertAt(len(gs.Glyphs)-1, glyph.Glyph{Kind: glyph.Char, Char: letter, Pos: p, To: p + 1})
			continue
		}
		kind := glyph.Char
		if ch == '\t' || ch == '\n' || ch == ' ' {
			kind = glyph.Space
		}
		cat := c.Env.Category(ch)
		gs.InsertAt(len(gs.Glyphs)-1, glyph.Glyph{Kind: kind, Char: ch, Pos: p, To: p + 1, Category: cat})
	}
	end := len(gs.Glyphs) - 1

	glyphs := gs.Glyphs[start+1 : end]
	glyphs = c.Faces.ForChars(run.script, run.language, run.charset, glyphs, c.Size)
	newEnd := start + 1 + len(glyphs)
	if newEnd != end {
		gs.Glyphs = append(gs.Glyphs[:start+1], append(glyphs, gs.Glyphs[end:]...)...)
		end = newEnd
	} else {
		copy(gs.Glyphs[start+1:end], glyphs)
	}

	c.shapeRun(gs, start+1, end)
}

// shapeRun invokes the run's FLT shaper if its realized face offers one;
// otherwise it falls back to combining-class-derived codes with a stable
// sort of marks by canonical combining class within each cluster.
func (c *Composer) shapeRun(gs *glyph.GlyphString, from, to int) {
	if to <= from {
		return
	}
	face, _ := gs.Glyphs[from].Face.(capability.RealizedFace)
	if face != nil {
		if shaper, ok := face.Driver().Shaper(); ok {
			newEnd, err := shaper.Run(gs, from, to, face)
			if err == nil {
				_ = newEnd
				return
			}
		}
	}
	c.assignCombiningFallback(gs, from, to)
}

func (c *Composer) assignCombiningFallback(gs *glyph.GlyphString, from, to int) {
	i := from
	for i < to {
		if len(gs.Glyphs[i].Category) == 0 || gs.Glyphs[i].Category[0] != 'M' {
			i++
			continue
		}
		j := i
		for j < to && len(gs.Glyphs[j].Category) > 0 && gs.Glyphs[j].Category[0] == 'M' {
			gs.Glyphs[j].CombiningCode = uint32(combining.FromClass(c.Env.CombiningClass(gs.Glyphs[j].Char)))
			j++
		}
		stableSortByClass(gs.Glyphs[i:j], c.Env)
		// The base (at i-1, if any) and its marks share one expanded
		// range.
		if i > from {
			base := i - 1
			clusterFrom, clusterTo := gs.Glyphs[base].Pos, gs.Glyphs[j-1].To
			for k := base; k < j; k++ {
				gs.Glyphs[k].Pos, gs.Glyphs[k].To = clusterFrom, clusterTo
			}
		}
		i = j
	}
}

// stableSortByClass sorts marks within a cluster by canonical combining
// class using a bubble sort; a cluster rarely holds more than a handful
// of marks, so O(n^2) is fine, and the sort is stable among equal classes.
func stableSortByClass(marks []glyph.Glyph, env capability.Environment) {
	classOf := func(g glyph.Glyph) uint16 { return env.CombiningClass(g.Char) }
	n := len(marks)
	for i := 0; i < n; i++ {
		for j := 0; j < n-1-i; j++ {
			if classOf(marks[j]) > classOf(marks[j+1]) {
				marks[j], marks[j+1] = marks[j+1], marks[j]
			}
		}
	}
}

// itemizer walks [from, to) yielding maximal runs sharing script, face,
// language and charset, tracking three "stop" positions (face, language,
// charset property boundaries) synchronized with TextStore.
type itemizer struct {
	store    capability.TextStore
	env      capability.Environment
	pos, end glyph.CharPos

	runFrom, runTo    glyph.CharPos
	script            string
	language, charset string
}

func newItemizer(store capability.TextStore, env capability.Environment, from, to glyph.CharPos) *itemizer {
	return &itemizer{store: store, env: env, pos: from, end: to}
}

func (it *itemizer) next() bool {
	if it.pos >= it.end {
		return false
	}
	it.runFrom = it.pos
	script := ""
	lang, charset := it.propAt(capability.PropLanguage, it.pos), it.propAt(capability.PropCharset, it.pos)
	it.language, it.charset = lang, charset

	_, faceTo := it.store.PropRange(it.pos, capability.PropFace, true, true, false)
	_, langTo := it.store.PropRange(it.pos, capability.PropLanguage, true, true, false)
	_, charsetTo := it.store.PropRange(it.pos, capability.PropCharset, true, true, false)

	stop := min4(it.end, faceTo, langTo, charsetTo)

	p := it.pos
	for p < stop {
		ch := it.store.CharAt(p)
		s := it.env.Script(ch)
		switch {
		case ch < 128:
			s = "latin"
		case s == "":
			// Inherited/none: propagate from the previous resolved
			// script, or search forward for the first explicit one.
			if script != "" {
				s = script
			} else {
				s = it.lookahead(p, stop)
			}
		}
		if script == "" {
			script = s
		} else if s != script && s != "" {
			break
		}
		p++
	}
	if script == "" {
		script = "latin"
	}
	it.script = script
	it.runTo = p
	it.pos = p
	return it.runTo > it.runFrom
}

func (it *itemizer) lookahead(from, limit glyph.CharPos) string {
	for p := from; p < limit; p++ {
		if s := it.env.Script(it.store.CharAt(p)); s != "" {
			return s
		}
	}
	return "latin"
}

func (it *itemizer) propAt(key capability.PropKey, pos glyph.CharPos) string {
	if v, ok := it.store.GetProp(pos, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func min4(a, b, c, d glyph.CharPos) glyph.CharPos {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if d < m {
		m = d
	}
	return m
}
