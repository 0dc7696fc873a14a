// SPDX-License-Identifier: Unlicense OR MIT

// Package bidi implements the visual-reordering pass: it
// walks a glyph.GlyphString in logical order, derives bidi types per
// cluster via a capability.Environment, and (unless the text is plain LTR)
// rewrites the buffer into visual order while tagging each glyph with its
// embedding level and mirroring characters as needed.
//
// Two capability.Reorderer implementations are provided, since bidi is a
// pluggable capability here: UnicodeReorderer wraps
// golang.org/x/text/unicode/bidi (the same library gioui.org/text/gotext.go
// uses for its own bidi.Paragraph), and NaiveReorderer is a
// legacy-compatible reversal that does not handle neutrals correctly.
package bidi

import (
	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
	xbidi "golang.org/x/text/unicode/bidi"
)

// cluster groups a base glyph index with its trailing combining marks, the
// unit the bidi pass reorders.
type cluster struct {
	start, end int // glyph indices [start, end) within gs.Glyphs, base at start
	char       rune
	level      uint8
}

func collectClusters(gs *glyph.GlyphString) []cluster {
	var clusters []cluster
	interior := gs.Interior()
	i := 0
	for i < len(interior) {
		end := i + 1
		for end < len(interior) && interior[end].CombiningCode != 0 {
			end++
		}
		clusters = append(clusters, cluster{start: i + 1, end: end + 1, char: interior[i].Char})
		i = end
	}
	return clusters
}

func hasStrongRTL(env capability.Environment, clusters []cluster) bool {
	for _, c := range clusters {
		switch env.BidiCategory(c.char) {
		case "R", "AL", "RLE", "RLO":
			return true
		}
	}
	return false
}

// applyLevels rewrites gs into visual order given a per-cluster embedding
// level, preserving cluster adjacency (base immediately followed by its
// marks) and writing BidiLevel on every glyph steps 6-7.
func applyLevels(gs *glyph.GlyphString, clusters []cluster, levels []uint8, env capability.Environment) {
	for i := range clusters {
		clusters[i].level = levels[i]
	}
	order := make([]int, len(clusters))
	for i := range order {
		order[i] = i
	}
	visualOrderFromLevels(order, levels)

	interior := gs.Interior()
	newInterior := make([]glyph.Glyph, 0, len(interior))
	for _, ci := range order {
		c := clusters[ci]
		for gi := c.start - 1; gi < c.end-1; gi++ {
			g := interior[gi]
			g.BidiLevel = c.level
			if c.level%2 == 1 {
				if m, ok := env.Mirror(g.Char); ok && g.Char != m {
					g.Char = m
					if rf, ok := g.Face.(capability.RealizedFace); ok {
						if code, ok := rf.Driver().EncodeChar(m); ok {
							g.Code = code
						} else {
							g.Code = glyph.InvalidCode
						}
					}
				}
			}
			newInterior = append(newInterior, g)
		}
	}
	copy(gs.Glyphs[1:len(gs.Glyphs)-1], newInterior)
}

// visualOrderFromLevels computes a left-to-right visual permutation of
// cluster indices from their resolved embedding levels using the standard
// UAX#9 L2 rule: repeatedly reverse maximal runs at the highest level,
// from the highest level down to 1.
func visualOrderFromLevels(order []int, levels []uint8) {
	if len(levels) == 0 {
		return
	}
	maxLevel := uint8(0)
	minOddLevel := uint8(255)
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
		if l%2 == 1 && l < minOddLevel {
			minOddLevel = l
		}
	}
	if minOddLevel == 255 {
		return
	}
	for lvl := maxLevel; lvl >= minOddLevel; lvl-- {
		i := 0
		for i < len(order) {
			if levels[order[i]] < lvl {
				i++
				continue
			}
			j := i
			for j < len(order) && levels[order[j]] >= lvl {
				j++
			}
			reverse(order[i:j])
			i = j
		}
		if lvl == 0 {
			break
		}
	}
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// UnicodeReorderer implements capability.Reorderer using the full Unicode
// Bidirectional Algorithm via golang.org/x/text/unicode/bidi.
type UnicodeReorderer struct {
	p xbidi.Paragraph
}

func (u *UnicodeReorderer) Reorder(gs *glyph.GlyphString, env capability.Environment, rtl bool) (bool, error) {
	return reorder(gs, env, rtl, u.levelsUnicode)
}

func (u *UnicodeReorderer) levelsUnicode(text string, rtl bool) ([]uint8, error) {
	def := xbidi.LeftToRight
	if rtl {
		def = xbidi.RightToLeft
	}
	u.p.SetString(text, xbidi.DefaultDirection(def))
	ordering, err := u.p.Order()
	if err != nil {
		return nil, err
	}
	out := make([]uint8, 0, len(text))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		lvl := uint8(0)
		if run.Direction() == xbidi.RightToLeft {
			lvl = 1
		}
		start, end := run.Pos()
		for p := start; p <= end; p++ {
			out = append(out, lvl)
		}
	}
	return out, nil
}

// NaiveReorderer implements capability.Reorderer with the legacy "trivial
// level-run reversal": it assigns level 1 to maximal
// runs of strong-RTL-or-neutral characters adjacent to an RTL character
// and reverses them, without resolving neutrals by the UAX#9 rules. It
// exists for compatibility with callers that relied on the source's
// historical (non-full-Bidi) behavior.
type NaiveReorderer struct{}

func (NaiveReorderer) Reorder(gs *glyph.GlyphString, env capability.Environment, rtl bool) (bool, error) {
	return reorder(gs, env, rtl, naiveLevels)
}

func naiveLevels(text string, rtl bool) ([]uint8, error) {
	runes := []rune(text)
	levels := make([]uint8, len(runes))
	base := uint8(0)
	if rtl {
		base = 1
	}
	for i := range levels {
		levels[i] = base
	}
	classOf := func(r rune) xbidi.Class { p, _ := xbidi.LookupRune(r); return p.Class() }
	for i := 0; i < len(runes); i++ {
		j, hasRTL := i, false
		for ; j < len(runes); j++ {
			c := classOf(runes[j])
			if c == xbidi.L || c == xbidi.EN || c == xbidi.AN {
				break
			}
			hasRTL = hasRTL || c == xbidi.R || c == xbidi.AL
		}
		for k := i; hasRTL && k < j; k++ {
			levels[k] = 1
		}
		i = j
	}
	return levels, nil
}

// reorder shares the skip/collect/apply skeleton between the two
// Reorderer implementations, differing only in how per-character levels
// are derived.
func reorder(gs *glyph.GlyphString, env capability.Environment, rtl bool, levelsOf func(string, bool) ([]uint8, error)) (bool, error) {
	clusters := collectClusters(gs)
	if len(clusters) == 0 {
		return false, nil
	}
	if !hasStrongRTL(env, clusters) && !rtl {
		for i := range gs.Glyphs {
			gs.Glyphs[i].BidiLevel = 0
		}
		return false, nil
	}
	text := make([]rune, len(clusters))
	for i, c := range clusters {
		text[i] = c.char
	}
	levels, err := levelsOf(string(text), rtl)
	if err != nil {
		return false, err
	}
	if len(levels) != len(clusters) {
		// Degrade gracefully rather than index out of range: pad/truncate.
		fixed := make([]uint8, len(clusters))
		copy(fixed, levels)
		levels = fixed
	}
	applyLevels(gs, clusters, levels, env)
	return true, nil
}
