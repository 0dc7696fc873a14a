// SPDX-License-Identifier: Unlicense OR MIT

// Package render implements the two-pass renderer: a background/cursor
// pass followed by a foreground pass, both grouping runs of glyphs the same
// way the composer groups itemization runs (walk, compare, flush on
// transition) before dispatching to capability.FontDriver/FrameDriver.
package render

import (
	"reflect"

	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// ReverseVideoFace is an optional glyph.Face extension: a face that wants
// its background/foreground swapped for this draw.
type ReverseVideoFace interface {
	ReverseVideo() bool
}

// BackgroundFace is an optional glyph.Face extension exposing a
// backend-specific background fill value for the background pass.
type BackgroundFace interface {
	Background() interface{}
}

// DecorationFace is an optional glyph.Face extension exposing an
// underline and/or strikethrough overlay.
type DecorationFace interface {
	Underline() (underline, strikethrough bool)
}

// Renderer drives the background/cursor and foreground passes over an
// already composed, laid-out and (if requested) bidi-reordered
// GlyphString, dispatching drawing to a capability.FrameDriver and each
// glyph's capability.FontDriver.
type Renderer struct {
	Frames capability.FrameDriver
}

// RenderLine draws gs.Glyphs[from:to] (an interior slice, anchors
// excluded) at baseline position (x, y).
func (r *Renderer) RenderLine(frame, win interface{}, gs *glyph.GlyphString, from, to int, x, y fixed.Int26_6, control *capability.DrawControl) error {
	clip := r.clipFor(gs, from, to, x, y, control)
	if err := r.backgroundPass(frame, win, gs, from, to, x, y, control, clip); err != nil {
		return err
	}
	return r.foregroundPass(frame, win, gs, from, to, x, y, control, clip)
}

func (r *Renderer) clipFor(gs *glyph.GlyphString, from, to int, x, y fixed.Int26_6, control *capability.DrawControl) interface{} {
	width := groupWidth(gs.Glyphs, from, to)
	region := r.Frames.RegionFromRect(x, y-gs.LineAscent, width, gs.LineAscent+gs.LineDescent)
	if !control.PartialUpdate {
		return region
	}
	// Ink from a neighboring glyph can extend into the target rectangle
	// through an rbearing past its own advance (left neighbor) or a
	// negative lbearing (right neighbor); expand the clip to cover it.
	if from > 0 {
		left := gs.Glyphs[from-1]
		if left.RBearing > left.Width {
			region = r.Frames.RegionAddRect(region, x-(left.RBearing-left.Width), y-gs.LineAscent, left.RBearing-left.Width, gs.LineAscent+gs.LineDescent)
		}
	}
	if to < len(gs.Glyphs) {
		right := gs.Glyphs[to]
		if right.LBearing < 0 {
			region = r.Frames.RegionAddRect(region, x+width, y-gs.LineAscent, -right.LBearing, gs.LineAscent+gs.LineDescent)
		}
	}
	if control.ClipRegion != nil {
		region = r.Frames.IntersectRegion(region, control.ClipRegion)
	}
	return region
}

// backgroundPass fills each same-face run's background when the face is
// reverse-video or the draw mode targets an offscreen image, then fills
// the cursor rectangle (and bidi direction ticks) over whichever run
// contains the cursor position.
func (r *Renderer) backgroundPass(frame, win interface{}, gs *glyph.GlyphString, from, to int, x, y fixed.Int26_6, control *capability.DrawControl, clip interface{}) error {
	cur := x
	for i := from; i < to; {
		j := i + 1
		for j < to && facesEqual(gs.Glyphs[j].Face, gs.Glyphs[i].Face) {
			j++
		}
		g := gs.Glyphs[i]
		width := groupWidth(gs.Glyphs, i, j)
		if shouldFillBackground(g.Face, control) {
			if err := r.Frames.FillSpace(frame, win, g.Face, false, cur, y-gs.LineAscent, width, gs.LineAscent+gs.LineDescent, clip); err != nil {
				return err
			}
		}
		if control.WithCursor {
			if err := r.drawCursorIfPresent(frame, win, gs, i, j, cur, y, control, clip); err != nil {
				return err
			}
		}
		cur += width
		i = j
	}
	return nil
}

func (r *Renderer) drawCursorIfPresent(frame, win interface{}, gs *glyph.GlyphString, from, to int, groupX, y fixed.Int26_6, control *capability.DrawControl, clip interface{}) error {
	cursorIdx := -1
	cx := groupX
	for i := from; i < to; i++ {
		g := gs.Glyphs[i]
		if glyph.CharPos(control.CursorPos) >= g.Pos && glyph.CharPos(control.CursorPos) < g.To {
			cursorIdx = i
			break
		}
		cx += g.Width
	}
	if cursorIdx < 0 {
		return nil
	}
	g := gs.Glyphs[cursorIdx]
	width := control.EffectiveCursorWidth(spaceWidthOf(g.Face))
	if width > g.Width && g.Width > 0 {
		width = g.Width
	}
	if err := r.Frames.FillSpace(frame, win, g.Face, true, cx, y-gs.LineAscent, width, gs.LineAscent+gs.LineDescent, clip); err != nil {
		return err
	}
	if !control.CursorBidi {
		return nil
	}
	if err := r.drawDirectionTick(frame, win, gs, g, cx, y, control); err != nil {
		return err
	}
	if cursorIdx > from {
		prev := gs.Glyphs[cursorIdx-1]
		if oddLevel(prev.BidiLevel) != oddLevel(g.BidiLevel) {
			return r.drawDirectionTick(frame, win, gs, prev, cx, y, control)
		}
	}
	return nil
}

func (r *Renderer) drawDirectionTick(frame, win interface{}, gs *glyph.GlyphString, g glyph.Glyph, x, y fixed.Int26_6, control *capability.DrawControl) error {
	tickLen := fixed.I(4)
	ty := y - gs.LineAscent
	if oddLevel(g.BidiLevel) {
		ty = y + gs.Descent
	}
	return r.Frames.DrawHLine(frame, win, gs, g.Face, oddLevel(g.BidiLevel), x, ty, tickLen)
}

func oddLevel(level uint8) bool { return level%2 == 1 }

// foregroundPass groups by (face, kind, code-validity) and dispatches each
// group to the font driver, the frame driver's empty-box fallback, or the
// box-edge drawer, then draws any underline/strikethrough/box overlay the
// group's face declares.
func (r *Renderer) foregroundPass(frame, win interface{}, gs *glyph.GlyphString, from, to int, x, y fixed.Int26_6, control *capability.DrawControl, clip interface{}) error {
	cur := x
	for i := from; i < to; {
		j := i + 1
		for j < to && sameForegroundGroup(gs.Glyphs[i], gs.Glyphs[j]) {
			j++
		}
		g := gs.Glyphs[i]
		width := groupWidth(gs.Glyphs, i, j)
		if err := r.dispatchGroup(frame, win, gs, i, j, cur, y, control.OrientationReversed, clip); err != nil {
			return err
		}
		if err := r.drawOverlays(frame, win, gs, g, i, j, cur, y, width, control); err != nil {
			return err
		}
		cur += width
		i = j
	}
	return nil
}

func sameForegroundGroup(a, b glyph.Glyph) bool {
	return facesEqual(a.Face, b.Face) && a.Kind == b.Kind && (a.Kind != glyph.Char || codeValid(a.Code) == codeValid(b.Code))
}

func codeValid(code uint32) bool { return code != glyph.InvalidCode }

func (r *Renderer) dispatchGroup(frame, win interface{}, gs *glyph.GlyphString, from, to int, x, y fixed.Int26_6, reverse bool, clip interface{}) error {
	g := gs.Glyphs[from]
	switch g.Kind {
	case glyph.Char:
		if !codeValid(g.Code) {
			return r.Frames.DrawEmptyBoxes(win, x, y, gs, from, to, reverse, clip)
		}
		rf, ok := g.Face.(capability.RealizedFace)
		if !ok {
			return r.Frames.DrawEmptyBoxes(win, x, y, gs, from, to, reverse, clip)
		}
		return rf.Driver().Render(win, x, y, gs, from, to, reverse, clip)
	case glyph.Box:
		for i := from; i < to; i++ {
			bw := fixed.I(0)
			if _, width, _ := g.Face.BoxMetrics(); i == from {
				bw = width
			}
			if err := r.Frames.DrawBox(frame, win, gs, &gs.Glyphs[i], x, y, bw, clip); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) drawOverlays(frame, win interface{}, gs *glyph.GlyphString, g glyph.Glyph, from, to int, x, y, width fixed.Int26_6, control *capability.DrawControl) error {
	reverse := isReverseVideo(g.Face)
	if d, ok := g.Face.(DecorationFace); ok {
		underline, strike := d.Underline()
		if underline {
			if err := r.Frames.DrawHLine(frame, win, gs, g.Face, control.OrientationReversed, x, y+fixed.I(1), width); err != nil {
				return err
			}
		}
		if strike {
			if err := r.Frames.DrawHLine(frame, win, gs, g.Face, control.OrientationReversed, x, y-gs.LineAscent/2, width); err != nil {
				return err
			}
		}
	}
	if g.Face != nil && g.Face.Box() != nil && !reverse {
		_, bw, _ := g.Face.BoxMetrics()
		if err := r.Frames.DrawBox(frame, win, gs, &g, x, y-gs.LineAscent, bw, nil); err != nil {
			return err
		}
		if err := r.Frames.DrawBox(frame, win, gs, &g, x, y+gs.LineDescent, bw, nil); err != nil {
			return err
		}
	}
	return nil
}

func isReverseVideo(f glyph.Face) bool {
	rv, ok := f.(ReverseVideoFace)
	return ok && rv.ReverseVideo()
}

func shouldFillBackground(f glyph.Face, control *capability.DrawControl) bool {
	if control.AsImage {
		return true
	}
	return isReverseVideo(f)
}

func spaceWidthOf(f glyph.Face) fixed.Int26_6 {
	if f == nil {
		return 0
	}
	return f.SpaceWidth()
}

func groupWidth(glyphs []glyph.Glyph, from, to int) fixed.Int26_6 {
	var w fixed.Int26_6
	for i := from; i < to; i++ {
		w += glyphs[i].Width
	}
	return w
}

func facesEqual(a, b glyph.Face) bool {
	return reflect.DeepEqual(a, b)
}
