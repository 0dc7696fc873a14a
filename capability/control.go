// SPDX-License-Identifier: Unlicense OR MIT

package capability

import "golang.org/x/image/math/fixed"

// DrawControl mirrors the recognized draw option set. A zero value
// is a usable, conservative default (no bidi, no cursor, single line).
type DrawControl struct {
	AsImage bool

	WithCursor bool
	CursorPos  int

	// CursorWidth is the cursor pixel width; negative means "use the face
	// space width", zero means "no cursor".
	CursorWidth fixed.Int26_6
	CursorBidi  bool

	EnableBidi          bool
	OrientationReversed bool

	TwoDimensional bool
	MaxLineWidth   fixed.Int26_6

	// TabWidth is in multiples of space-width; zero means the default of 8.
	TabWidth int

	MinLineAscent, MinLineDescent fixed.Int26_6
	MaxLineAscent, MaxLineDescent fixed.Int26_6

	FixedWidth bool
	AlignHead  bool

	IgnoreFormattingChar bool
	AntiAlias            bool
	DisableCaching       bool
	PartialUpdate        bool

	Format    Formatter
	LineBreak LineBreaker

	ClipRegion interface{}
}

// EffectiveTabWidth resolves the configured tab width (in space-widths)
// against the default of 8.
func (c *DrawControl) EffectiveTabWidth() int {
	if c.TabWidth <= 0 {
		return 8
	}
	return c.TabWidth
}

// EffectiveCursorWidth resolves the cursor width against a face's space
// width: negative CursorWidth means "use the space width", and a bidi
// cursor always draws at a fixed 3-pixel width.
func (c *DrawControl) EffectiveCursorWidth(spaceWidth fixed.Int26_6) fixed.Int26_6 {
	switch {
	case c.CursorBidi:
		return fixed.I(3)
	case c.CursorWidth < 0:
		return spaceWidth
	default:
		return c.CursorWidth
	}
}

// ClampLineAscent and ClampLineDescent implement the line-box clamping
// rule: clamp to [min, max], with max ignored when it is zero or not
// greater than min.
func (c *DrawControl) ClampLineAscent(v fixed.Int26_6) fixed.Int26_6 {
	return clamp(v, c.MinLineAscent, c.MaxLineAscent)
}

func (c *DrawControl) ClampLineDescent(v fixed.Int26_6) fixed.Int26_6 {
	return clamp(v, c.MinLineDescent, c.MaxLineDescent)
}

func clamp(v, min, max fixed.Int26_6) fixed.Int26_6 {
	if v < min {
		v = min
	}
	if max > 0 && max > min && v > max {
		v = max
	}
	return v
}
