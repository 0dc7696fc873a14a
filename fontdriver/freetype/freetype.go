// SPDX-License-Identifier: Unlicense OR MIT

// Package freetype implements a reference capability.FontDriver over a
// TrueType font with no GSUB/GPOS tables: EncodeChar is a raw cmap lookup
// and Shaper reports false, routing every run through the composer's
// combining-class fallback path instead of a font-layout-table shaper.
package freetype

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	goldfreetype "github.com/goki/freetype"
	"github.com/goki/freetype/truetype"
	stdfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// Face is a capability.RealizedFace backed by a TrueType outline font with
// no layout tables, at a fixed size/DPI.
type Face struct {
	ttf    *truetype.Font
	face   stdfont.Face
	size   fixed.Int26_6
	dpi    float64
	space  fixed.Int26_6
	driver *driver
}

// Parse constructs a Face from TrueType font bytes.
func Parse(src []byte, size fixed.Int26_6, dpi float64) (*Face, error) {
	ttf, err := goldfreetype.ParseFont(src)
	if err != nil {
		return nil, fmt.Errorf("freetype: parse font: %w", err)
	}
	if dpi <= 0 {
		dpi = 72
	}
	points := float64(size) / 64
	face := &Face{
		ttf: ttf,
		dpi: dpi,
		face: truetype.NewFace(ttf, &truetype.Options{
			Size: points,
			DPI:  dpi,
		}),
		size: size,
	}
	face.driver = &driver{face: face}
	if adv, ok := face.face.GlyphAdvance(' '); ok {
		face.space = adv
	} else {
		face.space = size / 2
	}
	return face, nil
}

func (f *Face) SpaceWidth() fixed.Int26_6 { return f.space }
func (f *Face) Box() interface{}          { return nil }
func (f *Face) BoxMetrics() (inner, width, outer fixed.Int26_6) {
	return 0, 0, 0
}
func (f *Face) Driver() capability.FontDriver { return f.driver }

// driver implements capability.FontDriver for Face. It never offers a
// Shaper, so the composer always falls back to combining-class placement
// for glyphs realized through this driver.
type driver struct {
	face *Face
}

func (d *driver) EncodeChar(r rune) (uint32, bool) {
	idx := d.face.ttf.Index(r)
	if idx == 0 {
		return 0, false
	}
	return uint32(idx), true
}

func (d *driver) Shaper() (capability.Shaper, bool) { return nil, false }

// Render draws gs.Glyphs[from:to] onto win, which must be a
// draw.Image (framedriver/raster's in-memory target); it reconstructs the
// run's source text and shapes it through goki/freetype's own Context
// rather than drawing by pre-resolved glyph Code, since the Context API
// only exposes a rune-keyed DrawString entry point.
func (d *driver) Render(win interface{}, x, y fixed.Int26_6, gs *glyph.GlyphString, from, to int, reverse bool, region interface{}) error {
	dst, ok := win.(draw.Image)
	if !ok {
		return fmt.Errorf("freetype: render target does not implement draw.Image")
	}
	var text []rune
	for i := from; i < to; i++ {
		if gs.Glyphs[i].CombiningCode == 0 {
			text = append(text, gs.Glyphs[i].Char)
		}
	}
	if len(text) == 0 {
		return nil
	}

	c := goldfreetype.NewContext()
	c.SetDPI(int(d.face.dpi))
	c.SetFont(d.face.ttf)
	c.SetFontSize(float64(d.face.size) / 64)
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(color.Black))
	c.SetClip(dst.Bounds())

	pt := goldfreetype.Pt(int(x>>6), int(y>>6))
	_, err := c.DrawString(string(text), pt)
	return err
}
