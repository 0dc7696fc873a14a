// SPDX-License-Identifier: Unlicense OR MIT

// Package raster implements a reference capability.FrameDriver over an
// in-memory image.RGBA, grounded on the image/draw usage throughout
// esimov-caire (carver.go, processor.go) and on disintegration/imaging for
// the final PNG dump. It draws glyph ink as a filled bounding-box rather
// than a true outline: rasterizing a font's hinted contours is explicitly
// out of scope (a FrameDriver is a consumed capability, not something this
// module fully implements), so this is a minimal, honest stand-in rather
// than a real text renderer.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// Surface is an in-memory capability.FrameDriver target.
type Surface struct {
	Img                                  *image.RGBA
	Background, Foreground, CursorColor color.Color
}

// NewSurface allocates a w x h white-on-black-text surface.
func NewSurface(w, h int) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return &Surface{
		Img:        img,
		Background: color.White,
		Foreground: color.Black,
		CursorColor: color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
	}
}

// SavePNG writes the surface out via disintegration/imaging, the same
// library esimov-caire uses to resize and re-encode its working images.
func (s *Surface) SavePNG(path string) error {
	if err := imaging.Save(s.Img, path); err != nil {
		return fmt.Errorf("raster: save %s: %w", path, err)
	}
	return nil
}

func rectFromFixed(x, y, w, h fixed.Int26_6) image.Rectangle {
	x0, y0 := x.Round(), y.Round()
	x1, y1 := (x + w).Round(), (y + h).Round()
	return image.Rect(x0, y0, x1, y1)
}

func (s *Surface) fill(r image.Rectangle, col color.Color) {
	draw.Draw(s.Img, r.Intersect(s.Img.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

func (s *Surface) FillSpace(frame, win interface{}, face glyph.Face, isCursor bool, x, y, w, h fixed.Int26_6, clip interface{}) error {
	col := s.Background
	if isCursor {
		col = s.CursorColor
	}
	s.fill(rectFromFixed(x, y, w, h), col)
	return nil
}

// DrawEmptyBoxes draws an outline rectangle per glyph whose font could not
// supply a code, the standard empty-box fallback for an unmapped glyph.
func (s *Surface) DrawEmptyBoxes(win interface{}, x, y fixed.Int26_6, gs *glyph.GlyphString, from, to int, reverse bool, clip interface{}) error {
	cur := x
	for i := from; i < to; i++ {
		g := gs.Glyphs[i]
		s.drawOutline(rectFromFixed(cur, y-g.Ascent, g.Width, g.Ascent+g.Descent))
		cur += g.Width
	}
	return nil
}

func (s *Surface) drawOutline(r image.Rectangle) {
	r = r.Intersect(s.Img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		s.Img.Set(x, r.Min.Y, s.Foreground)
		s.Img.Set(x, r.Max.Y-1, s.Foreground)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		s.Img.Set(r.Min.X, y, s.Foreground)
		s.Img.Set(r.Max.X-1, y, s.Foreground)
	}
}

func (s *Surface) DrawBox(frame, win interface{}, gs *glyph.GlyphString, g *glyph.Glyph, x, y, width fixed.Int26_6, clip interface{}) error {
	s.drawOutline(rectFromFixed(x, y, width, g.Ascent+g.Descent))
	return nil
}

func (s *Surface) DrawHLine(frame, win interface{}, gs *glyph.GlyphString, face glyph.Face, reverse bool, x, y, width fixed.Int26_6) error {
	s.fill(rectFromFixed(x, y, width, fixed.I(1)), s.Foreground)
	return nil
}

func (s *Surface) RegionFromRect(x, y, w, h fixed.Int26_6) interface{} {
	return rectFromFixed(x, y, w, h)
}

func (s *Surface) RegionAddRect(region interface{}, x, y, w, h fixed.Int26_6) interface{} {
	r, _ := region.(image.Rectangle)
	return r.Union(rectFromFixed(x, y, w, h))
}

func (s *Surface) IntersectRegion(a, b interface{}) interface{} {
	ra, _ := a.(image.Rectangle)
	rb, _ := b.(image.Rectangle)
	return ra.Intersect(rb)
}

func (s *Surface) FreeRegion(region interface{}) {}

func (s *Surface) RegionToRect(region interface{}) (x, y, w, h fixed.Int26_6) {
	r, _ := region.(image.Rectangle)
	return fixed.I(r.Min.X), fixed.I(r.Min.Y), fixed.I(r.Dx()), fixed.I(r.Dy())
}

// DrawGlyphs satisfies the minimal glyph-drawing interface
// fontdriver/opentype's FontDriver.Render expects from its win argument.
// It draws each glyph's ink as a filled bounding box (see the package
// doc for why this stands in for real outline rasterization).
func (s *Surface) DrawGlyphs(gs *glyph.GlyphString, from, to int, x, y fixed.Int26_6, reverse bool) error {
	cur := x
	for i := from; i < to; i++ {
		g := gs.Glyphs[i]
		if g.CombiningCode == 0 && g.Code != glyph.InvalidCode {
			s.fill(rectFromFixed(cur-g.LBearing, y-g.Ascent, g.LBearing+g.RBearing, g.Ascent+g.Descent), s.Foreground)
		}
		cur += g.Width
	}
	return nil
}

var _ capability.FrameDriver = (*Surface)(nil)
