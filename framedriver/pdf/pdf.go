// SPDX-License-Identifier: Unlicense OR MIT

// Package pdf implements a reference capability.FrameDriver that emits a
// single-page PDF document, grounded on seehuhn-go-pdf's demos/font and
// demos/pages main.go: a Writer created with pdf.Create, one content
// stream opened with Writer.OpenStream, objects written with Writer.Write,
// and the page/catalog/info graph finished off with Writer.Close.
//
// Like framedriver/raster, this driver does not rasterize hinted glyph
// outlines (out of scope for a consumed FrameDriver): text is emitted
// through the PDF standard Helvetica font rather than through the shaped
// glyph codes a real embedding driver would use.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pages"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/glyph"
)

// Surface accumulates one page's content stream and, on Close, writes the
// finished object graph to out.
type Surface struct {
	out     *pdf.Writer
	width   int
	height  int
	buf     bytes.Buffer
	fontRef pdf.Reference
}

// NewSurface creates path and opens a PDF writer for a width x height
// (in points) page.
func NewSurface(path string, width, height int) (*Surface, error) {
	out, err := pdf.Create(path)
	if err != nil {
		return nil, fmt.Errorf("pdf: create %s: %w", path, err)
	}
	font, err := out.Write(pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("pdf: write font: %w", err)
	}
	return &Surface{out: out, width: width, height: height, fontRef: font}, nil
}

// toPDFY flips the FrameDriver's top-down y axis to PDF's bottom-up one.
func (s *Surface) toPDFY(y fixed.Int26_6) float64 {
	return float64(s.height) - float64(y)/64
}

func pt(v fixed.Int26_6) float64 { return float64(v) / 64 }

func (s *Surface) rect(x, y, w, h fixed.Int26_6) (llx, lly, urx, ury float64) {
	llx = pt(x)
	ury = s.toPDFY(y)
	urx = llx + pt(w)
	lly = ury - pt(h)
	return
}

func (s *Surface) fillRect(x, y, w, h fixed.Int26_6, gray float64) {
	llx, lly, urx, ury := s.rect(x, y, w, h)
	fmt.Fprintf(&s.buf, "%.2f g\n%.2f %.2f %.2f %.2f re f\n", gray, llx, lly, urx-llx, ury-lly)
}

func (s *Surface) strokeRect(x, y, w, h fixed.Int26_6) {
	llx, lly, urx, ury := s.rect(x, y, w, h)
	fmt.Fprintf(&s.buf, "0 G\n%.2f %.2f %.2f %.2f re S\n", llx, lly, urx-llx, ury-lly)
}

func (s *Surface) FillSpace(frame, win interface{}, face glyph.Face, isCursor bool, x, y, w, h fixed.Int26_6, clip interface{}) error {
	gray := 1.0
	if isCursor {
		gray = 0.3
	}
	s.fillRect(x, y, w, h, gray)
	return nil
}

func (s *Surface) DrawEmptyBoxes(win interface{}, x, y fixed.Int26_6, gs *glyph.GlyphString, from, to int, reverse bool, clip interface{}) error {
	cur := x
	for i := from; i < to; i++ {
		g := gs.Glyphs[i]
		s.strokeRect(cur, y-g.Ascent, g.Width, g.Ascent+g.Descent)
		cur += g.Width
	}
	return nil
}

func (s *Surface) DrawBox(frame, win interface{}, gs *glyph.GlyphString, g *glyph.Glyph, x, y, width fixed.Int26_6, clip interface{}) error {
	s.strokeRect(x, y, width, g.Ascent+g.Descent)
	return nil
}

func (s *Surface) DrawHLine(frame, win interface{}, gs *glyph.GlyphString, face glyph.Face, reverse bool, x, y, width fixed.Int26_6) error {
	s.fillRect(x, y, width, fixed.I(1), 0)
	return nil
}

func (s *Surface) RegionFromRect(x, y, w, h fixed.Int26_6) interface{} {
	return pdfRect{x, y, w, h}
}

func (s *Surface) RegionAddRect(region interface{}, x, y, w, h fixed.Int26_6) interface{} {
	r, _ := region.(pdfRect)
	return r.union(pdfRect{x, y, w, h})
}

func (s *Surface) IntersectRegion(a, b interface{}) interface{} {
	ra, _ := a.(pdfRect)
	rb, _ := b.(pdfRect)
	return ra.intersect(rb)
}

func (s *Surface) FreeRegion(region interface{}) {}

func (s *Surface) RegionToRect(region interface{}) (x, y, w, h fixed.Int26_6) {
	r, _ := region.(pdfRect)
	return r.x, r.y, r.w, r.h
}

type pdfRect struct{ x, y, w, h fixed.Int26_6 }

func (r pdfRect) union(o pdfRect) pdfRect {
	x0, y0 := min6(r.x, o.x), min6(r.y, o.y)
	x1, y1 := max6(r.x+r.w, o.x+o.w), max6(r.y+r.h, o.y+o.h)
	return pdfRect{x0, y0, x1 - x0, y1 - y0}
}

func (r pdfRect) intersect(o pdfRect) pdfRect {
	x0, y0 := max6(r.x, o.x), max6(r.y, o.y)
	x1, y1 := min6(r.x+r.w, o.x+o.w), min6(r.y+r.h, o.y+o.h)
	if x1 < x0 || y1 < y0 {
		return pdfRect{}
	}
	return pdfRect{x0, y0, x1 - x0, y1 - y0}
}

func min6(a, b fixed.Int26_6) fixed.Int26_6 {
	if a < b {
		return a
	}
	return b
}

func max6(a, b fixed.Int26_6) fixed.Int26_6 {
	if a > b {
		return a
	}
	return b
}

func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// DrawGlyphs satisfies the same minimal glyph-drawing interface
// fontdriver/opentype's FontDriver.Render expects from its win argument. It reconstructs the run's source text (since
// this driver shows text through the standard Helvetica font, not by the
// caller's shaped glyph codes) and emits it as one Tj at the run's size.
func (s *Surface) DrawGlyphs(gs *glyph.GlyphString, from, to int, x, y fixed.Int26_6, reverse bool) error {
	var text []rune
	var size fixed.Int26_6
	for i := from; i < to; i++ {
		g := gs.Glyphs[i]
		if g.CombiningCode == 0 && g.Code != glyph.InvalidCode {
			text = append(text, g.Char)
			if g.Ascent+g.Descent > size {
				size = g.Ascent + g.Descent
			}
		}
	}
	if len(text) == 0 {
		return nil
	}
	if size == 0 {
		size = fixed.I(12)
	}
	fmt.Fprintf(&s.buf, "BT\n/F1 %.1f Tf\n%.2f %.2f Td\n(%s) Tj\nET\n",
		pt(size), pt(x), s.toPDFY(y), escapeText(string(text)))
	return nil
}

// Close finishes the page, writes the resource/page/catalog/info graph,
// and closes the underlying PDF file.
func (s *Surface) Close() error {
	stream, contentRef, err := s.out.OpenStream(nil, nil, nil)
	if err != nil {
		return fmt.Errorf("pdf: open content stream: %w", err)
	}
	if _, err := stream.Write(s.buf.Bytes()); err != nil {
		return fmt.Errorf("pdf: write content stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("pdf: close content stream: %w", err)
	}

	pageTree := pages.NewPageTree(s.out)
	page := pdf.Dict{
		"Type":     pdf.Name("Page"),
		"Contents": contentRef,
	}
	if err := pageTree.Ship(page, nil); err != nil {
		return fmt.Errorf("pdf: ship page: %w", err)
	}

	pagesDict, pagesRef, err := pageTree.Flush()
	if err != nil {
		return fmt.Errorf("pdf: flush page tree: %w", err)
	}
	pagesDict["MediaBox"] = pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(s.width), pdf.Integer(s.height)}
	pagesDict["Resources"] = pdf.Dict{
		"Font": pdf.Dict{"F1": s.fontRef},
	}
	if _, err := s.out.Write(pagesDict, pagesRef); err != nil {
		return fmt.Errorf("pdf: write page tree: %w", err)
	}

	info, err := s.out.Write(pdf.Dict{
		"Title": pdf.TextString("text layout render"),
	}, nil)
	if err != nil {
		return fmt.Errorf("pdf: write info: %w", err)
	}

	catalog, err := s.out.Write(pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": pagesRef,
	}, nil)
	if err != nil {
		return fmt.Errorf("pdf: write catalog: %w", err)
	}

	return s.out.Close(catalog, info)
}

var _ capability.FrameDriver = (*Surface)(nil)
