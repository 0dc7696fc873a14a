// SPDX-License-Identifier: Unlicense OR MIT

// Command shapedemo composes, lays out, line-breaks and draws a string
// against a real OpenType font, writing either a PNG (via
// framedriver/raster) or a one-page PDF (via framedriver/pdf), and
// optionally probes a device coordinate back to a character position. It
// is the end-to-end proof that every layer - text store, composer,
// bidi reorder, layouter, line breaker, glyph cache, renderer, query,
// frame driver - wires together, grounded on the small-flag-set main()
// shape of esimov-caire/cmd/caire/main.go and seehuhn-go-pdf's demos.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/math/fixed"

	"github.com/inkrune/shaping/capability"
	"github.com/inkrune/shaping/fontdriver/opentype"
	"github.com/inkrune/shaping/framedriver/pdf"
	"github.com/inkrune/shaping/framedriver/raster"
	"github.com/inkrune/shaping/glyph"
	"github.com/inkrune/shaping/internal/bidi"
	"github.com/inkrune/shaping/internal/glyphcache"
	"github.com/inkrune/shaping/internal/glyphlayout"
	"github.com/inkrune/shaping/internal/linebreak"
	"github.com/inkrune/shaping/internal/shaping"
	"github.com/inkrune/shaping/internal/textstore"
	"github.com/inkrune/shaping/query"
	"github.com/inkrune/shaping/render"
)

var (
	fontPath = flag.String("font", "", "TrueType/OpenType font file (required)")
	text     = flag.String("text", "Hello, world", "Text to lay out")
	size     = flag.Int("size", 18, "Font size in points")
	width    = flag.Int("width", 600, "Output page/image width")
	height   = flag.Int("height", 200, "Output page/image height")
	out      = flag.String("out", "shapedemo.png", "Output file path")
	format   = flag.String("format", "raster", "Output format: raster or pdf")
	rtl      = flag.Bool("rtl", false, "Base paragraph direction is right-to-left")
	maxWidth = flag.Int("maxwidth", 0, "Wrap to this many device units; 0 disables line breaking")
	probe    = flag.String("probe", "", "\"x,y\" device coordinate to resolve to a character position")
)

func main() {
	flag.Parse()
	if *fontPath == "" {
		log.Fatal("shapedemo: -font is required")
	}
	if err := run(); err != nil {
		log.Fatalf("shapedemo: %v", err)
	}
}

func run() error {
	src, err := os.ReadFile(*fontPath)
	if err != nil {
		return fmt.Errorf("read font: %w", err)
	}
	pointSize := fixed.I(*size)
	face, err := opentype.Parse(src, pointSize)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}

	store := textstore.New(*text)
	env := textstore.Environment{}
	resolver := &singleFaceResolver{face: face, size: pointSize}

	composer := &shaping.Composer{
		Store:   store,
		Env:     env,
		Faces:   resolver,
		Reorder: &bidi.UnicodeReorderer{},
		Size:    pointSize,
	}
	layouter := &glyphlayout.Layouter{Faces: resolver, FrameSpaceWidth: face.SpaceWidth()}
	control := &capability.DrawControl{EnableBidi: true, OrientationReversed: *rtl}
	if *maxWidth > 0 {
		control.TwoDimensional = true
		control.MaxLineWidth = fixed.I(*maxWidth)
	}

	cache := &glyphcache.Cache{Store: store, Build: &demoBuilder{compose: composer, layout: layouter, control: control}}
	gs, err := cache.Get(0, glyph.CharPos(store.Len()), *out, 0, control)
	if err != nil {
		return fmt.Errorf("build glyph string: %w", err)
	}

	if *probe != "" {
		x, y, err := parsePoint(*probe)
		if err != nil {
			return fmt.Errorf("parse -probe: %w", err)
		}
		pos := query.CoordinatesPosition(gs, control, x, y)
		log.Printf("shapedemo: probe %q -> char position %d", *probe, pos)
	}

	baseline := fixed.I(*height / 2)
	left := fixed.I(20)

	switch *format {
	case "raster":
		return drawRaster(gs, control, left, baseline)
	case "pdf":
		return drawPDF(gs, control, left, baseline)
	default:
		return fmt.Errorf("unknown -format %q (want raster or pdf)", *format)
	}
}

// demoBuilder adapts composer+layouter+line breaker into glyphcache's
// Builder capability, so cmd/shapedemo exercises the volatile glyph cache
// the same way a real embedder's redraw loop would.
type demoBuilder struct {
	compose *shaping.Composer
	layout  *glyphlayout.Layouter
	control *capability.DrawControl
}

func (b *demoBuilder) Build(from, to glyph.CharPos, control *capability.DrawControl) (*glyph.GlyphString, error) {
	gs, err := b.compose.Compose(from, to, control)
	if err != nil {
		return nil, err
	}
	if err := b.layout.Layout(gs, control); err != nil {
		return nil, err
	}
	breaker := &linebreak.Breaker{
		Store:    b.compose.Store,
		Compose:  b.compose,
		Layout:   b.layout,
		Fallback: linebreak.DefaultPolicy{},
	}
	if err := breaker.Break(gs, control); err != nil {
		return nil, err
	}
	return gs, nil
}

func parsePoint(s string) (x, y fixed.Int26_6, err error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("want \"x,y\", got %q", s)
	}
	xi, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, err
	}
	yi, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, err
	}
	return fixed.I(xi), fixed.I(yi), nil
}

// renderChain draws every physical line in gs's Next chain, advancing y by
// each line's box height, the same traversal linebreak.Breaker used to
// build the chain.
func renderChain(renderer *render.Renderer, frame, win interface{}, gs *glyph.GlyphString, x, y fixed.Int26_6, control *capability.DrawControl) error {
	for line := gs; line != nil; line = line.Next {
		if err := renderer.RenderLine(frame, win, line, 1, len(line.Glyphs)-1, x, y, control); err != nil {
			return fmt.Errorf("render line: %w", err)
		}
		y += line.Height
	}
	return nil
}

func drawRaster(gs *glyph.GlyphString, control *capability.DrawControl, x, y fixed.Int26_6) error {
	surface := raster.NewSurface(*width, *height)
	renderer := &render.Renderer{Frames: surface}
	if err := renderChain(renderer, surface, surface, gs, x, y, control); err != nil {
		return err
	}
	if err := surface.SavePNG(*out); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}

func drawPDF(gs *glyph.GlyphString, control *capability.DrawControl, x, y fixed.Int26_6) error {
	surface, err := pdf.NewSurface(*out, *width, *height)
	if err != nil {
		return fmt.Errorf("new pdf surface: %w", err)
	}
	renderer := &render.Renderer{Frames: surface}
	if err := renderChain(renderer, surface, surface, gs, x, y, control); err != nil {
		return err
	}
	return surface.Close()
}
