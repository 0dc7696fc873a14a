// SPDX-License-Identifier: Unlicense OR MIT

package capability

import "errors"

// Error kinds that operations can fail with. Callers wrap these with
// additional context via fmt.Errorf("...: %w", err) at the call site,
// mirroring the wrapping style font/opentype/opentype.go uses.
var (
	// ErrRange signals indices outside the text, or from > to where the
	// operation does not normalize that itself.
	ErrRange = errors.New("shaping: range error")
	// ErrDraw signals failure to realize a font or allocate a GlyphString.
	ErrDraw = errors.New("shaping: draw error")
	// ErrResource signals an allocation failure for scratch buffers.
	ErrResource = errors.New("shaping: resource error")
)

// OOMHandler is invoked when scratch-buffer allocation fails;
// the default aborts the process, matching m17n's documented behavior.
// Embedders may replace it to recover instead.
var OOMHandler = func(err error) {
	panic(err)
}
