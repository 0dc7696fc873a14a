// SPDX-License-Identifier: Unlicense OR MIT

// Package combining implements the packed combining-code codec: six fields
// (base alignment point, mark alignment point, and a signed byte offset
// pair) packed into a uint32, plus the table that derives a canonical code
// from a Unicode combining class.
package combining

// YAlign and XAlign name the alignment points a combining code can pick on
// a base or mark glyph's bounding box.
type YAlign uint8

const (
	Top YAlign = iota
	Center
	Bottom
	Baseline
)

type XAlign uint8

const (
	Left XAlign = iota
	XCenter
	Right
)

// field widths: four 2-bit enums, two 8-bit biased offsets,
// plus one sentinel bit distinguishing "by-class" from "explicit" codes.
const (
	enumBits   = 2
	offsetBits = 8
	offsetBias = 128

	baseYShift = 0
	baseXShift = baseYShift + enumBits
	addYShift  = baseXShift + enumBits
	addXShift  = addYShift + enumBits
	offYShift  = addXShift + enumBits
	offXShift  = offYShift + offsetBits

	enumMask   = uint32(1<<enumBits) - 1
	offsetMask = uint32(1<<offsetBits) - 1

	// ByClassBit marks a code as "resolve from the combining-class table"
	// rather than an explicit, already-resolved placement.
	ByClassBit = uint32(1) << 31
)

// Code is a packed combining-placement code. The zero Code means "this is
// a base glyph, not a mark."
type Code uint32

// Pack encodes the six placement fields into a Code. offYBiased/offXBiased
// are the already-biased 8-bit offsets (128 means "0"); use Offset to bias
// a signed value before calling Pack.
func Pack(baseY YAlign, baseX XAlign, addY YAlign, addX XAlign, offYBiased, offXBiased uint8) Code {
	return Code(
		(uint32(baseY)&enumMask)<<baseYShift |
			(uint32(baseX)&enumMask)<<baseXShift |
			(uint32(addY)&enumMask)<<addYShift |
			(uint32(addX)&enumMask)<<addXShift |
			uint32(offYBiased)<<offYShift |
			uint32(offXBiased)<<offXShift,
	)
}

// Offset biases a signed device-unit delta (-128..127) into the stored
// 8-bit form used by Pack/Unpack.
func Offset(v int8) uint8 {
	return uint8(int16(v) + offsetBias)
}

// Fields holds the unpacked form of a Code.
type Fields struct {
	BaseY, AddY   YAlign
	BaseX, AddX   XAlign
	OffY, OffX    int8 // unbiased, i.e. the actual device-unit delta
	ByClass       bool
}

// Unpack decodes a Code into its six fields.
func Unpack(c Code) Fields {
	u := uint32(c)
	return Fields{
		BaseY:   YAlign((u >> baseYShift) & enumMask),
		BaseX:   XAlign((u >> baseXShift) & enumMask),
		AddY:    YAlign((u >> addYShift) & enumMask),
		AddX:    XAlign((u >> addXShift) & enumMask),
		OffY:    int8(int16((u>>offYShift)&offsetMask) - offsetBias),
		OffX:    int8(int16((u>>offXShift)&offsetMask) - offsetBias),
		ByClass: u&ByClassBit != 0,
	}
}

// classEntry is one row of the canonical combining-class-to-placement
// table.
type classEntry struct {
	class   uint16
	baseY   YAlign
	baseX   XAlign
	addY    YAlign
	addX    XAlign
}

// table implements the canonical combining-class-to-placement mapping.
// Classes not listed fall through to the "generic above-center" default
// in FromClass.
var table = []classEntry{
	// below (left/center/right) attached
	{200, Bottom, Left, Top, Left},
	{202, Bottom, XCenter, Top, XCenter},
	{204, Bottom, Right, Top, Right},
	// side (left/right) attached
	{208, Center, Left, Center, Right},
	{210, Center, Right, Center, Left},
	// above (left/center/right) attached
	{212, Top, Left, Bottom, Left},
	{214, Top, XCenter, Bottom, XCenter},
	{216, Top, Right, Bottom, Right},
	// below with small gap
	{218, Bottom, Left, Top, Left},
	{220, Bottom, XCenter, Top, XCenter},
	{222, Bottom, Right, Top, Right},
	// side with small gap
	{224, Center, Left, Center, Right},
	{226, Center, Right, Center, Left},
	// above with small gap
	{228, Top, Left, Bottom, Left},
	{230, Top, XCenter, Bottom, XCenter},
	{232, Top, Right, Bottom, Right},
	// doubled below/above
	{233, Bottom, XCenter, Top, XCenter},
	{234, Top, XCenter, Bottom, XCenter},
	// iota subscript
	{240, Bottom, XCenter, Top, XCenter},
}

// gapOffset is the small-gap bias (device-independent units, scaled by the
// caller's font size the same way explicit offsets are) applied to classes
// 218-232 and the side/above-with-gap rows.
const gapOffset = 1

func hasGap(class uint16) bool {
	switch {
	case class >= 218 && class <= 222:
		return true
	case class == 224 || class == 226:
		return true
	case class >= 228 && class <= 232:
		return true
	}
	return false
}

// FromClass maps a Unicode combining class (0-255) to a canonical
// placement Code using the table above. A class of 0 (not combining)
// returns the zero Code (base). Any nonzero class absent from the table
// gets the generic "above-center" fallback.
func FromClass(class uint16) Code {
	if class == 0 {
		return 0
	}
	for _, e := range table {
		if e.class == class {
			var offY uint8 = Offset(0)
			if hasGap(class) {
				offY = Offset(-gapOffset)
			}
			return Pack(e.baseY, e.baseX, e.addY, e.addX, offY, Offset(0)) | Code(ByClassBit)
		}
	}
	// generic above-center
	return Pack(Top, XCenter, Bottom, XCenter, Offset(0), Offset(0)) | Code(ByClassBit)
}
