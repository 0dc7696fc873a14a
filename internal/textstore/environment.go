// SPDX-License-Identifier: Unlicense OR MIT

package textstore

import (
	"unicode"

	gotextlang "github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"
)

// Environment is the reference capability.Environment: character-property
// lookups backed by stdlib unicode range tables (category), go-text's
// script tables (github.com/go-text/typesetting/language), and
// golang.org/x/text's bidi/norm packages for bidi category and canonical
// combining class.
type Environment struct{}

// categoryTables lists the general categories in the order stdlib's
// unicode.Categories table enumerates long names; we report the 2-letter
// short form callers expect.
var categoryTables = []struct {
	name  string
	table *unicode.RangeTable
}{
	{"Lu", unicode.Lu}, {"Ll", unicode.Ll}, {"Lt", unicode.Lt}, {"Lm", unicode.Lm}, {"Lo", unicode.Lo},
	{"Mn", unicode.Mn}, {"Mc", unicode.Mc}, {"Me", unicode.Me},
	{"Nd", unicode.Nd}, {"Nl", unicode.Nl}, {"No", unicode.No},
	{"Pc", unicode.Pc}, {"Pd", unicode.Pd}, {"Ps", unicode.Ps}, {"Pe", unicode.Pe},
	{"Pi", unicode.Pi}, {"Pf", unicode.Pf}, {"Po", unicode.Po},
	{"Sm", unicode.Sm}, {"Sc", unicode.Sc}, {"Sk", unicode.Sk}, {"So", unicode.So},
	{"Zs", unicode.Zs}, {"Zl", unicode.Zl}, {"Zp", unicode.Zp},
	{"Cc", unicode.Cc}, {"Cf", unicode.Cf}, {"Co", unicode.Co}, {"Cs", unicode.Cs},
}

func (Environment) Category(r rune) string {
	for _, c := range categoryTables {
		if unicode.Is(c.table, r) {
			return c.name
		}
	}
	return ""
}

func (Environment) Script(r rune) string {
	s := gotextlang.LookupScript(r)
	if s == gotextlang.Common || s == gotextlang.Inherited || s == gotextlang.Unknown {
		return ""
	}
	return s.String()
}

// CombiningClass reports the Unicode canonical combining class, via
// x/text/unicode/norm's NFC property table.
func (Environment) CombiningClass(r rune) uint16 {
	p := norm.NFC.PropertiesString(string(r))
	return uint16(p.CCC())
}

// bidiClassNames maps x/text/unicode/bidi's internal Class values to the
// two/three-letter symbols calls "bidi-category".
var bidiClassNames = map[bidi.Class]string{
	bidi.L:   "L",
	bidi.R:   "R",
	bidi.AL:  "AL",
	bidi.EN:  "EN",
	bidi.ES:  "ES",
	bidi.ET:  "ET",
	bidi.AN:  "AN",
	bidi.CS:  "CS",
	bidi.NSM: "NSM",
	bidi.BN:  "BN",
	bidi.B:   "B",
	bidi.S:   "S",
	bidi.WS:  "WS",
	bidi.ON:  "ON",
	bidi.LRE: "LRE",
	bidi.LRO: "LRO",
	bidi.RLE: "RLE",
	bidi.RLO: "RLO",
	bidi.PDF: "PDF",
	bidi.LRI: "LRI",
	bidi.RLI: "RLI",
	bidi.FSI: "FSI",
	bidi.PDI: "PDI",
}

func (Environment) BidiCategory(r rune) string {
	p, sz := bidi.Lookup([]byte(string(r)))
	if sz == 0 {
		return "L"
	}
	if name, ok := bidiClassNames[p.Class()]; ok {
		return name
	}
	return "L"
}

func (Environment) Mirror(r rune) (rune, bool) {
	p, sz := bidi.Lookup([]byte(string(r)))
	if sz == 0 || !p.IsMirrored() {
		return r, false
	}
	// bidi.Properties does not expose the mirrored codepoint directly;
	// fall back to the well-known bracket/arrow pairs, which cover the
	// overwhelming majority of real-world mirrored text.
	if m, ok := staticMirror[r]; ok {
		return m, true
	}
	return r, false
}

var staticMirror = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
	'«': '»', '»': '«',
}
