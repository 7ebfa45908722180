package word

import (
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// Microsoft private use symbols and their real Unicode counterparts.
var msSymbols = map[rune]rune{
	0xf075: 0x20df, // diamond
	0xf0a4: 0x203f, // undertie
	0xf0a7: 0x25a0, // black square
	0xf0b7: 0x2022, // bullet
	0xf0d3: 0x00a9, // copyright sign
}

// TranslateChar turns a raw character of the text stream into Unicode.
// Characters with a meaning in Word come back as the Char constants, note
// references as CharFootnote, CharEndnote or CharUnknownNote, and
// characters that produce no output as CharIgnore.
func (d *Document) TranslateChar(unit uint16, fileOffset int64) rune {
	r := translate(unit, d.mac)
	if r != CharNoteReference {
		return r
	}
	switch d.NoteType(fileOffset) {
	case NoteFootnote:
		return CharFootnote
	case NoteEndnote:
		return CharEndnote
	default:
		return CharUnknownNote
	}
}

func translate(unit uint16, mac bool) rune {
	r := rune(unit)
	switch {
	case mac && r >= 0x80 && r <= 0xff:
		r = charmap.Macintosh.DecodeByte(byte(r))
	case !mac && r >= 0x80 && r <= 0x9f:
		r = charmap.Windows1252.DecodeByte(byte(r))
		if r >= 0x80 && r <= 0x9f {
			// Undefined in code page 1252.
			r = '?'
		}
	}
	if sym, ok := msSymbols[r]; ok {
		r = sym
	}

	switch r {
	case CharIgnore, CharAnnotation, CharFrame, CharSoftHyphen, 0x2027:
		return CharIgnore
	case CharPicture, CharTableSeparator, CharTab, CharHardReturn,
		CharFormFeed, CharParEnd, CharColumnFeed, CharNoteReference:
		return r
	case CharUnbreakableJoin:
		return '-'
	}

	// Fullwidth Latin in an oriental text.
	if r >= 0xff01 && r <= 0xff5e {
		r -= 0xfee0
	}
	if r < 0x20 || r == 0x7f {
		return CharIgnore
	}
	return r
}

// ToUpper converts a letter to upper case independent of the locale.
// Sharp s, y with diaeresis and the division sign stay as they are.
func ToUpper(r rune) rune {
	switch {
	case r < 0x80:
		return unicode.ToUpper(r)
	case r >= 0xe0 && r <= 0xfe && r != 0xf7:
		return r &^ 0x20
	case r < 0x100:
		return r
	default:
		return unicode.ToUpper(r)
	}
}

// ASCIIFallback returns a US-ASCII stand in for a character the output
// encoding cannot represent. It returns CharIgnore for characters that are
// better left out and '?' when nothing resembles the character.
func ASCIIFallback(r rune) rune {
	switch r {
	case 0x0192:
		return 'f'
	case 0x02c6:
		return '^'
	case 0x02dc:
		return '~'
	case 0x201c, 0x201d, 0x201e, 0x201f, 0x2033:
		return '"'
	case 0x2018, 0x2019, 0x201a, 0x201b, 0x2032:
		return '\''
	case 0x2010, 0x2011, 0x2012, 0x2013, 0x2014, 0x2015, 0x2212:
		return '-'
	case 0x2016:
		return '|'
	case 0x2017:
		return '_'
	case 0x2020, 0x203f, 0x20df:
		return '-'
	case 0x2021:
		return '='
	case 0x2022:
		return '+'
	case 0x2024, 0x2026:
		return '.'
	case 0x2039:
		return '<'
	case 0x203a:
		return '>'
	case 0x20ac:
		return 'E'
	case 0x2044, 0x2215:
		return '/'
	case 0x25a0:
		return '+'
	case 0x2122:
		return CharIgnore
	}
	if r < 0x80 {
		return r
	}
	return '?'
}
