package word

// Characters with a special meaning inside a Word text stream.
const (
	CharIgnore          = 0x00
	CharPicture         = 0x01
	CharNoteReference   = 0x02
	CharAnnotation      = 0x05
	CharTableSeparator  = 0x07
	CharFrame           = 0x08
	CharTab             = 0x09
	CharHardReturn      = 0x0b
	CharFormFeed        = 0x0c
	CharParEnd          = 0x0d
	CharColumnFeed      = 0x0e
	CharStartEmbedded   = 0x13
	CharEndIgnore       = 0x14
	CharEndEmbedded     = 0x15
	CharUnbreakableJoin = 0x1e
	CharSoftHyphen      = 0x1f
)

// Pseudo characters produced by TranslateChar for note references. They lie
// above the 16 bit range of Word characters so they can never collide with
// document text.
const (
	CharFootnote    rune = 0x10000
	CharEndnote     rune = 0x10001
	CharUnknownNote rune = 0x10002
)

// Font sizes are in half points.
const (
	MinFontSize     = 8
	DefaultFontSize = 20
	MaxFontSize     = 240
)

// FontStyle is a bit set of character attributes.
type FontStyle uint16

const (
	FontRegular       FontStyle = 0x00
	FontBold          FontStyle = 0x01
	FontItalic        FontStyle = 0x02
	FontUnderline     FontStyle = 0x04
	FontCapitals      FontStyle = 0x08
	FontSmallCapitals FontStyle = 0x10
	FontStrike        FontStyle = 0x20
	FontHidden        FontStyle = 0x40
)

func (s FontStyle) Has(flag FontStyle) bool { return s&flag == flag }

const (
	ColorDefault = 0
	ColorBlack   = 1
	ColorRed     = 6
)

// TableColumnMax is the largest number of columns a table row may have.
const TableColumnMax = 31

// Numbering types of list paragraphs.
const (
	NumArabic     = 0x00
	NumRomanUpper = 0x01
	NumRomanLower = 0x02
	NumUpperAlpha = 0x03
	NumLowerAlpha = 0x04
	NumBullets    = 0xff
)

// Alignment of a paragraph.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "unknown"
	}
}

// DefaultTabWidth is the tab width, in millipoints, when the document does
// not specify one.
const DefaultTabWidth = 36000

// TwipsToMilliPoints converts twips (1/20 point) to millipoints.
func TwipsToMilliPoints(twips int64) int64 { return twips * 50 }
