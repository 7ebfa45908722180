// Package render turns the character stream of a Word document into plain
// text.
package render

import (
	"bufio"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"golang.org/x/text/encoding/charmap"

	"github.com/user/wordgo/pkg/images"
	"github.com/user/wordgo/pkg/word"
)

// Source is the part of a document the renderer reads.
type Source interface {
	NextTranslatedChar(list word.TextList) (word.Char, bool)
	DefaultTabWidth() int64
	DataReader() *word.DataReader
}

// Screen widths in characters.
const (
	MinWidth = 45
	MaxWidth = 145
)

const (
	// charWidth is the width of one character of text in millipoints.
	charWidth = 6400
	// unlimited is the line width when lines are not wrapped.
	unlimited int64 = 1 << 50
	// noteSeparatorWidth is two inches.
	noteSeparatorWidth = 144000
	headingLevels      = 9
)

// Options configure Render.
type Options struct {
	// Width is the line width in characters. Zero keeps paragraphs on one
	// line, other values are clamped to MinWidth..MaxWidth.
	Width int
	// ShowHidden renders hidden text.
	ShowHidden bool
	// OutlineFonts expands tabs even when lines are not wrapped.
	OutlineFonts bool
	Encoding     Encoding
	// ImageDir receives the pictures of the document. Without it pictures
	// are shown as [pic].
	ImageDir string
	Logger   *slog.Logger
}

type renderer struct {
	src  Source
	opts Options
	w    *bufio.Writer
	cm   *charmap.Charmap
	log  *slog.Logger
	out  []byte

	widthMax int64
	tabWidth int64

	line        []rune
	xleft       int64 // indentation of the current line in millipoints
	leftIndent  int   // twips
	rightIndent int64 // millipoints, zero or negative
	alignment   word.Alignment
	unmarked    bool
	listType    int
	listChar    rune
	listNumber  int
	allCaps     bool
	hidden      bool

	inRow  bool
	wasRow bool
	endRow bool
	row    word.RowRecord

	headings  [headingLevels]int
	footnotes int
	endnotes  int
}

// Render writes the text, footnotes and endnotes of src to w.
func Render(w io.Writer, src Source, opts Options) error {
	r := &renderer{
		src:       src,
		opts:      opts,
		w:         bufio.NewWriter(w),
		cm:        opts.Encoding.charmap(),
		log:       opts.Logger,
		widthMax:  lineWidth(opts.Width),
		tabWidth:  src.DefaultTabWidth(),
		unmarked:  true,
		listType:  word.NumBullets,
		listChar:  '+',
		alignment: word.AlignLeft,
	}
	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.tabWidth <= 0 {
		r.tabWidth = word.DefaultTabWidth
	}

	for _, list := range []word.TextList{word.ListText, word.ListFootnote, word.ListEndnote} {
		for {
			c, ok := src.NextTranslatedChar(list)
			if !ok {
				break
			}
			r.char(list, c)
		}
		r.flushOrReset()
		switch {
		case list == word.ListText && r.footnotes > 0:
			r.noteSeparator()
			r.footnotes = 0
		case list == word.ListFootnote && r.endnotes > 0:
			r.noteSeparator()
			r.endnotes = 0
		}
	}
	return r.w.Flush()
}

func lineWidth(chars int) int64 {
	switch {
	case chars <= 0:
		return unlimited
	case chars < MinWidth:
		return MinWidth * charWidth
	case chars > MaxWidth:
		return MaxWidth * charWidth
	default:
		return int64(chars) * charWidth
	}
}

func (r *renderer) char(list word.TextList, c word.Char) {
	ch := c.Rune
	if ch == word.CharUnknownNote {
		switch list {
		case word.ListFootnote:
			ch = word.CharFootnote
		case word.ListEndnote:
			ch = word.CharEndnote
		}
	}

	var (
		startRow bool
		font     *word.FontRecord
		style    *word.StyleRecord
	)
	for i := range c.Events {
		ev := &c.Events[i]
		switch ev.Kind {
		case word.EventRowStart:
			startRow = true
			r.row = ev.Row
		case word.EventRowEnd:
			if r.inRow || startRow {
				r.endRow = true
				r.row = ev.Row
			}
		case word.EventFont:
			font = &ev.Font
		case word.EventStyle:
			style = &ev.Style
		}
	}

	if startRow {
		r.flushOrReset()
		r.inRow = true
	}

	if r.wasRow && !r.inRow && !isLineBreak(ch) {
		// A table ends like a paragraph.
		if containsText(r.line) {
			r.outputLine()
		}
		r.endOfParagraph()
	}

	if (ch == word.CharFormFeed || ch == word.CharColumnFeed) && !r.inRow {
		r.flushOrReset()
		r.endOfParagraph()
	}

	if font != nil {
		r.allCaps = font.Style.Has(word.FontCapitals)
		r.hidden = font.Style.Has(word.FontHidden)
	}
	if style != nil {
		r.startStyle(style)
	}

	if !r.inRow && len(r.line) == 0 {
		r.putIndentation()
		r.unmarked = true
	}

	switch ch {
	case word.CharPicture:
		r.store([]rune(r.picture(c))...)
	case word.CharFootnote:
		r.footnotes++
		r.store([]rune("[" + strconv.Itoa(r.footnotes) + "]")...)
	case word.CharEndnote:
		r.endnotes++
		r.store([]rune("[" + Roman(r.endnotes, false) + "]")...)
	case word.CharUnknownNote:
		r.store('[', '?', ']')
	case word.CharParEnd:
		if r.inRow {
			r.store('\n')
			break
		}
		r.flushOrReset()
		r.endOfParagraph()
		r.leftIndent = 0
		r.rightIndent = 0
		r.unmarked = true
		r.alignment = word.AlignLeft
	case word.CharHardReturn:
		if r.inRow {
			r.store('\n')
			break
		}
		if containsText(r.line) {
			r.outputLine()
		}
		r.emptyLine()
	case word.CharFormFeed, word.CharColumnFeed:
		if r.inRow {
			r.store('\n')
		}
	case word.CharTableSeparator:
		if r.inRow {
			r.store(word.CharTableSeparator)
			break
		}
		r.store(' ', '|')
	case word.CharTab:
		r.tab()
	default:
		if r.hidden && !r.opts.ShowHidden {
			return
		}
		if r.allCaps {
			ch = word.ToUpper(ch)
		}
		r.store(ch)
	}

	r.wasRow = r.inRow
	if r.inRow {
		if !r.endRow {
			return
		}
		r.tableRow()
		r.line = r.line[:0]
		r.xleft = 0
		r.inRow = false
		r.endRow = false
		return
	}
	if r.width() < r.widthMax+r.rightIndent {
		return
	}
	r.wrap()
}

func isLineBreak(ch rune) bool {
	switch ch {
	case word.CharParEnd, word.CharHardReturn, word.CharFormFeed, word.CharColumnFeed:
		return true
	}
	return false
}

func (r *renderer) startStyle(s *word.StyleRecord) {
	if !r.inRow {
		r.store([]rune(r.headingNumber(s.Style))...)
	}
	r.leftIndent = s.LeftIndent
	r.rightIndent = word.TwipsToMilliPoints(int64(s.RightIndent))
	r.unmarked = !s.InList || s.Unmarked
	r.listType = s.ListType
	r.listChar = rune(s.ListChar)
	r.alignment = s.Alignment
	if s.InList {
		if !s.Unmarked {
			r.listNumber++
		}
	} else {
		r.listNumber = 0
	}
}

// headingNumber numbers the heading styles 1 to 9 like "2.1.3 ". Other
// styles get no number.
func (r *renderer) headingNumber(style int) string {
	if style < 1 || style > headingLevels {
		return ""
	}
	level := style - 1
	var b []byte
	for i := range r.headings {
		switch {
		case i == level:
			r.headings[i]++
		case i > level:
			r.headings[i] = 0
		case r.headings[i] < 1:
			r.headings[i] = 1
		}
		if i <= level {
			b = strconv.AppendInt(b, int64(r.headings[i]), 10)
			if i < level {
				b = append(b, '.')
			}
		}
	}
	return string(append(b, ' '))
}

// putIndentation indents a new line and puts the list mark in front of the
// first line of a list paragraph.
func (r *renderer) putIndentation() {
	if r.leftIndent <= 0 {
		return
	}
	indent := word.TwipsToMilliPoints(int64(r.leftIndent))
	if r.unmarked {
		r.xleft = indent
		return
	}
	var mark string
	switch r.listType {
	case word.NumBullets:
	case word.NumRomanUpper, word.NumRomanLower:
		mark = Roman(r.listNumber, r.listType == word.NumRomanUpper)
	case word.NumUpperAlpha, word.NumLowerAlpha:
		mark = Alpha(r.listNumber, r.listType == word.NumUpperAlpha)
	default:
		mark = strconv.Itoa(r.listNumber)
	}
	runes := append([]rune(mark), r.listChar, ' ')
	indent -= int64(len(runes)) * charWidth
	if indent > 0 {
		r.xleft = indent
	}
	r.store(runes...)
}

func (r *renderer) tab() {
	if r.inRow {
		r.store(' ')
		return
	}
	if r.opts.Width == 0 && !r.opts.OutlineFonts {
		r.store('\t')
		return
	}
	stop := (r.width() + r.xleft) / r.tabWidth
	for {
		r.store(' ')
		cur := r.width() + r.xleft
		if stop != cur/r.tabWidth || cur >= r.widthMax+r.rightIndent {
			return
		}
	}
}

func (r *renderer) picture(c word.Char) string {
	if r.opts.ImageDir == "" || c.PictureOffset < 0 {
		return "[pic]"
	}
	info, data, err := images.Load(r.src.DataReader(), c.PictureOffset)
	if err != nil {
		r.log.Warn("failed to read a picture", "offset", c.PictureOffset, "error", err)
		return "[pic]"
	}
	content, ext, err := images.Convert(info, data)
	if err != nil {
		r.log.Warn("failed to convert a picture", "offset", c.PictureOffset, "type", info.Type, "error", err)
		return "[pic]"
	}
	path, err := images.Save(r.opts.ImageDir, content, ext)
	if err != nil {
		r.log.Warn("failed to save a picture", "offset", c.PictureOffset, "error", err)
		return "[pic]"
	}
	r.log.Debug("extracted a picture", "offset", c.PictureOffset, "type", info.Type, "path", path)
	return "[pic:" + filepath.Base(path) + "]"
}

func (r *renderer) store(runes ...rune) {
	r.line = append(r.line, runes...)
}

// width returns the width of the stored text in millipoints.
func (r *renderer) width() int64 {
	return int64(len(r.line)) * charWidth
}

func (r *renderer) noteSeparator() {
	n := (noteSeparatorWidth + charWidth/2) / charWidth
	for i := 0; i < n; i++ {
		r.store('-')
	}
	r.outputLine()
}

// flushOrReset outputs the current line when it holds text and drops it
// otherwise.
func (r *renderer) flushOrReset() {
	if containsText(r.line) {
		r.outputLine()
		return
	}
	r.line = r.line[:0]
}

// outputLine aligns and writes the current line.
func (r *renderer) outputLine() {
	r.align(r.line)
	r.line = r.line[:0]
}

func (r *renderer) endOfParagraph() {
	r.w.WriteByte('\n')
	r.xleft = 0
}

func (r *renderer) emptyLine() {
	r.w.WriteByte('\n')
	r.xleft = 0
}

// writeLine writes text after the current indentation.
func (r *renderer) writeLine(text []rune) {
	r.out = r.out[:0]
	for i := int64(0); i < r.xleft/charWidth; i++ {
		r.out = append(r.out, ' ')
	}
	r.out = appendEncoded(r.out, r.cm, text)
	r.out = append(r.out, '\n')
	r.w.Write(r.out)
	r.xleft = 0
}

// trimRight drops trailing white space.
func trimRight(text []rune) []rune {
	for len(text) > 0 && isSpace(text[len(text)-1]) {
		text = text[:len(text)-1]
	}
	return text
}

func (r *renderer) align(text []rune) {
	text = trimRight(text)
	net := int64(len(text)) * charWidth
	if r.widthMax > MaxWidth*charWidth || net <= 0 {
		r.writeLine(text)
		return
	}
	var left int64
	switch r.alignment {
	case word.AlignCenter:
		left = (r.widthMax - net) / 2
	case word.AlignRight:
		left = r.widthMax - net
	}
	if left > 0 {
		r.xleft = left
	}
	r.writeLine(text)
}

func (r *renderer) justify(text []rune) {
	if r.alignment != word.AlignJustify {
		r.align(text)
		return
	}
	text = trimRight(text)
	net := int64(len(text)) * charWidth
	if r.widthMax > MaxWidth*charWidth || net <= 0 {
		r.writeLine(text)
		return
	}
	toAdd := (r.widthMax - net - r.xleft + r.rightIndent) / charWidth
	if toAdd <= 0 {
		r.writeLine(text)
		return
	}
	holes := countHoles(text)
	out := make([]rune, 0, len(text)+int(toAdd))
	for i, c := range text {
		out = append(out, c)
		if c == ' ' && i+1 < len(text) && text[i+1] != ' ' && holes > 0 {
			filler := toAdd / int64(holes)
			toAdd -= filler
			holes--
			for ; filler > 0; filler-- {
				out = append(out, ' ')
			}
		}
	}
	r.writeLine(out)
}

// countHoles counts the runs of white space followed by other text.
func countHoles(text []rune) int {
	n := 0
	wasSpace := false
	for _, c := range text {
		space := isSpace(c)
		if wasSpace && !space {
			n++
		}
		wasSpace = space
	}
	return n
}

// wrap outputs the part of an overlong line up to its last break point and
// keeps the rest.
func (r *renderer) wrap() {
	split := findSplit(r.line)
	if split < 0 {
		r.justify(r.line)
		r.line = r.line[:0]
		return
	}
	leftOver := append([]rune(nil), r.line[split+1:]...)
	r.justify(r.line[:split+1])
	r.line = append(r.line[:0], leftOver...)
	if len(r.line) > 0 {
		r.xleft = word.TwipsToMilliPoints(int64(r.leftIndent))
	}
}

// findSplit returns the index of the last space, or of the last hyphen not
// preceded by a space, or -1.
func findSplit(text []rune) int {
	for i := len(text) - 1; i >= 1; i-- {
		if text[i] == ' ' || (text[i] == '-' && text[i-1] != ' ') {
			return i
		}
	}
	return -1
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func containsText(text []rune) bool {
	for _, c := range text {
		if !isSpace(c) {
			return true
		}
	}
	return false
}
