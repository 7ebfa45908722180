package word

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/user/wordgo/pkg/cfb"
)

// State tracks how far opening a document got.
type State int

const (
	StateUnopened State = iota
	StateHeaderValidated
	StateVersionDetected
	StateTextMapped
	StateDataMapped
	StateFormattingLoaded
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateHeaderValidated:
		return "header validated"
	case StateVersionDetected:
		return "version detected"
	case StateTextMapped:
		return "text mapped"
	case StateDataMapped:
		return "data mapped"
	case StateFormattingLoaded:
		return "formatting loaded"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FIB table pointers of the piece tables.
const (
	word6PieceTable = 0x160
	word8PieceTable = 0x1a2
)

// Document is one opened Word 6/7/8 document. Everything read from the
// file is owned by the Document and released by Close.
type Document struct {
	src       cfb.ByteSource
	closer    io.Closer
	container *cfb.Container
	fib       *FIB
	version   int
	mac       bool
	state     State
	opts      options
	log       *slog.Logger

	pieces    []Piece
	lists     TextLists
	readers   [listCount]*ListReader
	data      DataBlockList
	fonts     FontList
	styles    StyleList
	rows      RowList
	pictures  PictureList
	notes     noteRefs
	tabWidth  int64
	fontNames []FontName

	cursor  eventCursor
	pending []Event
}

// Open opens the document at path. The file stays open until Close.
func Open(path string, opts ...Option) (*Document, error) {
	src, err := cfb.OpenFile(path)
	if err != nil {
		return nil, err
	}
	d, err := OpenSource(src, opts...)
	if err != nil {
		src.Close()
		return nil, err
	}
	d.closer = src
	return d, nil
}

// OpenSource opens a document read from src. The caller keeps ownership
// of src.
func OpenSource(src cfb.ByteSource, opts ...Option) (*Document, error) {
	d := &Document{src: src, opts: defaultOptions(), tabWidth: DefaultTabWidth}
	for _, opt := range opts {
		opt(&d.opts)
	}
	d.log = d.opts.logger
	if err := d.open(); err != nil {
		d.state = StateError
		return nil, err
	}
	return d, nil
}

func (d *Document) open() error {
	c, err := cfb.Open(d.src)
	if err != nil {
		return fmt.Errorf("failed to open the compound file: %w", err)
	}
	d.container = c

	wd := c.Streams.WordDocument
	if wd.Size < cfb.MinSizeForBBD {
		return fmt.Errorf("%w: %d bytes", ErrTextTooSmall, wd.Size)
	}
	raw, err := c.ReadStream(wd, 0, FIBSize)
	if err != nil {
		return fmt.Errorf("failed to read the FIB: %w", err)
	}
	if d.fib, err = ParseFIB(raw); err != nil {
		return err
	}
	if !d.fib.KnownIdent() {
		return fmt.Errorf("%w: unknown magic number 0x%04x", ErrNotWordDocument, d.fib.Ident)
	}
	d.state = StateHeaderValidated

	if d.version, d.mac, err = d.fib.DetectVersion(); err != nil {
		return err
	}
	d.fib.loadLengths(d.version)
	d.state = StateVersionDetected
	d.log.Debug("word version detected", "version", d.version, "mac", d.mac,
		"fast_saved", d.fib.FastSaved(), "far_east", d.fib.FarEast())

	if d.fib.Encrypted() {
		return ErrEncrypted
	}
	if err := d.mapText(); err != nil {
		return err
	}
	d.state = StateTextMapped

	d.mapData()
	d.state = StateDataMapped

	d.loadFormatting()
	d.state = StateFormattingLoaded

	d.state = StateReady
	return nil
}

// readPieces reads and decodes the piece table found at fibOffset.
func (d *Document) readPieces(stream cfb.StreamDescriptor, fibOffset int) ([]Piece, error) {
	begin, length := d.fib.fcLcb(fibOffset)
	buf, err := d.readSpan(stream, begin, length)
	if err != nil {
		return nil, fmt.Errorf("failed to read the piece table: %w", err)
	}
	return DecodePieceRecords(buf, d.version)
}

func (d *Document) mapText() error {
	c := d.container
	wd := c.Streams.WordDocument
	fastSaved := d.fib.FastSaved()
	var blocks TextBlockList

	switch d.version {
	case 6, 7:
		unicode := d.fib.FarEast()
		if !fastSaved {
			if err := blocks.AddTextBlocks(c, wd, d.fib.BeginOfText, d.fib.TotalLength(), unicode); err != nil {
				return fmt.Errorf("%w: %w", ErrCannotFindText, err)
			}
			break
		}
		pieces, err := d.readPieces(wd, word6PieceTable)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCannotFindText, err)
		}
		for i := range pieces {
			pieces[i].Unicode = unicode
			if err := blocks.AddTextBlocks(c, wd, pieces[i].Offset, pieces[i].Chars, unicode); err != nil {
				return fmt.Errorf("%w: %w", ErrCannotFindText, err)
			}
		}
		d.pieces = pieces

	case 8:
		table := d.tableStream()
		if table.Absent() {
			return fmt.Errorf("%w: %w", ErrCannotFindText, errNoTableStream)
		}
		begin, length := d.fib.fcLcb(word8PieceTable)
		buf, err := d.readSpan(table, begin, length)
		if err != nil {
			// No piece table: a normally saved file is one ANSI range.
			if fastSaved {
				return fmt.Errorf("%w: %w", ErrCannotFindText, err)
			}
			d.log.Debug("no piece table, assuming one text block", "error", err)
			if err := blocks.AddTextBlocks(c, wd, d.fib.BeginOfText, d.fib.TotalLength(), false); err != nil {
				return fmt.Errorf("%w: %w", ErrCannotFindText, err)
			}
			break
		}
		pieces, err := DecodePieceRecords(buf, d.version)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCannotFindText, err)
		}
		for _, p := range pieces {
			if err := blocks.AddTextBlocks(c, wd, p.Offset, p.Chars, p.Unicode); err != nil {
				return fmt.Errorf("%w: %w", ErrCannotFindText, err)
			}
		}
		d.pieces = pieces
	}

	l := d.fib.Lengths
	d.lists = blocks.Split(
		l[StoryText],
		l[StoryFootnote],
		l[StoryHeader]+l[StoryMacro]+l[StoryAnnotation],
		l[StoryEndnote],
		l[StoryTextbox]+l[StoryHeaderTextbox],
		!fastSaved && d.version == 8,
	)
	return nil
}

// mapData maps the picture data. It is only needed when pictures are
// wanted; a failure leaves the document without pictures.
func (d *Document) mapData() {
	if !d.fib.HasImages() || !d.opts.outlineFonts || d.opts.imageLevel == ImagesNone {
		return
	}
	c := d.container
	wd := c.Streams.WordDocument
	var err error
	switch {
	case d.version == 8:
		err = d.data.AddDataBlocks(c, c.Streams.Data, 0, ReadToEndOfChain)
	case d.fib.FastSaved():
		for _, p := range d.pieces {
			if err = d.data.AddDataBlocks(c, wd, p.Offset, p.Chars); err != nil {
				break
			}
		}
	default:
		err = d.data.AddDataBlocks(c, wd, d.fib.BeginOfText, ReadToEndOfChain)
	}
	if err != nil {
		d.data = DataBlockList{}
		d.log.Warn("I can't find the data of this document", "error", err)
	}
}

func (d *Document) loadFormatting() {
	d.loadDefaultTabWidth()
	if err := d.loadParagraphInfo(); err != nil {
		d.log.Warn("paragraph formatting ignored", "error", err)
	}
	if d.opts.outlineFonts {
		if err := d.loadCharacterInfo(); err != nil {
			d.log.Warn("character formatting ignored", "error", err)
		}
		d.loadFontNames()
	}
	d.loadNotes()
}

// Close releases everything read from the document and closes the file
// when the document was opened by path.
func (d *Document) Close() error {
	var err error
	if d.closer != nil {
		err = d.closer.Close()
		d.closer = nil
	}
	*d = Document{src: nil, state: StateUnopened}
	return err
}

// NextChar returns the next raw character of list: an ANSI byte or a
// UTF-16 code unit, with its file offset. Each list is read once, forward.
func (d *Document) NextChar(list TextList) (rune, int64, bool) {
	if list < 0 || list >= listCount || d.state != StateReady {
		return 0, -1, false
	}
	r := d.readers[list]
	if r == nil {
		r = NewListReader(d.src, &d.lists[list])
		d.readers[list] = r
	}
	unit, off, ok := r.NextChar()
	return rune(unit), off, ok
}

// Char is a translated character together with the formatting changes
// that start at or before it.
type Char struct {
	Rune       rune
	FileOffset int64
	// PictureOffset is the file offset of the picture data when Rune is
	// CharPicture and the picture is known, -1 otherwise.
	PictureOffset int64
	Events        []Event
}

// NextTranslatedChar returns the next character of list that produces
// output. Field codes are skipped; formatting changes found on skipped
// characters are delivered with the next returned character.
func (d *Document) NextTranslatedChar(list TextList) (Char, bool) {
	skip := false
	for {
		unit, off, ok := d.NextChar(list)
		if !ok {
			return Char{FileOffset: -1, PictureOffset: -1}, false
		}
		d.pending = append(d.pending, d.PendingEvents(off)...)

		switch unit {
		case CharStartEmbedded:
			skip = true
			continue
		case CharEndIgnore, CharEndEmbedded:
			skip = false
			continue
		}
		if skip {
			continue
		}
		r := d.TranslateChar(uint16(unit), off)
		if r == CharIgnore {
			continue
		}
		c := Char{Rune: r, FileOffset: off, PictureOffset: -1, Events: d.pending}
		d.pending = nil
		if r == CharPicture {
			c.PictureOffset = d.pictures.Lookup(off)
		}
		return c, true
	}
}

// Accessors.

func (d *Document) State() State              { return d.state }
func (d *Document) Version() int              { return d.version }
func (d *Document) IsMac() bool               { return d.mac }
func (d *Document) FIB() *FIB                 { return d.fib }
func (d *Document) Container() *cfb.Container { return d.container }
func (d *Document) Source() cfb.ByteSource    { return d.src }
func (d *Document) OutlineFonts() bool        { return d.opts.outlineFonts }
func (d *Document) ImageLevel() ImageLevel    { return d.opts.imageLevel }
func (d *Document) Logger() *slog.Logger      { return d.log }

// Pieces returns the piece table, empty for normally saved Word 6/7 files.
func (d *Document) Pieces() []Piece { return append([]Piece(nil), d.pieces...) }

// TextBlocks returns the blocks of one text list.
func (d *Document) TextBlocks(list TextList) []TextBlock {
	return d.lists.List(list).Blocks()
}

// TextOffsetToFileOffset translates a text stream position.
func (d *Document) TextOffsetToFileOffset(textOffset int64) int64 {
	return d.lists.TextOffsetToFileOffset(textOffset)
}

// SeqNumber returns the byte position of fileOffset in the main text.
func (d *Document) SeqNumber(fileOffset int64) int64 {
	return d.lists.SeqNumber(fileOffset)
}

func (d *Document) DataBlocks() []DataBlock    { return d.data.Blocks() }
func (d *Document) Fonts() []FontRecord        { return d.fonts.Records() }
func (d *Document) Styles() []StyleRecord      { return d.styles.Records() }
func (d *Document) Rows() []RowRecord          { return d.rows.Records() }
func (d *Document) Pictures() []PictureRecord  { return d.pictures.Records() }
func (d *Document) FootnoteOffsets() []int64   { return append([]int64(nil), d.notes.footnotes...) }
func (d *Document) EndnoteOffsets() []int64    { return append([]int64(nil), d.notes.endnotes...) }
func (d *Document) DataReader() *DataReader    { return NewDataReader(d.src, &d.data) }
