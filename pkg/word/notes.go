package word

import "github.com/user/wordgo/pkg/cfb"

// NoteType tells footnotes and endnotes apart.
type NoteType int

const (
	NoteUnknown NoteType = iota
	NoteFootnote
	NoteEndnote
)

func (t NoteType) String() string {
	switch t {
	case NoteFootnote:
		return "footnote"
	case NoteEndnote:
		return "endnote"
	default:
		return "unknown"
	}
}

// FIB table pointers of the note reference tables.
const (
	word6FootnoteRefs = 0x68
	word6EndnoteRefs  = 0x1d2
	word8FootnoteRefs = 0xaa
	word8EndnoteRefs  = 0x20a
)

// noteRefs holds the file offsets of the note reference characters.
type noteRefs struct {
	footnotes []int64
	endnotes  []int64
}

// loadNotes reads the footnote and endnote reference tables. A table that
// cannot be read leaves its list empty.
func (d *Document) loadNotes() {
	foot, end := word6FootnoteRefs, word6EndnoteRefs
	stream := d.container.Streams.WordDocument
	if d.version == 8 {
		foot, end = word8FootnoteRefs, word8EndnoteRefs
		stream = d.tableStream()
	}
	d.notes.footnotes = d.readNoteRefs(stream, foot)
	d.notes.endnotes = d.readNoteRefs(stream, end)
}

func (d *Document) readNoteRefs(stream cfb.StreamDescriptor, fibOffset int) []int64 {
	begin, length := d.fib.fcLcb(fibOffset)
	if length < 10 {
		return nil
	}
	buf, err := d.readSpan(stream, begin, length)
	if err != nil {
		d.log.Debug("note references unreadable", "fib_offset", fibOffset, "error", err)
		return nil
	}
	table := fkp(buf)
	n := (length - 4) / 6
	refs := make([]int64, 0, n)
	for i := int64(0); i < n; i++ {
		refs = append(refs, d.lists.TextOffsetToFileOffset(d.fib.BeginOfText+table.u32(int(i*4))))
	}
	return refs
}

// NoteType returns the kind of the note whose reference character is at
// fileOffset. With only one kind of note present the answer needs no search.
func (d *Document) NoteType(fileOffset int64) NoteType {
	foot, end := d.notes.footnotes, d.notes.endnotes
	switch {
	case len(foot) == 0 && len(end) == 0:
		return NoteUnknown
	case len(end) == 0:
		return NoteFootnote
	case len(foot) == 0:
		return NoteEndnote
	}
	for _, off := range foot {
		if off == fileOffset {
			return NoteFootnote
		}
	}
	for _, off := range end {
		if off == fileOffset {
			return NoteEndnote
		}
	}
	return NoteUnknown
}
