package word

import (
	"errors"
	"fmt"

	"github.com/user/wordgo/pkg/cfb"
)

var errNoTableStream = errors.New("the table stream is missing")

// FIB table pointers of the formatting bin tables.
const (
	word6ParBinTable  = 0xc0
	word6ParPageCount = 0x190
	word6ParFirstPage = 0x18c
	word6ChrBinTable  = 0xb8
	word6ChrPageCount = 0x18e
	word6ChrFirstPage = 0x18a
	word8ParBinTable  = 0x102
	word8ChrBinTable  = 0xfa

	word6ParStride = 7
	word8ParStride = 13
	chrStride      = 1
)

// tableStream returns the stream that holds the Word 8 tables.
func (d *Document) tableStream() cfb.StreamDescriptor {
	if d.fib.UsesTable1() {
		return d.container.Streams.Table1
	}
	return d.container.Streams.Table0
}

// readSpan reads length bytes at offset of stream, refusing spans the
// stream cannot hold.
func (d *Document) readSpan(stream cfb.StreamDescriptor, offset, length int64) ([]byte, error) {
	if stream.Absent() {
		return nil, errNoTableStream
	}
	if offset < 0 || length < 0 || offset+length > stream.Size {
		return nil, fmt.Errorf("%w: %d bytes at %d exceed the stream of %d bytes",
			ErrCorruptInput, length, offset, stream.Size)
	}
	return d.container.ReadStream(stream, offset, int(length))
}

// readPage reads formatted disk page number page of the WordDocument stream.
func (d *Document) readPage(page int64) (fkp, error) {
	buf, err := d.readSpan(d.container.Streams.WordDocument, page*cfb.BigBlockSize, cfb.BigBlockSize)
	if err != nil {
		return nil, err
	}
	return fkp(buf), nil
}

// word6BinTable returns the page numbers of a Word 6/7 bin table. When the
// table lists fewer pages than the FIB counts, the missing pages follow the
// first page consecutively.
func (d *Document) word6BinTable(fibOffset, countOffset, firstOffset int) ([]int64, error) {
	begin, length := d.fib.fcLcb(fibOffset)
	if length < 4 {
		return nil, nil
	}
	buf, err := d.readSpan(d.container.Streams.WordDocument, begin, length)
	if err != nil {
		return nil, err
	}
	n := (length - 4) / 6
	table := fkp(buf)
	pages := make([]int64, 0, n)
	for i := int64(0); i < n; i++ {
		pages = append(pages, int64(table.u16(int((n+1)*4+2*i))))
	}
	if total := int64(d.fib.Word(countOffset)); n < total {
		page := d.fib.Word(firstOffset) + 1
		for i := n; i < n+total-1; i++ {
			pages = append(pages, int64(page))
			page++
		}
	}
	return pages, nil
}

// word8BinTable returns the page numbers of a Word 8 bin table, read from
// the table stream.
func (d *Document) word8BinTable(fibOffset int) ([]int64, error) {
	begin, length := d.fib.fcLcb(fibOffset)
	if length < 4 {
		return nil, nil
	}
	buf, err := d.readSpan(d.tableStream(), begin, length)
	if err != nil {
		return nil, err
	}
	n := (length/4 - 1) / 2
	table := fkp(buf)
	pages := make([]int64, 0, max(n, 0))
	for i := int64(0); i < n; i++ {
		pages = append(pages, table.u32(int((n+1)*4+4*i)))
	}
	return pages, nil
}

// loadParagraphInfo walks the paragraph pages and fills the style and row
// lists.
func (d *Document) loadParagraphInfo() error {
	var (
		pages  []int64
		err    error
		stride int
		style  func(fkp, int) (StyleRecord, bool)
		row    func(fkp, int, *RowRecord) (rowInfo, error)
	)
	if d.version == 8 {
		pages, err = d.word8BinTable(word8ParBinTable)
		stride, style, row = word8ParStride, word8Style, word8Row
	} else {
		pages, err = d.word6BinTable(word6ParBinTable, word6ParPageCount, word6ParFirstPage)
		stride, style, row = word6ParStride, word6Style, word6Row
	}
	if errors.Is(err, errNoTableStream) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read the paragraph bin table: %w", err)
	}

	var current RowRecord
	first := int64(-1)
	for _, page := range pages {
		p, err := d.readPage(page)
		if err != nil {
			d.log.Debug("paragraph page unreadable", "page", page, "error", err)
			break
		}
		cnt := p.count()
		for i := 0; i < cnt; i++ {
			fodo := 2 * p.u8((cnt+1)*4+i*stride)
			if fodo <= 0 {
				continue
			}
			parm := p.u32(i * 4)
			if s, ok := style(p, fodo); ok {
				s.FileOffset = d.lists.TextOffsetToFileOffset(parm)
				d.styles.Add(s)
			}
			info, err := row(p, fodo, &current)
			if err != nil {
				d.log.Warn("skipping table row", "page", page, "error", err)
				current = RowRecord{}
				first = -1
				continue
			}
			switch info {
			case rowCell:
				if first >= 0 {
					break
				}
				first = parm
				current.Start = d.lists.TextOffsetToFileOffset(first)
			case rowEnd:
				current.End = d.lists.TextOffsetToFileOffset(parm)
				d.rows.Add(current)
				current = RowRecord{}
				first = -1
			}
		}
	}
	return nil
}

// loadCharacterInfo walks the character pages and fills the font and
// picture lists.
func (d *Document) loadCharacterInfo() error {
	var (
		pages   []int64
		err     error
		font    func(fkp, int) (FontRecord, bool)
		picture func(fkp, int) (int64, bool)
	)
	if d.version == 8 {
		pages, err = d.word8BinTable(word8ChrBinTable)
		font, picture = word8Font, word8Picture
	} else {
		pages, err = d.word6BinTable(word6ChrBinTable, word6ChrPageCount, word6ChrFirstPage)
		font, picture = word6Font, word6Picture
	}
	if errors.Is(err, errNoTableStream) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read the character bin table: %w", err)
	}

	for _, page := range pages {
		p, err := d.readPage(page)
		if err != nil {
			d.log.Debug("character page unreadable", "page", page, "error", err)
			break
		}
		cnt := p.count()
		for i := 0; i < cnt; i++ {
			fileOffset := d.lists.TextOffsetToFileOffset(p.u32(i * 4))
			fodo := 2 * p.u8((cnt+1)*4+i*chrStride)
			if fodo == 0 {
				d.fonts.Reset(fileOffset)
				continue
			}
			if f, ok := font(p, fodo); ok {
				f.FileOffset = fileOffset
				d.fonts.Add(f)
			}
			if offset, ok := picture(p, fodo); ok {
				d.pictures.Add(PictureRecord{
					FileOffset:        fileOffset,
					PictureFileOffset: d.data.DataOffsetToFileOffset(offset),
				})
			}
		}
	}
	return nil
}
