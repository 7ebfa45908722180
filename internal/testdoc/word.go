package testdoc

// TextStart is where the builders place the text inside the WordDocument
// stream.
const TextStart = 0x400

// Word holds the streams of a synthetic Word document under construction.
type Word struct {
	Version int
	Doc     []byte // WordDocument
	Table   []byte // 1Table, Word 8 only
	Data    []byte
}

// NewWord6 starts a Word 6 document whose WordDocument stream has size
// bytes.
func NewWord6(size int) *Word {
	w := &Word{Version: 6, Doc: make([]byte, size)}
	PutU16(w.Doc, 0x00, 0xa5dc)
	PutU16(w.Doc, 0x02, 101)
	PutU32(w.Doc, 0x18, TextStart)
	return w
}

// NewWord8 starts a Word 8 document that keeps its tables in 1Table.
func NewWord8(size int) *Word {
	w := &Word{Version: 8, Doc: make([]byte, size)}
	PutU16(w.Doc, 0x00, 0xa5ec)
	PutU16(w.Doc, 0x02, 193)
	PutU16(w.Doc, 0x0a, 0x0200)
	PutU32(w.Doc, 0x18, TextStart)
	return w
}

// SetStatus sets bits in the FIB status word.
func (w *Word) SetStatus(bits uint16) {
	PutU16(w.Doc, 0x0a, uint16(w.Doc[0x0a])|uint16(w.Doc[0x0b])<<8|bits)
}

// SetLength stores the length in characters of story i (0 is the main
// text, then footnotes, headers, macros, annotations, endnotes, text boxes
// and header text boxes).
func (w *Word) SetLength(story int, n int) {
	base := 0x4c
	if w.Version != 8 {
		base = 0x34
	}
	PutU32(w.Doc, base+4*story, uint32(n))
}

// SetPointer stores a FIB table pointer pair at off.
func (w *Word) SetPointer(off int, fc, lcb int) {
	PutU32(w.Doc, off, uint32(fc))
	PutU32(w.Doc, off+4, uint32(lcb))
}

// PutDoc copies b into the WordDocument stream at off.
func (w *Word) PutDoc(off int, b []byte) {
	copy(w.Doc[off:], b)
}

// AddTable appends b to the table stream and returns its offset.
func (w *Word) AddTable(b []byte) int {
	off := len(w.Table)
	w.Table = append(w.Table, b...)
	return off
}

// Image builds the compound file.
func (w *Word) Image() *Image {
	streams := []Stream{{Name: "WordDocument", Data: w.Doc}}
	if len(w.Table) > 0 {
		streams = append(streams, Stream{Name: "1Table", Data: w.Table})
	}
	if len(w.Data) > 0 {
		streams = append(streams, Stream{Name: "Data", Data: w.Data})
	}
	return Build(streams...)
}

// Piece is one entry for PieceTable.
type Piece struct {
	Offset  int
	Chars   int
	Unicode bool
}

// PieceTable builds a complex file information block holding one piece
// table. Word 8 ANSI pieces get bit 30 and a doubled offset.
func PieceTable(version int, pieces ...Piece) []byte {
	n := len(pieces)
	plc := make([]byte, (n+1)*4+n*8)
	cp := 0
	for i, p := range pieces {
		PutU32(plc, i*4, uint32(cp))
		cp += p.Chars
		fc := uint32(p.Offset)
		if version == 8 && !p.Unicode {
			fc = uint32(p.Offset*2) | 1<<30
		}
		PutU32(plc, (n+1)*4+i*8+2, fc)
	}
	PutU32(plc, n*4, uint32(cp))

	out := []byte{0x02, 0, 0, 0, 0}
	if version == 8 {
		PutU32(out, 1, uint32(len(plc)))
	} else {
		PutU16(out, 1, uint16(len(plc)))
	}
	return append(out, plc...)
}

// FKP builds a formatted disk page. fcs holds the len(props)+1 run
// boundaries; a nil property leaves its run without properties.
func FKP(fcs []int, stride int, props [][]byte) []byte {
	p := make([]byte, blockSize)
	n := len(props)
	for i, fc := range fcs {
		PutU32(p, i*4, uint32(fc))
	}
	end := blockSize - 1
	for i, prop := range props {
		if prop == nil {
			continue
		}
		start := (end - len(prop)) &^ 1
		copy(p[start:], prop)
		p[(n+1)*4+i*stride] = byte(start / 2)
		end = start
	}
	p[blockSize-1] = byte(n)
	return p
}

// Papx builds paragraph properties: a word count, the style number and
// the property modifiers.
func Papx(style int, sprms ...byte) []byte {
	body := append([]byte{byte(style), byte(style >> 8)}, sprms...)
	if len(body)%2 != 0 {
		body = append(body, 0)
	}
	return append([]byte{byte(len(body) / 2)}, body...)
}

// Chpx builds character properties: a byte count and the modifiers.
func Chpx(sprms ...byte) []byte {
	return append([]byte{byte(len(sprms))}, sprms...)
}

// BinTable8 builds a Word 8 bin table: run boundaries then u32 pages.
func BinTable8(fcs []int, pages ...int) []byte {
	b := make([]byte, len(fcs)*4+len(pages)*4)
	for i, fc := range fcs {
		PutU32(b, i*4, uint32(fc))
	}
	for i, p := range pages {
		PutU32(b, len(fcs)*4+i*4, uint32(p))
	}
	return b
}

// BinTable6 builds a Word 6 bin table: run boundaries then u16 pages.
func BinTable6(fcs []int, pages ...int) []byte {
	b := make([]byte, len(fcs)*4+len(pages)*2)
	for i, fc := range fcs {
		PutU32(b, i*4, uint32(fc))
	}
	for i, p := range pages {
		PutU16(b, len(fcs)*4+i*2, uint16(p))
	}
	return b
}

// NoteRefs builds a note reference table for character positions cps.
func NoteRefs(cps ...int) []byte {
	b := make([]byte, (len(cps)+1)*4+len(cps)*2)
	for i, cp := range cps {
		PutU32(b, i*4, uint32(cp))
	}
	return b
}

// word8PieceTable is the FIB pointer to the Word 8 piece table.
const word8PieceTable = 0x1a2

// NewWord8Text returns a Word 8 document whose stories hold the given
// texts, in the order SetLength numbers them, as one ANSI piece.
func NewWord8Text(stories ...string) *Word {
	w := NewWord8(8 * 512)
	text := ""
	for i, s := range stories {
		text += s
		w.SetLength(i, len(s))
	}
	w.PutDoc(TextStart, []byte(text))
	clx := PieceTable(8, Piece{Offset: TextStart, Chars: len(text)})
	w.SetPointer(word8PieceTable, w.AddTable(clx), len(clx))
	return w
}
