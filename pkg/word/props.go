package word

// FontRecord describes the character formatting that starts at FileOffset.
type FontRecord struct {
	FileOffset int64
	Number     int
	Size       int // half points
	Color      int
	Style      FontStyle
}

func (f FontRecord) isDefault() bool {
	return f.Style == FontRegular && f.Size == DefaultFontSize && f.Number == 0 && f.Color == ColorDefault
}

// FontList is the ordered list of character formatting changes.
type FontList struct {
	records []FontRecord
}

// Add stores f. Small capitals become capitals in a smaller font, sizes are
// clamped, a record equal to the last one is dropped and a record at the
// same file offset as the last one replaces it.
func (l *FontList) Add(f FontRecord) {
	if f.FileOffset < 0 {
		return
	}
	if f.Style.Has(FontSmallCapitals) {
		f.Size = (f.Size*8 + 5) / 10
		f.Style &^= FontSmallCapitals
		f.Style |= FontCapitals
	}
	f.Size = max(MinFontSize, min(f.Size, MaxFontSize))

	n := len(l.records)
	if n > 0 {
		last := &l.records[n-1]
		if last.Number == f.Number && last.Size == f.Size && last.Color == f.Color && last.Style == f.Style {
			return
		}
		if last.FileOffset == f.FileOffset {
			*last = f
			return
		}
	}
	l.records = append(l.records, f)
}

// Reset returns to the default font at fileOffset unless the last record
// already is the default.
func (l *FontList) Reset(fileOffset int64) {
	if fileOffset < 0 || len(l.records) == 0 {
		return
	}
	if l.records[len(l.records)-1].isDefault() {
		return
	}
	l.Add(FontRecord{FileOffset: fileOffset, Size: DefaultFontSize})
}

// Records returns a copy of the records.
func (l *FontList) Records() []FontRecord {
	return append([]FontRecord(nil), l.records...)
}

func (l *FontList) Len() int { return len(l.records) }

// StyleRecord describes the paragraph formatting that starts at FileOffset.
type StyleRecord struct {
	FileOffset  int64
	Style       int
	Alignment   Alignment
	LeftIndent  int // twips
	RightIndent int // twips
	InList      bool
	Unmarked    bool
	ListType    int
	ListLevel   int
	ListChar    byte
}

// StyleList is the ordered list of paragraph formatting changes.
type StyleList struct {
	records []StyleRecord
	// mustStore keeps the paragraph that follows a list member.
	mustStore bool
}

// Add stores s when it matters for the output: header styles, indented or
// aligned paragraphs and the paragraph after a list member.
func (l *StyleList) Add(s StyleRecord) {
	if s.FileOffset < 0 {
		return
	}
	if s.Style < 1 || s.Style > 9 {
		if s.LeftIndent <= 0 && s.RightIndent >= 0 && s.Alignment == AlignLeft && !l.mustStore {
			return
		}
	}
	l.mustStore = s.InList

	if s.LeftIndent < 0 {
		s.LeftIndent = 0
	}
	if s.RightIndent > 0 {
		s.RightIndent = 0
	}
	if s.ListLevel > 8 {
		s.ListLevel = 8
	}
	s.ListChar = chooseListChar(s.ListType, s.ListChar)

	if n := len(l.records); n > 0 && l.records[n-1].FileOffset == s.FileOffset {
		l.records[n-1] = s
		return
	}
	l.records = append(l.records, s)
}

func chooseListChar(listType int, c byte) byte {
	if c >= 0x20 && c < 0x7f {
		return c
	}
	if listType == NumBullets {
		switch c {
		case 0xa8:
			return '-'
		case 0xb7:
			return '+'
		case 0xde:
			return '='
		case 0xe0:
			return 'o'
		case 0xfe:
			return ' '
		default:
			return '+'
		}
	}
	return '.'
}

// Records returns a copy of the records.
func (l *StyleList) Records() []StyleRecord {
	return append([]StyleRecord(nil), l.records...)
}

func (l *StyleList) Len() int { return len(l.records) }

// RowRecord describes a table row that spans [Start, End] in the file.
type RowRecord struct {
	Start        int64
	End          int64
	ColumnWidths []int // twips
	WidthSum     int
}

// Columns returns the number of columns of the row.
func (r RowRecord) Columns() int { return len(r.ColumnWidths) }

// RowList is the ordered list of table rows.
type RowList struct {
	records []RowRecord
}

// Add stores r when both ends are known. Negative widths become zero.
func (l *RowList) Add(r RowRecord) {
	if r.Start < 0 || r.End < 0 {
		return
	}
	widths := make([]int, len(r.ColumnWidths))
	for i, w := range r.ColumnWidths {
		widths[i] = max(w, 0)
	}
	r.ColumnWidths = widths
	l.records = append(l.records, r)
}

// Records returns a copy of the records.
func (l *RowList) Records() []RowRecord {
	return append([]RowRecord(nil), l.records...)
}

func (l *RowList) Len() int { return len(l.records) }

// PictureRecord links the picture character at FileOffset to the file
// offset of its data.
type PictureRecord struct {
	FileOffset        int64
	PictureFileOffset int64
}

// PictureList holds the pictures of a document.
type PictureList struct {
	records []PictureRecord
	index   map[int64]int
}

// Add stores p when both offsets exist.
func (l *PictureList) Add(p PictureRecord) {
	if p.FileOffset < 0 || p.PictureFileOffset < 0 {
		return
	}
	if l.index == nil {
		l.index = make(map[int64]int)
	}
	if _, ok := l.index[p.FileOffset]; !ok {
		l.index[p.FileOffset] = len(l.records)
	}
	l.records = append(l.records, p)
}

// Lookup returns the data offset of the picture whose character is at
// fileOffset, or -1.
func (l *PictureList) Lookup(fileOffset int64) int64 {
	if i, ok := l.index[fileOffset]; ok {
		return l.records[i].PictureFileOffset
	}
	return -1
}

// Records returns a copy of the records.
func (l *PictureList) Records() []PictureRecord {
	return append([]PictureRecord(nil), l.records...)
}

func (l *PictureList) Len() int { return len(l.records) }
