package word

import "testing"

func TestFontList_SmallCapitals(t *testing.T) {
	var l FontList
	l.Add(FontRecord{FileOffset: 10, Size: DefaultFontSize, Style: FontSmallCapitals | FontBold})
	r := l.Records()
	if len(r) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(r))
	}
	if r[0].Size != 16 {
		t.Errorf("Expected size 16, got %d", r[0].Size)
	}
	if r[0].Style != FontCapitals|FontBold {
		t.Errorf("Expected capitals and bold, got 0x%02x", r[0].Style)
	}
}

func TestFontList_Add(t *testing.T) {
	var l FontList
	l.Add(FontRecord{FileOffset: -1, Size: 24})
	if l.Len() != 0 {
		t.Errorf("Expected a negative offset to be dropped")
	}
	l.Add(FontRecord{FileOffset: 10, Size: 2})
	l.Add(FontRecord{FileOffset: 20, Size: 8})
	if l.Len() != 1 {
		t.Errorf("Expected a record equal to the last one to be dropped, got %+v", l.records)
	}
	if l.records[0].Size != MinFontSize {
		t.Errorf("Expected size clamped to %d, got %d", MinFontSize, l.records[0].Size)
	}
	l.Add(FontRecord{FileOffset: 30, Size: 1000})
	l.Add(FontRecord{FileOffset: 30, Size: 24, Style: FontItalic})
	r := l.Records()
	if len(r) != 2 {
		t.Fatalf("Expected 2 records, got %+v", r)
	}
	if r[1].Size != 24 || r[1].Style != FontItalic {
		t.Errorf("Expected the same offset to be overwritten, got %+v", r[1])
	}
}

func TestFontList_Reset(t *testing.T) {
	var l FontList
	l.Reset(5)
	if l.Len() != 0 {
		t.Errorf("Expected Reset on an empty list to do nothing")
	}
	l.Add(FontRecord{FileOffset: 10, Size: DefaultFontSize, Style: FontBold})
	l.Reset(20)
	l.Reset(30)
	r := l.Records()
	if len(r) != 2 || !r[1].isDefault() || r[1].FileOffset != 20 {
		t.Errorf("Expected one default record at 20, got %+v", r)
	}
}

func TestStyleList_Add(t *testing.T) {
	var l StyleList
	l.Add(StyleRecord{FileOffset: 0})
	if l.Len() != 0 {
		t.Errorf("Expected a plain paragraph to be dropped")
	}
	l.Add(StyleRecord{FileOffset: 10, Style: 2})
	l.Add(StyleRecord{FileOffset: 20, LeftIndent: -100, RightIndent: 50, Alignment: AlignRight, ListLevel: 12})
	l.Add(StyleRecord{FileOffset: 30, InList: true, ListType: NumBullets, ListChar: 0xb7, LeftIndent: 720})
	l.Add(StyleRecord{FileOffset: 40})
	l.Add(StyleRecord{FileOffset: 50})
	l.Add(StyleRecord{FileOffset: 50, Style: 1})

	r := l.Records()
	if len(r) != 5 {
		t.Fatalf("Expected 5 records, got %+v", r)
	}
	if r[1].LeftIndent != 0 || r[1].RightIndent != 0 || r[1].ListLevel != 8 {
		t.Errorf("Expected clamped indents and list level, got %+v", r[1])
	}
	if r[2].ListChar != '+' {
		t.Errorf("Expected bullet '+', got %q", r[2].ListChar)
	}
	if r[3].FileOffset != 40 {
		t.Errorf("Expected the paragraph after a list member to be kept, got %+v", r[3])
	}

	if r[4].FileOffset != 50 || r[4].Style != 1 {
		t.Errorf("Expected a header style at 50, got %+v", r[4])
	}

	l.Add(StyleRecord{FileOffset: 50, Style: 3})
	if r := l.Records(); len(r) != 5 || r[4].Style != 3 {
		t.Errorf("Expected the same offset to be overwritten, got %+v", r)
	}
}

func TestChooseListChar(t *testing.T) {
	tests := []struct {
		listType int
		c        byte
		want     byte
	}{
		{NumArabic, '.', '.'},
		{NumArabic, 0x00, '.'},
		{NumBullets, 0xa8, '-'},
		{NumBullets, 0xde, '='},
		{NumBullets, 0xe0, 'o'},
		{NumBullets, 0xfe, ' '},
		{NumBullets, 0x01, '+'},
		{NumRomanUpper, ')', ')'},
	}
	for _, tt := range tests {
		if got := chooseListChar(tt.listType, tt.c); got != tt.want {
			t.Errorf("Expected %q for type %d char 0x%02x, got %q", tt.want, tt.listType, tt.c, got)
		}
	}
}

func TestRowList_Add(t *testing.T) {
	var l RowList
	l.Add(RowRecord{Start: -1, End: 10})
	l.Add(RowRecord{Start: 10, End: -1})
	if l.Len() != 0 {
		t.Errorf("Expected rows with a missing end to be dropped")
	}
	widths := []int{100, -20}
	l.Add(RowRecord{Start: 10, End: 20, ColumnWidths: widths})
	r := l.Records()
	if len(r) != 1 || r[0].ColumnWidths[1] != 0 || r[0].Columns() != 2 {
		t.Errorf("Expected a clamped negative width, got %+v", r)
	}
	if widths[1] != -20 {
		t.Errorf("Expected the caller's widths to stay untouched")
	}
}

func TestPictureList(t *testing.T) {
	var l PictureList
	if got := l.Lookup(5); got != -1 {
		t.Errorf("Expected -1 on an empty list, got %d", got)
	}
	l.Add(PictureRecord{FileOffset: -1, PictureFileOffset: 10})
	l.Add(PictureRecord{FileOffset: 10, PictureFileOffset: -1})
	l.Add(PictureRecord{FileOffset: 10, PictureFileOffset: 2000})
	l.Add(PictureRecord{FileOffset: 10, PictureFileOffset: 3000})
	if l.Len() != 2 {
		t.Errorf("Expected 2 records, got %d", l.Len())
	}
	if got := l.Lookup(10); got != 2000 {
		t.Errorf("Expected the first picture at 10 to win, got %d", got)
	}
}
