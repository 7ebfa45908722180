package word

import (
	"fmt"

	"github.com/user/wordgo/pkg/cfb"
)

// fkp is one formatted disk page. Reads past the page yield zero so that
// offsets taken from the page itself can never index outside it.
type fkp []byte

func (p fkp) u8(i int) int {
	if i < 0 || i >= len(p) {
		return 0
	}
	return int(p[i])
}

func (p fkp) u16(i int) int {
	return p.u8(i) | p.u8(i+1)<<8
}

func (p fkp) i16(i int) int {
	return int(int16(uint16(p.u16(i))))
}

func (p fkp) u32(i int) int64 {
	return int64(p.u16(i)) | int64(p.u16(i+2))<<16
}

// count is the number of runs described by the page.
func (p fkp) count() int {
	return p.u8(cfb.BigBlockSize - 1)
}

type rowInfo int

const (
	rowNothing rowInfo = iota
	rowCell
	rowEnd
)

// isOn reports whether a toggle operand switches the property on.
func isOn(v int) bool { return v == 0x01 || v == 0x81 }

func errTooManyColumns(n int) error {
	return fmt.Errorf("%w: the number of columns (%d) is corrupt", ErrCorruptInput, n)
}

// readColumns fills the widths of row from a table definition with n
// column boundaries starting at first.
func readColumns(p fkp, row *RowRecord, n, first int) error {
	if n > TableColumnMax {
		return errTooManyColumns(n)
	}
	row.ColumnWidths = make([]int, n)
	row.WidthSum = 0
	prev := p.i16(first)
	for i := 0; i < n; i++ {
		cur := p.i16(first + 2 + i*2)
		row.ColumnWidths[i] = int(int16(cur - prev))
		row.WidthSum += row.ColumnWidths[i]
		prev = cur
	}
	return nil
}

func word6Row(p fkp, fodo int, row *RowRecord) (rowInfo, error) {
	n := 2 * p.u8(fodo)
	found18, found19, foundBE := false, false, false
	for off := 3; n >= off+1; {
		infoLen := 0
		switch p.u8(fodo + off) {
		case 0x18:
			found18 = found18 || p.u8(fodo+off+1) == 0x01
		case 0x19:
			found19 = found19 || p.u8(fodo+off+1) == 0x01
		case 0xbe:
			size := p.u8(fodo + off + 1)
			if size < 6 || n < off+7 {
				infoLen = 1
				break
			}
			cols := p.u8(fodo + off + 3)
			if cols < 1 || n < off+3+(cols+1)*2 {
				infoLen = 1
				break
			}
			if err := readColumns(p, row, cols, fodo+off+4); err != nil {
				return rowNothing, err
			}
			foundBE = true
		}
		if infoLen <= 0 {
			infoLen = Word6SprmLength(p, fodo+off)
		}
		off += infoLen
	}
	return rowResult(found18, found19, foundBE), nil
}

func word8Row(p fkp, fodo int, row *RowRecord) (rowInfo, error) {
	n := 2 * p.u8(fodo)
	if n == 0 {
		fodo++
		n = 2 * p.u8(fodo)
	}
	found16, found17, foundD608 := false, false, false
	for off := 3; n >= off+2; {
		infoLen := 0
		switch p.u16(fodo + off) {
		case 0x2416:
			found16 = found16 || p.u8(fodo+off+2) == 0x01
		case 0x2417:
			found17 = found17 || p.u8(fodo+off+2) == 0x01
		case 0xd608:
			size := p.u8(fodo + off + 2)
			if size < 6 || n < off+8 {
				infoLen = 2
				break
			}
			cols := p.u8(fodo + off + 4)
			if cols < 1 || n < off+4+(cols+1)*2 {
				infoLen = 2
				break
			}
			if err := readColumns(p, row, cols, fodo+off+5); err != nil {
				return rowNothing, err
			}
			foundD608 = true
		}
		if infoLen <= 0 {
			infoLen = Word8SprmLength(p, fodo+off)
		}
		off += infoLen
	}
	return rowResult(found16, found17, foundD608), nil
}

func rowResult(inTable, endOfRow, definition bool) rowInfo {
	switch {
	case inTable && endOfRow && definition:
		return rowEnd
	case inTable:
		return rowCell
	default:
		return rowNothing
	}
}

// tabsModifierValid checks a tab stop change: a byte count followed by
// delete and add counts whose entries must fit in it.
func tabsModifierValid(p fkp, at int) bool {
	total := p.u8(at)
	if total < 2 {
		return false
	}
	del := p.u8(at + 1)
	if total < 2+2*del {
		return false
	}
	add := p.u8(at + 2 + 2*del)
	return total >= 2+2*del+2*add
}

func word6Style(p fkp, fodo int) (StyleRecord, bool) {
	n := 2 * p.u8(fodo)
	if n < 1 {
		return StyleRecord{}, false
	}
	s := StyleRecord{Style: p.u8(fodo + 1)}
	for off := 3; n >= off+1; {
		infoLen := 0
		at := fodo + off
		switch p.u8(at) {
		case 0x05:
			s.Alignment = Alignment(p.u8(at + 1))
		case 0x0c:
			tmp := p.u8(at + 1)
			if tmp >= 1 {
				s.ListType = p.u8(at + 2)
				s.InList = true
			}
			if tmp >= 21 {
				s.ListChar = byte(p.u8(at + 22))
			}
		case 0x0d:
			s.InList = true
			if p.u8(at+1) == 0x0c {
				s.Unmarked = true
			}
		case 0x0f:
			if !tabsModifierValid(p, at+1) {
				infoLen = 1
			}
		case 0x10:
			s.RightIndent = p.i16(at + 1)
		case 0x11:
			s.LeftIndent = p.i16(at + 1)
		case 0x12:
			s.LeftIndent = max(int(int16(s.LeftIndent+p.i16(at+1))), 0)
		}
		if infoLen <= 0 {
			infoLen = Word6SprmLength(p, at)
		}
		off += infoLen
	}
	return s, true
}

func word8Style(p fkp, fodo int) (StyleRecord, bool) {
	n := 2 * p.u8(fodo)
	if n == 0 {
		fodo++
		n = 2 * p.u8(fodo)
	}
	if n < 2 {
		return StyleRecord{}, false
	}
	var s StyleRecord
	if style := p.i16(fodo + 1); style >= 0 && style <= 0xff {
		s.Style = style
	}
	for off := 3; n >= off+2; {
		infoLen := 0
		at := fodo + off
		switch p.u16(at) {
		case 0x2403:
			s.Alignment = Alignment(p.u8(at + 2))
		case 0x260a:
			s.InList = true
			s.ListLevel = p.u8(at + 2)
		case 0x4610:
			s.LeftIndent = max(int(int16(s.LeftIndent+p.i16(at+2))), 0)
		case 0x6c0d:
			if !tabsModifierValid(p, at+2) {
				infoLen = 1
			}
		case 0x840e:
			s.RightIndent = p.i16(at + 2)
		case 0x840f:
			s.LeftIndent = p.i16(at + 2)
		}
		if infoLen <= 0 {
			infoLen = Word8SprmLength(p, at)
		}
		off += infoLen
	}
	return s, true
}

func word6Font(p fkp, fodo int) (FontRecord, bool) {
	n := p.u8(fodo)
	if n < 1 {
		return FontRecord{}, false
	}
	f := FontRecord{Size: DefaultFontSize}
	for off := 1; n >= off+1; {
		at := fodo + off
		switch p.u8(at) {
		case 0x52:
			f.Style &= FontHidden
			f.Color = ColorDefault
		case 0x55:
			if isOn(p.u8(at + 1)) {
				f.Style |= FontBold
			}
		case 0x56:
			if isOn(p.u8(at + 1)) {
				f.Style |= FontItalic
			}
		case 0x57:
			if isOn(p.u8(at + 1)) {
				f.Style |= FontStrike
			}
		case 0x5a:
			if isOn(p.u8(at + 1)) {
				f.Style |= FontSmallCapitals
			}
		case 0x5b:
			if isOn(p.u8(at + 1)) {
				f.Style |= FontCapitals
			}
		case 0x5c:
			if isOn(p.u8(at + 1)) {
				f.Style |= FontHidden
			}
		case 0x5d:
			if v := p.u16(at + 1); v <= 0xff {
				f.Number = v
			}
		case 0x5e:
			if p.u8(at+1) != 0 {
				f.Style |= FontUnderline
			}
		case 0x62:
			f.Color = p.u8(at + 1)
		case 0x63:
			f.Size = min(p.u16(at+1), 0x7fff)
		}
		off += Word6SprmLength(p, at)
	}
	return f, true
}

func word8Font(p fkp, fodo int) (FontRecord, bool) {
	n := p.u8(fodo)
	if n == 0 {
		fodo++
		n = p.u8(fodo)
	}
	if n < 2 {
		return FontRecord{}, false
	}
	f := FontRecord{Size: DefaultFontSize}
	for off := 1; n >= off+2; {
		at := fodo + off
		switch p.u16(at) {
		case 0x0835:
			if isOn(p.u8(at + 2)) {
				f.Style |= FontBold
			}
		case 0x0836:
			if isOn(p.u8(at + 2)) {
				f.Style |= FontItalic
			}
		case 0x0837:
			if isOn(p.u8(at + 2)) {
				f.Style |= FontStrike
			}
		case 0x083a:
			if isOn(p.u8(at + 2)) {
				f.Style |= FontSmallCapitals
			}
		case 0x083b:
			if isOn(p.u8(at + 2)) {
				f.Style |= FontCapitals
			}
		case 0x083c:
			if isOn(p.u8(at + 2)) {
				f.Style |= FontHidden
			}
		case 0x2a32:
			f.Style &= FontHidden
			f.Color = ColorDefault
		case 0x2a3e:
			if p.u8(at+2) != 0 {
				f.Style |= FontUnderline
			}
		case 0x2a42:
			f.Color = p.u8(at + 2)
		case 0x4a43:
			f.Size = min(p.u16(at+2), 0x7fff)
		case 0x4a51:
			if v := p.u16(at + 2); v <= 0xff {
				f.Number = v
			}
		}
		off += Word8SprmLength(p, at)
	}
	return f, true
}

// word6Picture returns the data stream offset of the picture described at
// fodo. Form fields and OLE objects are not pictures.
func word6Picture(p fkp, fodo int) (int64, bool) {
	n := p.u8(fodo)
	if n < 1 {
		return 0, false
	}
	var offset int64
	found := false
	for off := 1; n >= off+1; {
		at := fodo + off
		switch p.u8(at) {
		case 0x44:
			offset = p.u32(at + 2)
			found = true
		case 0x47, 0x4b:
			if p.u8(at+1) == 0x01 {
				return 0, false
			}
		}
		off += Word6SprmLength(p, at)
	}
	return offset, found
}

func word8Picture(p fkp, fodo int) (int64, bool) {
	n := p.u8(fodo)
	if n == 0 {
		fodo++
		n = p.u8(fodo)
	}
	if n < 2 {
		return 0, false
	}
	var offset int64
	found := false
	for off := 1; n >= off+2; {
		at := fodo + off
		switch p.u16(at) {
		case 0x0806, 0x080a:
			if p.u8(at+2) == 0x01 {
				return 0, false
			}
		case 0x6a03:
			offset = p.u32(at + 2)
			found = true
		}
		off += Word8SprmLength(p, at)
	}
	return offset, found
}
