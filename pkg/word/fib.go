package word

import (
	"encoding/binary"
	"fmt"
)

// FIBSize is the number of bytes of the File Information Block that are read.
const FIBSize = 768

// Status word bits.
const (
	statusFastSaved = 1 << 2
	statusHasImages = 1 << 3
	statusEncrypted = 1 << 8
	statusTable1    = 1 << 9
)

// Story indexes into FIB.Lengths, in the order the stories follow each
// other in the text.
const (
	StoryText = iota
	StoryFootnote
	StoryHeader
	StoryMacro
	StoryAnnotation
	StoryEndnote
	StoryTextbox
	StoryHeaderTextbox
	storyCount
)

// FIB is the decoded prefix of the File Information Block at the start of
// the WordDocument stream.
type FIB struct {
	Ident       uint16
	Fib         uint16
	Chse        uint16
	Status      uint16
	BeginOfText int64
	// Lengths of the stories in characters, indexed by StoryText and friends.
	Lengths [storyCount]int64

	raw []byte
}

// ParseFIB decodes the fields needed for text extraction. The remaining
// table pointers are read on demand with Long.
func ParseFIB(raw []byte) (*FIB, error) {
	if len(raw) < FIBSize {
		return nil, fmt.Errorf("%w: FIB needs %d bytes, got %d", ErrTextTooSmall, FIBSize, len(raw))
	}
	f := &FIB{
		Ident:       binary.LittleEndian.Uint16(raw[0x00:]),
		Fib:         binary.LittleEndian.Uint16(raw[0x02:]),
		Status:      binary.LittleEndian.Uint16(raw[0x0a:]),
		Chse:        binary.LittleEndian.Uint16(raw[0x14:]),
		BeginOfText: int64(binary.LittleEndian.Uint32(raw[0x18:])),
		raw:         raw[:FIBSize],
	}
	return f, nil
}

// Byte returns the byte at off, or 0 past the decoded prefix.
func (f *FIB) Byte(off int) byte {
	if off < 0 || off >= len(f.raw) {
		return 0
	}
	return f.raw[off]
}

// Word returns the little endian u16 at off.
func (f *FIB) Word(off int) uint16 {
	if off < 0 || off+2 > len(f.raw) {
		return 0
	}
	return binary.LittleEndian.Uint16(f.raw[off:])
}

// Long returns the little endian u32 at off.
func (f *FIB) Long(off int) uint32 {
	if off < 0 || off+4 > len(f.raw) {
		return 0
	}
	return binary.LittleEndian.Uint32(f.raw[off:])
}

// KnownIdent reports whether the magic number belongs to Word 6, 7 or 8.
func (f *FIB) KnownIdent() bool {
	switch f.Ident {
	case 0x8098, 0x8099, 0xa5dc, 0xa5ec, 0xa697, 0xa699:
		return true
	}
	return false
}

// FarEast reports whether the document comes from an oriental Word 7.
func (f *FIB) FarEast() bool {
	switch f.Ident {
	case 0x8098, 0x8099, 0xa697, 0xa699:
		return true
	}
	return false
}

func (f *FIB) FastSaved() bool { return f.Status&statusFastSaved != 0 }
func (f *FIB) HasImages() bool { return f.Status&statusHasImages != 0 }
func (f *FIB) Encrypted() bool { return f.Status&statusEncrypted != 0 }

// UsesTable1 reports whether the table stream is named 1Table.
func (f *FIB) UsesTable1() bool { return f.Status&statusTable1 != 0 }

// DetectVersion returns the Word version (6, 7 or 8) and whether the
// document is a Macintosh Word 6 file.
func (f *FIB) DetectVersion() (version int, mac bool, err error) {
	if f.Fib < 101 {
		return 0, false, fmt.Errorf("%w: FIB version %d", ErrPreWord6, f.Fib)
	}
	switch f.Fib {
	case 101, 102:
		return 6, false, nil
	case 103, 104:
		switch f.Chse {
		case 0:
			return 7, false, nil
		case 256:
			return 6, true, nil
		default:
			if f.Byte(0x05) == 0xe0 {
				return 7, false, nil
			}
			return 6, true, nil
		}
	default:
		return 8, false, nil
	}
}

// loadLengths fills Lengths from the version dependent story length table.
func (f *FIB) loadLengths(version int) {
	base := 0x4c
	if version == 6 || version == 7 {
		base = 0x34
	}
	for i := range f.Lengths {
		f.Lengths[i] = int64(f.Long(base + 4*i))
	}
}

// TotalLength is the sum of all story lengths.
func (f *FIB) TotalLength() int64 {
	var total int64
	for _, l := range f.Lengths {
		total += l
	}
	return total
}

// fcLcb returns a table pointer pair: the offset at off and the length at
// off+4.
func (f *FIB) fcLcb(off int) (int64, int64) {
	return int64(f.Long(off)), int64(f.Long(off + 4))
}
