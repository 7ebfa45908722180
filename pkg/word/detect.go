package word

import (
	"bytes"

	"github.com/user/wordgo/pkg/cfb"
)

var (
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
	rtfMagic = []byte(`{\rtf1`)

	word245Magic = [][]byte{
		{0x31, 0xbe, 0x00, 0x00, 0x00, 0xab, 0x00, 0x00},
		{0xdb, 0xa5, 0x2d, 0x00, 0x00, 0x00, 0x09, 0x04},
		{0xdb, 0xa5, 0x2d, 0x00, 0x31, 0x40, 0x09, 0x08},
		{0xdb, 0xa5, 0x2d, 0x00, 0x31, 0x40, 0x09, 0x0c},
		{0xfe, 0x37, 0x00, 0x1c, 0x00, 0x00, 0x00, 0x00},
		{0xfe, 0x37, 0x00, 0x23, 0x00, 0x00, 0x00, 0x00},
	}
)

func startsWith(src cfb.ByteSource, magic []byte) bool {
	if src == nil || src.Size() < int64(len(magic)) {
		return false
	}
	head, err := cfb.ReadBytes(src, 0, len(magic))
	if err != nil {
		return false
	}
	return bytes.Equal(head, magic)
}

// IsWordFile reports whether src starts like an OLE2 compound file.
func IsWordFile(src cfb.ByteSource) bool {
	return startsWith(src, oleMagic)
}

// IsSupportedWordFile reports whether src can be a Word 6 or later
// document: an OLE2 file of at least three big blocks whose size is a
// multiple of the block size.
func IsSupportedWordFile(src cfb.ByteSource) bool {
	if src == nil {
		return false
	}
	size := src.Size()
	if size < 3*cfb.BigBlockSize || size%cfb.BigBlockSize != 0 {
		return false
	}
	return IsWordFile(src)
}

// IsRTF reports whether src is a Rich Text Format file.
func IsRTF(src cfb.ByteSource) bool {
	return startsWith(src, rtfMagic)
}

// IsWord245 reports whether src is a Word 2, 4 or 5 document.
func IsWord245(src cfb.ByteSource) bool {
	for _, magic := range word245Magic {
		if startsWith(src, magic) {
			return true
		}
	}
	return false
}
