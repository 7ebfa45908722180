package word

import (
	"github.com/user/wordgo/pkg/cfb"
)

const readerBufferSize = 512

// ListReader iterates over the bytes of one text list, forward only.
type ListReader struct {
	src    cfb.ByteSource
	blocks []TextBlock

	cur         int // index of the current block, -1 before the first
	blockOffset int
	next        int
	buf         [readerBufferSize]byte
	bufLen      int
	done        bool
}

// NewListReader reads the blocks of list from src.
func NewListReader(src cfb.ByteSource, list *TextBlockList) *ListReader {
	return &ListReader{src: src, blocks: list.blocks, cur: -1}
}

// NextByte returns the next byte and its file offset. ok is false at the
// end of the list or when the file cannot be read.
func (r *ListReader) NextByte() (b byte, fileOffset int64, ok bool) {
	if r.done {
		return 0, -1, false
	}
	if r.cur < 0 || r.next >= r.bufLen || r.blockOffset+r.next >= r.blocks[r.cur].Length {
		if !r.advance() {
			r.done = true
			return 0, -1, false
		}
	}
	blk := r.blocks[r.cur]
	fileOffset = blk.FileOffset + int64(r.blockOffset) + int64(r.next)
	b = r.buf[r.next]
	r.next++
	return b, fileOffset, true
}

func (r *ListReader) advance() bool {
	switch {
	case r.cur < 0:
		r.cur = 0
		r.blockOffset = 0
	case r.blockOffset+readerBufferSize < r.blocks[r.cur].Length:
		r.blockOffset += readerBufferSize
	default:
		r.cur++
		r.blockOffset = 0
	}
	if r.cur >= len(r.blocks) {
		return false
	}
	blk := r.blocks[r.cur]
	n := min(blk.Length-r.blockOffset, readerBufferSize)
	data, err := cfb.ReadBytes(r.src, blk.FileOffset+int64(r.blockOffset), n)
	if err != nil {
		return false
	}
	copy(r.buf[:], data)
	r.bufLen = n
	r.next = 0
	return true
}

// NextChar returns the next character code unit. ANSI blocks yield one
// byte per character, unicode blocks two bytes little endian.
func (r *ListReader) NextChar() (unit uint16, fileOffset int64, ok bool) {
	lsb, off, ok := r.NextByte()
	if !ok {
		return 0, -1, false
	}
	if !r.blocks[r.cur].Unicode {
		return uint16(lsb), off, true
	}
	msb, _, ok := r.NextByte()
	if !ok {
		return 0, -1, false
	}
	return uint16(msb)<<8 | uint16(lsb), off, true
}
