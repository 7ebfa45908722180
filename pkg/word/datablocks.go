package word

import (
	"fmt"
	"io"

	"github.com/user/wordgo/pkg/cfb"
)

// ReadToEndOfChain asks AddDataBlocks to map everything up to the end of
// the stream's block chain.
const ReadToEndOfChain int64 = -1

// DataBlock is a contiguous run of picture data bytes in the file.
type DataBlock struct {
	FileOffset int64
	DataOffset int64
	Length     int
}

// DataBlockList maps positions in a data stream to file offsets.
type DataBlockList struct {
	blocks []DataBlock
}

// Add appends b, merging it into the last block when both positions
// continue it.
func (l *DataBlockList) Add(b DataBlock) error {
	if b.FileOffset < 0 || b.DataOffset < 0 || b.Length <= 0 {
		return fmt.Errorf("%w: data block at %d with length %d", ErrCorruptInput, b.FileOffset, b.Length)
	}
	if n := len(l.blocks); n > 0 {
		last := &l.blocks[n-1]
		if last.FileOffset+int64(last.Length) == b.FileOffset &&
			last.DataOffset+int64(last.Length) == b.DataOffset {
			last.Length += b.Length
			return nil
		}
	}
	l.blocks = append(l.blocks, b)
	return nil
}

// AddDataBlocks maps length bytes starting firstOffset bytes into stream.
// With ReadToEndOfChain it maps until the chain ends; any other length must
// be satisfied exactly.
func (l *DataBlockList) AddDataBlocks(c *cfb.Container, stream cfb.StreamDescriptor, firstOffset, length int64) error {
	if firstOffset < 0 || (length < 0 && length != ReadToEndOfChain) {
		return fmt.Errorf("%w: data run of %d bytes at %d", ErrCorruptInput, length, firstOffset)
	}
	dataOffset := firstOffset
	err := walkChain(c, stream, firstOffset, length, func(fileOffset int64, n int) error {
		if err := l.Add(DataBlock{FileOffset: fileOffset, DataOffset: dataOffset, Length: n}); err != nil {
			return err
		}
		dataOffset += int64(n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to map data at %d: %w", firstOffset, err)
	}
	return nil
}

// Blocks returns a copy of the blocks.
func (l *DataBlockList) Blocks() []DataBlock {
	return append([]DataBlock(nil), l.blocks...)
}

// Len returns the number of blocks.
func (l *DataBlockList) Len() int { return len(l.blocks) }

// DataOffsetToFileOffset translates a data stream position to a file
// offset, or -1 when no block holds it.
func (l *DataBlockList) DataOffsetToFileOffset(dataOffset int64) int64 {
	if dataOffset < 0 {
		return -1
	}
	for _, b := range l.blocks {
		if dataOffset >= b.DataOffset && dataOffset < b.DataOffset+int64(b.Length) {
			return b.FileOffset + dataOffset - b.DataOffset
		}
	}
	return -1
}

// DataReader reads picture data across data blocks.
type DataReader struct {
	src    cfb.ByteSource
	blocks []DataBlock

	cur         int
	blockOffset int
	next        int
	buf         [readerBufferSize]byte
	bufLen      int
}

// NewDataReader reads the blocks of l from src.
func NewDataReader(src cfb.ByteSource, l *DataBlockList) *DataReader {
	return &DataReader{src: src, blocks: l.blocks, cur: -1}
}

// Seek makes fileOffset the current position. The offset must lie inside
// one of the data blocks.
func (r *DataReader) Seek(fileOffset int64) error {
	for i, b := range r.blocks {
		if fileOffset < b.FileOffset || fileOffset >= b.FileOffset+int64(b.Length) {
			continue
		}
		n := min(int(b.FileOffset+int64(b.Length)-fileOffset), readerBufferSize)
		data, err := cfb.ReadBytes(r.src, fileOffset, n)
		if err != nil {
			return fmt.Errorf("failed to read picture data at %d: %w", fileOffset, err)
		}
		copy(r.buf[:], data)
		r.bufLen = n
		r.cur = i
		r.blockOffset = int(fileOffset - b.FileOffset)
		r.next = 0
		return nil
	}
	return fmt.Errorf("%w: file offset %d is not part of the data", ErrCorruptInput, fileOffset)
}

// NextByte returns the next byte. io.ErrUnexpectedEOF marks the end of the data.
func (r *DataReader) NextByte() (byte, error) {
	if r.cur < 0 || r.cur >= len(r.blocks) {
		return 0, io.ErrUnexpectedEOF
	}
	if r.next >= r.bufLen || r.blockOffset+r.next >= r.blocks[r.cur].Length {
		if r.blockOffset+readerBufferSize < r.blocks[r.cur].Length {
			r.blockOffset += readerBufferSize
		} else {
			r.cur++
			r.blockOffset = 0
		}
		if r.cur >= len(r.blocks) {
			return 0, io.ErrUnexpectedEOF
		}
		b := r.blocks[r.cur]
		n := min(b.Length-r.blockOffset, readerBufferSize)
		data, err := cfb.ReadBytes(r.src, b.FileOffset+int64(r.blockOffset), n)
		if err != nil {
			r.cur = len(r.blocks)
			return 0, err
		}
		copy(r.buf[:], data)
		r.bufLen = n
		r.next = 0
	}
	v := r.buf[r.next]
	r.next++
	return v, nil
}

// NextWord reads a little endian u16.
func (r *DataReader) NextWord() (uint16, error) {
	lsb, err := r.NextByte()
	if err != nil {
		return 0, err
	}
	msb, err := r.NextByte()
	if err != nil {
		return 0, err
	}
	return uint16(msb)<<8 | uint16(lsb), nil
}

// NextLong reads a little endian u32.
func (r *DataReader) NextLong() (uint32, error) {
	lsw, err := r.NextWord()
	if err != nil {
		return 0, err
	}
	msw, err := r.NextWord()
	if err != nil {
		return 0, err
	}
	return uint32(msw)<<16 | uint32(lsw), nil
}

// NextWordBE reads a big endian u16.
func (r *DataReader) NextWordBE() (uint16, error) {
	msb, err := r.NextByte()
	if err != nil {
		return 0, err
	}
	lsb, err := r.NextByte()
	if err != nil {
		return 0, err
	}
	return uint16(msb)<<8 | uint16(lsb), nil
}

// NextLongBE reads a big endian u32.
func (r *DataReader) NextLongBE() (uint32, error) {
	msw, err := r.NextWordBE()
	if err != nil {
		return 0, err
	}
	lsw, err := r.NextWordBE()
	if err != nil {
		return 0, err
	}
	return uint32(msw)<<16 | uint32(lsw), nil
}

// Skip moves n bytes forward and returns how many were skipped.
func (r *DataReader) Skip(n int) int {
	skipped := 0
	for skipped < n {
		if r.cur >= 0 && r.cur < len(r.blocks) {
			avail := min(r.bufLen-r.next, r.blocks[r.cur].Length-r.blockOffset-r.next)
			if avail > 0 {
				move := min(avail, n-skipped)
				r.next += move
				skipped += move
				continue
			}
		}
		if _, err := r.NextByte(); err != nil {
			return skipped
		}
		skipped++
	}
	return skipped
}

// ReadFull reads n bytes.
func (r *DataReader) ReadFull(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		b, err := r.NextByte()
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, nil
}
