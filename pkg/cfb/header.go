package cfb

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	HeaderSize        = 512
	BigBlockSize      = 512
	SmallBlockSize    = 64
	PropertyEntrySize = 128
	// MinSizeForBBD is the stream size from which blocks come from the BBD.
	MinSizeForBBD = 4096
	// MaxInlineBBDBlocks is the number of BBD index slots in the header.
	MaxInlineBBDBlocks = 109

	indicesPerBlock = BigBlockSize / 4
	sizeRatio       = BigBlockSize / SmallBlockSize
)

// Magic is the signature at the start of every OLE2 compound file.
var Magic = [8]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// Header is the part of block 0 that locates the depots and the directory.
type Header struct {
	Magic          [8]byte
	_              [0x2c - 8]byte
	NumBBDBlocks   int32 // 0x2c
	RootStartBlock int32 // 0x30
	_              [8]byte
	SBDStartBlock  int32 // 0x3c
	_              [0x4c - 0x40]byte
	BBDIndex       [MaxInlineBBDBlocks]int32 // 0x4c
}

// ReadHeader reads and checks the 512-byte compound file header.
func ReadHeader(src ByteSource) (*Header, error) {
	raw, err := ReadBytes(src, 0, HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read compound file header: %w", err)
	}
	var h Header
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to parse compound file header: %w", err)
	}
	if h.Magic != Magic {
		return nil, ErrNotOLE
	}
	return &h, nil
}
