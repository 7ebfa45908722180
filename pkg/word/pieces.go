package word

import (
	"encoding/binary"
	"fmt"
)

const (
	pieceRecordPad   = 0
	pieceRecordSkip  = 1
	pieceRecordTable = 2

	ansiPieceBit = 1 << 30
)

// Piece is one entry of a piece table: Chars characters stored at Offset in
// the WordDocument stream.
type Piece struct {
	Offset  int64
	Chars   int64
	Unicode bool
}

// DecodePieceRecords decodes the complex file information of a fast saved
// (Word 6/7) or any Word 8 document and returns the pieces of the first
// piece table found. Word 6/7 pieces are returned as ANSI.
func DecodePieceRecords(buf []byte, version int) ([]Piece, error) {
	off := 0
	for off < len(buf) {
		typ := buf[off]
		off++
		switch typ {
		case pieceRecordPad:
			off++
			continue
		case pieceRecordSkip:
			if off+2 > len(buf) {
				return nil, fmt.Errorf("%w: truncated piece record at %d", ErrCorruptInput, off)
			}
			off += 2 + int(binary.LittleEndian.Uint16(buf[off:]))
			continue
		case pieceRecordTable:
		default:
			return nil, fmt.Errorf("%w: unknown type of fast-saved format %d at %d", ErrCorruptInput, typ, off-1)
		}

		if off+4 > len(buf) {
			return nil, fmt.Errorf("%w: truncated piece table header at %d", ErrCorruptInput, off)
		}
		// Word 6/7 store a u16 length followed by two unused bytes.
		length := int64(binary.LittleEndian.Uint16(buf[off:]))
		if version == 8 {
			length = int64(binary.LittleEndian.Uint32(buf[off:]))
		}
		return decodePieceTable(buf[off+4:], length, version)
	}
	return nil, nil
}

func decodePieceTable(table []byte, length int64, version int) ([]Piece, error) {
	n := (length - 4) / 12
	if n <= 0 {
		return nil, nil
	}
	// Character positions: n+1 u32, then n descriptors of 8 bytes with the
	// file position at byte 2.
	need := (n+1)*4 + n*8
	if need > int64(len(table)) {
		return nil, fmt.Errorf("%w: piece table of %d pieces needs %d bytes, %d available",
			ErrCorruptInput, n, need, len(table))
	}
	pieces := make([]Piece, 0, n)
	for i := int64(0); i < n; i++ {
		cpStart := int64(binary.LittleEndian.Uint32(table[i*4:]))
		cpEnd := int64(binary.LittleEndian.Uint32(table[(i+1)*4:]))
		if cpEnd < cpStart {
			return nil, fmt.Errorf("%w: piece %d ends at %d before it starts at %d", ErrCorruptInput, i, cpEnd, cpStart)
		}
		offset := int64(binary.LittleEndian.Uint32(table[(n+1)*4+i*8+2:]))
		p := Piece{Offset: offset, Chars: cpEnd - cpStart}
		if version == 8 {
			if offset&ansiPieceBit == 0 {
				p.Unicode = true
			} else {
				p.Offset = (offset &^ ansiPieceBit) / 2
			}
		}
		pieces = append(pieces, p)
	}
	return pieces, nil
}
