// Package testdoc builds synthetic OLE2 compound files and Word streams for tests.
package testdoc

import (
	"encoding/binary"
	"unicode/utf16"
)

const (
	blockSize      = 512
	smallBlockSize = 64
	miniCutoff     = 4096
	entrySize      = 128

	endOfChain  = -2
	unused      = -1
	depotMarker = -3
)

// Stream is a named stream placed at the top level of the container.
type Stream struct {
	Name string
	Data []byte
}

// Image is a built compound file plus the positions tests need to patch it.
type Image struct {
	Bytes []byte
	// DirOffset is the file offset of directory entry 0 (the root).
	DirOffset int64
	// DirStart is the first block of the directory.
	DirStart int32
	// BBDBlocks is the number of BBD index blocks.
	BBDBlocks int
	// Start maps a stream name to its first block (big or small).
	Start map[string]int32
	// Offset maps a big stream name to the file offset of its first byte.
	Offset map[string]int64
}

// Build lays out the header, BBD, directory, SBD, mini stream and big
// streams in that order. Streams of MinSizeForBBD bytes or more get
// consecutive big blocks, smaller ones consecutive small blocks.
func Build(streams ...Stream) *Image {
	type placed struct {
		big    bool
		start  int32
		blocks int
	}
	layout := make([]placed, len(streams))

	smallTotal := 0
	for i, s := range streams {
		if len(s.Data) == 0 || len(s.Data) >= miniCutoff {
			continue
		}
		n := ceilDiv(len(s.Data), smallBlockSize)
		layout[i] = placed{start: int32(smallTotal), blocks: n}
		smallTotal += n
	}
	miniBlocks := ceilDiv(smallTotal*smallBlockSize, blockSize)
	sbdBlocks := ceilDiv(smallTotal, blockSize/4)
	dirBlocks := ceilDiv(len(streams)+1, blockSize/entrySize)

	dataBlocks := dirBlocks + sbdBlocks + miniBlocks
	for _, s := range streams {
		if len(s.Data) >= miniCutoff {
			dataBlocks += ceilDiv(len(s.Data), blockSize)
		}
	}
	bbdBlocks := 1
	for bbdBlocks*(blockSize/4) < bbdBlocks+dataBlocks {
		bbdBlocks++
	}
	total := bbdBlocks + dataBlocks

	img := &Image{
		Bytes:     make([]byte, (total+1)*blockSize),
		BBDBlocks: bbdBlocks,
		Start:     make(map[string]int32),
		Offset:    make(map[string]int64),
	}
	bbd := make([]int32, bbdBlocks*(blockSize/4))
	for i := range bbd {
		bbd[i] = unused
	}
	next := 0
	alloc := func(n int) int32 {
		start := next
		for i := 0; i < n; i++ {
			if i == n-1 {
				bbd[start+i] = endOfChain
			} else {
				bbd[start+i] = int32(start + i + 1)
			}
		}
		next += n
		return int32(start)
	}
	for i := 0; i < bbdBlocks; i++ {
		bbd[i] = depotMarker
	}
	next = bbdBlocks

	img.DirStart = alloc(dirBlocks)
	img.DirOffset = blockOffset(img.DirStart)
	sbdStart := int32(endOfChain)
	if sbdBlocks > 0 {
		sbdStart = alloc(sbdBlocks)
	}
	miniStart := int32(endOfChain)
	if miniBlocks > 0 {
		miniStart = alloc(miniBlocks)
	}
	for i, s := range streams {
		if len(s.Data) >= miniCutoff {
			n := ceilDiv(len(s.Data), blockSize)
			layout[i] = placed{big: true, start: alloc(n), blocks: n}
		}
	}

	// Header.
	b := img.Bytes
	copy(b, []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1})
	PutU16(b, 0x18, 0x3e)
	PutU16(b, 0x1a, 3)
	PutU16(b, 0x1c, 0xfffe)
	PutU16(b, 0x1e, 9)
	PutU16(b, 0x20, 6)
	PutI32(b, 0x2c, int32(bbdBlocks))
	PutI32(b, 0x30, img.DirStart)
	PutI32(b, 0x38, miniCutoff)
	PutI32(b, 0x3c, sbdStart)
	PutI32(b, 0x40, int32(sbdBlocks))
	PutI32(b, 0x44, endOfChain)
	for i := 0; i < 109; i++ {
		v := int32(unused)
		if i < bbdBlocks {
			v = int32(i)
		}
		PutI32(b, 0x4c+4*i, v)
	}

	// BBD.
	for i, v := range bbd {
		PutI32(b, int(blockOffset(0))+4*i, v)
	}

	// SBD and mini stream.
	if sbdBlocks > 0 {
		sbdOff := int(blockOffset(sbdStart))
		for i := 0; i < sbdBlocks*(blockSize/4); i++ {
			PutI32(b, sbdOff+4*i, unused)
		}
		for i, s := range streams {
			p := layout[i]
			if p.big || p.blocks == 0 {
				continue
			}
			for j := 0; j < p.blocks; j++ {
				v := p.start + int32(j) + 1
				if j == p.blocks-1 {
					v = endOfChain
				}
				PutI32(b, sbdOff+4*(int(p.start)+j), v)
			}
			copy(b[blockOffset(miniStart)+int64(p.start)*smallBlockSize:], s.Data)
			img.Start[s.Name] = p.start
		}
	}

	// Big streams.
	for i, s := range streams {
		p := layout[i]
		if !p.big {
			continue
		}
		copy(b[blockOffset(p.start):], s.Data)
		img.Start[s.Name] = p.start
		img.Offset[s.Name] = blockOffset(p.start)
	}

	// Directory: the root's child is entry 1, siblings chain through Next.
	for i := 0; i < dirBlocks*(blockSize/entrySize); i++ {
		off := int(img.DirOffset) + i*entrySize
		PutI32(b, off+0x44, -1)
		PutI32(b, off+0x48, -1)
		PutI32(b, off+0x4c, -1)
	}
	rootDir := int32(-1)
	if len(streams) > 0 {
		rootDir = 1
	}
	writeEntry(b, int(img.DirOffset), "Root Entry", 5, -1, -1, rootDir, miniStart, uint32(smallTotal*smallBlockSize))
	for i, s := range streams {
		nextSibling := int32(-1)
		if i+1 < len(streams) {
			nextSibling = int32(i + 2)
		}
		start := int32(endOfChain)
		if layout[i].blocks > 0 {
			start = layout[i].start
		}
		writeEntry(b, int(img.DirOffset)+(i+1)*entrySize, s.Name, 2, -1, nextSibling, -1, start, uint32(len(s.Data)))
	}
	return img
}

// EntryOffset returns the file offset of directory entry i.
func (img *Image) EntryOffset(i int) int64 {
	return img.DirOffset + int64(i)*entrySize
}

func writeEntry(b []byte, off int, name string, typ byte, prev, next, dir, start int32, size uint32) {
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		PutU16(b, off+2*i, u)
	}
	PutU16(b, off+0x40, uint16((len(units)+1)*2))
	b[off+0x42] = typ
	b[off+0x43] = 1
	PutI32(b, off+0x44, prev)
	PutI32(b, off+0x48, next)
	PutI32(b, off+0x4c, dir)
	PutI32(b, off+0x74, start)
	binary.LittleEndian.PutUint32(b[off+0x78:], size)
}

func blockOffset(idx int32) int64 {
	return (int64(idx) + 1) * blockSize
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// PutU16 stores v little endian at off.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:], v)
}

// PutI32 stores v little endian at off.
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

// PutU32 stores v little endian at off.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}
