package cfb

import (
	"encoding/binary"
	"fmt"
)

const (
	// EndOfChain terminates a block chain.
	EndOfChain int32 = -2
	// Unused marks a free depot slot.
	Unused int32 = -1
)

// Depot is a flat block allocation table: entry i holds the block that
// follows block i in its chain.
type Depot []int32

// Next returns the successor of idx, failing when idx lies outside the depot.
func (d Depot) Next(idx int32) (int32, error) {
	if idx < 0 || int(idx) >= len(d) {
		return 0, fmt.Errorf("%w: block index %d outside [0, %d)", ErrCorruptDepot, idx, len(d))
	}
	return d[idx], nil
}

// Chain returns the block indices of the chain starting at start.
// A chain longer than the depot must revisit a block and is reported as corrupt.
func (d Depot) Chain(start int32) ([]int32, error) {
	var blocks []int32
	for idx := start; idx != EndOfChain; {
		if idx < 0 || int(idx) >= len(d) {
			return nil, fmt.Errorf("%w: block index %d outside [0, %d)", ErrCorruptDepot, idx, len(d))
		}
		if len(blocks) >= len(d) {
			return nil, fmt.Errorf("%w: chain from block %d does not terminate", ErrCorruptDepot, start)
		}
		blocks = append(blocks, idx)
		idx = d[idx]
	}
	return blocks, nil
}

// readIndexBlock decodes up to max depot entries from the big block at offset.
func readIndexBlock(src ByteSource, offset int64, max int) ([]int32, error) {
	raw, err := ReadBytes(src, offset, BigBlockSize)
	if err != nil {
		return nil, err
	}
	n := min(max, indicesPerBlock)
	entries := make([]int32, n)
	for i := range entries {
		entries[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return entries, nil
}

// BuildBBD concatenates the index blocks named in the header into the Big
// Block Depot. The depot has one entry per big block in the file.
func BuildBBD(src ByteSource, h *Header) (Depot, error) {
	maxBlock := src.Size()/BigBlockSize - 2
	if maxBlock < 1 {
		return nil, fmt.Errorf("%w: file of %d bytes holds no blocks", ErrCorruptContainer, src.Size())
	}
	if h.NumBBDBlocks > MaxInlineBBDBlocks {
		if src.Size() > MaxInlineBBDBlocks*indicesPerBlock*BigBlockSize {
			return nil, fmt.Errorf("%w: %d BBD blocks", ErrTooLarge, h.NumBBDBlocks)
		}
		return nil, fmt.Errorf("%w: %d BBD blocks in a file of %d bytes",
			ErrCorruptContainer, h.NumBBDBlocks, src.Size())
	}
	if h.NumBBDBlocks < 0 {
		return nil, fmt.Errorf("%w: negative BBD block count %d", ErrCorruptContainer, h.NumBBDBlocks)
	}

	bbdLen := int(maxBlock + 1)
	depot := make(Depot, 0, bbdLen)
	for i := 0; i < int(h.NumBBDBlocks) && len(depot) < bbdLen; i++ {
		offset := (int64(h.BBDIndex[i]) + 1) * BigBlockSize
		if h.BBDIndex[i] < 0 {
			return nil, fmt.Errorf("%w: BBD index block %d is %d", ErrCorruptContainer, i, h.BBDIndex[i])
		}
		entries, err := readIndexBlock(src, offset, bbdLen-len(depot))
		if err != nil {
			return nil, fmt.Errorf("failed to read BBD block %d: %w", i, err)
		}
		depot = append(depot, entries...)
	}
	if len(depot) != bbdLen {
		return nil, fmt.Errorf("%w: BBD holds %d of %d entries", ErrCorruptContainer, len(depot), bbdLen)
	}
	return depot, nil
}

// BuildSBD reads the Small Block Depot, whose index blocks form a BBD chain
// from start. The depot covers sbdLen small blocks.
func BuildSBD(src ByteSource, bbd Depot, start int32, sbdLen int) (Depot, error) {
	if sbdLen <= 0 {
		return Depot{}, nil
	}
	blocks, err := bbd.Chain(start)
	if err != nil {
		return nil, fmt.Errorf("failed to follow SBD chain: %w", err)
	}
	depot := make(Depot, 0, sbdLen)
	for _, idx := range blocks {
		if len(depot) >= sbdLen {
			break
		}
		entries, err := readIndexBlock(src, (int64(idx)+1)*BigBlockSize, sbdLen-len(depot))
		if err != nil {
			return nil, fmt.Errorf("failed to read SBD block %d: %w", idx, err)
		}
		depot = append(depot, entries...)
	}
	if len(depot) != sbdLen {
		return nil, fmt.Errorf("%w: SBD holds %d of %d entries", ErrCorruptContainer, len(depot), sbdLen)
	}
	return depot, nil
}
