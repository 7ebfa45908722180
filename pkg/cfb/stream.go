package cfb

import "fmt"

// StreamDescriptor locates a stream inside the container.
type StreamDescriptor struct {
	StartBlock int32
	Size       int64
}

// Absent reports whether the stream is missing or empty.
func (s StreamDescriptor) Absent() bool {
	return s.Size <= 0
}

// UsesBBD reports whether the stream lives in big blocks.
func (s StreamDescriptor) UsesBBD() bool {
	return s.Size >= MinSizeForBBD
}

// BlockOffset returns the file offset of block idx for the given block size.
func (c *Container) BlockOffset(idx int32, blockSize int) (int64, error) {
	if idx < 0 {
		return 0, fmt.Errorf("%w: negative block index %d", ErrCorruptDepot, idx)
	}
	switch blockSize {
	case BigBlockSize:
		return (int64(idx) + 1) * BigBlockSize, nil
	case SmallBlockSize:
		big, part := int(idx)/sizeRatio, int64(idx)%sizeRatio
		if big >= len(c.smallBlocks) {
			return 0, fmt.Errorf("%w: small block %d beyond the small block list", ErrCorruptDepot, idx)
		}
		return ((int64(c.smallBlocks[big])+1)*sizeRatio + part) * SmallBlockSize, nil
	default:
		return 0, fmt.Errorf("unsupported block size %d", blockSize)
	}
}

// ReadChain reads length bytes at offset within the chain that starts at
// start, using depot to follow the chain in blocks of blockSize bytes.
func (c *Container) ReadChain(start int32, depot Depot, blockSize int, offset int64, length int) ([]byte, error) {
	if offset < 0 || length < 0 {
		return nil, fmt.Errorf("invalid chain read of %d bytes at offset %d", length, offset)
	}
	out := make([]byte, 0, length)
	toRead := length
	steps := 0
	for idx := start; idx != EndOfChain && toRead > 0; steps++ {
		if idx < 0 || int(idx) >= len(depot) {
			return nil, fmt.Errorf("%w: block index %d outside [0, %d)", ErrCorruptDepot, idx, len(depot))
		}
		if steps >= len(depot) {
			return nil, fmt.Errorf("%w: chain from block %d does not terminate", ErrCorruptDepot, start)
		}
		if offset >= int64(blockSize) {
			offset -= int64(blockSize)
			idx = depot[idx]
			continue
		}
		pos, err := c.BlockOffset(idx, blockSize)
		if err != nil {
			return nil, err
		}
		n := min(blockSize-int(offset), toRead)
		chunk, err := ReadBytes(c.src, pos+offset, n)
		if err != nil {
			return nil, fmt.Errorf("failed to read block %d: %w", idx, err)
		}
		out = append(out, chunk...)
		toRead -= n
		offset = 0
		idx = depot[idx]
	}
	if toRead != 0 {
		return nil, fmt.Errorf("%w: chain from block %d ended %d bytes short", ErrCorruptDepot, start, toRead)
	}
	return out, nil
}

// ReadStream reads a span of a stream. Streams below MinSizeForBBD live in
// small blocks described by the SBD.
func (c *Container) ReadStream(s StreamDescriptor, offset int64, length int) ([]byte, error) {
	if s.Absent() {
		return nil, fmt.Errorf("cannot read from an absent stream")
	}
	if s.UsesBBD() {
		return c.ReadChain(s.StartBlock, c.BBD, BigBlockSize, offset, length)
	}
	return c.ReadChain(s.StartBlock, c.SBD, SmallBlockSize, offset, length)
}
