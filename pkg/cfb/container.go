package cfb

import (
	"errors"
	"fmt"
)

// Container is an opened OLE2 compound file: its resolved depots and its
// directory. It does not own the ByteSource.
type Container struct {
	src         ByteSource
	Header      Header
	BBD         Depot
	SBD         Depot
	smallBlocks []int32
	entries     []DirEntry
	Streams     StreamSet
}

// Open resolves the depots and the directory of the compound file in src.
// It fails with ErrNotWordDocument or ErrExcelFile when the container has
// no WordDocument stream; the container is still returned in that case so
// callers can inspect it.
func Open(src ByteSource) (*Container, error) {
	h, err := ReadHeader(src)
	if err != nil {
		return nil, err
	}
	c := &Container{src: src, Header: *h}

	c.BBD, err = BuildBBD(src, h)
	if err != nil {
		return nil, err
	}

	rootBlocks, err := c.BBD.Chain(h.RootStartBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to follow the root list: %w", err)
	}
	if len(rootBlocks) == 0 {
		return nil, fmt.Errorf("%w: no root list found", ErrCorruptContainer)
	}
	raw, err := c.ReadChain(h.RootStartBlock, c.BBD, BigBlockSize, 0, len(rootBlocks)*BigBlockSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read the Property Set Storage: %w", err)
	}
	c.entries, err = parseDirectory(raw)
	if err != nil {
		return nil, err
	}
	rootIdx, err := findRoot(c.entries)
	if err != nil {
		return nil, err
	}
	assignLevels(c.entries, rootIdx)
	root := c.entries[rootIdx]

	c.SBD, err = BuildSBD(src, c.BBD, h.SBDStartBlock, int(root.Size/SmallBlockSize))
	if err != nil {
		return nil, err
	}
	if root.StartBlock != EndOfChain {
		c.smallBlocks, err = c.BBD.Chain(root.StartBlock)
		if err != nil {
			return nil, fmt.Errorf("failed to follow the small block list: %w", err)
		}
	}

	c.Streams, err = findStreams(c.entries)
	if err != nil {
		if errors.Is(err, ErrNotWordDocument) || errors.Is(err, ErrExcelFile) {
			return c, err
		}
		return nil, err
	}
	return c, nil
}

// Source returns the byte source the container reads from.
func (c *Container) Source() ByteSource { return c.src }

// Entries returns a copy of the parsed directory.
func (c *Container) Entries() []DirEntry {
	out := make([]DirEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// SmallBlockList returns the big blocks that hold the small block stream.
func (c *Container) SmallBlockList() []int32 {
	return append([]int32(nil), c.smallBlocks...)
}
