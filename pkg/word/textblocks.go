package word

import (
	"fmt"

	"github.com/user/wordgo/pkg/cfb"
)

// TextList identifies one of the lists the text is split into.
type TextList int

const (
	ListText TextList = iota
	ListFootnote
	ListUnused1
	ListEndnote
	ListUnused2
	listCount
)

func (l TextList) String() string {
	switch l {
	case ListText:
		return "text"
	case ListFootnote:
		return "footnote"
	case ListUnused1:
		return "unused1"
	case ListEndnote:
		return "endnote"
	case ListUnused2:
		return "unused2"
	default:
		return fmt.Sprintf("TextList(%d)", int(l))
	}
}

// TextBlock is a contiguous run of text bytes in the file. TextOffset is
// the position of the run inside the owning stream; Length is in bytes.
type TextBlock struct {
	FileOffset int64
	TextOffset int64
	Length     int
	Unicode    bool
}

// Chars returns the number of characters the block holds.
func (b TextBlock) Chars() int {
	if b.Unicode {
		return b.Length / 2
	}
	return b.Length
}

// TextBlockList is an ordered list of text blocks.
type TextBlockList struct {
	blocks []TextBlock
}

// Add appends b, merging it into the last block when both the file and
// the text positions continue it and the encodings match.
func (l *TextBlockList) Add(b TextBlock) error {
	if b.FileOffset < 0 || b.TextOffset < 0 || b.Length <= 0 {
		return fmt.Errorf("%w: text block at %d with length %d", ErrCorruptInput, b.FileOffset, b.Length)
	}
	if b.Unicode && b.Length%2 != 0 {
		return fmt.Errorf("%w: unicode text block at %d has odd length %d", ErrCorruptInput, b.FileOffset, b.Length)
	}
	if n := len(l.blocks); n > 0 {
		last := &l.blocks[n-1]
		if last.FileOffset+int64(last.Length) == b.FileOffset &&
			last.TextOffset+int64(last.Length) == b.TextOffset &&
			last.Unicode == b.Unicode {
			last.Length += b.Length
			return nil
		}
	}
	l.blocks = append(l.blocks, b)
	return nil
}

// Blocks returns a copy of the blocks.
func (l *TextBlockList) Blocks() []TextBlock {
	return append([]TextBlock(nil), l.blocks...)
}

// Len returns the number of blocks.
func (l *TextBlockList) Len() int { return len(l.blocks) }

// Chars returns the total number of characters in the list.
func (l *TextBlockList) Chars() int64 {
	var n int64
	for _, b := range l.blocks {
		n += int64(b.Chars())
	}
	return n
}

// AddTextBlocks maps chars characters that start firstOffset bytes into a
// stream onto file offsets, one block per container block touched. It
// fails when the chain of the stream ends first.
func (l *TextBlockList) AddTextBlocks(c *cfb.Container, stream cfb.StreamDescriptor, firstOffset int64, chars int64, unicode bool) error {
	if firstOffset < 0 || chars < 0 {
		return fmt.Errorf("%w: text run of %d characters at %d", ErrCorruptInput, chars, firstOffset)
	}
	toGo := chars
	if unicode {
		toGo *= 2
	}
	textOffset := firstOffset
	err := walkChain(c, stream, firstOffset, toGo, func(fileOffset int64, n int) error {
		if err := l.Add(TextBlock{FileOffset: fileOffset, TextOffset: textOffset, Length: n, Unicode: unicode}); err != nil {
			return err
		}
		textOffset += int64(n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to map %d text characters at %d: %w", chars, firstOffset, err)
	}
	return nil
}

// walkChain visits the file ranges of the stream span [offset, offset+length).
// A negative length walks to the end of the chain.
func walkChain(c *cfb.Container, stream cfb.StreamDescriptor, offset, length int64, visit func(fileOffset int64, n int) error) error {
	depot, blockSize := c.SBD, cfb.SmallBlockSize
	if stream.UsesBBD() {
		depot, blockSize = c.BBD, cfb.BigBlockSize
	}
	toEnd := length < 0
	toGo := length
	steps := 0
	for idx := stream.StartBlock; idx != cfb.EndOfChain && (toEnd || toGo > 0); steps++ {
		if idx < 0 || int(idx) >= len(depot) {
			return fmt.Errorf("%w: block index %d outside [0, %d)", cfb.ErrCorruptDepot, idx, len(depot))
		}
		if steps > len(depot) {
			return fmt.Errorf("%w: chain from block %d does not terminate", cfb.ErrCorruptDepot, stream.StartBlock)
		}
		if offset >= int64(blockSize) {
			offset -= int64(blockSize)
			idx = depot[idx]
			continue
		}
		pos, err := c.BlockOffset(idx, blockSize)
		if err != nil {
			return err
		}
		n := int64(blockSize) - offset
		if !toEnd && toGo < n {
			n = toGo
		}
		if err := visit(pos+offset, int(n)); err != nil {
			return err
		}
		offset = 0
		if !toEnd {
			toGo -= n
		}
		idx = depot[idx]
	}
	if !toEnd && toGo != 0 {
		return fmt.Errorf("%w: chain ended %d bytes short", cfb.ErrCorruptDepot, toGo)
	}
	return nil
}

// TextLists holds the text split into its five lists.
type TextLists [listCount]TextBlockList

// Split cuts the blocks into the text, footnote, unused1, endnote and
// unused2 lists. The lengths are in characters; a block that straddles a
// boundary is cut in two. Blocks beyond the last list are discarded. When
// mustExtend is set every block but the last of each list is rounded up to
// a multiple of the big block size.
func (l *TextBlockList) Split(text, foot, unused1, end, unused2 int64, mustExtend bool) TextLists {
	lengths := [listCount]int64{text, foot, unused1, end, unused2}
	var out TextLists

	rest := append([]TextBlock(nil), l.blocks...)
	for list, want := range lengths {
		if want <= 0 {
			// An empty list hands everything to the next one.
			continue
		}
		toGo := want
		tooFar := int64(0)
		cut := -1
		for i, b := range rest {
			toGo -= int64(b.Chars())
			if toGo < 0 {
				tooFar = -toGo
				if b.Unicode {
					tooFar *= 2
				}
			}
			if toGo <= 0 {
				cut = i
				break
			}
		}
		switch {
		case cut < 0:
			out[list].blocks = rest
			rest = nil
		case toGo == 0:
			out[list].blocks = rest[:cut+1:cut+1]
			rest = rest[cut+1:]
		default:
			b := rest[cut]
			keep := int64(b.Length) - tooFar
			head := b
			head.Length = int(keep)
			tail := TextBlock{
				FileOffset: b.FileOffset + keep,
				TextOffset: b.TextOffset + keep,
				Length:     int(tooFar),
				Unicode:    b.Unicode,
			}
			out[list].blocks = append(append([]TextBlock(nil), rest[:cut]...), head)
			rest = append([]TextBlock{tail}, rest[cut+1:]...)
		}
	}

	if mustExtend {
		for i := range out {
			blocks := out[i].blocks
			for j := 0; j < len(blocks)-1; j++ {
				if blocks[j].Length%cfb.BigBlockSize != 0 {
					blocks[j].Length = (blocks[j].Length/cfb.BigBlockSize + 1) * cfb.BigBlockSize
				}
			}
		}
	}
	return out
}

// List returns the blocks of one list.
func (t *TextLists) List(list TextList) *TextBlockList {
	if list < 0 || list >= listCount {
		return &TextBlockList{}
	}
	return &t[list]
}

// TextOffsetToFileOffset translates a position in the text stream to a file
// offset. Positions inside the header stories map to the start of the next
// non-empty list; anything after the endnotes yields -1.
func (t *TextLists) TextOffsetToFileOffset(textOffset int64) int64 {
	startOfList := false
	for list := range t {
		for _, b := range t[list].blocks {
			if startOfList {
				if TextList(list) >= ListUnused2 {
					return -1
				}
				return b.FileOffset
			}
			if textOffset < b.TextOffset || textOffset >= b.TextOffset+int64(b.Length) {
				continue
			}
			switch TextList(list) {
			case ListText, ListFootnote, ListEndnote:
				return b.FileOffset + textOffset - b.TextOffset
			case ListUnused1:
				startOfList = true
			default:
				return -1
			}
			break
		}
	}
	return -1
}

// SeqNumber returns the position of fileOffset within the main text, counted
// in bytes, or -1 when the offset is not part of the main text.
func (t *TextLists) SeqNumber(fileOffset int64) int64 {
	if fileOffset < 0 {
		return -1
	}
	var seq int64
	for _, b := range t[ListText].blocks {
		if fileOffset >= b.FileOffset && fileOffset < b.FileOffset+int64(b.Length) {
			return seq + fileOffset - b.FileOffset
		}
		seq += int64(b.Length)
	}
	return -1
}
