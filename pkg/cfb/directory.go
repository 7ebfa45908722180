package cfb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// EntryType is the kind of a Property Set Storage entry.
type EntryType uint8

const (
	EntryEmpty   EntryType = 0
	EntryStorage EntryType = 1
	EntryStream  EntryType = 2
	EntryRoot    EntryType = 5
)

func (t EntryType) String() string {
	switch t {
	case EntryEmpty:
		return "empty"
	case EntryStorage:
		return "storage"
	case EntryStream:
		return "stream"
	case EntryRoot:
		return "root"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// NoEntry is the link value of a missing sibling or child.
const NoEntry int32 = -1

// maxLevelDepth bounds how deep the directory walk descends.
const maxLevelDepth = 25

// DirEntry is one 128-byte Property Set Storage record.
type DirEntry struct {
	Name       string
	Type       EntryType
	Prev       int32
	Next       int32
	Dir        int32
	StartBlock int32
	Size       int64
	// Level is the tree depth below the root, or -1 when the walk never reached the entry.
	Level int
}

type rawEntry struct {
	Name       [64]byte
	NameLength uint16 // 0x40
	Type       uint8  // 0x42
	Color      uint8
	Prev       int32 // 0x44
	Next       int32 // 0x48
	Dir        int32 // 0x4c
	_          [0x74 - 0x50]byte
	StartBlock int32  // 0x74
	Size       uint32 // 0x78
	_          [4]byte
}

var nameDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func decodeEntryName(raw []byte, length uint16) string {
	n := int(length)
	if n > len(raw) {
		n = len(raw)
	}
	n &^= 1
	if n == 0 {
		return ""
	}
	name, err := nameDecoder.NewDecoder().Bytes(raw[:n])
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(name), "\x00")
}

// parseDirectory splits the root stream into entries and validates their links.
func parseDirectory(raw []byte) ([]DirEntry, error) {
	count := len(raw) / PropertyEntrySize
	entries := make([]DirEntry, count)
	for i := range entries {
		var re rawEntry
		chunk := raw[i*PropertyEntrySize : (i+1)*PropertyEntrySize]
		if err := binary.Read(bytes.NewReader(chunk), binary.LittleEndian, &re); err != nil {
			return nil, fmt.Errorf("failed to parse directory entry %d: %w", i, err)
		}
		for _, link := range []int32{re.Prev, re.Next, re.Dir} {
			if link < NoEntry || int(link) >= count {
				return nil, fmt.Errorf("%w: Property Set Storage entry %d links to %d of %d",
					ErrCorruptContainer, i, link, count)
			}
		}
		entries[i] = DirEntry{
			Name:       decodeEntryName(re.Name[:], re.NameLength),
			Type:       EntryType(re.Type),
			Prev:       re.Prev,
			Next:       re.Next,
			Dir:        re.Dir,
			StartBlock: re.StartBlock,
			Size:       int64(re.Size),
		}
	}
	return entries, nil
}

// assignLevels computes the depth of every entry reachable from root.
// The walk is a pre-order traversal (child, next, previous) that enters a
// node only when it arrives at a shallower level than recorded and never
// descends more than maxLevelDepth steps, so cyclic trees terminate and
// keep the first level that reached each entry.
func assignLevels(entries []DirEntry, root int) {
	type visit struct {
		node  int32
		level int
		depth int
	}
	for i := range entries {
		entries[i].Level = math.MaxInt
	}
	stack := []visit{{node: int32(root), level: 0, depth: 0}}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v.depth > maxLevelDepth {
			continue
		}
		e := &entries[v.node]
		if e.Level <= v.level {
			continue
		}
		e.Level = v.level
		if e.Prev != NoEntry {
			stack = append(stack, visit{e.Prev, v.level, v.depth + 1})
		}
		if e.Next != NoEntry {
			stack = append(stack, visit{e.Next, v.level, v.depth + 1})
		}
		if e.Dir != NoEntry {
			stack = append(stack, visit{e.Dir, v.level + 1, v.depth + 1})
		}
	}
	for i := range entries {
		if entries[i].Level == math.MaxInt {
			entries[i].Level = -1
		}
	}
}

func findRoot(entries []DirEntry) (int, error) {
	for i, e := range entries {
		if e.Type == EntryRoot {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no root entry in the Property Set Storage", ErrCorruptContainer)
}

// StreamSet holds the streams a Word document is made of.
type StreamSet struct {
	WordDocument StreamDescriptor
	Data         StreamDescriptor
	Table0       StreamDescriptor
	Table1       StreamDescriptor
}

// findStreams picks the top level streams by name. The first match wins.
func findStreams(entries []DirEntry) (StreamSet, error) {
	var set StreamSet
	var word, excel bool
	for _, e := range entries {
		if e.Level != 1 || e.Type != EntryStream || e.Name == "" || e.Size <= 0 {
			continue
		}
		desc := StreamDescriptor{StartBlock: e.StartBlock, Size: e.Size}
		switch {
		case e.Name == "WordDocument" && set.WordDocument.Absent():
			set.WordDocument = desc
			word = true
		case e.Name == "Data" && set.Data.Absent():
			set.Data = desc
		case e.Name == "0Table" && set.Table0.Absent():
			set.Table0 = desc
		case e.Name == "1Table" && set.Table1.Absent():
			set.Table1 = desc
		case e.Name == "Book" || e.Name == "Workbook":
			excel = true
		}
	}
	switch {
	case word:
		return set, nil
	case excel:
		return set, ErrExcelFile
	default:
		return set, ErrNotWordDocument
	}
}
