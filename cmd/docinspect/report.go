package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"
	"github.com/zeebo/blake3"

	"github.com/user/wordgo/pkg/cfb"
	"github.com/user/wordgo/pkg/word"
)

// maxDigestSize bounds the streams that are read for their digest.
const maxDigestSize = 64 << 20

// Report is the structure of one document.
type Report struct {
	File      string        `yaml:"file" cbor:"file"`
	Size      int64         `yaml:"size" cbor:"size"`
	Container ContainerInfo `yaml:"container" cbor:"container"`
	Entries   []EntryInfo   `yaml:"entries" cbor:"entries"`
	Verify    *VerifyResult `yaml:"verify,omitempty" cbor:"verify,omitempty"`
	Document  *DocumentInfo `yaml:"document,omitempty" cbor:"document,omitempty"`
	Errors    []string      `yaml:"errors,omitempty" cbor:"errors,omitempty"`
}

// ContainerInfo summarizes the compound file header and depots.
type ContainerInfo struct {
	BBDBlocks      int32 `yaml:"bbd_blocks" cbor:"bbd_blocks"`
	RootStartBlock int32 `yaml:"root_start_block" cbor:"root_start_block"`
	SBDStartBlock  int32 `yaml:"sbd_start_block" cbor:"sbd_start_block"`
	BBDEntries     int   `yaml:"bbd_entries" cbor:"bbd_entries"`
	SBDEntries     int   `yaml:"sbd_entries" cbor:"sbd_entries"`
	SmallBlocks    int   `yaml:"small_block_list" cbor:"small_block_list"`
}

// EntryInfo is one directory entry.
type EntryInfo struct {
	Index      int    `yaml:"index" cbor:"index"`
	Name       string `yaml:"name" cbor:"name"`
	Type       string `yaml:"type" cbor:"type"`
	Level      int    `yaml:"level" cbor:"level"`
	StartBlock int32  `yaml:"start_block" cbor:"start_block"`
	Size       int64  `yaml:"size" cbor:"size"`
	Digest     string `yaml:"blake3,omitempty" cbor:"blake3,omitempty"`
}

// VerifyResult compares the directory with an independent reader.
type VerifyResult struct {
	Streams    int      `yaml:"streams" cbor:"streams"`
	Mismatches []string `yaml:"mismatches,omitempty" cbor:"mismatches,omitempty"`
}

// DocumentInfo describes the Word layer of the file.
type DocumentInfo struct {
	Version      int              `yaml:"version" cbor:"version"`
	Mac          bool             `yaml:"mac" cbor:"mac"`
	State        string           `yaml:"state" cbor:"state"`
	FIB          FIBInfo          `yaml:"fib" cbor:"fib"`
	Lists        []ListInfo       `yaml:"lists" cbor:"lists"`
	DataBlocks   []word.DataBlock `yaml:"data_blocks,omitempty" cbor:"data_blocks,omitempty"`
	Pieces       []word.Piece     `yaml:"pieces,omitempty" cbor:"pieces,omitempty"`
	Fonts        []string         `yaml:"font_names,omitempty" cbor:"font_names,omitempty"`
	TabWidth     int64            `yaml:"default_tab_width" cbor:"default_tab_width"`
	Events       []EventInfo      `yaml:"events,omitempty" cbor:"events,omitempty"`
	EventsCapped bool             `yaml:"events_capped,omitempty" cbor:"events_capped,omitempty"`
}

// FIBInfo is the decoded File Information Block prefix.
type FIBInfo struct {
	Ident       string  `yaml:"ident" cbor:"ident"`
	Fib         uint16  `yaml:"fib" cbor:"fib"`
	Charset     uint16  `yaml:"chse" cbor:"chse"`
	BeginOfText int64   `yaml:"begin_of_text" cbor:"begin_of_text"`
	FastSaved   bool    `yaml:"fast_saved" cbor:"fast_saved"`
	HasImages   bool    `yaml:"has_images" cbor:"has_images"`
	Table1      bool    `yaml:"table1" cbor:"table1"`
	Lengths     []int64 `yaml:"story_lengths" cbor:"story_lengths"`
}

// ListInfo is one of the five text lists.
type ListInfo struct {
	Name   string `yaml:"name" cbor:"name"`
	Blocks int    `yaml:"blocks" cbor:"blocks"`
	Chars  int64  `yaml:"chars" cbor:"chars"`
	Output int    `yaml:"output_chars" cbor:"output_chars"`
}

// EventInfo is a formatting change on the output character stream.
type EventInfo struct {
	List       string `yaml:"list" cbor:"list"`
	Kind       string `yaml:"kind" cbor:"kind"`
	FileOffset int64  `yaml:"offset" cbor:"offset"`
	Detail     string `yaml:"detail" cbor:"detail"`
}

var allLists = []word.TextList{
	word.ListText, word.ListFootnote, word.ListUnused1, word.ListEndnote, word.ListUnused2,
}

// inspect builds the report of src. Failures of one layer are recorded in
// the report and end the walk at that layer.
func inspect(name string, src cfb.ByteSource, verify bool, maxEvents int) *Report {
	r := &Report{File: name, Size: src.Size()}

	c, err := cfb.Open(src)
	if c == nil {
		r.Errors = append(r.Errors, err.Error())
		return r
	}
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
	r.Container = ContainerInfo{
		BBDBlocks:      c.Header.NumBBDBlocks,
		RootStartBlock: c.Header.RootStartBlock,
		SBDStartBlock:  c.Header.SBDStartBlock,
		BBDEntries:     len(c.BBD),
		SBDEntries:     len(c.SBD),
		SmallBlocks:    len(c.SmallBlockList()),
	}
	r.Entries = entries(c)
	if verify {
		r.Verify = verifyEntries(src, r.Entries)
	}
	if err != nil {
		return r
	}

	doc, err := word.OpenSource(src,
		word.WithOutlineFonts(true),
		word.WithImageLevel(word.ImagesPlaceholder),
	)
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
		return r
	}
	defer doc.Close()
	r.Document = describe(doc, maxEvents)
	return r
}

func entries(c *cfb.Container) []EntryInfo {
	var out []EntryInfo
	for i, e := range c.Entries() {
		if e.Type == cfb.EntryEmpty {
			continue
		}
		info := EntryInfo{
			Index:      i,
			Name:       e.Name,
			Type:       e.Type.String(),
			Level:      e.Level,
			StartBlock: e.StartBlock,
			Size:       e.Size,
		}
		if e.Type == cfb.EntryStream && e.Size > 0 && e.Size <= maxDigestSize {
			data, err := c.ReadStream(cfb.StreamDescriptor{StartBlock: e.StartBlock, Size: e.Size}, 0, int(e.Size))
			if err == nil {
				sum := blake3.Sum256(data)
				info.Digest = hex.EncodeToString(sum[:])
			}
		}
		out = append(out, info)
	}
	return out
}

// verifyEntries lists the streams with mscfb and compares their sizes with
// the native directory.
func verifyEntries(src cfb.ByteSource, native []EntryInfo) *VerifyResult {
	v := &VerifyResult{}
	reader, err := mscfb.New(io.NewSectionReader(src, 0, src.Size()))
	if err != nil {
		v.Mismatches = append(v.Mismatches, fmt.Sprintf("mscfb: %v", err))
		return v
	}
	sizes := make(map[string]int64)
	for {
		entry, err := reader.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				v.Mismatches = append(v.Mismatches, fmt.Sprintf("mscfb: %v", err))
			}
			break
		}
		sizes[entry.Name] = entry.Size
	}
	for _, e := range native {
		if e.Type != cfb.EntryStream.String() {
			continue
		}
		v.Streams++
		size, ok := sizes[e.Name]
		switch {
		case !ok:
			v.Mismatches = append(v.Mismatches, fmt.Sprintf("%s: not listed by mscfb", e.Name))
		case size != e.Size:
			v.Mismatches = append(v.Mismatches, fmt.Sprintf("%s: size %d, mscfb %d", e.Name, e.Size, size))
		}
	}
	return v
}

func describe(doc *word.Document, maxEvents int) *DocumentInfo {
	fib := doc.FIB()
	info := &DocumentInfo{
		Version: doc.Version(),
		Mac:     doc.IsMac(),
		State:   doc.State().String(),
		FIB: FIBInfo{
			Ident:       fmt.Sprintf("0x%04x", fib.Ident),
			Fib:         fib.Fib,
			Charset:     fib.Chse,
			BeginOfText: fib.BeginOfText,
			FastSaved:   fib.FastSaved(),
			HasImages:   fib.HasImages(),
			Table1:      fib.UsesTable1(),
			Lengths:     fib.Lengths[:],
		},
		DataBlocks: doc.DataBlocks(),
		Pieces:     doc.Pieces(),
		TabWidth:   doc.DefaultTabWidth(),
	}
	for _, f := range doc.FontNames() {
		info.Fonts = append(info.Fonts, f.Name)
	}

	for _, list := range allLists {
		blocks := doc.TextBlocks(list)
		li := ListInfo{Name: list.String(), Blocks: len(blocks)}
		for _, b := range blocks {
			li.Chars += int64(b.Chars())
		}
		for {
			c, ok := doc.NextTranslatedChar(list)
			if !ok {
				break
			}
			li.Output++
			for _, e := range c.Events {
				if len(info.Events) >= maxEvents {
					info.EventsCapped = true
					continue
				}
				info.Events = append(info.Events, EventInfo{
					List:       list.String(),
					Kind:       e.Kind.String(),
					FileOffset: e.FileOffset,
					Detail:     eventDetail(e),
				})
			}
		}
		info.Lists = append(info.Lists, li)
	}
	return info
}

func eventDetail(e word.Event) string {
	switch e.Kind {
	case word.EventFont:
		return fmt.Sprintf("font %d size %d color %d style %#x", e.Font.Number, e.Font.Size, e.Font.Color, uint16(e.Font.Style))
	case word.EventStyle:
		return fmt.Sprintf("style %d %s indent %d/%d list %d level %d",
			e.Style.Style, e.Style.Alignment, e.Style.LeftIndent, e.Style.RightIndent, e.Style.ListType, e.Style.ListLevel)
	case word.EventRowStart, word.EventRowEnd:
		return fmt.Sprintf("row %d-%d columns %v", e.Row.Start, e.Row.End, e.Row.ColumnWidths)
	case word.EventPicture:
		return fmt.Sprintf("picture data at %d", e.Picture.PictureFileOffset)
	default:
		return ""
	}
}
