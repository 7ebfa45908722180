package cfb

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/wordgo/internal/testdoc"
)

func pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7) + seed
	}
	return b
}

// Helper to write a built image to a temporary file
func createTempDocFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.doc")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestOpen_StreamsAndReads(t *testing.T) {
	word := pattern(5000, 1)
	table := pattern(300, 2)
	data := pattern(100, 3)
	img := testdoc.Build(
		testdoc.Stream{Name: "WordDocument", Data: word},
		testdoc.Stream{Name: "1Table", Data: table},
		testdoc.Stream{Name: "Data", Data: data},
	)

	src, err := OpenFile(createTempDocFile(t, img.Bytes))
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer src.Close()

	c, err := Open(src)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if c.Streams.WordDocument.Size != int64(len(word)) {
		t.Errorf("Expected WordDocument size %d, got %d", len(word), c.Streams.WordDocument.Size)
	}
	if c.Streams.Table1.Size != int64(len(table)) {
		t.Errorf("Expected 1Table size %d, got %d", len(table), c.Streams.Table1.Size)
	}
	if !c.Streams.Table0.Absent() {
		t.Errorf("Expected 0Table to be absent, got %+v", c.Streams.Table0)
	}

	got, err := c.ReadStream(c.Streams.WordDocument, 1020, 10)
	if err != nil {
		t.Fatalf("ReadStream(WordDocument) failed: %v", err)
	}
	if !bytes.Equal(got, word[1020:1030]) {
		t.Errorf("Expected % x, got % x", word[1020:1030], got)
	}

	// Crosses a small block boundary.
	got, err = c.ReadStream(c.Streams.Table1, 60, 10)
	if err != nil {
		t.Fatalf("ReadStream(1Table) failed: %v", err)
	}
	if !bytes.Equal(got, table[60:70]) {
		t.Errorf("Expected % x, got % x", table[60:70], got)
	}

	got, err = c.ReadStream(c.Streams.Data, 0, 100)
	if err != nil {
		t.Fatalf("ReadStream(Data) failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Data stream content mismatch")
	}
}

func TestReadStream_PastChainEnd(t *testing.T) {
	img := testdoc.Build(testdoc.Stream{Name: "WordDocument", Data: pattern(4096, 0)})
	c, err := Open(NewMemorySource(img.Bytes))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_, err = c.ReadStream(c.Streams.WordDocument, 4000, 200)
	if !errors.Is(err, ErrCorruptDepot) {
		t.Errorf("Expected ErrCorruptDepot, got %v", err)
	}
}

func TestDepotChain(t *testing.T) {
	tests := []struct {
		name    string
		depot   Depot
		start   int32
		want    []int32
		corrupt bool
	}{
		{"simple", Depot{1, 2, EndOfChain}, 0, []int32{0, 1, 2}, false},
		{"empty", Depot{EndOfChain}, EndOfChain, nil, false},
		{"cycle", Depot{1, 2, 0}, 0, nil, true},
		{"self loop", Depot{0}, 0, nil, true},
		{"out of range", Depot{1, 7}, 0, nil, true},
		{"unused entry", Depot{Unused}, 0, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.depot.Chain(tt.start)
			if tt.corrupt {
				if !errors.Is(err, ErrCorruptDepot) {
					t.Fatalf("Expected ErrCorruptDepot, got %v (chain %v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Chain failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected chain %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected chain %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestDepotChain_LongCycleTerminates(t *testing.T) {
	depot := make(Depot, 1000)
	for i := range depot {
		depot[i] = int32((i + 1) % len(depot))
	}
	if _, err := depot.Chain(500); !errors.Is(err, ErrCorruptDepot) {
		t.Errorf("Expected ErrCorruptDepot, got %v", err)
	}
}

func TestOpen_TooManyBBDBlocks(t *testing.T) {
	img := testdoc.Build(testdoc.Stream{Name: "WordDocument", Data: pattern(4096, 0)})
	testdoc.PutI32(img.Bytes, 0x2c, 110)

	_, err := Open(NewMemorySource(img.Bytes))
	if !errors.Is(err, ErrCorruptContainer) {
		t.Errorf("Expected ErrCorruptContainer for a small file, got %v", err)
	}
}

// sparseSource reports a large size but only holds the header.
type sparseSource struct {
	head []byte
	size int64
}

func (s *sparseSource) ReadAt(p []byte, off int64) (int, error) {
	for i := range p {
		p[i] = 0
	}
	if off < int64(len(s.head)) {
		copy(p, s.head[off:])
	}
	if off+int64(len(p)) > s.size {
		return 0, io.EOF
	}
	return len(p), nil
}

func (s *sparseSource) Size() int64 { return s.size }

func TestOpen_TooLarge(t *testing.T) {
	img := testdoc.Build(testdoc.Stream{Name: "WordDocument", Data: pattern(4096, 0)})
	testdoc.PutI32(img.Bytes, 0x2c, 110)
	src := &sparseSource{head: img.Bytes[:HeaderSize], size: 110 * 128 * 512}

	_, err := Open(src)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestOpen_NotOLE(t *testing.T) {
	_, err := Open(NewMemorySource(make([]byte, 2048)))
	if !errors.Is(err, ErrNotOLE) {
		t.Errorf("Expected ErrNotOLE, got %v", err)
	}
}

func TestOpen_TooSmall(t *testing.T) {
	img := testdoc.Build(testdoc.Stream{Name: "WordDocument", Data: pattern(4096, 0)})
	_, err := Open(NewMemorySource(img.Bytes[:1024]))
	if !errors.Is(err, ErrCorruptContainer) {
		t.Errorf("Expected ErrCorruptContainer, got %v", err)
	}
}

func TestOpen_ExcelAndMissingWord(t *testing.T) {
	img := testdoc.Build(testdoc.Stream{Name: "Workbook", Data: pattern(5000, 0)})
	c, err := Open(NewMemorySource(img.Bytes))
	if !errors.Is(err, ErrExcelFile) {
		t.Errorf("Expected ErrExcelFile, got %v", err)
	}
	if c == nil {
		t.Errorf("Expected the container to be returned for inspection")
	}

	img = testdoc.Build(testdoc.Stream{Name: "Contents", Data: pattern(100, 0)})
	_, err = Open(NewMemorySource(img.Bytes))
	if !errors.Is(err, ErrNotWordDocument) {
		t.Errorf("Expected ErrNotWordDocument, got %v", err)
	}
}

func TestOpen_LinkOutOfRange(t *testing.T) {
	img := testdoc.Build(testdoc.Stream{Name: "WordDocument", Data: pattern(4096, 0)})
	testdoc.PutI32(img.Bytes, int(img.EntryOffset(1))+0x48, 99)

	_, err := Open(NewMemorySource(img.Bytes))
	if !errors.Is(err, ErrCorruptContainer) {
		t.Errorf("Expected ErrCorruptContainer, got %v", err)
	}
}

func TestOpen_CyclicDirectory(t *testing.T) {
	img := testdoc.Build(
		testdoc.Stream{Name: "WordDocument", Data: pattern(4096, 0)},
		testdoc.Stream{Name: "1Table", Data: pattern(200, 0)},
	)
	// The first child points back at the root, the second back at the first.
	testdoc.PutI32(img.Bytes, int(img.EntryOffset(1))+0x4c, 0)
	testdoc.PutI32(img.Bytes, int(img.EntryOffset(2))+0x48, 1)

	c, err := Open(NewMemorySource(img.Bytes))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	entries := c.Entries()
	for i, want := range []int{0, 1, 1} {
		if entries[i].Level != want {
			t.Errorf("Expected entry %d (%s) at level %d, got %d", i, entries[i].Name, want, entries[i].Level)
		}
	}
	if c.Streams.Table1.Size != 200 {
		t.Errorf("Expected 1Table size 200, got %d", c.Streams.Table1.Size)
	}
}

func TestAssignLevels_FirstReachedLevelWins(t *testing.T) {
	entries := []DirEntry{
		{Type: EntryRoot, Prev: NoEntry, Next: NoEntry, Dir: 1},
		{Type: EntryStorage, Prev: NoEntry, Next: 3, Dir: 2},
		{Type: EntryStream, Prev: NoEntry, Next: NoEntry, Dir: 1}, // back to its parent
		{Type: EntryStream, Prev: NoEntry, Next: NoEntry, Dir: NoEntry},
		{Type: EntryStream, Prev: NoEntry, Next: NoEntry, Dir: NoEntry}, // unreachable
	}
	assignLevels(entries, 0)

	want := []int{0, 1, 2, 1, -1}
	for i := range want {
		if entries[i].Level != want[i] {
			t.Errorf("Expected entry %d at level %d, got %d", i, want[i], entries[i].Level)
		}
	}
}

func TestAssignLevels_DepthCap(t *testing.T) {
	// A sibling chain longer than the depth cap stops at the cap.
	n := 40
	entries := make([]DirEntry, n)
	entries[0] = DirEntry{Type: EntryRoot, Prev: NoEntry, Next: NoEntry, Dir: 1}
	for i := 1; i < n; i++ {
		next := int32(i + 1)
		if i == n-1 {
			next = NoEntry
		}
		entries[i] = DirEntry{Type: EntryStream, Prev: NoEntry, Next: next, Dir: NoEntry}
	}
	assignLevels(entries, 0)

	if entries[maxLevelDepth].Level != 1 {
		t.Errorf("Expected entry %d at level 1, got %d", maxLevelDepth, entries[maxLevelDepth].Level)
	}
	if entries[maxLevelDepth+1].Level != -1 {
		t.Errorf("Expected entry %d to be unreached, got level %d", maxLevelDepth+1, entries[maxLevelDepth+1].Level)
	}
}

func TestReadBytes_Short(t *testing.T) {
	src := NewMemorySource([]byte{1, 2, 3})
	if _, err := ReadBytes(src, 1, 4); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected io.ErrUnexpectedEOF, got %v", err)
	}
	got, err := ReadBytes(src, 1, 2)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(got, []byte{2, 3}) {
		t.Errorf("Expected [2 3], got %v", got)
	}
}

func TestReadSource(t *testing.T) {
	src, err := ReadSource(bytes.NewReader([]byte("abcdef")))
	if err != nil {
		t.Fatalf("ReadSource failed: %v", err)
	}
	if src.Size() != 6 {
		t.Errorf("Expected size 6, got %d", src.Size())
	}
	got, err := ReadBytes(src, 2, 3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if string(got) != "cde" {
		t.Errorf("Expected %q, got %q", "cde", got)
	}
}
