package word

import (
	"errors"
	"testing"

	"github.com/user/wordgo/internal/testdoc"
)

func TestDecodePieceRecords_Word8(t *testing.T) {
	buf := testdoc.PieceTable(8,
		testdoc.Piece{Offset: 0x400, Chars: 10},
		testdoc.Piece{Offset: 0x800, Chars: 4, Unicode: true},
	)
	// Padding and a skipped record in front of the table.
	buf = append([]byte{0x00, 0x00, 0x01, 0x02, 0x00, 0xaa, 0xbb}, buf...)

	pieces, err := DecodePieceRecords(buf, 8)
	if err != nil {
		t.Fatalf("DecodePieceRecords failed: %v", err)
	}
	want := []Piece{
		{Offset: 0x400, Chars: 10},
		{Offset: 0x800, Chars: 4, Unicode: true},
	}
	if len(pieces) != len(want) {
		t.Fatalf("Expected %d pieces, got %+v", len(want), pieces)
	}
	for i := range want {
		if pieces[i] != want[i] {
			t.Errorf("Expected piece %d to be %+v, got %+v", i, want[i], pieces[i])
		}
	}
}

func TestDecodePieceRecords_Word6IsANSI(t *testing.T) {
	buf := testdoc.PieceTable(6, testdoc.Piece{Offset: 0x600, Chars: 7})
	pieces, err := DecodePieceRecords(buf, 6)
	if err != nil {
		t.Fatalf("DecodePieceRecords failed: %v", err)
	}
	if len(pieces) != 1 || pieces[0] != (Piece{Offset: 0x600, Chars: 7}) {
		t.Errorf("Expected one ANSI piece at 0x600, got %+v", pieces)
	}
}

func TestDecodePieceRecords_Corrupt(t *testing.T) {
	table := testdoc.PieceTable(8, testdoc.Piece{Offset: 0x400, Chars: 10})
	tests := []struct {
		name string
		buf  []byte
	}{
		{"unknown record type", []byte{0x07, 0x00}},
		{"truncated skip record", []byte{0x01, 0x05}},
		{"truncated table header", []byte{0x02, 0x10}},
		{"truncated table", table[:len(table)-3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePieceRecords(tt.buf, 8)
			if !errors.Is(err, ErrCorruptInput) {
				t.Errorf("Expected ErrCorruptInput, got %v", err)
			}
		})
	}
}

func TestDecodePieceRecords_Empty(t *testing.T) {
	for _, buf := range [][]byte{nil, {0x01, 0xff, 0xff}} {
		pieces, err := DecodePieceRecords(buf, 8)
		if err != nil || pieces != nil {
			t.Errorf("Expected no pieces and no error for % x, got %+v, %v", buf, pieces, err)
		}
	}
}
