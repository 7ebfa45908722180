package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/wordgo/internal/testdoc"
	"github.com/user/wordgo/pkg/cfb"
	"github.com/user/wordgo/pkg/word"
)

// reader maps buf as picture data starting at file offset 0.
func reader(t *testing.T, buf []byte) *word.DataReader {
	t.Helper()
	var l word.DataBlockList
	if err := l.Add(word.DataBlock{FileOffset: 0, DataOffset: 0, Length: len(buf)}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return word.NewDataReader(cfb.NewMemorySource(buf), &l)
}

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestExamine_Word8PNG(t *testing.T) {
	data := pngData(t, 3, 2)
	pic := testdoc.Picture8(0xf01e, 0x6e0, 17, data)
	info, q := Examine(reader(t, pic), 0)
	if q != QualityFull {
		t.Fatalf("Expected full information, got %s", q)
	}
	if info.Type != TypePNG {
		t.Errorf("Expected png, got %s", info.Type)
	}
	if info.Position != 68+8+17 || info.Length != len(pic) {
		t.Errorf("Expected position %d and length %d, got %d and %d", 68+8+17, len(pic), info.Position, info.Length)
	}
	if info.Width != 72 || info.Height != 36 {
		t.Errorf("Expected 72x36 points, got %dx%d", info.Width, info.Height)
	}
	if info.ScaleX != 1 || info.ScaleY != 1 {
		t.Errorf("Expected a scale of 1, got %v and %v", info.ScaleX, info.ScaleY)
	}
	if info.PixelWidth != 3 || info.PixelHeight != 2 {
		t.Errorf("Expected 3x2 pixels, got %dx%d", info.PixelWidth, info.PixelHeight)
	}

	_, got, err := Load(reader(t, pic), 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Expected the PNG bytes back")
	}
	content, ext, err := Convert(info, got)
	if err != nil || ext != ".png" || !bytes.Equal(content, data) {
		t.Errorf("Expected the PNG to be kept as is, got %q %v", ext, err)
	}
}

func TestExamine_Word8BlipHeaders(t *testing.T) {
	tests := []struct {
		name     string
		tag      uint16
		instance uint16
		skip     int
		want     Type
		quality  Quality
	}{
		{"emf single", 0xf01a, 0x3d4, 50, TypeEMF, QualityMinimal},
		{"emf double", 0xf01a, 0x3d5, 66, TypeEMF, QualityMinimal},
		{"wmf", 0xf01b, 0x216, 50, TypeWMF, QualityMinimal},
		{"pict", 0xf01c, 0x543, 33, TypePICT, QualityMinimal},
		{"broken jpeg", 0xf01d, 0x46a, 17, TypeJPEG, QualityMinimal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pic := testdoc.Picture8(tt.tag, tt.instance, tt.skip, []byte("not really an image"))
			info, q := Examine(reader(t, pic), 0)
			if q != tt.quality {
				t.Fatalf("Expected %s information, got %s", tt.quality, q)
			}
			if info.Type != tt.want || info.Position != 68+8+tt.skip {
				t.Errorf("Expected %s at %d, got %s at %d", tt.want, 68+8+tt.skip, info.Type, info.Position)
			}
		})
	}
}

func TestExamine_Rejected(t *testing.T) {
	data := pngData(t, 1, 1)
	tooSmall := testdoc.Picture8(0xf01e, 0x6e0, 17, data)
	testdoc.PutU16(tooSmall, 28, 10)
	unknownType := testdoc.Picture8(0xf01e, 0x6e0, 17, data)
	testdoc.PutU16(unknownType, 6, 94)
	badHeader := testdoc.Picture8(0xf01e, 0x6e0, 17, data)
	testdoc.PutU16(badHeader, 4, 60)
	unknownRecord := testdoc.Picture8(0xf00c, 0, 17, data)
	badMetafile := testdoc.Picture6(testdoc.DIB24(1, 1, 0, 0, 0))
	testdoc.PutU32(badMetafile, 58, 0x00090002)

	tests := []struct {
		name   string
		buf    []byte
		offset int64
	}{
		{"negative offset", tooSmall, -1},
		{"offset outside the data", tooSmall, 1 << 20},
		{"too small", tooSmall, 0},
		{"unknown type", unknownType, 0},
		{"bad header length", badHeader, 0},
		{"unknown record", unknownRecord, 0},
		{"bad metafile", badMetafile, 0},
		{"truncated", tooSmall[:40], 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, q := Examine(reader(t, tt.buf), tt.offset); q != QualityNone {
				t.Errorf("Expected no image, got %s", q)
			}
		})
	}
}

func TestExamine_Word6DIB(t *testing.T) {
	dib := testdoc.DIB24(2, 2, 0x10, 0x20, 0x30)
	pic := testdoc.Picture6(dib)
	info, q := Examine(reader(t, pic), 0)
	if q != QualityFull {
		t.Fatalf("Expected full information, got %s", q)
	}
	if info.Type != TypeDIB || info.Position != 58+18+6+22 {
		t.Errorf("Expected a DIB at %d, got %s at %d", 58+18+6+22, info.Type, info.Position)
	}
	if info.PixelWidth != 2 || info.PixelHeight != 2 {
		t.Errorf("Expected 2x2 pixels, got %dx%d", info.PixelWidth, info.PixelHeight)
	}

	info, data, err := Load(reader(t, pic), 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	content, ext, err := Convert(info, data)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if ext != ".png" {
		t.Errorf("Expected .png, got %s", ext)
	}
	img, err := png.Decode(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Expected a valid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("Expected 2x2, got %v", b)
	}
	r, g, bl, _ := img.At(1, 1).RGBA()
	if r>>8 != 0x10 || g>>8 != 0x20 || bl>>8 != 0x30 {
		t.Errorf("Expected color 102030, got %02x%02x%02x", r>>8, g>>8, bl>>8)
	}
}

func TestWrapDIB(t *testing.T) {
	tests := []struct {
		name   string
		bits   uint16
		colors uint32
		offset uint32
	}{
		{"24 bit", 24, 0, 54},
		{"8 bit full palette", 8, 0, 54 + 1024},
		{"8 bit used colors", 8, 16, 54 + 64},
		{"1 bit", 1, 0, 54 + 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dib := make([]byte, 40)
			testdoc.PutU32(dib, 0, 40)
			testdoc.PutU16(dib, 14, tt.bits)
			testdoc.PutU32(dib, 32, tt.colors)
			out, err := wrapDIB(dib)
			if err != nil {
				t.Fatalf("wrapDIB failed: %v", err)
			}
			if string(out[:2]) != "BM" {
				t.Errorf("Expected BM magic, got %q", out[:2])
			}
			if got := uint32(out[10]) | uint32(out[11])<<8; got != tt.offset {
				t.Errorf("Expected pixel offset %d, got %d", tt.offset, got)
			}
		})
	}
	if _, err := wrapDIB(make([]byte, 8)); err == nil {
		t.Errorf("Expected an error for a short DIB")
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pics")
	content := []byte("picture")
	path, err := Save(dir, content, ".png")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	name := filepath.Base(path)
	if name != Name(content, ".png") || len(name) != 32+len(".png") || !strings.HasSuffix(name, ".png") {
		t.Errorf("Expected a digest name, got %s", name)
	}
	got, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(got, content) {
		t.Errorf("Expected the content on disk, got %q %v", got, err)
	}
	again, err := Save(dir, content, ".png")
	if err != nil || again != path {
		t.Errorf("Expected the same path, got %s %v", again, err)
	}
	if Name([]byte("other"), ".png") == name {
		t.Errorf("Expected different content to get a different name")
	}
}
