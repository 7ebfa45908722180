// Package images examines and extracts the pictures embedded in Word
// documents.
package images

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"golang.org/x/image/bmp"

	"github.com/user/wordgo/pkg/word"
)

// Type is the format of a picture.
type Type int

const (
	TypeUnknown Type = iota
	TypeEMF
	TypeWMF
	TypePICT
	TypeJPEG
	TypePNG
	TypeDIB
)

func (t Type) String() string {
	switch t {
	case TypeEMF:
		return "emf"
	case TypeWMF:
		return "wmf"
	case TypePICT:
		return "pict"
	case TypeJPEG:
		return "jpeg"
	case TypePNG:
		return "png"
	case TypeDIB:
		return "dib"
	default:
		return "unknown"
	}
}

// Quality tells how much is known about a picture.
type Quality int

const (
	QualityNone Quality = iota
	QualityMinimal
	QualityFull
)

func (q Quality) String() string {
	switch q {
	case QualityMinimal:
		return "minimal"
	case QualityFull:
		return "full"
	default:
		return "none"
	}
}

// Info describes a picture. Position is the offset of the image data from
// the start of the picture, Length the size of the picture including the
// Word header. Width and Height are in points, PixelWidth and PixelHeight
// are only known with full information.
type Info struct {
	Type        Type
	Position    int
	Length      int
	Width       int
	Height      int
	ScaleX      float64
	ScaleY      float64
	PixelWidth  int
	PixelHeight int
}

const (
	minPictureHeader = 58
	// Pictures smaller than a millimetre are placeholders.
	minScaledSize = 2835
	// maxPayload bounds how much image data is read into memory.
	maxPayload = 64 << 20
)

var errNoImage = errors.New("no image found")

// Examine walks the picture header at fileOffset. It reports
// QualityNone when the picture is unknown or damaged; the reader is then
// in an undefined position.
func Examine(r *word.DataReader, fileOffset int64) (Info, Quality) {
	info, err := examineHeader(r, fileOffset)
	if err != nil {
		return Info{}, QualityNone
	}
	switch info.Type {
	case TypeEMF, TypeWMF, TypePICT:
		return info, QualityMinimal
	case TypeDIB, TypeJPEG, TypePNG:
		data, err := readPayload(r, info)
		if err != nil {
			return info, QualityMinimal
		}
		if err := decodeConfig(&info, data); err != nil {
			return info, QualityMinimal
		}
		return info, QualityFull
	default:
		return Info{}, QualityNone
	}
}

// Load examines the picture at fileOffset and returns its image data.
func Load(r *word.DataReader, fileOffset int64) (Info, []byte, error) {
	info, err := examineHeader(r, fileOffset)
	if err != nil {
		return Info{}, nil, err
	}
	data, err := readPayload(r, info)
	if err != nil {
		return info, nil, err
	}
	if info.Type == TypeDIB || info.Type == TypeJPEG || info.Type == TypePNG {
		// Best effort, the pixel size is informative only.
		_ = decodeConfig(&info, data)
	}
	return info, data, nil
}

func examineHeader(r *word.DataReader, fileOffset int64) (Info, error) {
	if fileOffset < 0 {
		return Info{}, errNoImage
	}
	if err := r.Seek(fileOffset); err != nil {
		return Info{}, err
	}
	h := headerReader{r: r}
	length := int(h.long())
	headerLen := int(h.word())
	typ := h.word()
	h.skip(28 - 8)
	width := twipsToPoints(h.word())
	height := twipsToPoints(h.word())
	scaleX := h.word()
	scaleY := h.word()
	if h.err != nil {
		return Info{}, h.err
	}
	if length < minPictureHeader || (headerLen != 58 && headerLen != 68) || length < headerLen {
		return Info{}, fmt.Errorf("%w: picture of %d bytes with a header of %d", errNoImage, length, headerLen)
	}
	if width*int(scaleX) < minScaledSize || height*int(scaleY) < minScaledSize {
		return Info{}, fmt.Errorf("%w: picture too small", errNoImage)
	}
	h.skip(headerLen - 36)

	var (
		pos int
		t   Type
	)
	switch typ {
	case 7, 8:
		pos, t = find6Image(&h, headerLen, length)
	case 100:
		pos, t = find8Image(&h, headerLen, length)
	default:
		return Info{}, fmt.Errorf("%w: picture type %d", errNoImage, typ)
	}
	if h.err != nil {
		return Info{}, h.err
	}
	if pos < 0 || t == TypeUnknown {
		return Info{}, errNoImage
	}
	return Info{
		Type:     t,
		Position: pos,
		Length:   length,
		Width:    width,
		Height:   height,
		ScaleX:   float64(scaleX) / 1000,
		ScaleY:   float64(scaleY) / 1000,
	}, nil
}

// twipsToPoints rounds up.
func twipsToPoints(twips uint16) int {
	mp := word.TwipsToMilliPoints(int64(twips))
	return int((mp + 999) / 1000)
}

// headerReader keeps the first read error so a header can be read field
// by field.
type headerReader struct {
	r   *word.DataReader
	err error
}

func (h *headerReader) word() uint16 {
	if h.err != nil {
		return 0
	}
	v, err := h.r.NextWord()
	h.err = err
	return v
}

func (h *headerReader) long() uint32 {
	if h.err != nil {
		return 0
	}
	v, err := h.r.NextLong()
	h.err = err
	return v
}

func (h *headerReader) skip(n int) int {
	if h.err != nil || n <= 0 {
		return 0
	}
	return h.r.Skip(n)
}

// find6Image walks the metafile records of a Word 6/7 picture up to the
// embedded bitmap.
func find6Image(h *headerReader, pos, length int) (int, Type) {
	if pos+18 >= length {
		return -1, TypeUnknown
	}
	if h.long() != 0x00090001 || h.word() != 0x0300 {
		return -1, TypeUnknown
	}
	h.skip(10)
	if h.word() != 0x0000 {
		return -1, TypeUnknown
	}
	pos += 18

	for pos+6 < length && h.err == nil {
		elemLen := int64(h.long())
		marker := h.word()
		pos += 6
		if elemLen == 3 {
			return -1, TypeUnknown
		}
		switch marker {
		case 0x0b41:
			return pos + h.skip(20), TypeDIB
		case 0x0f43:
			return pos + h.skip(22), TypeDIB
		}
		toSkip := (elemLen - 3) * 2
		if toSkip <= 0 || toSkip > int64(length-pos) {
			return -1, TypeUnknown
		}
		pos += h.skip(int(toSkip))
	}
	return -1, TypeUnknown
}

// find8Image walks the drawing records of a Word 8 picture up to the blip.
func find8Image(h *headerReader, pos, length int) (int, Type) {
	for pos+8 < length && h.err == nil {
		id := h.word() >> 4
		tag := h.word()
		elemLen := int32(h.long())
		pos += 8
		switch tag {
		case 0xf001, 0xf002, 0xf003, 0xf004, 0xf005:
		case 0xf007:
			pos += h.skip(36)
		case 0xf008:
			pos += h.skip(8)
		case 0xf009:
			pos += h.skip(16)
		case 0xf000, 0xf006, 0xf00a, 0xf00b, 0xf00d, 0xf00e, 0xf00f, 0xf010, 0xf011:
			if elemLen < 0 {
				return -1, TypeUnknown
			}
			pos += h.skip(int(elemLen))
		case 0xf01a:
			return pos + h.skip(blipSkip(id, 0x3d4, 50, 66)), TypeEMF
		case 0xf01b:
			return pos + h.skip(blipSkip(id, 0x216, 50, 66)), TypeWMF
		case 0xf01c:
			return pos + h.skip(blipSkip(id, 0x542, 17, 33)), TypePICT
		case 0xf01d:
			return pos + h.skip(blipSkip(id, 0x46a, 17, 33)), TypeJPEG
		case 0xf01e:
			return pos + h.skip(blipSkip(id, 0x6e0, 17, 33)), TypePNG
		case 0xf01f:
			return pos + h.skip(blipSkip(id, 0x7a8, 17, 33)), TypeDIB
		default:
			return -1, TypeUnknown
		}
	}
	return -1, TypeUnknown
}

// blipSkip returns the header size of a blip: short when the instance is
// the single-UID one.
func blipSkip(id, singleUID uint16, short, long int) int {
	if id == singleUID {
		return short
	}
	return long
}

// readPayload reads the image data that follows the headers.
func readPayload(r *word.DataReader, info Info) ([]byte, error) {
	n := info.Length - info.Position
	if n <= 0 || n > maxPayload {
		return nil, fmt.Errorf("%w: image data of %d bytes", errNoImage, n)
	}
	data, err := r.ReadFull(n)
	if err != nil {
		return nil, fmt.Errorf("failed to read %d bytes of image data: %w", n, err)
	}
	return data, nil
}

func decodeConfig(info *Info, data []byte) error {
	if info.Type == TypeDIB {
		var err error
		if data, err = wrapDIB(data); err != nil {
			return err
		}
	}
	var (
		cfg image.Config
		err error
	)
	if info.Type == TypeDIB {
		cfg, err = bmp.DecodeConfig(bytes.NewReader(data))
	} else {
		cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s header: %w", info.Type, err)
	}
	info.PixelWidth, info.PixelHeight = cfg.Width, cfg.Height
	return nil
}

// wrapDIB prepends the 14 byte BMP file header a DIB lacks.
func wrapDIB(dib []byte) ([]byte, error) {
	if len(dib) < 12 {
		return nil, fmt.Errorf("%w: DIB of %d bytes", errNoImage, len(dib))
	}
	headerSize := int(binary.LittleEndian.Uint32(dib))
	var bits, colors, entrySize int
	switch {
	case headerSize == 12:
		bits = int(binary.LittleEndian.Uint16(dib[10:]))
		entrySize = 3
	case headerSize >= 40 && len(dib) >= 40:
		bits = int(binary.LittleEndian.Uint16(dib[14:]))
		colors = int(binary.LittleEndian.Uint32(dib[32:]))
		entrySize = 4
	default:
		return nil, fmt.Errorf("%w: DIB header of %d bytes", errNoImage, headerSize)
	}
	if bits > 8 {
		colors = 0
	} else if colors == 0 || colors > 1<<bits {
		colors = 1 << bits
	}
	offset := 14 + headerSize + colors*entrySize
	if headerSize == 40 && binary.LittleEndian.Uint32(dib[16:]) == 3 {
		// BI_BITFIELDS masks follow the header.
		offset += 12
	}

	out := make([]byte, 14, 14+len(dib))
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:], uint32(14+len(dib)))
	binary.LittleEndian.PutUint32(out[10:], uint32(offset))
	return append(out, dib...), nil
}

// Convert turns image data into the content of a file that common viewers
// open, and returns it with the file extension to use. DIBs become PNGs.
func Convert(info Info, data []byte) ([]byte, string, error) {
	switch info.Type {
	case TypeJPEG:
		return data, ".jpg", nil
	case TypePNG:
		return data, ".png", nil
	case TypeEMF:
		return data, ".emf", nil
	case TypeWMF:
		return data, ".wmf", nil
	case TypePICT:
		return data, ".pict", nil
	case TypeDIB:
		wrapped, err := wrapDIB(data)
		if err != nil {
			return nil, "", err
		}
		img, err := bmp.Decode(bytes.NewReader(wrapped))
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode DIB: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
		}
		return buf.Bytes(), ".png", nil
	default:
		return nil, "", errNoImage
	}
}

// Name returns the file name for content: its BLAKE3 digest plus ext.
func Name(content []byte, ext string) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:16]) + ext
}

// Save writes content into dir under its content name and returns the path.
// A file that already exists holds the same bytes and is left alone.
func Save(dir string, content []byte, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	path := filepath.Join(dir, Name(content, ext))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}
