package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/user/wordgo/pkg/word"
)

// Encoding is the character set of the rendered text.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingLatin1
	EncodingLatin2
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingLatin1:
		return "ISO-8859-1"
	case EncodingLatin2:
		return "ISO-8859-2"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// ParseEncoding accepts an encoding name or a mapping file name such as
// "8859-2.txt".
func ParseEncoding(s string) (Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, ".txt")
	name = strings.TrimPrefix(name, "iso-")
	name = strings.TrimPrefix(name, "iso")
	switch name {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "8859-1", "latin1", "latin-1":
		return EncodingLatin1, nil
	case "8859-2", "latin2", "latin-2":
		return EncodingLatin2, nil
	default:
		return EncodingUTF8, fmt.Errorf("unknown encoding %q", s)
	}
}

func (e Encoding) charmap() *charmap.Charmap {
	switch e {
	case EncodingLatin1:
		return charmap.ISO8859_1
	case EncodingLatin2:
		return charmap.ISO8859_2
	default:
		return nil
	}
}

// appendEncoded appends the encoded form of runes to dst. Characters the
// character set lacks are replaced by their closest ASCII form.
func appendEncoded(dst []byte, cm *charmap.Charmap, runes []rune) []byte {
	for _, r := range runes {
		if cm == nil {
			dst = utf8.AppendRune(dst, r)
			continue
		}
		if b, ok := cm.EncodeRune(r); ok {
			dst = append(dst, b)
			continue
		}
		if fb := word.ASCIIFallback(r); fb != word.CharIgnore {
			dst = append(dst, byte(fb))
		}
	}
	return dst
}
