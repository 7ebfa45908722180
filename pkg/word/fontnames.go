package word

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	word6FontTable = 0xd0
	word8FontTable = 0x112
)

// FontName is one entry of the font table, indexed by FontRecord.Number.
type FontName struct {
	Name    string
	AltName string
}

// loadFontNames reads the names of the fonts the document uses.
func (d *Document) loadFontNames() {
	var err error
	if d.version == 8 {
		begin, length := d.fib.fcLcb(word8FontTable)
		var buf []byte
		if buf, err = d.readSpan(d.tableStream(), begin, length); err == nil {
			d.fontNames = parseWord8FontNames(buf)
		}
	} else {
		begin, length := d.fib.fcLcb(word6FontTable)
		var buf []byte
		if buf, err = d.readSpan(d.container.Streams.WordDocument, begin, length); err == nil {
			d.fontNames = parseWord6FontNames(buf)
		}
	}
	if err != nil {
		d.log.Debug("font table unreadable", "error", err)
	}
}

// parseWord6FontNames decodes a Word 6/7 font table: a u16 size, then
// records of a length byte, four bytes of font family data, the offset of
// the alternative name and the NUL terminated name.
func parseWord6FontNames(buf []byte) []FontName {
	var names []FontName
	dec := charmap.Windows1252.NewDecoder()
	for pos := 2; pos+6 < len(buf); pos += int(buf[pos]) + 1 {
		end := min(pos+int(buf[pos])+1, len(buf))
		if end <= pos+6 {
			end = len(buf)
		}
		rec := buf[pos+6 : end]
		var fn FontName
		fn.Name, _ = dec.String(string(cutNUL(rec)))
		if alt := int(buf[pos+5]); alt > 0 && alt < len(rec) {
			fn.AltName, _ = dec.String(string(cutNUL(rec[alt:])))
		}
		names = append(names, fn)
	}
	return names
}

// parseWord8FontNames decodes a Word 8 font table: a u32 header, then
// records whose UTF-16 name starts 40 bytes in, optionally followed by an
// alternative name.
func parseWord8FontNames(buf []byte) []FontName {
	var names []FontName
	for pos := 4; pos+40 < len(buf); pos += int(buf[pos]) + 1 {
		end := min(pos+int(buf[pos])+1, len(buf))
		if end <= pos+40 {
			end = len(buf)
		}
		rec := buf[pos+40 : end]
		name, n := cutNUL16(rec)
		fn := FontName{Name: decodeUTF16(name)}
		if n+2 < len(rec) {
			alt, _ := cutNUL16(rec[n+2:])
			fn.AltName = decodeUTF16(alt)
		}
		names = append(names, fn)
	}
	return names
}

func cutNUL(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

// cutNUL16 returns the UTF-16 string up to the first NUL code unit and its
// length in bytes.
func cutNUL16(b []byte) ([]byte, int) {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i], i
		}
	}
	n := len(b) &^ 1
	return b[:n], n
}

func decodeUTF16(b []byte) string {
	s, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(s)
}

// FontNames returns the font table. It is only read when outline fonts
// are requested.
func (d *Document) FontNames() []FontName {
	return append([]FontName(nil), d.fontNames...)
}
