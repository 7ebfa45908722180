package word

const (
	word6DocProperties = 0x150
	word8DocProperties = 0x192
)

// loadDefaultTabWidth reads the default tab stop distance from the document
// properties. The built in default stays when they cannot be read.
func (d *Document) loadDefaultTabWidth() {
	d.tabWidth = DefaultTabWidth
	fibOffset, stream := word6DocProperties, d.container.Streams.WordDocument
	if d.version == 8 {
		fibOffset, stream = word8DocProperties, d.tableStream()
	}
	begin, length := d.fib.fcLcb(fibOffset)
	if length < 0x0c {
		return
	}
	buf, err := d.readSpan(stream, begin, length)
	if err != nil {
		d.log.Debug("document properties unreadable", "error", err)
		return
	}
	d.tabWidth = TwipsToMilliPoints(int64(fkp(buf).u16(0x0a)))
}

// DefaultTabWidth returns the default tab stop distance in millipoints.
func (d *Document) DefaultTabWidth() int64 {
	if d.tabWidth <= 0 {
		return TwipsToMilliPoints(1)
	}
	return d.tabWidth
}
