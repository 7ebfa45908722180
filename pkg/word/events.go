package word

// EventKind says which formatting change an Event carries.
type EventKind int

const (
	EventFont EventKind = iota
	EventStyle
	EventRowStart
	EventRowEnd
	EventPicture
)

func (k EventKind) String() string {
	switch k {
	case EventFont:
		return "font"
	case EventStyle:
		return "style"
	case EventRowStart:
		return "row start"
	case EventRowEnd:
		return "row end"
	case EventPicture:
		return "picture"
	default:
		return "unknown"
	}
}

// Event is a formatting change that takes effect at FileOffset. Only the
// field matching Kind is set.
type Event struct {
	Kind       EventKind
	FileOffset int64
	Font       FontRecord
	Style      StyleRecord
	Row        RowRecord
	Picture    PictureRecord
}

type eventCursor struct {
	font, style, row int
}

// PendingEvents returns the formatting changes at fileOffset. The font,
// style and row cursors only move forward, so offsets must be queried in
// text order.
func (d *Document) PendingEvents(fileOffset int64) []Event {
	if fileOffset < 0 {
		return nil
	}
	var events []Event
	c := &d.cursor

	if c.row < len(d.rows.records) {
		row := d.rows.records[c.row]
		if fileOffset == row.Start {
			events = append(events, Event{Kind: EventRowStart, FileOffset: fileOffset, Row: row})
		}
		if fileOffset == row.End {
			events = append(events, Event{Kind: EventRowEnd, FileOffset: fileOffset, Row: row})
			c.row++
		}
	}
	if c.style < len(d.styles.records) && d.styles.records[c.style].FileOffset == fileOffset {
		events = append(events, Event{Kind: EventStyle, FileOffset: fileOffset, Style: d.styles.records[c.style]})
		c.style++
	}
	for c.font < len(d.fonts.records) && d.fonts.records[c.font].FileOffset == fileOffset {
		events = append(events, Event{Kind: EventFont, FileOffset: fileOffset, Font: d.fonts.records[c.font]})
		c.font++
	}
	if off := d.pictures.Lookup(fileOffset); off >= 0 {
		events = append(events, Event{
			Kind:       EventPicture,
			FileOffset: fileOffset,
			Picture:    PictureRecord{FileOffset: fileOffset, PictureFileOffset: off},
		})
	}
	return events
}
