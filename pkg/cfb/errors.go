package cfb

import "errors"

var (
	// ErrNotOLE is returned when the file does not start with the OLE2 magic.
	ErrNotOLE = errors.New("not an OLE2 compound file")
	// ErrCorruptContainer is returned for structural damage outside the depots.
	ErrCorruptContainer = errors.New("compound file is damaged")
	// ErrCorruptDepot is returned when a block chain leaves the depot or never ends.
	ErrCorruptDepot = errors.New("block depot is corrupt")
	// ErrTooLarge is returned when the BBD needs more than the 109 inline index blocks.
	ErrTooLarge = errors.New("file is too big to handle")
	// ErrNotWordDocument is returned when no WordDocument stream is present.
	ErrNotWordDocument = errors.New("this OLE file does not contain a Word document")
	// ErrExcelFile is returned instead of ErrNotWordDocument for spreadsheets.
	ErrExcelFile = errors.New("this is an Excel spreadsheet, not a Word document")
)
