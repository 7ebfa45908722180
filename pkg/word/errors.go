package word

import (
	"errors"

	"github.com/user/wordgo/pkg/cfb"
)

var (
	// ErrNotWordDocument is returned when the input is not a Word 6/7/8 document.
	ErrNotWordDocument = cfb.ErrNotWordDocument
	// ErrExcelFile is returned when the container holds a spreadsheet.
	ErrExcelFile = cfb.ErrExcelFile
	// ErrEncrypted is returned for password protected documents.
	ErrEncrypted = errors.New("encrypted documents are not supported")
	// ErrPreWord6 is returned for documents older than Word 6.
	ErrPreWord6 = errors.New("this document is from an older version of Word")
	// ErrTextTooSmall is returned when the WordDocument stream cannot hold a FIB.
	ErrTextTooSmall = errors.New("the WordDocument stream is too small")
	// ErrCannotFindText is returned when no text can be mapped.
	ErrCannotFindText = errors.New("I can't find the text of this document")
	// ErrCorruptInput is returned for inconsistent tables inside the document.
	ErrCorruptInput = errors.New("document structure is corrupt")
)
