package cfb

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mattetti/filebuffer"
)

// ByteSource is random access to the raw bytes of an input file.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// FileSource is a ByteSource backed by an open file.
type FileSource struct {
	file *os.File
	size int64
}

// OpenFile opens the file at path for random access reads.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &FileSource{file: f, size: info.Size()}, nil
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) {
	if s.file == nil {
		return 0, os.ErrClosed
	}
	return s.file.ReadAt(p, off)
}

func (s *FileSource) Size() int64 { return s.size }

// Name returns the path the source was opened from.
func (s *FileSource) Name() string {
	if s.file == nil {
		return ""
	}
	return s.file.Name()
}

// Close closes the underlying file. Closing twice is not an error.
func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// MemorySource is a ByteSource over an in-memory copy of the input.
type MemorySource struct {
	buf  *filebuffer.Buffer
	size int64
}

// NewMemorySource wraps data without copying it.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{buf: filebuffer.New(data), size: int64(len(data))}
}

// ReadSource buffers a non-seekable input, such as standard input, in memory.
func ReadSource(r io.Reader) (*MemorySource, error) {
	var b bytes.Buffer
	if _, err := b.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to buffer input: %w", err)
	}
	return NewMemorySource(b.Bytes()), nil
}

func (s *MemorySource) ReadAt(p []byte, off int64) (int, error) {
	return s.buf.ReadAt(p, off)
}

func (s *MemorySource) Size() int64 { return s.size }

func (s *MemorySource) Close() error { return s.buf.Close() }

// ReadBytes reads exactly n bytes at offset.
func ReadBytes(src ByteSource, offset int64, n int) ([]byte, error) {
	if offset < 0 || n < 0 {
		return nil, fmt.Errorf("invalid read of %d bytes at offset %d", n, offset)
	}
	if offset+int64(n) > src.Size() {
		return nil, fmt.Errorf("read of %d bytes at offset %d exceeds file size %d: %w",
			n, offset, src.Size(), io.ErrUnexpectedEOF)
	}
	buf := make([]byte, n)
	read, err := src.ReadAt(buf, offset)
	if read == n {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("failed to read %d bytes at offset %d: %w", n, offset, err)
}
