package nace

// streaming.go cleans the raw byte stream of an upstream export before it is
// tokenized:
//
//   - BOMSkippingReader: drops a leading UTF-8 BOM that spreadsheet exports add,
//     which would otherwise glue itself to the first header name
//   - UTF8Sanitizer: replaces invalid UTF-8 bytes with '?'
//   - CountingReader: counts bytes and enforces an upper bound on document size
//
// Parse applies the first two itself; loaders add the CountingReader.

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrDocumentTooLarge is returned by CountingReader once the limit is exceeded.
var ErrDocumentTooLarge = errors.New("dataset document too large")

// UTF8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes with '?'.
// Multi-byte sequences split across reads are carried over to the next read.
type UTF8Sanitizer struct {
	reader  io.Reader
	pending []byte
}

// NewUTF8Sanitizer creates a new sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if isAllASCII(p[:n]) {
		return n, err
	}
	return s.sanitize(p[:n], err == io.EOF), err
}

func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to hand out.
// Unless atEOF, an incomplete trailing sequence is held back in pending.
func (s *UTF8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		if !atEOF && !utf8.FullRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// BOMSkippingReader drops a leading UTF-8 byte order mark (0xEF 0xBB 0xBF).
type BOMSkippingReader struct {
	reader     io.Reader
	bomChecked bool
	buf        [3]byte
	bufData    []byte
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n == 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF {
			r.bufData = nil
		} else {
			r.bufData = r.buf[:n]
		}
		if len(r.bufData) == 0 && err == io.EOF {
			return 0, io.EOF
		}
	}

	if len(r.bufData) > 0 {
		copied := copy(p, r.bufData)
		r.bufData = r.bufData[copied:]
		return copied, nil
	}
	return r.reader.Read(p)
}

// CountingReader tracks bytes read and fails with ErrDocumentTooLarge past Limit.
// A Limit of 0 disables the check.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64
}

// NewCountingReader creates a counting reader with an optional byte limit.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	return &CountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrDocumentTooLarge, r.Limit)
	}
	return n, err
}
