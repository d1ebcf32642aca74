// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

// File is an in-memory io.ReadWriteSeeker, standing in for an *os.File
// when testing encoders that patch their headers on close.
type File struct {
	data []byte
	off  int64
}

// NewFile returns a File holding a copy of data, positioned at the start.
func NewFile(data []byte) *File {
	return &File{data: append([]byte(nil), data...)}
}

// Bytes returns the file contents.
func (f *File) Bytes() []byte { return f.data }

func (f *File) Read(p []byte) (int, error) {
	if f.off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.off:])
	f.off += int64(n)
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	end := f.off + int64(len(p))
	if end > int64(len(f.data)) {
		f.data = append(f.data, make([]byte, end-int64(len(f.data)))...)
	}
	copy(f.data[f.off:], p)
	f.off = end
	return len(p), nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.off + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, errors.New("audiotest: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("audiotest: negative position")
	}
	f.off = abs
	return abs, nil
}
