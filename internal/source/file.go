// Package source provides random line access to log files on disk.
package source

import (
	"bytes"
	"os"

	"golang.org/x/exp/mmap"
)

const chunkSize = 64 * 1024

// File is a memory-mapped log file with a newline offset index. Refresh
// picks up growth, so a live CI log can be tailed and fed into a parser
// session incrementally.
type File struct {
	reader  *mmap.ReaderAt
	path    string
	size    int64
	offsets []int64 // byte offset of each line start
}

// Open memory-maps the file and indexes its line starts.
func Open(path string) (*File, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		reader.Close()
		return nil, err
	}

	f := &File{
		reader: reader,
		path:   path,
		size:   info.Size(),
	}
	f.offsets = make([]int64, 0, f.size/100+1) // estimate ~100 bytes per line
	if f.size > 0 {
		f.offsets = append(f.offsets, 0)
	}
	if err := f.index(0); err != nil {
		reader.Close()
		return nil, err
	}
	return f, nil
}

// index scans for newlines from the given offset and appends line starts.
func (f *File) index(from int64) error {
	buf := make([]byte, chunkSize)
	for pos := from; pos < f.size; {
		n := chunkSize
		if pos+int64(n) > f.size {
			n = int(f.size - pos)
		}

		read, err := f.reader.ReadAt(buf[:n], pos)
		if err != nil {
			return err
		}

		chunk := buf[:read]
		for off := 0; ; {
			idx := bytes.IndexByte(chunk[off:], '\n')
			if idx < 0 {
				break
			}
			lineStart := pos + int64(off) + int64(idx) + 1
			if lineStart < f.size {
				f.offsets = append(f.offsets, lineStart)
			}
			off += idx + 1
		}

		pos += int64(read)
	}
	return nil
}

// LineCount returns the number of indexed lines.
func (f *File) LineCount() int {
	return len(f.offsets)
}

// Line returns the content of a line (0-based), with the trailing newline
// trimmed. Out-of-range indexes return an empty string.
func (f *File) Line(i int) (string, error) {
	if i < 0 || i >= len(f.offsets) {
		return "", nil
	}

	start := f.offsets[i]
	end := f.size
	if i+1 < len(f.offsets) {
		end = f.offsets[i+1]
	}
	if start >= end {
		return "", nil
	}

	buf := make([]byte, end-start)
	if _, err := f.reader.ReadAt(buf, start); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf, "\r\n")), nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Refresh re-maps the file if it has grown and indexes the new region.
// Returns the number of lines added since the last scan.
func (f *File) Refresh() (int, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	if info.Size() <= f.size {
		return 0, nil
	}

	f.reader.Close()
	reader, err := mmap.Open(f.path)
	if err != nil {
		return 0, err
	}

	before := len(f.offsets)
	from := f.size
	f.reader = reader
	f.size = info.Size()

	if before == 0 {
		f.offsets = append(f.offsets, 0)
	} else if from > 0 {
		// the old mapping ended on a newline: the appended bytes begin a
		// fresh line at the old boundary
		var b [1]byte
		if _, err := reader.ReadAt(b[:], from-1); err == nil && b[0] == '\n' {
			f.offsets = append(f.offsets, from)
		}
	}
	if err := f.index(from); err != nil {
		return 0, err
	}
	return len(f.offsets) - before, nil
}

// Close unmaps the file.
func (f *File) Close() error {
	return f.reader.Close()
}
