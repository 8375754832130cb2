package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
)

// ResourceStream is a seekable byte stream over one bundled resource.
type ResourceStream interface {
	// Pos returns the current read offset from the start of the resource.
	//
	// Returns:
	//   - uint64: the read offset in bytes
	Pos() uint64

	// Size returns the number of bytes between the read offset and the end of the resource.
	//
	// Returns:
	//   - uint64: remaining byte count
	Size() uint64

	// Read fills dst completely and advances the read offset by len(dst).
	//
	// Parameters:
	//   - dst: destination buffer, must not be longer than Size()
	//
	// Returns:
	//   - error: io.ErrUnexpectedEOF when fewer than len(dst) bytes remain
	Read(dst []byte) error
}

// ResourceLookup maps logical resource names to streams.
type ResourceLookup interface {
	// Open returns a fresh stream positioned at the start of the named resource.
	//
	// Parameters:
	//   - name: the logical resource name, e.g. "arrow.obj"
	//
	// Returns:
	//   - ResourceStream: the opened stream
	//   - error: ErrResourceNotFound (wrapped) when the name is unknown
	Open(name string) (ResourceStream, error)
}

// fsLookup serves resources from an fs.FS such as an embed.FS or os.DirFS.
type fsLookup struct {
	fsys fs.FS
}

var _ ResourceLookup = &fsLookup{}

// NewFSLookup creates a ResourceLookup reading whole files from fsys.
//
// Parameters:
//   - fsys: the file system holding the resources
//
// Returns:
//   - ResourceLookup: lookup resolving names as paths inside fsys
func NewFSLookup(fsys fs.FS) ResourceLookup {
	return &fsLookup{fsys: fsys}
}

func (l *fsLookup) Open(name string) (ResourceStream, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, name, err)
	}
	return NewMemoryStream(data), nil
}

// memoryStream is a ResourceStream over an in-memory byte slice.
type memoryStream struct {
	data []byte
	pos  uint64
}

var _ ResourceStream = &memoryStream{}

// NewMemoryStream wraps data in a ResourceStream. The slice is not copied.
//
// Parameters:
//   - data: the resource bytes
//
// Returns:
//   - ResourceStream: stream positioned at offset 0
func NewMemoryStream(data []byte) ResourceStream {
	return &memoryStream{data: data}
}

func (s *memoryStream) Pos() uint64 {
	return s.pos
}

func (s *memoryStream) Size() uint64 {
	return uint64(len(s.data)) - s.pos
}

func (s *memoryStream) Read(dst []byte) error {
	if uint64(len(dst)) > s.Size() {
		return io.ErrUnexpectedEOF
	}
	copy(dst, s.data[s.pos:])
	s.pos += uint64(len(dst))
	return nil
}
