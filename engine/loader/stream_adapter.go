package loader

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-arrow/engine/loader/obj"
)

// MainFileID is the only path a StreamAdapter will open. The parser is always pointed at
// this name, so any other path it asks for comes from inside the mesh (material libraries)
// and is refused.
const MainFileID = "main_obj_file_id"

var (
	ErrStreamRead = errors.New("stream read failed")
)

// StreamAdapter exposes one live ResourceStream to the OBJ parser as both its file system
// and its single open file. Besides the stream reference it keeps the first read error,
// since the parser's file protocol has no error channel.
type StreamAdapter struct {
	stream ResourceStream
	err    error
}

var (
	_ obj.FileSystem = &StreamAdapter{}
	_ obj.File       = &StreamAdapter{}
)

// NewStreamAdapter binds a StreamAdapter to stream. A nil stream is a programming error
// and panics.
//
// Parameters:
//   - stream: the stream the parser will read
//
// Returns:
//   - *StreamAdapter: the adapter
func NewStreamAdapter(stream ResourceStream) *StreamAdapter {
	if stream == nil {
		panic("loader: stream adapter requires a stream")
	}
	return &StreamAdapter{stream: stream}
}

// Open returns the adapter itself for MainFileID and obj.ErrNoFile for any other path.
func (a *StreamAdapter) Open(path string) (obj.File, error) {
	if path != MainFileID {
		return nil, fmt.Errorf("%w: %s", obj.ErrNoFile, path)
	}
	return a, nil
}

// Close is a no-op; the stream belongs to the caller of the parser.
func (a *StreamAdapter) Close() {}

// Read copies min(len(dst), Size()) bytes and returns the count, 0 at end of stream.
// A failed stream read is recorded for Err and reads as end of stream from then on.
// It panics if the stream does not advance its position by exactly the bytes read.
func (a *StreamAdapter) Read(dst []byte) int {
	if a.err != nil {
		return 0
	}
	n := uint64(len(dst))
	if remaining := a.Size(); n > remaining {
		n = remaining
	}
	if n == 0 {
		return 0
	}

	before := a.stream.Pos()
	if err := a.stream.Read(dst[:n]); err != nil {
		a.err = fmt.Errorf("%w: %d bytes at offset %d: %w", ErrStreamRead, n, before, err)
		return 0
	}
	if after := a.stream.Pos(); after != before+n {
		panic(fmt.Sprintf("loader: stream position moved from %d to %d after reading %d bytes", before, after, n))
	}
	return int(n)
}

// Err returns the first stream read error, wrapped in ErrStreamRead, or nil.
func (a *StreamAdapter) Err() error {
	return a.err
}

// Size returns the remaining stream length. It panics when the length cannot be
// addressed by a byte slice.
func (a *StreamAdapter) Size() uint64 {
	size := a.stream.Size()
	if size > math.MaxInt {
		panic(fmt.Sprintf("loader: stream size %d exceeds addressable range", size))
	}
	return size
}
