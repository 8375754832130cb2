package loader

import (
	"io"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-arrow/engine/loader/obj"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamAdapter_Sandbox(t *testing.T) {
	a := NewStreamAdapter(NewMemoryStream([]byte("v 0 0 0\n")))

	f, err := a.Open(MainFileID)
	require.NoError(t, err)
	assert.Same(t, a, f)

	for _, p := range []string{"arrow.mtl", "", "main_obj_file_id.mtl", "../main_obj_file_id"} {
		f, err := a.Open(p)
		assert.Nil(t, f, p)
		assert.ErrorIs(t, err, obj.ErrNoFile, p)
	}
}

func TestStreamAdapter_ReadClamps(t *testing.T) {
	a := NewStreamAdapter(NewMemoryStream([]byte("abcdefg")))
	assert.Equal(t, uint64(7), a.Size())

	buf := make([]byte, 4)
	assert.Equal(t, 4, a.Read(buf))
	assert.Equal(t, "abcd", string(buf))
	assert.Equal(t, uint64(3), a.Size())

	assert.Equal(t, 3, a.Read(buf))
	assert.Equal(t, "efg", string(buf[:3]))
	assert.Equal(t, uint64(0), a.Size())

	assert.Equal(t, 0, a.Read(buf))
	assert.Equal(t, 0, a.Read(nil))

	a.Close()
}

type stuckStream struct{ size uint64 }

func (s *stuckStream) Pos() uint64           { return 0 }
func (s *stuckStream) Size() uint64          { return s.size }
func (s *stuckStream) Read(dst []byte) error { return nil }

type failingStream struct{ stuckStream }

func (s *failingStream) Read(dst []byte) error { return io.ErrUnexpectedEOF }

func TestStreamAdapter_ContractViolations(t *testing.T) {
	assert.Panics(t, func() { NewStreamAdapter(nil) })

	stuck := NewStreamAdapter(&stuckStream{size: 8})
	assert.Panics(t, func() { stuck.Read(make([]byte, 4)) })

	huge := NewStreamAdapter(&stuckStream{size: math.MaxUint64})
	assert.Panics(t, func() { huge.Size() })
}

func TestStreamAdapter_ReadErrorEndsStream(t *testing.T) {
	a := NewStreamAdapter(&failingStream{stuckStream{size: 8}})
	require.NoError(t, a.Err())

	assert.NotPanics(t, func() {
		assert.Equal(t, 0, a.Read(make([]byte, 4)))
	})
	assert.ErrorIs(t, a.Err(), ErrStreamRead)
	assert.ErrorIs(t, a.Err(), io.ErrUnexpectedEOF)

	first := a.Err()
	assert.Equal(t, 0, a.Read(make([]byte, 4)))
	assert.Same(t, first, a.Err())
}

func TestStreamAdapter_DrivesParser(t *testing.T) {
	a := NewStreamAdapter(NewMemoryStream([]byte("mtllib arrow.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")))

	m, err := obj.Read(MainFileID, a)
	require.NoError(t, err)
	assert.Equal(t, 3, m.IndexCount())
	assert.Empty(t, m.Materials)

	_, err = obj.Read("arrow.obj", NewStreamAdapter(NewMemoryStream(nil)))
	assert.ErrorIs(t, err, obj.ErrNoFile)
}

func TestMemoryStream(t *testing.T) {
	s := NewMemoryStream([]byte("xyz"))
	assert.Equal(t, uint64(0), s.Pos())
	assert.ErrorIs(t, s.Read(make([]byte, 4)), io.ErrUnexpectedEOF)
	require.NoError(t, s.Read(make([]byte, 2)))
	assert.Equal(t, uint64(2), s.Pos())
	assert.Equal(t, uint64(1), s.Size())
}
