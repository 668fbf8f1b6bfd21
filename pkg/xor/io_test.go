package xor

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	data := "VP8 page body that was screened upstream"
	key := []byte{0x65}
	var output strings.Builder

	in, err := NewReader(strings.NewReader(data), key)
	assert.NoError(t, err)
	assert.NotNil(t, in)

	out, err := NewWriter(&output, key)
	assert.NoError(t, err)
	assert.NotNil(t, out)

	n, err := io.Copy(out, in)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, data, output.String())
}

func TestWriter_DoesNotModifyInput(t *testing.T) {
	var out bytes.Buffer
	in := []byte{0x45, 0x00, 0xff}
	w, err := NewWriter(&out, []byte{0x65})
	require.NoError(t, err)
	n, err := w.Write(in)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0x45, 0x00, 0xff}, in)
	assert.Equal(t, []byte{0x20, 0x65, 0x9a}, out.Bytes())
}

func TestWriter_LargeWrite(t *testing.T) {
	var out bytes.Buffer
	in := bytes.Repeat([]byte{0x65}, 3*writeChunk+17)
	w, err := NewWriter(&out, []byte{0x65})
	require.NoError(t, err)

	// An empty write first must not wedge later writes.
	n, err := w.Write(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = w.Write(in)
	require.NoError(t, err)
	assert.Equal(t, len(in), n)
	assert.Equal(t, make([]byte, len(in)), out.Bytes())
}

type failingWriter struct {
	after int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if len(p) > f.after {
		return f.after, errors.New("target closed")
	}
	f.after -= len(p)
	return len(p), nil
}

func TestWriter_TargetError(t *testing.T) {
	w, err := NewWriter(&failingWriter{after: 2}, []byte{0x65})
	require.NoError(t, err)
	n, err := w.Write([]byte{0x1, 0x2, 0x3})
	assert.Error(t, err)
	assert.Equal(t, 2, n)
}

func TestWriter_Reset(t *testing.T) {
	var (
		outA bytes.Buffer
		outB bytes.Buffer
		in   = []byte{0x0, 0x1}
		key  = []byte{0x0, 0x1, 0x1, 0x2}
	)
	w, err := NewWriter(&outA, key, 1)
	assert.NoError(t, err)
	n, err := w.Write(in)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x1, 0x0}, outA.Bytes())

	w.Reset(&outB)
	n, err = w.Write(in)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x1, 0x0}, outB.Bytes())
}

func TestReader_Reset(t *testing.T) {
	var (
		outA = make([]byte, 2)
		outB = make([]byte, 2)
		in   = []byte{0x0, 0x1}
		key  = []byte{0x0, 0x1, 0x1, 0x2}
	)
	r, err := NewReader(bytes.NewReader(in), key, 1)
	assert.NoError(t, err)
	n, err := r.Read(outA)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x1, 0x0}, outA)

	r.Reset(bytes.NewReader(in))
	n, err = r.Read(outB)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x1, 0x0}, outB)
}

func TestNewReaderWriter_Neg(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = NewWriter(io.Discard, []byte{0x65}, 3)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}
