package xor

import (
	"io"
)

// Reader extends io.Reader, but also provides a way to reuse a key with a different source.
type Reader interface {
	io.Reader
	// Reset will use the provided io.Reader and reset the offset position within the key to its initial value.
	Reset(source io.Reader)
}

// Writer extends io.Writer, but also provides a way to reuse a key with a different target.
type Writer interface {
	io.Writer
	// Reset will use the provided io.Writer and reset the offset position within the key to its initial value.
	Reset(target io.Writer)
}

var _ Reader = (*reader)(nil)

type reader struct {
	source io.Reader
	scr    *xorScreen
}

func (r *reader) Read(out []byte) (n int, err error) {
	n, err = r.source.Read(out)
	r.scr.screenAll(out[:n], out[:n])
	return n, err
}

func (r *reader) Reset(source io.Reader) {
	r.source = source
	r.scr.reset()
}

// NewReader constructs a new Reader that will perform XOR operations on all bytes read, using the provided key, starting at offset.
func NewReader(r io.Reader, key []byte, offset ...int) (Reader, error) {
	scr, err := newXorScreen(key, offset...)
	if err != nil {
		return nil, err
	}
	xReader := &reader{
		source: r,
		scr:    scr,
	}
	return xReader, nil
}

var _ Writer = (*writer)(nil)

const writeChunk = 32 * 1024

type writer struct {
	target io.Writer
	scr    *xorScreen
	buf    []byte
}

// NewWriter constructs a new Writer that will perform XOR operations on all bytes written, using the provided key, starting at offset.
// The caller's slice is never modified.
func NewWriter(target io.Writer, key []byte, offset ...int) (Writer, error) {
	scr, err := newXorScreen(key, offset...)
	if err != nil {
		return nil, err
	}
	xWriter := &writer{
		target: target,
		scr:    scr,
	}
	return xWriter, nil
}

func (w *writer) Write(in []byte) (n int, err error) {
	if need := min(len(in), writeChunk); len(w.buf) < need {
		w.buf = make([]byte, need)
	}
	for len(in) > 0 {
		chunk := in
		if len(chunk) > len(w.buf) {
			chunk = chunk[:len(w.buf)]
		}
		w.scr.screenAll(w.buf, chunk)
		written, err := w.target.Write(w.buf[:len(chunk)])
		n += written
		if err != nil {
			return n, err
		}
		if written < len(chunk) {
			return n, io.ErrShortWrite
		}
		in = in[len(chunk):]
	}
	return n, nil
}

func (w *writer) Reset(target io.Writer) {
	w.target = target
	w.scr.reset()
}
