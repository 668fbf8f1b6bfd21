// Package riff reads and writes the fixed file header of RIFF containers such as WebP.
package riff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	bin "github.com/saylorsolutions/binmap"
)

// HeaderLen is the encoded length of a FileHeader.
const HeaderLen = 12

var (
	ErrNotRIFF = errors.New("not a RIFF container")
)

var (
	TagRIFF  = FourCC{'R', 'I', 'F', 'F'}
	FormWEBP = FourCC{'W', 'E', 'B', 'P'}
	ChunkVP8 = FourCC{'V', 'P', '8', ' '}
)

// FourCC is a four character code identifying a RIFF chunk or form type.
type FourCC [4]byte

func (c FourCC) String() string {
	return string(c[:])
}

func (c *FourCC) mapper() bin.Mapper {
	return bin.MapSequence(
		bin.Byte(&c[0]),
		bin.Byte(&c[1]),
		bin.Byte(&c[2]),
		bin.Byte(&c[3]),
	)
}

// FileHeader is the 12 byte prefix of every RIFF file.
// Size counts every byte after the size field itself, which is the file length minus 8.
type FileHeader struct {
	Size uint32
	Form FourCC
}

func (h *FileHeader) mapper(tag *FourCC) bin.Mapper {
	return bin.MapSequence(
		tag.mapper(),
		bin.Int(&h.Size),
		h.Form.mapper(),
	)
}

// WriteTo writes the header in little endian byte order.
func (h FileHeader) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderLen)
	tag := TagRIFF
	if err := h.mapper(&tag).Write(&buf, binary.LittleEndian); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// ReadFileHeader reads a FileHeader from r, returning ErrNotRIFF if the leading tag doesn't match.
func ReadFileHeader(r io.Reader) (FileHeader, error) {
	var (
		h   FileHeader
		tag FourCC
	)
	if err := h.mapper(&tag).Read(r, binary.LittleEndian); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return FileHeader{}, fmt.Errorf("%w: truncated header", ErrNotRIFF)
		}
		return FileHeader{}, err
	}
	if tag != TagRIFF {
		return FileHeader{}, fmt.Errorf("%w: unexpected tag %q", ErrNotRIFF, tag.String())
	}
	return h, nil
}

// Sniff parses the FileHeader at the start of data.
func Sniff(data []byte) (FileHeader, error) {
	if len(data) < HeaderLen {
		return FileHeader{}, fmt.Errorf("%w: need %d bytes, have %d", ErrNotRIFF, HeaderLen, len(data))
	}
	return ReadFileHeader(bytes.NewReader(data[:HeaderLen]))
}

// IsWebP reports whether data starts with a RIFF header carrying the WEBP form type.
func IsWebP(data []byte) bool {
	h, err := Sniff(data)
	return err == nil && h.Form == FormWEBP
}
