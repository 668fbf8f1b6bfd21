package ikc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/saylorsolutions/ikcx/pkg/riff"
	"github.com/saylorsolutions/ikcx/pkg/xor"
)

const (
	// Marker is the leading byte of an obfuscated payload.
	Marker byte = 0x45
	// CipherKey is the single byte XOR key applied to every payload byte.
	CipherKey byte = 0x65
	// HeaderLen is the length of the prefix synthesized in front of the unscreened payload.
	HeaderLen = riff.HeaderLen + 3
	// SizeAdjust is added to the payload length to get the RIFF size field.
	// The 8 bytes of tag and size are not counted, the remaining 7 header bytes are.
	SizeAdjust = HeaderLen - 8
)

var (
	ErrInvalidPayload = errors.New("invalid payload")
)

var (
	cipherKey     = []byte{CipherKey}
	chunkTagStart = riff.ChunkVP8[:3]
)

// IsObfuscated reports whether raw starts with the obfuscation Marker.
func IsObfuscated(raw []byte) bool {
	return len(raw) > 0 && raw[0] == Marker
}

// Decode turns a payload as received from the service into a standard WebP container.
// If raw is not obfuscated then it's returned unchanged, without copying, and must be treated as read-only.
// Otherwise a new slice of len(raw)+HeaderLen bytes is returned.
// An empty payload results in ErrInvalidPayload.
func Decode(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if raw[0] != Marker {
		return raw, nil
	}
	size := uint64(len(raw)) + SizeAdjust
	if size > 0xffffffff {
		return nil, fmt.Errorf("%w: %d bytes is too large for a RIFF container", ErrInvalidPayload, len(raw))
	}

	var hdr bytes.Buffer
	header := riff.FileHeader{Size: uint32(size), Form: riff.FormWEBP}
	if _, err := header.WriteTo(&hdr); err != nil {
		return nil, err
	}
	if hdr.Len() != riff.HeaderLen {
		return nil, fmt.Errorf("RIFF header encoded to %d bytes, expected %d", hdr.Len(), riff.HeaderLen)
	}

	out := make([]byte, HeaderLen+len(raw))
	n := copy(out, hdr.Bytes())
	copy(out[n:HeaderLen], chunkTagStart)

	if _, err := xor.Screen(out[HeaderLen:], raw, cipherKey); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode obfuscates a lossy WebP file the same way the service does.
// The file must start with a consistent RIFF header, the WEBP form type, and a "VP8 " chunk, otherwise ErrInvalidPayload is returned.
// Decode(Encode(webp)) always yields webp.
func Encode(webp []byte) ([]byte, error) {
	h, err := riff.Sniff(webp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if h.Form != riff.FormWEBP {
		return nil, fmt.Errorf("%w: unexpected form type %q", ErrInvalidPayload, h.Form.String())
	}
	if int64(h.Size) != int64(len(webp))-8 {
		return nil, fmt.Errorf("%w: RIFF size %d doesn't match file length %d", ErrInvalidPayload, h.Size, len(webp))
	}
	if len(webp) <= HeaderLen || !bytes.Equal(webp[riff.HeaderLen:HeaderLen+1], riff.ChunkVP8[:]) {
		return nil, fmt.Errorf("%w: first chunk must be %q", ErrInvalidPayload, riff.ChunkVP8.String())
	}

	out := make([]byte, len(webp)-HeaderLen)
	if _, err := xor.Screen(out, webp[HeaderLen:], cipherKey); err != nil {
		return nil, err
	}
	return out, nil
}
