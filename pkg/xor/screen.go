package xor

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyKey      = errors.New("cannot use empty key")
	ErrInvalidOffset = errors.New("key offset out of range")
	ErrShortBuffer   = errors.New("destination buffer too short")
)

type xorScreen struct {
	key  []byte
	init int
	cur  int
}

func newXorScreen(key []byte, offset ...int) (*xorScreen, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	s := &xorScreen{
		key: key,
	}
	if len(offset) > 0 {
		if offset[0] < 0 || offset[0] >= len(key) {
			return nil, fmt.Errorf("%w: offset %d for key of len %d", ErrInvalidOffset, offset[0], len(key))
		}
		s.init = offset[0]
		s.cur = s.init
	}
	return s, nil
}

func (s *xorScreen) screen(b byte) byte {
	b ^= s.key[s.cur]
	s.cur++
	if s.cur == len(s.key) {
		s.cur = 0
	}
	return b
}

func (s *xorScreen) screenAll(dst, src []byte) {
	if len(s.key) == 1 {
		k := s.key[0]
		for i, b := range src {
			dst[i] = b ^ k
		}
		return
	}
	for i, b := range src {
		dst[i] = s.screen(b)
	}
}

func (s *xorScreen) reset() {
	s.cur = s.init
}

// Screen XORs every byte of src with key, starting at offset, and writes the result to dst.
// dst may be the same slice as src to screen in place.
// The number of bytes written is returned, which is always len(src) when err is nil.
func Screen(dst, src, key []byte, offset ...int) (int, error) {
	scr, err := newXorScreen(key, offset...)
	if err != nil {
		return 0, err
	}
	if len(dst) < len(src) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, len(src), len(dst))
	}
	scr.screenAll(dst, src)
	return len(src), nil
}
