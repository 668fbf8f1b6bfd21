package xor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewXorScreenNeg(t *testing.T) {
	_, err := newXorScreen(nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = newXorScreen([]byte{0}, -1)
	assert.ErrorIs(t, err, ErrInvalidOffset)
	_, err = newXorScreen([]byte{0}, 1)
	assert.ErrorIs(t, err, ErrInvalidOffset)
	_, err = newXorScreen([]byte{0}, 2)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestScreen(t *testing.T) {
	tests := map[string]struct {
		src      []byte
		key      []byte
		offset   []int
		expected []byte
	}{
		"Single byte key": {
			src:      []byte{0x45, 0x00, 0xff},
			key:      []byte{0x65},
			expected: []byte{0x20, 0x65, 0x9a},
		},
		"Ring key": {
			src:      []byte{0x0, 0x0, 0x0, 0x0, 0x0},
			key:      []byte{0x1, 0x2},
			expected: []byte{0x1, 0x2, 0x1, 0x2, 0x1},
		},
		"Ring key with offset": {
			src:      []byte{0x0, 0x0, 0x0},
			key:      []byte{0x1, 0x2},
			offset:   []int{1},
			expected: []byte{0x2, 0x1, 0x2},
		},
		"Empty source": {
			src:      []byte{},
			key:      []byte{0x65},
			expected: []byte{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dst := make([]byte, len(tc.src))
			n, err := Screen(dst, tc.src, tc.key, tc.offset...)
			require.NoError(t, err)
			assert.Equal(t, len(tc.src), n)
			assert.Equal(t, tc.expected, dst)
		})
	}
}

func TestScreen_InPlace(t *testing.T) {
	data := []byte("page data")
	key := []byte{0xde, 0xad}
	_, err := Screen(data, data, key)
	require.NoError(t, err)
	assert.NotEqual(t, []byte("page data"), data)

	_, err = Screen(data, data, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("page data"), data)
}

func TestScreen_Neg(t *testing.T) {
	_, err := Screen(make([]byte, 1), []byte{0x1, 0x2}, []byte{0x65})
	assert.ErrorIs(t, err, ErrShortBuffer)
	_, err = Screen(make([]byte, 1), []byte{0x1}, nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
}
