package riff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_WriteTo(t *testing.T) {
	var buf bytes.Buffer
	h := FileHeader{Size: 10, Form: FormWEBP}
	n, err := h.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderLen), n)
	assert.Equal(t, []byte{
		'R', 'I', 'F', 'F',
		0x0a, 0x00, 0x00, 0x00,
		'W', 'E', 'B', 'P',
	}, buf.Bytes())
}

func TestFileHeader_LittleEndianSize(t *testing.T) {
	var buf bytes.Buffer
	_, err := FileHeader{Size: 0x01020304, Form: FormWEBP}.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf.Bytes()[4:8])

	got, err := ReadFileHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), got.Size)
	assert.Equal(t, FormWEBP, got.Form)
}

func TestSniff(t *testing.T) {
	tests := map[string]struct {
		given     []byte
		expected  FileHeader
		expectErr bool
	}{
		"WebP header": {
			given:    []byte("RIFF\x0a\x00\x00\x00WEBPVP8 "),
			expected: FileHeader{Size: 10, Form: FormWEBP},
		},
		"Other form": {
			given:    []byte("RIFF\x04\x00\x00\x00WAVE"),
			expected: FileHeader{Size: 4, Form: FourCC{'W', 'A', 'V', 'E'}},
		},
		"Too short": {
			given:     []byte("RIFF"),
			expectErr: true,
		},
		"Wrong tag": {
			given:     []byte("RIFX\x0a\x00\x00\x00WEBP"),
			expectErr: true,
		},
		"Obfuscated": {
			given:     []byte{0x45, 0x00, 0xff, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80, 0x90},
			expectErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h, err := Sniff(tc.given)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrNotRIFF)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, h)
		})
	}
}

func TestIsWebP(t *testing.T) {
	assert.True(t, IsWebP([]byte("RIFF\x0a\x00\x00\x00WEBP")))
	assert.False(t, IsWebP([]byte("RIFF\x0a\x00\x00\x00WAVE")))
	assert.False(t, IsWebP(nil))
}

func TestFourCC_String(t *testing.T) {
	assert.Equal(t, "VP8 ", ChunkVP8.String())
}
