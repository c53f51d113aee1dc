package generator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReader always returns an error
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy pool unavailable")
}

// drawsReader encodes the given values as little-endian uint32 draws
func drawsReader(values ...uint32) *bytes.Reader {
	buf := make([]byte, 0, len(values)*bytesPerDraw)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return bytes.NewReader(buf)
}

func allClasses(length int) Request {
	return Request{Length: length, Upper: true, Lower: true, Numbers: true, Symbols: true}
}

func TestRequest_WithClasses(t *testing.T) {
	all := Request{Length: 12, Upper: true, Lower: true, Numbers: true, Symbols: true}

	req := all.WithClasses(Upper, Digit)
	assert.Equal(t, Request{Length: 12, Upper: true, Numbers: true}, req)
	assert.Equal(t, []Class{Upper, Digit}, req.Classes())
	assert.Equal(t, UpperChars+DigitChars, req.Alphabet())

	assert.Empty(t, all.WithClasses().Alphabet())
	assert.True(t, all.Symbols, "receiver must not change")
}

func TestGenerate_LengthAndMembership(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "all classes", req: allClasses(16)},
		{name: "upper only", req: Request{Length: 12, Upper: true}},
		{name: "lower only", req: Request{Length: 8, Lower: true}},
		{name: "digits only", req: Request{Length: 6, Numbers: true}},
		{name: "symbols only", req: Request{Length: 32, Symbols: true}},
		{name: "single character", req: Request{Length: 1, Lower: true, Numbers: true}},
		{name: "maximum length", req: allClasses(MaxLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alphabet := tt.req.Alphabet()

			for range 20 {
				pw, err := Generate(tt.req)
				require.NoError(t, err)
				assert.Len(t, pw, tt.req.Length)

				for _, char := range pw {
					assert.True(t, strings.ContainsRune(alphabet, char),
						"character %q is not in the alphabet", char)
				}
			}
		})
	}
}

func TestGenerate_NoClasses(t *testing.T) {
	for _, length := range []int{1, 16, 0, -3} {
		pw, err := Generate(Request{Length: length})
		require.NoError(t, err)
		assert.Empty(t, pw)
	}
}

func TestGenerate_NoClassesDoesNotTouchSource(t *testing.T) {
	g := NewWithReader(failingReader{})

	pw, err := g.Generate(Request{Length: 10})
	require.NoError(t, err)
	assert.Empty(t, pw)
}

func TestGenerate_InvalidLength(t *testing.T) {
	for _, length := range []int{0, -1, MaxLength + 1} {
		_, err := Generate(allClasses(length))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidLength)
	}
}

func TestGenerate_ModuloMapping(t *testing.T) {
	// Full alphabet has 91 characters: index 90 is the backtick,
	// and 91 wraps around to 'A'.
	g := NewWithReader(drawsReader(0, 1, 25, 26, 51, 52, 61, 62, 90, 91, 91*1000+27))

	pw, err := g.Generate(allClasses(11))
	require.NoError(t, err)
	assert.Equal(t, "ABZaz09!`Ab", pw)
}

func TestGenerate_DrawOrder(t *testing.T) {
	g := NewWithReader(drawsReader(3, 2, 1, 0))

	pw, err := g.Generate(Request{Length: 4, Numbers: true})
	require.NoError(t, err)
	assert.Equal(t, "3210", pw)
}

func TestGenerate_LargeDrawValues(t *testing.T) {
	// 2^32-1 mod 10 = 5
	g := NewWithReader(drawsReader(^uint32(0)))

	pw, err := g.Generate(Request{Length: 1, Numbers: true})
	require.NoError(t, err)
	assert.Equal(t, "5", pw)
}

func TestGenerate_RandomSourceFailure(t *testing.T) {
	g := NewWithReader(failingReader{})

	pw, err := g.Generate(allClasses(16))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRandomSource)
	assert.Contains(t, err.Error(), "entropy pool unavailable")
	assert.Empty(t, pw)
}

func TestGenerate_ShortRead(t *testing.T) {
	// Only enough bytes for two of the four draws
	g := NewWithReader(drawsReader(1, 2))

	_, err := g.Generate(Request{Length: 4, Upper: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRandomSource)
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		pw, err := Generate(allClasses(16))
		require.NoError(t, err)
		assert.False(t, seen[pw], "duplicate password generated: %s", pw)
		seen[pw] = true
	}
}

func TestRequest_Classes(t *testing.T) {
	assert.Empty(t, Request{}.Classes())
	assert.Equal(t, []Class{Upper, Digit}, Request{Upper: true, Numbers: true}.Classes())
	assert.Equal(t, AllClasses, allClasses(8).Classes())
}
