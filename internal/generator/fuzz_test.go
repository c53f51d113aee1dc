package generator

import (
	"bytes"
	"strings"
	"testing"
)

// FuzzGenerate feeds arbitrary random bytes and class selections through
// the generator
func FuzzGenerate(f *testing.F) {
	f.Add([]byte{0, 0, 0, 0}, 1, true, true, true, true)
	f.Add([]byte{255, 255, 255, 255, 1, 2, 3, 4}, 2, false, false, true, false)
	f.Add([]byte{}, 5, false, false, false, false)
	f.Add([]byte{7, 7, 7}, 1, true, false, false, false)

	f.Fuzz(func(t *testing.T, data []byte, length int, upper, lower, numbers, symbols bool) {
		req := Request{Length: length, Upper: upper, Lower: lower, Numbers: numbers, Symbols: symbols}
		pw, err := NewWithReader(bytes.NewReader(data)).Generate(req)

		alphabet := req.Alphabet()
		if alphabet == "" {
			if err != nil || pw != "" {
				t.Fatalf("empty alphabet must yield empty password, got %q, %v", pw, err)
			}
			return
		}
		if err != nil {
			return
		}

		if len(pw) != length {
			t.Fatalf("expected length %d, got %d", length, len(pw))
		}
		for i := 0; i < len(pw); i++ {
			if strings.IndexByte(alphabet, pw[i]) < 0 {
				t.Fatalf("character %q not in alphabet", pw[i])
			}
		}
	})
}
