// Package nanoid provides short random identifiers for temporary and
// quarantine file names.
package nanoid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// alphabet keeps file names lowercase and shell friendly
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	// idLength is the length of generated IDs (26^6 = 308,915,776 combinations)
	idLength = 6
)

// Generate creates a new NanoID with 6 lowercase letters.
func Generate() (string, error) {
	return gonanoid.Generate(alphabet, idLength)
}
