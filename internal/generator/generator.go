// Package generator draws random passwords from an alphabet assembled
// from the selected character classes.
//
// Each character is an independent 32-bit draw from a cryptographically
// secure source reduced modulo the alphabet size. The alphabet holds at
// most 91 characters, so the modulo bias toward lower indices is below
// 91/2^32 per draw and is accepted rather than corrected.
package generator

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// MaxLength bounds a single request
	MaxLength = 1024
	// bytesPerDraw is the width of one random index (uint32)
	bytesPerDraw = 4
)

var (
	// ErrInvalidLength indicates a length outside 1..MaxLength
	ErrInvalidLength = errors.New("invalid password length")
	// ErrRandomSource indicates the random source failed to deliver bytes
	ErrRandomSource = errors.New("random source failure")
	// ErrUnknownClass indicates an unrecognized character class name
	ErrUnknownClass = errors.New("unknown character class")
)

// Request describes a password to generate
type Request struct {
	Length  int
	Upper   bool
	Lower   bool
	Numbers bool
	Symbols bool
}

// Classes returns the selected classes in canonical order
func (r Request) Classes() []Class {
	classes := make([]Class, 0, len(AllClasses))
	if r.Upper {
		classes = append(classes, Upper)
	}
	if r.Lower {
		classes = append(classes, Lower)
	}
	if r.Numbers {
		classes = append(classes, Digit)
	}
	if r.Symbols {
		classes = append(classes, Symbol)
	}
	return classes
}

// WithClasses returns a copy of the request selecting exactly classes
func (r Request) WithClasses(classes ...Class) Request {
	r.Upper, r.Lower, r.Numbers, r.Symbols = false, false, false, false
	for _, c := range classes {
		switch c {
		case Upper:
			r.Upper = true
		case Lower:
			r.Lower = true
		case Digit:
			r.Numbers = true
		case Symbol:
			r.Symbols = true
		}
	}
	return r
}

// Alphabet returns the alphabet the request draws from
func (r Request) Alphabet() string {
	return Alphabet(r.Classes()...)
}

// Generator produces passwords from a random source
type Generator struct {
	// random allows for dependency injection in tests
	random io.Reader
}

// New creates a Generator backed by crypto/rand
func New() *Generator {
	return &Generator{random: rand.Reader}
}

// NewWithReader creates a Generator with a custom random source (for testing).
// The reader must be cryptographically secure outside of tests.
func NewWithReader(r io.Reader) *Generator {
	return &Generator{random: r}
}

// Generate draws a password for the request.
// An empty alphabet yields an empty password and no error.
func (g *Generator) Generate(req Request) (string, error) {
	alphabet := req.Alphabet()
	if alphabet == "" {
		return "", nil
	}

	if req.Length < 1 || req.Length > MaxLength {
		return "", fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidLength, req.Length, MaxLength)
	}

	buf := make([]byte, req.Length*bytesPerDraw)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRandomSource, err)
	}

	size := uint32(len(alphabet))
	result := make([]byte, req.Length)
	for i := range result {
		n := binary.LittleEndian.Uint32(buf[i*bytesPerDraw:])
		result[i] = alphabet[n%size]
	}

	return string(result), nil
}

// Generate draws a password using crypto/rand
func Generate(req Request) (string, error) {
	return New().Generate(req)
}

// GeneratorProvider is an interface for password generation
type GeneratorProvider interface {
	Generate(req Request) (string, error)
}
