// Package strength scores passwords with a four-point heuristic and maps
// scores to the strength meter shown next to a generated password.
package strength

import "unicode/utf16"

const (
	// MaxScore is the highest score a password can reach
	MaxScore = 4
	// MinLength is the length that earns the length point, in UTF-16 code
	// units so that characters outside the BMP count twice
	MinLength = 8
)

// Score returns a strength score in [0, MaxScore].
// One point each for: at least MinLength characters, an ASCII uppercase
// letter, an ASCII digit, and a character that is neither an ASCII letter
// nor an ASCII digit. Lowercase letters earn nothing.
func Score(password string) int {
	var length int
	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		length += utf16.RuneLen(r)
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
		default:
			hasSymbol = true
		}
	}

	score := 0
	if length >= MinLength {
		score++
	}
	if hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}
	return score
}
