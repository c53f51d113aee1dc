package generator

import (
	"fmt"
	"strings"
)

// Character sets for each class
const (
	UpperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	LowerChars  = "abcdefghijklmnopqrstuvwxyz"
	DigitChars  = "0123456789"
	SymbolChars = "!@#$%^&*()_+-={}[]|:;<>,.?/~`"
)

// Class is a character class that can be selected for generation.
// The numeric order of the constants is the canonical alphabet order.
type Class int

const (
	Upper Class = iota
	Lower
	Digit
	Symbol
)

// AllClasses lists every class in canonical order
var AllClasses = []Class{Upper, Lower, Digit, Symbol}

// String returns the lowercase name of the class
func (c Class) String() string {
	switch c {
	case Upper:
		return "upper"
	case Lower:
		return "lower"
	case Digit:
		return "digit"
	case Symbol:
		return "symbol"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Chars returns the fixed character set of the class
func (c Class) Chars() string {
	switch c {
	case Upper:
		return UpperChars
	case Lower:
		return LowerChars
	case Digit:
		return DigitChars
	case Symbol:
		return SymbolChars
	default:
		return ""
	}
}

// ParseClass parses a class name. Plural forms and "number(s)" are accepted.
func ParseClass(name string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "upper", "uppercase":
		return Upper, nil
	case "lower", "lowercase":
		return Lower, nil
	case "digit", "digits", "number", "numbers":
		return Digit, nil
	case "symbol", "symbols":
		return Symbol, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
}

// ParseClasses parses a comma-separated list of class names, e.g.
// "upper,digits". Blank items are skipped, so "" selects no class.
func ParseClasses(list string) ([]Class, error) {
	var classes []Class
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c, err := ParseClass(name)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// Alphabet concatenates the character sets of the given classes in
// canonical order. Repeating a class in the arguments has no effect.
func Alphabet(classes ...Class) string {
	selected := make(map[Class]bool, len(classes))
	for _, c := range classes {
		selected[c] = true
	}

	var builder strings.Builder
	for _, c := range AllClasses {
		if selected[c] {
			builder.WriteString(c.Chars())
		}
	}
	return builder.String()
}
