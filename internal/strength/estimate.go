package strength

import (
	zxcvbn "github.com/ccojocar/zxcvbn-go"
)

// maxEstimateLen limits how much of a password zxcvbn analyzes; its
// matchers slow down sharply on long input.
const maxEstimateLen = 50

// Estimate is a pattern-aware entropy estimate, shown alongside the
// heuristic score
type Estimate struct {
	// Entropy is the estimated entropy in bits
	Entropy float64
	// CrackTime is a human-readable offline crack time
	CrackTime string
	// Score is zxcvbn's own 0-4 score
	Score int
	// Truncated is set when only a prefix was analyzed
	Truncated bool
}

// EstimateOf runs zxcvbn on the password. An empty password yields a zero Estimate.
func EstimateOf(password string, userInputs ...string) Estimate {
	if password == "" {
		return Estimate{}
	}

	checked := []rune(password)
	truncated := len(checked) > maxEstimateLen
	if truncated {
		checked = checked[:maxEstimateLen]
	}

	result := zxcvbn.PasswordStrength(string(checked), userInputs)
	return Estimate{
		Entropy:   result.Entropy,
		CrackTime: result.CrackTimeDisplay,
		Score:     result.Score,
		Truncated: truncated,
	}
}
