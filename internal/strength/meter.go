package strength

// DefaultColor is used when no palette entry applies (score 0)
const DefaultColor = "gray"

// Palette is indexed by score-1
var Palette = [MaxScore]string{"red", "orange", "yellow", "green"}

// Mood is the face shown beside the meter
type Mood string

const (
	Worried Mood = "worried"
	Neutral Mood = "neutral"
	Happy   Mood = "happy"
)

// Meter describes how a score is displayed
type Meter struct {
	Score        int
	WidthPercent int
	Color        string
	Mood         Mood
	// Celebrate is set only for the maximum score
	Celebrate bool
}

// Indicator maps a score to its meter. Scores outside [0, MaxScore] are
// clamped for the width and fall back to DefaultColor.
func Indicator(score int) Meter {
	m := Meter{
		Score:        score,
		WidthPercent: clamp(score) * 100 / MaxScore,
		Color:        DefaultColor,
		Mood:         moodFor(score),
		Celebrate:    score == MaxScore,
	}
	if score >= 1 && score <= MaxScore {
		m.Color = Palette[score-1]
	}
	return m
}

// IndicatorFor scores the password and returns its meter
func IndicatorFor(password string) Meter {
	return Indicator(Score(password))
}

func moodFor(score int) Mood {
	switch {
	case score <= 1:
		return Worried
	case score <= 3:
		return Neutral
	default:
		return Happy
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
