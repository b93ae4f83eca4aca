package colour

// Level is a WCAG 2.1 text contrast conformance level.
type Level string

const (
	// LevelAAA meets the enhanced contrast requirement.
	LevelAAA Level = "AAA"
	// LevelAA meets the minimum contrast requirement.
	LevelAA Level = "AA"
	// LevelFail meets neither requirement.
	LevelFail Level = "Fail"
)

// Contrast thresholds from WCAG 2.1 success criteria 1.4.3 and 1.4.6.
const (
	ContrastAA       = 4.5
	ContrastAAA      = 7.0
	ContrastLargeAA  = 3.0
	ContrastLargeAAA = 4.5
)

// String returns the level name.
func (l Level) String() string {
	return string(l)
}

// Rank orders levels by strictness: Fail < AA < AAA.
func (l Level) Rank() int {
	switch l {
	case LevelAAA:
		return 2
	case LevelAA:
		return 1
	default:
		return 0
	}
}

// Passes reports whether the level is AA or better.
func (l Level) Passes() bool {
	return l != LevelFail
}

// WCAGLevel classifies a contrast ratio. Large text (18pt, or 14pt bold)
// uses the relaxed thresholds.
func WCAGLevel(ratio float64, largeText bool) Level {
	if largeText {
		switch {
		case ratio >= ContrastLargeAAA:
			return LevelAAA
		case ratio >= ContrastLargeAA:
			return LevelAA
		default:
			return LevelFail
		}
	}

	switch {
	case ratio >= ContrastAAA:
		return LevelAAA
	case ratio >= ContrastAA:
		return LevelAA
	default:
		return LevelFail
	}
}
