package workflow

import "strings"

type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
)

func (t Tone) String() string {
	switch t {
	case TonePositive:
		return "positive"
	case ToneNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// Classify maps an allocation or leave status to its display tone. Anything
// that is not approved, rejected or cancelled reads as pending.
func Classify(status string) Tone {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "APPROVED":
		return TonePositive
	case "REJECTED", "CANCELLED":
		return ToneNegative
	default:
		return ToneNeutral
	}
}
