package game

// Outcome is the result of a stage as far as the player is concerned.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeClear
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClear:
		return "clear"
	case OutcomeFail:
		return "fail"
	}
	return "none"
}

// FailReason tells the renderer why a stage was lost.
type FailReason int

const (
	FailMissedNote FailReason = iota
	FailFell
)

func (r FailReason) String() string {
	if r == FailFell {
		return "fell"
	}
	return "missed note"
}
