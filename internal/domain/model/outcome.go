package model

import "fmt"

// Outcome is the resolved result of a matchup. It is a closed
// three-variant type so score-update logic can be checked for
// exhaustiveness.
type Outcome int

// The three possible resolutions of a matchup.
const (
	AWins Outcome = iota
	BWins
	Tie
)

// Wire representations accepted and produced by ParseOutcome/String.
const (
	outcomeAWins = "a_wins"
	outcomeBWins = "b_wins"
	outcomeTie   = "tie"
)

// String returns the wire representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case AWins:
		return outcomeAWins
	case BWins:
		return outcomeBWins
	case Tie:
		return outcomeTie
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Valid reports whether o is one of the three defined outcomes.
func (o Outcome) Valid() bool {
	return o == AWins || o == BWins || o == Tie
}

// Flipped returns the outcome as seen with the pair order reversed.
// Recording is symmetric: flipping the pair and the outcome together
// preserves meaning.
func (o Outcome) Flipped() Outcome {
	switch o {
	case AWins:
		return BWins
	case BWins:
		return AWins
	default:
		return o
	}
}

// ParseOutcome converts a wire string into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case outcomeAWins:
		return AWins, nil
	case outcomeBWins:
		return BWins, nil
	case outcomeTie:
		return Tie, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
}
