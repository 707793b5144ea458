// Package scoring defines how resolved outcomes translate into score deltas.
package scoring

import (
	"fmt"

	"github.com/okian/ranqr/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultWinPoints = 1
	defaultTiePoints = 0
)

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithWinPoints sets the points transferred from loser to winner.
func WithWinPoints(points int) Option {
	return func(p *Policy) {
		if points > 0 {
			p.winPoints = points
		}
	}
}

// WithTiePoints sets the points awarded to both sides of a tie.
// The default of 0 keeps ties score-neutral; product requirements that
// want ties to reward both items can raise it.
func WithTiePoints(points int) Option {
	return func(p *Policy) {
		if points >= 0 {
			p.tiePoints = points
		}
	}
}

// Policy maps a resolved outcome onto score adjustments for both items.
// The default policy is zero-sum for decisive outcomes: the winner gains
// what the loser gives up, and ties change nothing.
type Policy struct {
	winPoints int
	tiePoints int
}

// NewPolicy creates a scoring policy with configuration options.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		winPoints: defaultWinPoints,
		tiePoints: defaultTiePoints,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Deltas returns the score adjustments for both sides of a resolved pair.
// deltaA applies to the first item of the canonical pair, deltaB to the
// second. The switch is exhaustive over the closed Outcome type.
func (p *Policy) Deltas(o model.Outcome) (deltaA, deltaB int, err error) {
	switch o {
	case model.AWins:
		return p.winPoints, -p.winPoints, nil
	case model.BWins:
		return -p.winPoints, p.winPoints, nil
	case model.Tie:
		return p.tiePoints, p.tiePoints, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", model.ErrUnknownOutcome, int(o))
	}
}
