package verify

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// Default policy values.
const (
	DefaultThreshold = 0.7
	DefaultMinReward = 10
	DefaultMaxReward = 59
)

// Policy maps a MatchResult to a Decision and reward.
// Rewards are a uniform random placeholder and do not scale with quantity.
type Policy struct {
	rng       *rand.Rand
	Threshold float64
	MinReward int
	MaxReward int
	mu        sync.Mutex
}

// NewPolicy returns a policy with the default threshold and reward range.
func NewPolicy() *Policy {
	return &Policy{
		Threshold: DefaultThreshold,
		MinReward: DefaultMinReward,
		MaxReward: DefaultMaxReward,
	}
}

// WithRand makes reward draws come from rng, for reproducible runs.
func (p *Policy) WithRand(rng *rand.Rand) *Policy {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rng = rng
	return p
}

// Validate checks the threshold and reward bounds.
func (p *Policy) Validate() error {
	if math.IsNaN(p.Threshold) || p.Threshold < 0 || p.Threshold >= 1 {
		return fmt.Errorf("threshold %.2f must be within [0,1)", p.Threshold)
	}
	if p.MinReward < 0 || p.MaxReward < p.MinReward {
		return fmt.Errorf("invalid reward range [%d,%d]", p.MinReward, p.MaxReward)
	}
	return nil
}

// Decide accepts only when both fields match and confidence is strictly above
// the threshold. The reward is zero unless the decision is Accepted.
func (p *Policy) Decide(m MatchResult) (Decision, int) {
	if m.CategoryMatch && m.QuantityMatch && m.Confidence > p.Threshold {
		return DecisionAccepted, p.drawReward()
	}
	return DecisionRejected, 0
}

// DecideFailure maps a failed attempt to a Decision. Transport, parse and
// schema failures are all Indeterminate: none of them says anything about
// the waste itself, so the user is prompted to try again.
func (p *Policy) DecideFailure(_ error) Decision {
	return DecisionIndeterminate
}

func (p *Policy) drawReward() int {
	span := p.MaxReward - p.MinReward + 1

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rng != nil {
		return p.MinReward + p.rng.IntN(span)
	}
	return p.MinReward + rand.IntN(span) //nolint:gosec // reward sizing is not security sensitive
}
