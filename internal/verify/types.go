package verify

import (
	"fmt"
	"strings"
)

// ClassificationRequest is the user's declared claim for one item.
type ClassificationRequest struct {
	DeclaredCategory string
	DeclaredQuantity string
}

// Validate checks that both declared fields are present.
func (r ClassificationRequest) Validate() error {
	if strings.TrimSpace(r.DeclaredCategory) == "" {
		return fmt.Errorf("declared category is required")
	}
	if strings.TrimSpace(r.DeclaredQuantity) == "" {
		return fmt.Errorf("declared quantity is required")
	}
	return nil
}

// StructuredClassification is a classifier's validated description of an image.
type StructuredClassification struct {
	Category   string  `json:"wasteType"`
	Quantity   string  `json:"quantity"`
	Confidence float64 `json:"confidence"`
}

// MatchAssertion is the classifier's validated claim about a declared item.
type MatchAssertion struct {
	CategoryMatch bool    `json:"wasteTypeMatch"`
	QuantityMatch bool    `json:"quantityMatch"`
	Confidence    float64 `json:"confidence"`
}

// MatchResult is the per-field outcome of comparing a claim with the classifier.
type MatchResult struct {
	Request       ClassificationRequest `json:"-"`
	CategoryMatch bool                  `json:"wasteTypeMatch"`
	QuantityMatch bool                  `json:"quantityMatch"`
	Confidence    float64               `json:"confidence"`
}

// Decision is the verdict of one verification attempt.
type Decision int

// Decision values.
const (
	DecisionIndeterminate Decision = iota
	DecisionAccepted
	DecisionRejected
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	default:
		return "indeterminate"
	}
}

// Outcome is everything the caller needs from one verification attempt.
type Outcome struct {
	Err       error
	Match     *MatchResult
	AttemptID string
	Message   string
	RawOutput string
	Decision  Decision
	Reward    int
}

// Accepted reports whether the attempt earned a reward.
func (o Outcome) Accepted() bool {
	return o.Decision == DecisionAccepted
}
