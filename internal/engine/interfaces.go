package engine

import (
	"context"

	"github.com/Veraticus/wastewise/internal/llm"
	"github.com/Veraticus/wastewise/internal/verify"
)

// Verifier defines the contract for one verification attempt.
type Verifier interface {
	Verify(ctx context.Context, req verify.ClassificationRequest, image llm.Image) verify.Outcome
}

// Analyzer defines the contract for describing a waste photo.
type Analyzer interface {
	Analyze(ctx context.Context, image llm.Image) (verify.StructuredClassification, error)
}
