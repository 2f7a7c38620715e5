package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/wastewise/internal/llm"
)

// Analyzer asks the classifier to describe a waste photo.
type Analyzer struct {
	client llm.Client
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(client llm.Client, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, logger: logger}
}

// Analyze returns the classifier's description of the image. Errors are a
// TransportError, ParseError or SchemaError; none are retried.
func (a *Analyzer) Analyze(ctx context.Context, image llm.Image) (StructuredClassification, error) {
	if image.Empty() {
		return StructuredClassification{}, fmt.Errorf("image is required")
	}

	raw, err := a.client.Generate(ctx, AnalysisPrompt(), image)
	if err != nil {
		a.logger.Error("analysis request failed", "error", err)
		return StructuredClassification{}, &TransportError{Err: err}
	}

	obj, strategy, err := normalize(raw)
	if err != nil {
		a.logger.Warn("analysis response unparseable", "error", err, "raw_output", raw)
		return StructuredClassification{}, err
	}

	result, err := ValidateClassification(obj)
	if err != nil {
		a.logger.Warn("analysis response invalid", "error", err, "raw_output", raw)
		return StructuredClassification{}, err
	}

	a.logger.Debug("image analyzed",
		"waste_type", result.Category,
		"quantity", result.Quantity,
		"confidence", result.Confidence,
		"strategy", strategy)

	return result, nil
}
