package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/wastewise/internal/llm"
	"github.com/google/uuid"
)

// User-facing messages for each way an attempt can end.
const (
	MessageMissingInput   = "Missing required information for verification."
	MessageTransportError = "Verification failed. Please try again."
	MessageParseError     = "Failed to process verification response. Please try again."
	MessageRejected       = "Verification failed. The collected waste does not match the reported waste."
	messageAcceptedFormat = "Verification successful! You earned %d tokens!"
)

// Verifier runs single verification attempts against a classifier.
type Verifier struct {
	client llm.Client
	policy *Policy
	logger *slog.Logger
}

// NewVerifier creates a verifier. A nil policy uses NewPolicy.
func NewVerifier(client llm.Client, policy *Policy, logger *slog.Logger) *Verifier {
	if policy == nil {
		policy = NewPolicy()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{client: client, policy: policy, logger: logger}
}

// Verify checks an image against a declared claim. It makes exactly one
// classifier call and never returns an error: failures are carried in the
// Outcome as an Indeterminate decision with a retry message.
func (v *Verifier) Verify(ctx context.Context, req ClassificationRequest, image llm.Image) Outcome {
	outcome := Outcome{AttemptID: uuid.NewString()}
	logger := v.logger.With("attempt_id", outcome.AttemptID)

	if err := req.Validate(); err != nil {
		return v.fail(logger, outcome, err, MessageMissingInput)
	}
	if image.Empty() {
		return v.fail(logger, outcome, fmt.Errorf("image is required"), MessageMissingInput)
	}

	logger.Debug("requesting verification",
		"declared_category", req.DeclaredCategory,
		"declared_quantity", req.DeclaredQuantity)

	raw, err := v.client.Generate(ctx, MatchPrompt(req), image)
	if err != nil {
		return v.fail(logger, outcome, &TransportError{Err: err}, MessageTransportError)
	}
	outcome.RawOutput = raw

	obj, strategy, err := normalize(raw)
	if err != nil {
		return v.fail(logger, outcome, err, MessageParseError)
	}

	assertion, err := ValidateMatch(obj)
	if err != nil {
		return v.fail(logger, outcome, err, MessageParseError)
	}

	match := Evaluate(req, assertion)
	outcome.Match = &match
	outcome.Decision, outcome.Reward = v.policy.Decide(match)

	if outcome.Accepted() {
		outcome.Message = fmt.Sprintf(messageAcceptedFormat, outcome.Reward)
	} else {
		outcome.Message = MessageRejected + " " + match.Explain()
	}

	logger.Info("verification decided",
		"decision", outcome.Decision.String(),
		"reward", outcome.Reward,
		"waste_type_match", match.CategoryMatch,
		"quantity_match", match.QuantityMatch,
		"confidence", match.Confidence,
		"strategy", strategy)

	return outcome
}

func (v *Verifier) fail(logger *slog.Logger, outcome Outcome, err error, message string) Outcome {
	outcome.Err = err
	outcome.Decision = v.policy.DecideFailure(err)
	outcome.Message = message

	kind := ErrorKind(err)
	if kind == "transport" {
		logger.Error("verification request failed", "kind", kind, "error", err)
	} else {
		logger.Warn("verification attempt failed", "kind", kind, "error", err, "raw_output", outcome.RawOutput)
	}
	return outcome
}
