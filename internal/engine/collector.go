package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/llm"
	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
	"github.com/Veraticus/wastewise/internal/session"
	"github.com/Veraticus/wastewise/internal/verify"
)

// Collector runs the collection side of a task: claiming, completing and verifying.
type Collector struct {
	storage  service.Storage
	verifier Verifier
	logger   *slog.Logger
}

// NewCollector creates a collector with the given dependencies.
func NewCollector(storage service.Storage, verifier Verifier, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{storage: storage, verifier: verifier, logger: logger}
}

// Claim assigns a pending task to the session user.
func (c *Collector) Claim(ctx context.Context, reportID int64) (*model.Report, error) {
	return c.transition(ctx, reportID, model.TaskInProgress)
}

// Complete marks a claimed task as collected and awaiting verification.
func (c *Collector) Complete(ctx context.Context, reportID int64) (*model.Report, error) {
	return c.transition(ctx, reportID, model.TaskCompleted)
}

func (c *Collector) transition(ctx context.Context, reportID int64, status model.TaskStatus) (*model.Report, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, sessionError(err)
	}

	report, err := c.storage.UpdateTaskStatus(ctx, reportID, status, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to move task %d to %s: %w", reportID, status, err)
	}

	c.logger.Info("Task status updated",
		"report_id", reportID,
		"status", status,
		"collector_id", sess.UserID)
	return report, nil
}

// VerifyTask checks a collection photo against the task's report. Every
// attempt is recorded; only an accepted one marks the task verified and
// credits the reward. The returned error covers persistence failures only:
// verification failures are carried in the Outcome.
func (c *Collector) VerifyTask(ctx context.Context, reportID int64, image llm.Image) (verify.Outcome, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return verify.Outcome{}, sessionError(err)
	}

	report, err := c.storage.GetReport(ctx, reportID)
	if err != nil {
		return verify.Outcome{}, fmt.Errorf("failed to load task %d: %w", reportID, err)
	}
	if report.CollectorID == nil || *report.CollectorID != sess.UserID {
		return verify.Outcome{}, ErrNotAssigned
	}
	if !report.Status.Verifiable() {
		return verify.Outcome{}, fmt.Errorf("%w: %s", common.ErrTaskNotVerifiable, report.Status)
	}

	req := verify.ClassificationRequest{
		DeclaredCategory: report.WasteType,
		DeclaredQuantity: report.Amount,
	}
	outcome := c.verifier.Verify(ctx, req, image)

	attempt := &model.VerificationAttempt{
		ID:        outcome.AttemptID,
		ReportID:  report.ID,
		UserID:    sess.UserID,
		Decision:  outcome.Decision.String(),
		Reward:    outcome.Reward,
		ErrorKind: verify.ErrorKind(outcome.Err),
		RawOutput: outcome.RawOutput,
	}
	if outcome.Match != nil {
		attempt.Confidence = outcome.Match.Confidence
	}
	if !outcome.Accepted() {
		if err := c.storage.SaveVerificationAttempt(ctx, attempt); err != nil {
			return outcome, fmt.Errorf("failed to record verification attempt: %w", err)
		}
		return outcome, nil
	}

	result, err := json.Marshal(outcome.Match)
	if err != nil {
		return outcome, fmt.Errorf("failed to encode verification result: %w", err)
	}

	err = c.storage.RecordCollection(ctx, service.CollectionRecord{
		Attempt:          attempt,
		ReportID:         report.ID,
		CollectorID:      sess.UserID,
		Points:           outcome.Reward,
		VerificationJSON: string(result),
	})
	if err != nil {
		// Nothing was credited, so the audit row carries no reward.
		attempt.Reward = 0
		attempt.ErrorKind = ErrorKindPersistence
		if saveErr := c.storage.SaveVerificationAttempt(ctx, attempt); saveErr != nil {
			c.logger.Error("Failed to record verification attempt",
				"report_id", report.ID,
				"attempt_id", attempt.ID,
				"error", saveErr)
		}
		return outcome, fmt.Errorf("failed to record collection: %w", err)
	}

	c.logger.Info("Collection verified",
		"report_id", report.ID,
		"attempt_id", outcome.AttemptID,
		"reward", outcome.Reward)
	return outcome, nil
}
