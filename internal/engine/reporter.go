package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/wastewise/internal/llm"
	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
	"github.com/Veraticus/wastewise/internal/session"
)

// ProgressFunc is called after each item of a batch.
type ProgressFunc func(done, total int)

// BatchResult is the outcome of one image in a batch submission.
type BatchResult struct {
	Err    error
	Report *model.Report
	Path   string
}

// Reporter turns waste photos into reports.
type Reporter struct {
	storage  service.Storage
	analyzer Analyzer
	logger   *slog.Logger
}

// NewReporter creates a reporter with the given dependencies.
func NewReporter(storage service.Storage, analyzer Analyzer, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{storage: storage, analyzer: analyzer, logger: logger}
}

// Submit analyzes the image at imagePath and files a pending report for the session user.
func (r *Reporter) Submit(ctx context.Context, location, imagePath string) (*model.Report, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, sessionError(err)
	}
	return r.submit(ctx, sess, location, imagePath)
}

// SubmitBatch submits each image in turn at the same location. A failed
// image does not stop the batch; cancellation does.
func (r *Reporter) SubmitBatch(ctx context.Context, location string, imagePaths []string, progress ProgressFunc) ([]BatchResult, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, sessionError(err)
	}

	results := make([]BatchResult, 0, len(imagePaths))
	for i, path := range imagePaths {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		report, err := r.submit(ctx, sess, location, path)
		if err != nil {
			r.logger.Warn("Failed to submit report", "image", path, "error", err)
		}
		results = append(results, BatchResult{Path: path, Report: report, Err: err})

		if progress != nil {
			progress(i+1, len(imagePaths))
		}
	}
	return results, nil
}

func (r *Reporter) submit(ctx context.Context, sess session.Session, location, imagePath string) (*model.Report, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("location is required")
	}

	image, err := llm.LoadImage(imagePath)
	if err != nil {
		return nil, err
	}

	classification, err := r.analyzer.Analyze(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", imagePath, err)
	}

	result, err := json.Marshal(classification)
	if err != nil {
		return nil, fmt.Errorf("failed to encode classification: %w", err)
	}

	report := &model.Report{
		UserID:           sess.UserID,
		Location:         strings.TrimSpace(location),
		WasteType:        classification.Category,
		Amount:           classification.Quantity,
		ImageURL:         imagePath,
		VerificationJSON: string(result),
		Status:           model.TaskPending,
	}
	if err := r.storage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	r.logger.Info("Report submitted",
		"report_id", report.ID,
		"waste_type", report.WasteType,
		"amount", report.Amount,
		"confidence", classification.Confidence)
	return report, nil
}
