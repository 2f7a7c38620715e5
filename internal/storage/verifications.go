package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
)

// SaveVerificationAttempt stores the audit record of one verification attempt.
func (s *SQLiteStorage) SaveVerificationAttempt(ctx context.Context, attempt *model.VerificationAttempt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAttempt(attempt); err != nil {
		return err
	}

	return insertAttempt(ctx, s.db, attempt)
}

func insertAttempt(ctx context.Context, q queryable, attempt *model.VerificationAttempt) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO verification_attempts
			(id, report_id, user_id, decision, reward, confidence, error_kind, raw_output)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, attempt.ID, attempt.ReportID, attempt.UserID, attempt.Decision, attempt.Reward,
		attempt.Confidence, attempt.ErrorKind, attempt.RawOutput)
	if err != nil {
		return fmt.Errorf("failed to save verification attempt: %w", err)
	}
	return nil
}

// GetVerificationAttempts returns a report's attempts in the order they were made.
func (s *SQLiteStorage) GetVerificationAttempts(ctx context.Context, reportID int64) ([]model.VerificationAttempt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(reportID, "reportID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, report_id, user_id, decision, reward, confidence, error_kind, raw_output, created_at
		FROM verification_attempts
		WHERE report_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query verification attempts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var attempts []model.VerificationAttempt
	for rows.Next() {
		var a model.VerificationAttempt
		if err := rows.Scan(
			&a.ID,
			&a.ReportID,
			&a.UserID,
			&a.Decision,
			&a.Reward,
			&a.Confidence,
			&a.ErrorKind,
			&a.RawOutput,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan verification attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating verification attempts: %w", err)
	}
	return attempts, nil
}

// RecordCollection atomically marks a task verified, stores the collection,
// credits the collector's reward and, when present, saves the accepted attempt.
// Nothing is written if any step fails.
func (s *SQLiteStorage) RecordCollection(ctx context.Context, record service.CollectionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCollection(record); err != nil {
		return err
	}
	if record.Attempt != nil {
		if err := validateAttempt(record.Attempt); err != nil {
			return err
		}
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		report, err := s.updateTaskStatusTx(ctx, tx, record.ReportID, model.TaskVerified, record.CollectorID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE reports SET verification_result = ? WHERE id = ?
		`, nullString(record.VerificationJSON), record.ReportID); err != nil {
			return fmt.Errorf("failed to store verification result: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO collected_wastes (report_id, collector_id, status, verification_result)
			VALUES (?, ?, 'verified', ?)
		`, record.ReportID, record.CollectorID, nullString(record.VerificationJSON)); err != nil {
			return fmt.Errorf("failed to record collected waste: %w", err)
		}

		info := fmt.Sprintf("Points earned from collecting %s at %s", report.WasteType, report.Location)
		if err := s.addRewardTx(ctx, tx, record.CollectorID, record.Points, info); err != nil {
			return err
		}

		if record.Attempt == nil {
			return nil
		}
		return insertAttempt(ctx, tx, record.Attempt)
	})
}

// GetCollectedWaste returns the collections made by a collector.
func (s *SQLiteStorage) GetCollectedWaste(ctx context.Context, collectorID int64) ([]model.CollectedWaste, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(collectorID, "collectorID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, report_id, collector_id, collection_date, status, COALESCE(verification_result, '')
		FROM collected_wastes
		WHERE collector_id = ?
		ORDER BY collection_date ASC, id ASC
	`, collectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collected waste: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var collected []model.CollectedWaste
	for rows.Next() {
		var c model.CollectedWaste
		if err := rows.Scan(&c.ID, &c.ReportID, &c.CollectorID, &c.CollectionDate, &c.Status, &c.VerificationJSON); err != nil {
			return nil, fmt.Errorf("failed to scan collected waste: %w", err)
		}
		collected = append(collected, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collected waste: %w", err)
	}
	return collected, nil
}
