package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
)

const reportColumns = `id, user_id, location, waste_type, amount, COALESCE(image_url, ''),
	COALESCE(verification_result, ''), status, collector_id, created_at`

// CreateReport inserts a report. The report's ID, status and creation time are filled in.
func (s *SQLiteStorage) CreateReport(ctx context.Context, report *model.Report) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReport(report); err != nil {
		return err
	}
	if report.Status == "" {
		report.Status = model.TaskPending
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getUserTx(ctx, tx, "id = ?", report.UserID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO reports (user_id, location, waste_type, amount, image_url, verification_result, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, report.UserID, report.Location, report.WasteType, report.Amount,
			nullString(report.ImageURL), nullString(report.VerificationJSON), string(report.Status))
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get report ID: %w", err)
		}

		stored, err := s.getReportTx(ctx, tx, id)
		if err != nil {
			return err
		}
		*report = *stored
		return nil
	})
}

// GetReport retrieves a report by ID.
func (s *SQLiteStorage) GetReport(ctx context.Context, id int64) (*model.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return s.getReportTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getReportTx(ctx context.Context, q queryable, id int64) (*model.Report, error) {
	row := q.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// GetRecentReports returns the newest reports first.
func (s *SQLiteStorage) GetRecentReports(ctx context.Context, limit int) ([]model.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectReports(rows)
}

// GetCollectionTasks lists reports as collection tasks, oldest first.
func (s *SQLiteStorage) GetCollectionTasks(ctx context.Context, filter service.TaskFilter) ([]model.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	var args []any

	if filter.Status != "" {
		if _, err := model.ParseTaskStatus(string(filter.Status)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query += ` AND location LIKE ?`
		args = append(args, "%"+loc+"%")
	}

	query += ` ORDER BY created_at ASC, id ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, max(filter.Offset, 0))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectReports(rows)
}

// UpdateTaskStatus moves a task to status on behalf of collectorID.
// Claiming a pending task assigns the collector; later transitions require the same collector.
func (s *SQLiteStorage) UpdateTaskStatus(ctx context.Context, reportID int64, status model.TaskStatus, collectorID int64) (*model.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(reportID, "reportID"); err != nil {
		return nil, err
	}
	if err := validateID(collectorID, "collectorID"); err != nil {
		return nil, err
	}
	if _, err := model.ParseTaskStatus(string(status)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	var updated *model.Report
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		updated, err = s.updateTaskStatusTx(ctx, tx, reportID, status, collectorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *SQLiteStorage) updateTaskStatusTx(ctx context.Context, tx *sql.Tx, reportID int64, status model.TaskStatus, collectorID int64) (*model.Report, error) {
	report, err := s.getReportTx(ctx, tx, reportID)
	if err != nil {
		return nil, err
	}

	if !report.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, report.Status, status)
	}
	if report.CollectorID != nil && *report.CollectorID != collectorID {
		return nil, ErrNotCollector
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE reports SET status = ?, collector_id = ? WHERE id = ?
	`, string(status), collectorID, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.getReportTx(ctx, tx, reportID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*model.Report, error) {
	var (
		report      model.Report
		status      string
		collectorID sql.NullInt64
	)
	err := row.Scan(
		&report.ID,
		&report.UserID,
		&report.Location,
		&report.WasteType,
		&report.Amount,
		&report.ImageURL,
		&report.VerificationJSON,
		&status,
		&collectorID,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	report.Status = model.TaskStatus(status)
	if collectorID.Valid {
		id := collectorID.Int64
		report.CollectorID = &id
	}
	return &report, nil
}

func collectReports(rows *sql.Rows) ([]model.Report, error) {
	var reports []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
