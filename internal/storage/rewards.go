package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/wastewise/internal/model"
)

// GetReward returns a user's reward balance. Users who have not earned
// anything yet get a zero balance at level 1.
func (s *SQLiteStorage) GetReward(ctx context.Context, userID int64) (*model.Reward, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	user, err := s.getUserTx(ctx, s.db, "id = ?", userID)
	if err != nil {
		return nil, err
	}

	reward := model.Reward{UserID: user.ID, Name: user.Name, Level: model.LevelForPoints(0)}
	err = s.db.QueryRowContext(ctx, `
		SELECT points, level, collection_info, updated_at
		FROM rewards
		WHERE user_id = ?
	`, userID).Scan(&reward.Points, &reward.Level, &reward.CollectionInfo, &reward.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &reward, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reward: %w", err)
	}
	return &reward, nil
}

// GetAllRewards returns every reward row joined with its user's name.
func (s *SQLiteStorage) GetAllRewards(ctx context.Context) ([]model.Reward, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.user_id, u.name, r.points, r.level, r.collection_info, r.updated_at
		FROM rewards r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rewards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rewards []model.Reward
	for rows.Next() {
		var reward model.Reward
		if err := rows.Scan(
			&reward.UserID,
			&reward.Name,
			&reward.Points,
			&reward.Level,
			&reward.CollectionInfo,
			&reward.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rewards: %w", err)
	}
	return rewards, nil
}

// addRewardTx credits points to a user and recomputes their level.
func (s *SQLiteStorage) addRewardTx(ctx context.Context, q queryable, userID int64, points int, info string) error {
	var current int
	err := q.QueryRowContext(ctx, `SELECT points FROM rewards WHERE user_id = ?`, userID).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read reward balance: %w", err)
	}

	total := current + points
	_, err = q.ExecContext(ctx, `
		INSERT INTO rewards (user_id, points, level, collection_info, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			points = excluded.points,
			level = excluded.level,
			collection_info = excluded.collection_info,
			updated_at = CURRENT_TIMESTAMP
	`, userID, total, model.LevelForPoints(total), info)
	if err != nil {
		return fmt.Errorf("failed to save reward: %w", err)
	}
	return nil
}
