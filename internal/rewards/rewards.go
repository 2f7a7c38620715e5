// Package rewards aggregates reward balances and reports into the
// leaderboard and community impact figures.
package rewards

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
)

// CO2PerUnit is the CO2 offset credited per unit of collected waste.
const CO2PerUnit = 0.5

var amountPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Source is the subset of storage the aggregations read from.
type Source interface {
	GetAllRewards(ctx context.Context) ([]model.Reward, error)
	GetCollectionTasks(ctx context.Context, filter service.TaskFilter) ([]model.Report, error)
}

// Entry is one leaderboard row.
type Entry struct {
	Name   string `json:"name"`
	UserID int64  `json:"userId"`
	Rank   int    `json:"rank"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

// Leaderboard ranks users by points, highest first, ties broken by user ID.
// A limit of zero or less returns every user.
func Leaderboard(ctx context.Context, src Source, limit int) ([]Entry, error) {
	all, err := src.GetAllRewards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rewards: %w", err)
	}

	best := make(map[int64]model.Reward, len(all))
	for _, r := range all {
		if cur, ok := best[r.UserID]; !ok || r.Points > cur.Points {
			best[r.UserID] = r
		}
	}

	entries := make([]Entry, 0, len(best))
	for _, r := range best {
		entries = append(entries, Entry{
			UserID: r.UserID,
			Name:   r.Name,
			Points: r.Points,
			Level:  model.LevelForPoints(r.Points),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Impact summarizes the community's reports and rewards.
func Impact(ctx context.Context, src Source) (service.ImpactSummary, error) {
	tasks, err := src.GetCollectionTasks(ctx, service.TaskFilter{})
	if err != nil {
		return service.ImpactSummary{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	all, err := src.GetAllRewards(ctx)
	if err != nil {
		return service.ImpactSummary{}, fmt.Errorf("failed to load rewards: %w", err)
	}

	var collected float64
	for _, task := range tasks {
		collected += ParseAmount(task.Amount)
	}

	var tokens int
	for _, r := range all {
		tokens += r.Points
	}

	return service.ImpactSummary{
		WasteCollected:   roundTenth(collected),
		ReportsSubmitted: len(tasks),
		TokensEarned:     tokens,
		CO2Offset:        roundTenth(collected * CO2PerUnit),
	}, nil
}

// ParseAmount returns the first decimal number in a free-form amount, or zero.
func ParseAmount(amount string) float64 {
	match := amountPattern.FindString(amount)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
