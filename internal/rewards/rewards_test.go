package rewards

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	err     error
	rewards []model.Reward
	tasks   []model.Report
}

func (f *fakeSource) GetAllRewards(_ context.Context) ([]model.Reward, error) {
	return f.rewards, f.err
}

func (f *fakeSource) GetCollectionTasks(_ context.Context, _ service.TaskFilter) ([]model.Report, error) {
	return f.tasks, f.err
}

func TestLeaderboard(t *testing.T) {
	src := &fakeSource{rewards: []model.Reward{
		{UserID: 3, Name: "Cleo", Points: 120},
		{UserID: 1, Name: "Ana", Points: 45},
		{UserID: 2, Name: "Bo", Points: 120},
		{UserID: 1, Name: "Ana", Points: 80},
		{UserID: 4, Name: "Dev", Points: 0},
	}}

	entries, err := Leaderboard(context.Background(), src, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	want := []Entry{
		{Rank: 1, UserID: 2, Name: "Bo", Points: 120, Level: 2},
		{Rank: 2, UserID: 3, Name: "Cleo", Points: 120, Level: 2},
		{Rank: 3, UserID: 1, Name: "Ana", Points: 80, Level: 1},
		{Rank: 4, UserID: 4, Name: "Dev", Points: 0, Level: 1},
	}
	assert.Equal(t, want, entries)

	top, err := Leaderboard(context.Background(), src, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
	assert.Equal(t, "Bo", top[0].Name)

	_, err = Leaderboard(context.Background(), &fakeSource{err: errors.New("db down")}, 10)
	require.Error(t, err)
}

func TestImpact(t *testing.T) {
	src := &fakeSource{
		tasks: []model.Report{
			{Amount: "2.5 kg"},
			{Amount: "about 3 bags"},
			{Amount: "a few"},
			{Amount: "1.25kg then 7"},
		},
		rewards: []model.Reward{{Points: 30}, {Points: 12}},
	}

	summary, err := Impact(context.Background(), src)
	require.NoError(t, err)
	assert.InDelta(t, 6.8, summary.WasteCollected, 1e-9)
	assert.Equal(t, 4, summary.ReportsSubmitted)
	assert.Equal(t, 42, summary.TokensEarned)
	assert.InDelta(t, 3.4, summary.CO2Offset, 1e-9)

	empty, err := Impact(context.Background(), &fakeSource{})
	require.NoError(t, err)
	assert.Zero(t, empty.WasteCollected)
	assert.Zero(t, empty.ReportsSubmitted)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5 kg", 5},
		{"0.75 tons", 0.75},
		{"roughly 12.5", 12.5},
		{"none", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.in), 1e-9)
		})
	}
}
