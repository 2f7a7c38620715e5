package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/rewards"
	"github.com/Veraticus/wastewise/internal/service"
	"github.com/Veraticus/wastewise/internal/verify"
	"github.com/charmbracelet/lipgloss"
)

// RenderOutcome formats a verification outcome for the terminal.
func RenderOutcome(o verify.Outcome) string {
	switch o.Decision {
	case verify.DecisionAccepted:
		return FormatSuccess(o.Message)
	case verify.DecisionRejected:
		return FormatError(o.Message)
	default:
		return FormatWarning(o.Message)
	}
}

// RenderTasks formats collection tasks as a table.
func RenderTasks(tasks []model.Report) string {
	if len(tasks) == 0 {
		return SubtleStyle.Render("No tasks found.")
	}

	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		collector := "-"
		if task.CollectorID != nil {
			collector = strconv.FormatInt(*task.CollectorID, 10)
		}
		rows = append(rows, []string{
			strconv.FormatInt(task.ID, 10),
			statusStyle(task.Status).Render(string(task.Status)),
			task.Location,
			task.WasteType,
			task.Amount,
			collector,
			task.CreatedAt.Format("2006-01-02"),
		})
	}
	return renderTable([]string{"ID", "STATUS", "LOCATION", "WASTE", "AMOUNT", "COLLECTOR", "REPORTED"}, rows)
}

// RenderLeaderboard formats leaderboard entries as a table.
func RenderLeaderboard(entries []rewards.Entry) string {
	if len(entries) == 0 {
		return SubtleStyle.Render("No rewards earned yet.")
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rank := strconv.Itoa(e.Rank)
		if e.Rank == 1 {
			rank = TrophyIcon + " " + rank
		}
		rows = append(rows, []string{rank, e.Name, strconv.Itoa(e.Points), strconv.Itoa(e.Level)})
	}
	return renderTable([]string{"RANK", "NAME", "POINTS", "LEVEL"}, rows)
}

// RenderImpact formats the community impact summary in a box.
func RenderImpact(s service.ImpactSummary) string {
	lines := []string{
		fmt.Sprintf("%s Waste collected:   %s kg", RecycleIcon, BoldStyle.Render(strconv.FormatFloat(s.WasteCollected, 'f', 1, 64))),
		fmt.Sprintf("%s Reports submitted: %s", ChartIcon, BoldStyle.Render(strconv.Itoa(s.ReportsSubmitted))),
		fmt.Sprintf("%s Tokens earned:     %s", CoinIcon, BoldStyle.Render(strconv.Itoa(s.TokensEarned))),
		fmt.Sprintf("%s CO2 offset:        %s kg", RecycleIcon, BoldStyle.Render(strconv.FormatFloat(s.CO2Offset, 'f', 1, 64))),
	}
	return RenderBox("Community Impact", strings.Join(lines, "\n"))
}

// RenderReward formats a user's reward balance.
func RenderReward(user *model.User, reward *model.Reward) string {
	lines := []string{
		fmt.Sprintf("Email:  %s", user.Email),
		fmt.Sprintf("Points: %s", BoldStyle.Render(strconv.Itoa(reward.Points))),
		fmt.Sprintf("Level:  %d", reward.Level),
	}
	if reward.CollectionInfo != "" {
		lines = append(lines, SubtleStyle.Render(reward.CollectionInfo))
	}
	return RenderBox(user.Name, strings.Join(lines, "\n"))
}

func statusStyle(status model.TaskStatus) lipgloss.Style {
	switch status {
	case model.TaskVerified:
		return SuccessStyle
	case model.TaskInProgress, model.TaskCompleted:
		return WarningStyle
	default:
		return InfoStyle
	}
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	render := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, render(headers, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, render(row, lipgloss.NewStyle()))
	}
	return strings.Join(lines, "\n")
}
