package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tracker/internal/chart"
	"tracker/internal/core"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb7185"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// WriteText renders v for a terminal. width bounds the chart bars.
func WriteText(w io.Writer, v View, width int) error {
	var lines []string
	if v.Notice != "" {
		lines = append(lines, noticeStyle.Render(v.Notice))
	}
	if v.Error != "" {
		lines = append(lines, errorStyle.Render("error: "+v.Error))
	}

	switch v.Section {
	case SectionLogin:
		lines = append(lines, mutedStyle.Render("Not logged in. Use `login <email> <password>` or `signup <name> <email> <password>`."))
	case SectionSignup:
		lines = append(lines, mutedStyle.Render("Create an account with `signup <name> <email> <password>`."))
	case SectionDashboard:
		lines = append(lines, dashboardLines(v, width)...)
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func dashboardLines(v View, width int) []string {
	var lines []string
	if v.UserName != "" {
		lines = append(lines, titleStyle.Render("Hello, "+v.UserName))
	}
	filter := fmt.Sprintf("filter: type=%s", v.Filters.Type)
	if v.Filters.Search != "" {
		filter += fmt.Sprintf(" search=%q", v.Filters.Search)
	}
	lines = append(lines, mutedStyle.Render(filter))

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render("Balance\n"+v.Balance),
		cardStyle.Render("Income\n"+incomeStyle.Render(v.TotalIncome)),
		cardStyle.Render("Expense\n"+expenseStyle.Render(v.TotalExpense)),
	)
	lines = append(lines, cards)

	if len(v.Rows) == 0 {
		lines = append(lines, mutedStyle.Render("No transactions."))
	} else {
		lines = append(lines, titleStyle.Render(fmt.Sprintf("%-6s %-8s %-16s %-20s %-12s %s", "ID", "TYPE", "CATEGORY", "NOTE", "DATE", "AMOUNT")))
		for _, r := range v.Rows {
			style := expenseStyle
			if r.Type == core.Income {
				style = incomeStyle
			}
			lines = append(lines, fmt.Sprintf("%-6d %s %-16s %-20s %-12s %s",
				r.ID, style.Render(fmt.Sprintf("%-8s", r.Type)), r.Category, r.Note, r.Date, r.Amount))
		}
	}

	lines = append(lines, "", titleStyle.Render(v.IncomeExpense.Title))
	lines = append(lines, chart.Text(v.IncomeExpense, width)...)
	lines = append(lines, "", titleStyle.Render(v.Categories.Title))
	lines = append(lines, chart.Text(v.Categories, width)...)
	return lines
}
