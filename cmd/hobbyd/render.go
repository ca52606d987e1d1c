package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hobbyd/internal/calendar"
	"hobbyd/internal/models"
)

var (
	surface1 = lipgloss.Color("#45475a")
	subtext0 = lipgloss.Color("#a6adc8")
	lavender = lipgloss.Color("#b4befe")
	sapphire = lipgloss.Color("#74c7ec")
	green    = lipgloss.Color("#a6e3a1")
	peach    = lipgloss.Color("#fab387")

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(surface1).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Foreground(sapphire).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(subtext0).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lavender)
	mutedStyle = lipgloss.NewStyle().Foreground(subtext0)
	upStyle    = lipgloss.NewStyle().Foreground(green)
	hotStyle   = lipgloss.NewStyle().Foreground(peach).Bold(true)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func weekTrend(this, prev float64) string {
	switch {
	case this > prev:
		return upStyle.Render(fmt.Sprintf("%.2fh ▲", this))
	case this < prev:
		return hotStyle.Render(fmt.Sprintf("%.2fh ▼", this))
	}
	return valueStyle.Render(fmt.Sprintf("%.2fh", this))
}

func renderSummary(s *models.StatsSummary) string {
	lines := []string{
		titleStyle.Render("Practice summary"),
		"",
		row("Hobbies", fmt.Sprintf("%d", s.TotalHobbies)),
		row("Sessions", fmt.Sprintf("%d", s.TotalSessions)),
		row("Total hours", fmt.Sprintf("%.2f", s.TotalHours)),
		row("Avg session", fmt.Sprintf("%.2f min", s.AvgSessionMinutes)),
		row("Best streak", fmt.Sprintf("%d days", s.BestStreak)),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("This week"), weekTrend(s.ThisWeekHours, s.PrevWeekHours)),
		row("Previous week", fmt.Sprintf("%.2fh", s.PrevWeekHours)),
	}
	if mp := s.MostPracticedHobby; mp != nil {
		lines = append(lines, row("Most practiced", fmt.Sprintf("%s %s (%.2fh)", mp.Icon, mp.Name, mp.Hours)))
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

func renderHobbies(hobbies []*models.HobbyWithStats) string {
	lines := []string{titleStyle.Render("Hobbies"), ""}
	for _, h := range hobbies {
		streak := valueStyle.Render(fmt.Sprintf("%d", h.Stats.CurrentStreak))
		if h.Stats.CurrentStreak > 0 && h.Stats.CurrentStreak == h.Stats.LongestStreak {
			streak = hotStyle.Render(fmt.Sprintf("%d", h.Stats.CurrentStreak))
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s  streak %s/%d  %.2fh in %d sessions",
			h.Icon, valueStyle.Render(h.Name), mutedStyle.Render(h.ID), streak,
			h.Stats.LongestStreak, h.Stats.TotalHours, h.Stats.TotalSessions))
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

func renderRecent(sessions []*models.SessionWithHobby) string {
	lines := []string{titleStyle.Render("Recent sessions"), ""}
	for _, s := range sessions {
		lines = append(lines, fmt.Sprintf("%s  %s %s  %s",
			labelStyle.Render(calendar.FormatDateLabel(s.Date)), s.HobbyIcon,
			valueStyle.Render(s.HobbyName), mutedStyle.Render(fmt.Sprintf("%d min", s.DurationMinutes))))
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}
