// Package render formats a schedule for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/studyplan/pkg/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)
	dayStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	emptyStyle    = lipgloss.NewStyle().Faint(true)
	boxStyle      = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

var dayNames = [model.DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Schedule renders sched grouped by day, with times shown in loc.
func Schedule(sched model.GeneratedSchedule, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Week of %s · %s", sched.WeekStart, sched.UserID)))
	b.WriteString("\n")

	if len(sched.Sessions) == 0 {
		b.WriteString(emptyStyle.Render("No study sessions scheduled."))
		b.WriteString("\n")
		return b.String()
	}

	byDay := make([][]model.ScheduledSession, model.DaysPerWeek)
	for _, s := range sched.Sessions {
		if s.DayOfWeek >= 0 && s.DayOfWeek < model.DaysPerWeek {
			byDay[s.DayOfWeek] = append(byDay[s.DayOfWeek], s)
		}
	}

	var blocks []string
	for day, sessions := range byDay {
		if len(sessions) == 0 {
			continue
		}
		var lines []string
		date := sched.WeekStart.AddDays(day)
		lines = append(lines, dayStyle.Render(fmt.Sprintf("%s %s", dayNames[day], date)))
		for _, s := range sessions {
			line := fmt.Sprintf("%s  %s",
				timeStyle.Render(fmt.Sprintf("%s-%s", s.Start.In(loc).Format("15:04"), s.End.In(loc).Format("15:04"))),
				s.Title)
			if s.Activity != "" {
				line += "  " + activityStyle.Render(s.Activity)
			}
			line += timeStyle.Render(fmt.Sprintf("  p=%.2f", s.Priority))
			lines = append(lines, line)
		}
		blocks = append(blocks, boxStyle.Render(strings.Join(lines, "\n")))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	b.WriteString("\n")
	b.WriteString(timeStyle.Render(fmt.Sprintf("%d sessions · generated %s", len(sched.Sessions), sched.GeneratedAt.In(loc).Format(time.RFC822))))
	b.WriteString("\n")
	return b.String()
}
