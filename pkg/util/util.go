package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// Private extended properties stamped on published sessions.
const (
	PropSessionKey = "studyplan_session"
	PropWeek       = "studyplan_week"
	PropTaskID     = "studyplan_task"
)

var durationPartRe = regexp.MustCompile(`(\d+)([HMS])`)

// ParseDuration parses ISO 8601 duration format (PT1H30M) from Taskwarrior JSON export
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO 8601 duration format: %s", s)
	}

	s = s[1:]
	if len(s) == 0 || s[0] != 'T' {
		return 0, fmt.Errorf("invalid ISO 8601 duration (missing T): P%s", s)
	}
	s = s[1:]

	var total time.Duration
	for _, match := range durationPartRe.FindAllStringSubmatch(s, -1) {
		value, _ := strconv.Atoi(match[1])
		switch match[2] {
		case "H":
			total += time.Duration(value) * time.Hour
		case "M":
			total += time.Duration(value) * time.Minute
		case "S":
			total += time.Duration(value) * time.Second
		}
	}

	if total == 0 {
		return 0, fmt.Errorf("invalid ISO 8601 duration: PT%s", s)
	}

	return total, nil
}

// EventNeedsUpdate returns a patch event if the fields shared between a
// session event and the existing calendar event differ, or nil when they match.
func EventNeedsUpdate(existingEvent *calendar.Event, targetEvent *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existingEvent.Summary != targetEvent.Summary {
		patch.Summary = targetEvent.Summary
		needsUpdate = true
	}
	if existingEvent.Description != targetEvent.Description {
		patch.Description = targetEvent.Description
		needsUpdate = true
	}
	if existingEvent.ColorId != targetEvent.ColorId {
		patch.ColorId = targetEvent.ColorId
		needsUpdate = true
	}

	existingStart, existingEnd, err := eventTimes(existingEvent)
	if err != nil {
		return nil, err
	}
	targetStart, targetEnd, err := eventTimes(targetEvent)
	if err != nil {
		return nil, err
	}
	if !existingStart.Equal(targetStart) || !existingEnd.Equal(targetEnd) {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func eventTimes(e *calendar.Event) (time.Time, time.Time, error) {
	if e.Start == nil || e.End == nil || e.Start.DateTime == "" || e.End.DateTime == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("event %q has no start/end date-time", e.Id)
	}
	start, err := time.Parse(time.RFC3339, e.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, e.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// SessionEventKey is the index key of a session: the week plus the stable
// task/chunk key, so republishing a week updates the same events.
func SessionEventKey(week model.Date, session model.ScheduledSession) string {
	chunk := 1
	if session.ChunkIndex != nil {
		chunk = *session.ChunkIndex
	}
	return fmt.Sprintf("%s/%s#%d", week, session.TaskID, chunk)
}

// ConvertSessionToCalendarEvent builds the Google event for a session.
func ConvertSessionToCalendarEvent(week model.Date, session model.ScheduledSession, colorID string) (*calendar.Event, error) {
	if session.TaskID == "" || session.Title == "" {
		return nil, fmt.Errorf("session %q has no task or title", session.ID)
	}
	if !session.End.After(session.Start) {
		return nil, fmt.Errorf("session %q ends before it starts", session.ID)
	}

	var desc strings.Builder
	if session.Notes != "" {
		desc.WriteString(session.Notes)
		desc.WriteString("\n\n")
	}
	if session.Activity != "" {
		desc.WriteString(fmt.Sprintf("Activity: %s\n", session.Activity))
	}
	desc.WriteString(fmt.Sprintf("Priority: %.2f\n", session.Priority))
	desc.WriteString(fmt.Sprintf("Task: %s\n", session.TaskID))

	return &calendar.Event{
		Summary:     session.Title,
		Description: desc.String(),
		Location:    session.Location,
		ColorId:     colorID,
		Start: &calendar.EventDateTime{
			DateTime: session.Start.UTC().Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: session.End.UTC().Format(time.RFC3339),
		},
		Transparency: "opaque",
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				PropSessionKey: SessionEventKey(week, session),
				PropWeek:       week.String(),
				PropTaskID:     session.TaskID,
			},
		},
	}, nil
}

// IsSessionEvent reports whether e was published by this tool.
func IsSessionEvent(e *calendar.Event) bool {
	return e.ExtendedProperties != nil && e.ExtendedProperties.Private[PropSessionKey] != ""
}

// EventToBusyPeriods converts a timed calendar event into busy periods of the
// week starting at week, split at midnight in loc and clipped to the week.
// All-day, cancelled and transparent events yield nothing.
func EventToBusyPeriods(e *calendar.Event, week model.Date, loc *time.Location) ([]model.BusyPeriod, error) {
	if e.Status == "cancelled" || e.Transparency == "transparent" {
		return nil, nil
	}
	if e.Start == nil || e.Start.DateTime == "" {
		return nil, nil
	}
	start, end, err := eventTimes(e)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	weekStart := week.Midnight(loc)
	weekEnd := week.AddDays(model.DaysPerWeek).Midnight(loc)
	if start.Before(weekStart) {
		start = weekStart
	}
	if end.After(weekEnd) {
		end = weekEnd
	}

	var periods []model.BusyPeriod
	for day := 0; day < model.DaysPerWeek; day++ {
		dayStart := week.AddDays(day).Midnight(loc)
		dayEnd := week.AddDays(day + 1).Midnight(loc)
		s, en := start, end
		if s.Before(dayStart) {
			s = dayStart
		}
		if en.After(dayEnd) {
			en = dayEnd
		}
		if !en.After(s) {
			continue
		}
		periods = append(periods, model.BusyPeriod{
			Day:   day,
			Start: model.ClockMinutes(s.Sub(dayStart) / time.Minute),
			End:   model.ClockMinutes(ceilMinutes(en.Sub(dayStart))),
			Type:  model.BusyTypeBusy,
			Label: e.Summary,
		})
	}
	return periods, nil
}

func ceilMinutes(d time.Duration) int {
	return int((d + time.Minute - 1) / time.Minute)
}
