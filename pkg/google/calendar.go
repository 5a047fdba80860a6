package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/colors"
	"github.com/harrisonrobin/studyplan/pkg/index"
	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/util"
	"google.golang.org/api/calendar/v3"
)

// CalendarClient is a Google Calendar API client.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
}

// NewCalendarClient creates a new Google Calendar client.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx}
}

// SyncResult counts what SyncSchedule changed.
type SyncResult struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
}

// BusyPeriods reads the events of the week from each calendar and converts
// them to busy periods. Sessions published by studyplan are skipped so a
// rerun does not schedule around its own output.
func (c *CalendarClient) BusyPeriods(ctx context.Context, calendarIDs []string, week model.Date, loc *time.Location) ([]model.BusyPeriod, error) {
	timeMin := week.Midnight(loc)
	timeMax := week.AddDays(model.DaysPerWeek).Midnight(loc)

	var periods []model.BusyPeriod
	for _, calID := range calendarIDs {
		err := c.srv.Events.List(calID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			Pages(ctx, func(page *calendar.Events) error {
				for _, e := range page.Items {
					if util.IsSessionEvent(e) {
						continue
					}
					converted, err := util.EventToBusyPeriods(e, week, loc)
					if err != nil {
						slog.Warn("skipping unreadable event", "calendar", calID, "event", e.Id, "err", err)
						continue
					}
					periods = append(periods, converted...)
				}
				return nil
			})
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve events from calendar %s: %w", calID, err)
		}
	}
	return periods, nil
}

// SyncSchedule publishes every session of sched, patching events that
// already exist, and deletes events of the same week that are no longer in
// the schedule.
func (c *CalendarClient) SyncSchedule(ctx context.Context, sched model.GeneratedSchedule, palette *colors.ColorCache) (SyncResult, error) {
	var result SyncResult
	live := make(map[string]bool, len(sched.Sessions))

	for _, session := range sched.Sessions {
		colorID := colors.DefaultColorID
		if palette != nil {
			colorID = palette.GetColorID(session.Activity)
		}
		event, err := util.ConvertSessionToCalendarEvent(sched.WeekStart, session, colorID)
		if err != nil {
			return result, err
		}
		key := util.SessionEventKey(sched.WeekStart, session)
		live[key] = true

		outcome, err := c.syncEvent(ctx, key, event)
		if err != nil {
			return result, fmt.Errorf("error syncing session %s: %w", key, err)
		}
		switch outcome {
		case outcomeCreated:
			result.Created++
		case outcomeUpdated:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	prefix := sched.WeekStart.String() + "/"
	for _, key := range c.index.Keys(prefix) {
		if live[key] {
			continue
		}
		if err := c.DeleteEvent(ctx, c.index.Get(key)); err != nil {
			slog.Warn("error deleting stale session event", "key", key, "err", err)
			continue
		}
		c.index.Remove(key)
		result.Deleted++
	}
	return result, nil
}

type syncOutcome int

const (
	outcomeUnchanged syncOutcome = iota
	outcomeCreated
	outcomeUpdated
)

// syncEvent creates the event for key or patches the existing one.
func (c *CalendarClient) syncEvent(ctx context.Context, key string, event *calendar.Event) (syncOutcome, error) {
	var existing *calendar.Event
	if eventID := c.index.Get(key); eventID != "" {
		found, err := c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
		if err == nil && found.Status != "cancelled" {
			existing = found
		}
	}
	if existing == nil {
		found, err := c.GetEventBySessionKey(ctx, key)
		if err != nil {
			return outcomeUnchanged, fmt.Errorf("error searching for event: %w", err)
		}
		existing = found
	}

	if existing != nil {
		c.index.Set(key, existing.Id)
		patch, err := util.EventNeedsUpdate(existing, event)
		if err != nil {
			return outcomeUnchanged, fmt.Errorf("could not compare session with its calendar event: %w", err)
		}
		if patch == nil {
			return outcomeUnchanged, nil
		}
		if _, err := c.PatchEvent(ctx, existing.Id, patch); err != nil {
			return outcomeUnchanged, err
		}
		return outcomeUpdated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return outcomeUnchanged, err
	}
	c.index.Set(key, created.Id)
	return outcomeCreated, nil
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// GetEventBySessionKey searches for an event carrying the session key in its
// private extended properties.
func (c *CalendarClient) GetEventBySessionKey(ctx context.Context, key string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", util.PropSessionKey, key)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
