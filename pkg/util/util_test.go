package util

import (
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func timed(start, end string) *calendar.Event {
	return &calendar.Event{
		Summary: "Lecture",
		Start:   &calendar.EventDateTime{DateTime: start},
		End:     &calendar.EventDateTime{DateTime: end},
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "PT1H", want: time.Hour},
		{in: "PT30M", want: 30 * time.Minute},
		{in: "PT1H30M", want: 90 * time.Minute},
		{in: "PT45S", want: 45 * time.Second},
		{in: "P1D", wantErr: true},
		{in: "1h", wantErr: true},
		{in: "PT", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertSessionToCalendarEvent(t *testing.T) {
	week := mustDate(t, "2026-10-19")
	index := 2
	session := model.ScheduledSession{
		ID:         "abc",
		TaskID:     "essay",
		Title:      "Essay (Part 2 of 3)",
		Notes:      "Outline first",
		Start:      time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC),
		DayOfWeek:  1,
		ChunkIndex: &index,
		Priority:   16,
		Activity:   "english",
	}

	event, err := ConvertSessionToCalendarEvent(week, session, "5")
	require.NoError(t, err)
	assert.Equal(t, "Essay (Part 2 of 3)", event.Summary)
	assert.Equal(t, "5", event.ColorId)
	assert.Equal(t, "2026-10-20T09:00:00Z", event.Start.DateTime)
	assert.Equal(t, "2026-10-20T10:00:00Z", event.End.DateTime)
	assert.Contains(t, event.Description, "Outline first")
	assert.Contains(t, event.Description, "Activity: english")
	assert.Contains(t, event.Description, "Priority: 16.00")

	require.NotNil(t, event.ExtendedProperties)
	assert.Equal(t, "2026-10-19/essay#2", event.ExtendedProperties.Private[PropSessionKey])
	assert.Equal(t, "2026-10-19", event.ExtendedProperties.Private[PropWeek])
	assert.True(t, IsSessionEvent(event))

	_, err = ConvertSessionToCalendarEvent(week, model.ScheduledSession{ID: "x", TaskID: "t", Title: "t"}, "1")
	assert.Error(t, err)
}

func TestSessionEventKey_SingleChunk(t *testing.T) {
	key := SessionEventKey(mustDate(t, "2026-10-19"), model.ScheduledSession{TaskID: "read"})
	assert.Equal(t, "2026-10-19/read#1", key)
}

func TestEventNeedsUpdate(t *testing.T) {
	base := timed("2026-10-20T09:00:00Z", "2026-10-20T10:00:00Z")
	base.Description = "d"
	same := timed("2026-10-20T11:00:00+02:00", "2026-10-20T12:00:00+02:00")
	same.Description = "d"

	patch, err := EventNeedsUpdate(base, same)
	require.NoError(t, err)
	assert.Nil(t, patch)

	moved := timed("2026-10-21T09:00:00Z", "2026-10-21T10:00:00Z")
	moved.Description = "d"
	moved.ColorId = "3"
	patch, err = EventNeedsUpdate(base, moved)
	require.NoError(t, err)
	require.NotNil(t, patch)
	assert.Equal(t, moved.Start, patch.Start)
	assert.Equal(t, "3", patch.ColorId)
	assert.Empty(t, patch.Summary)

	_, err = EventNeedsUpdate(&calendar.Event{Start: &calendar.EventDateTime{Date: "2026-10-20"}}, moved)
	assert.Error(t, err)
}

func TestEventToBusyPeriods(t *testing.T) {
	week := mustDate(t, "2026-10-19")

	tests := []struct {
		name  string
		event *calendar.Event
		want  []model.BusyPeriod
	}{
		{
			name:  "single day",
			event: timed("2026-10-20T09:00:00Z", "2026-10-20T10:30:00Z"),
			want:  []model.BusyPeriod{{Day: 1, Start: 540, End: 630, Type: "busy", Label: "Lecture"}},
		},
		{
			name:  "across midnight",
			event: timed("2026-10-21T22:00:00Z", "2026-10-22T01:00:00Z"),
			want: []model.BusyPeriod{
				{Day: 2, Start: 1320, End: 1440, Type: "busy", Label: "Lecture"},
				{Day: 3, Start: 0, End: 60, Type: "busy", Label: "Lecture"},
			},
		},
		{
			name:  "clipped to the week",
			event: timed("2026-10-18T20:00:00Z", "2026-10-19T08:00:00Z"),
			want:  []model.BusyPeriod{{Day: 0, Start: 0, End: 480, Type: "busy", Label: "Lecture"}},
		},
		{
			name:  "outside the week",
			event: timed("2026-10-27T09:00:00Z", "2026-10-27T10:00:00Z"),
		},
		{
			name:  "all-day",
			event: &calendar.Event{Start: &calendar.EventDateTime{Date: "2026-10-20"}, End: &calendar.EventDateTime{Date: "2026-10-21"}},
		},
		{
			name: "transparent",
			event: func() *calendar.Event {
				e := timed("2026-10-20T09:00:00Z", "2026-10-20T10:00:00Z")
				e.Transparency = "transparent"
				return e
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EventToBusyPeriods(tt.event, week, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventToBusyPeriods_Location(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*3600)
	got, err := EventToBusyPeriods(timed("2026-10-20T07:00:00Z", "2026-10-20T08:00:00Z"), mustDate(t, "2026-10-19"), berlin)
	require.NoError(t, err)
	assert.Equal(t, []model.BusyPeriod{{Day: 1, Start: 540, End: 600, Type: "busy", Label: "Lecture"}}, got)
}
