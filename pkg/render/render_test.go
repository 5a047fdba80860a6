package render

import (
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule(t *testing.T) {
	week, err := model.ParseDate("2026-10-19")
	require.NoError(t, err)
	sched := model.GeneratedSchedule{
		UserID:    "alice",
		WeekStart: week,
		Sessions: []model.ScheduledSession{
			{Title: "Essay (Part 1 of 2)", DayOfWeek: 2, Activity: "english", Priority: 16,
				Start: time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC), End: time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)},
		},
		GeneratedAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
	}

	out := Schedule(sched, time.UTC)
	assert.Contains(t, out, "Week of 2026-10-19")
	assert.Contains(t, out, "Wednesday 2026-10-21")
	assert.Contains(t, out, "09:00-10:00")
	assert.Contains(t, out, "Essay (Part 1 of 2)")
	assert.Contains(t, out, "english")
	assert.Contains(t, out, "p=16.00")
	assert.NotContains(t, out, "Monday")
}

func TestSchedule_Empty(t *testing.T) {
	out := Schedule(model.GeneratedSchedule{UserID: "bob"}, nil)
	assert.Contains(t, out, "No study sessions scheduled.")
}
