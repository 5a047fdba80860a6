package scheduler

import (
	"math"
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/stretchr/testify/assert"
)

// Monday 2026-10-19, noon UTC.
var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func due(s string) *model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestScorePriority_Undated(t *testing.T) {
	for _, hours := range []float64{0, 1, 50} {
		got := ScorePriority(model.Task{ID: "u", EstimatedHours: hours}, testNow, nil)
		assert.Equal(t, UndatedPriority, got.Priority)
		assert.Equal(t, 1.0, got.UrgencyMultiplier)
		assert.Equal(t, UndatedPriority, got.BasePriority)
		assert.True(t, math.IsInf(got.DaysUntilDue, 1))
		assert.Zero(t, got.AverageHoursPerDay)
	}
}

func TestScorePriority_ZeroDateIsUndated(t *testing.T) {
	got := ScorePriority(model.Task{ID: "z", Due: &model.Date{}}, testNow, nil)
	assert.Equal(t, UndatedPriority, got.Priority)
}

func TestScorePriority(t *testing.T) {
	tests := []struct {
		name       string
		due        string
		hours      float64
		days       float64
		multiplier float64
		priority   float64
	}{
		{name: "overdue today", due: "2026-10-19", hours: 2, days: 0, multiplier: 100, priority: 200},
		{name: "overdue last week", due: "2026-10-12", hours: 30, days: -7, multiplier: 100, priority: 3000},
		{name: "small task due tomorrow", due: "2026-10-20", hours: 2, days: 1, multiplier: 10, priority: 20},
		{name: "three hours due tomorrow", due: "2026-10-20", hours: 3, days: 1, multiplier: 8, priority: 24},
		{name: "due in two days", due: "2026-10-21", hours: 4, days: 2, multiplier: 8, priority: 16},
		{name: "due in three days", due: "2026-10-22", hours: 10, days: 3, multiplier: 6, priority: 20},
		{name: "due in four days", due: "2026-10-23", hours: 15, days: 4, multiplier: 4, priority: 15},
		{name: "due in five days", due: "2026-10-24", hours: 30, days: 5, multiplier: 2, priority: 12},
		{name: "far away", due: "2026-10-29", hours: 8, days: 10, multiplier: 1, priority: 0.8},
		{name: "impossible deadline", due: "2026-10-20", hours: 20, days: 1, multiplier: 50, priority: 1000},
		{name: "impossible beats tiers", due: "2026-10-21", hours: 17, days: 2, multiplier: 50, priority: 425},
		{name: "missing estimate defaults to one hour", due: "2026-10-29", hours: 0, days: 10, multiplier: 1, priority: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := model.Task{ID: "t", Due: due(tt.due), EstimatedHours: tt.hours}
			got := ScorePriority(task, testNow, nil)
			assert.Equal(t, tt.days, got.DaysUntilDue)
			assert.Equal(t, tt.multiplier, got.UrgencyMultiplier)
			assert.InDelta(t, tt.priority, got.Priority, 1e-9)
			assert.InDelta(t, got.BasePriority*got.UrgencyMultiplier, got.Priority, 1e-9)
			assert.Equal(t, got.BasePriority, got.AverageHoursPerDay)
		})
	}
}

func TestScorePriority_Location(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 22:00 on the 19th in Tokyo; midnight of the 20th there is two hours away.
	now := time.Date(2026, 10, 19, 22, 0, 0, 0, tokyo)
	got := ScorePriority(model.Task{ID: "t", Due: due("2026-10-20"), EstimatedHours: 1}, now, tokyo)
	assert.Equal(t, 1.0, got.DaysUntilDue)
}
