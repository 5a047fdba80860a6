package scheduler

import (
	"math"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// Scores for tasks without a due date. They sit below any dated task that
// still needs a meaningful daily pace.
const (
	UndatedPriority   = 0.1
	overdueMultiplier = 100
	// impossibleMultiplier marks work that cannot fit at workdayHours per day.
	impossibleMultiplier = 50
	workdayHours         = 8
)

// urgencyTier maps an effort/deadline pair to a multiplier. Tiers are
// evaluated in order and the first match wins.
type urgencyTier struct {
	maxEffort  float64 // exclusive; +Inf matches any effort
	maxDays    float64 // inclusive
	multiplier float64
}

var urgencyTiers = []urgencyTier{
	{maxEffort: math.Inf(1), maxDays: 0, multiplier: overdueMultiplier},
	{maxEffort: 3, maxDays: 1, multiplier: 10},
	{maxEffort: 6, maxDays: 2, multiplier: 8},
	{maxEffort: 12, maxDays: 3, multiplier: 6},
	{maxEffort: 18, maxDays: 4, multiplier: 4},
	{maxEffort: math.Inf(1), maxDays: 5, multiplier: 2},
}

// ScorePriority computes the urgency-weighted priority of task as seen at now.
// The due date is taken as midnight in loc (UTC when nil).
func ScorePriority(task model.Task, now time.Time, loc *time.Location) model.PriorityResult {
	if task.Undated() {
		return model.PriorityResult{
			TaskID:             task.ID,
			Priority:           UndatedPriority,
			UrgencyMultiplier:  1,
			BasePriority:       UndatedPriority,
			DaysUntilDue:       math.Inf(1),
			AverageHoursPerDay: 0,
		}
	}

	daysUntilDue := math.Ceil(task.Due.Midnight(loc).Sub(now).Hours() / 24)
	if daysUntilDue == 0 {
		// ceil of a small negative fraction yields -0
		daysUntilDue = 0
	}
	effort := task.EffortHours()
	average := effort / math.Max(daysUntilDue, 1)
	multiplier := urgencyMultiplier(effort, daysUntilDue)

	return model.PriorityResult{
		TaskID:             task.ID,
		Priority:           average * multiplier,
		UrgencyMultiplier:  multiplier,
		BasePriority:       average,
		DaysUntilDue:       daysUntilDue,
		AverageHoursPerDay: average,
	}
}

func urgencyMultiplier(effort, daysUntilDue float64) float64 {
	multiplier := 1.0
	for _, tier := range urgencyTiers {
		if effort < tier.maxEffort && daysUntilDue <= tier.maxDays {
			multiplier = tier.multiplier
			break
		}
	}

	// Overdue beats everything; an impossible deadline beats the tiers.
	switch {
	case daysUntilDue <= 0:
		multiplier = overdueMultiplier
	case effort > daysUntilDue*workdayHours:
		multiplier = impossibleMultiplier
	}
	return multiplier
}
