package scheduler

import (
	"sort"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// GroupBusyPeriods groups the "busy" periods of a week by day and sorts each
// day ascending by start minute. The result always has seven entries; days
// with nothing booked have an empty Busy slice. Periods with a day index
// outside 0-6 are ignored. Overlaps are passed through untouched.
func GroupBusyPeriods(periods []model.BusyPeriod) []model.DaySchedule {
	week := make([]model.DaySchedule, model.DaysPerWeek)
	for day := range week {
		week[day].Day = day
	}
	for _, p := range periods {
		if !p.Blocks() || p.Day < 0 || p.Day >= model.DaysPerWeek {
			continue
		}
		week[p.Day].Busy = append(week[p.Day].Busy, p)
	}
	for day := range week {
		busy := week[day].Busy
		sort.SliceStable(busy, func(i, j int) bool {
			return busy[i].Start < busy[j].Start
		})
	}
	return week
}
