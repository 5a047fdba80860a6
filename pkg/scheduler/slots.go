package scheduler

import "github.com/harrisonrobin/studyplan/pkg/model"

// AvailableSlots sweeps one day's sorted busy periods and returns the free
// intervals between them, ordered by start.
//
// A gap before a busy period loses BufferMinutes on both sides. The gap after
// the last busy period loses it only at its start and runs to midnight. Slots
// shorter than MinSessionMinutes are discarded.
//
// The cursor only moves forward, so a period nested inside an earlier one
// cannot reopen time that is still booked.
func AvailableSlots(day model.DaySchedule, cfg Config) []model.AvailableSlot {
	var slots []model.AvailableSlot
	cursor := 0
	for _, busy := range day.Busy {
		start := cursor + cfg.BufferMinutes
		end := int(busy.Start) - cfg.BufferMinutes
		if end-start >= cfg.MinSessionMinutes {
			slots = append(slots, newSlot(day.Day, start, end))
		}
		if int(busy.End) > cursor {
			cursor = int(busy.End)
		}
	}

	start := cursor + cfg.BufferMinutes
	if model.MinutesPerDay-start >= cfg.MinSessionMinutes {
		slots = append(slots, newSlot(day.Day, start, model.MinutesPerDay))
	}
	return slots
}

// WeekSlots computes the available slots of every day in week.
func WeekSlots(week []model.DaySchedule, cfg Config) [][]model.AvailableSlot {
	out := make([][]model.AvailableSlot, len(week))
	for i, day := range week {
		out[i] = AvailableSlots(day, cfg)
	}
	return out
}

func newSlot(day, start, end int) model.AvailableSlot {
	return model.AvailableSlot{Day: day, Start: start, End: end, Duration: end - start}
}
