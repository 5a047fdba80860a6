package model

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MinutesPerDay is the length of the virtual day swept for free time.
const MinutesPerDay = 24 * 60

// DaysPerWeek is the number of day indexes in a week (0 = Monday).
const DaysPerWeek = 7

// BusyTypeBusy is the only busy-period type that blocks study time.
const BusyTypeBusy = "busy"

// ClockMinutes is a time of day expressed as minutes since midnight.
type ClockMinutes int

// ParseClock parses "HH:MM" (24h) into minutes since midnight. "24:00" is
// accepted as the end of the day.
func ParseClock(s string) (ClockMinutes, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	total := hours*60 + mins
	if hours < 0 || mins < 0 || mins > 59 || total > MinutesPerDay {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return ClockMinutes(total), nil
}

func (c ClockMinutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// UnmarshalYAML accepts either an integer minute count or an "HH:MM" string.
func (c *ClockMinutes) UnmarshalYAML(node *yaml.Node) error {
	var n int
	if err := node.Decode(&n); err == nil {
		*c = ClockMinutes(n)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the clock as "HH:MM".
func (c ClockMinutes) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// BusyPeriod is a fixed commitment during which nothing may be scheduled.
type BusyPeriod struct {
	Day   int          `json:"day" yaml:"day"` // 0 = Monday
	Start ClockMinutes `json:"start" yaml:"start"`
	End   ClockMinutes `json:"end" yaml:"end"`
	Type  string       `json:"type,omitempty" yaml:"type,omitempty"`
	Label string       `json:"label,omitempty" yaml:"label,omitempty"`
}

// Blocks reports whether the period participates in free-time calculation.
func (b BusyPeriod) Blocks() bool {
	return b.Type == BusyTypeBusy
}

// DaySchedule is one weekday's busy periods, ascending by start minute.
type DaySchedule struct {
	Day  int
	Busy []BusyPeriod
}

// AvailableSlot is a free interval on a given day after buffering.
type AvailableSlot struct {
	Day      int `json:"day"`
	Start    int `json:"start"`
	End      int `json:"end"`
	Duration int `json:"duration"`
}

func (s AvailableSlot) String() string {
	return fmt.Sprintf("day %d %s-%s (%dm)", s.Day, ClockMinutes(s.Start), ClockMinutes(s.End), s.Duration)
}
