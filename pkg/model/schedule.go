package model

import "time"

// ScheduleVersion is stamped on every generated schedule.
const ScheduleVersion = 1

// ScheduledSession is one placed study session.
type ScheduledSession struct {
	ID         string    `json:"id" yaml:"id"`
	TaskID     string    `json:"task_id" yaml:"task_id"`
	Title      string    `json:"title" yaml:"title"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Start      time.Time `json:"start" yaml:"start"`
	End        time.Time `json:"end" yaml:"end"`
	DayOfWeek  int       `json:"day_of_week" yaml:"day_of_week"`
	ChunkIndex *int      `json:"chunk_index,omitempty" yaml:"chunk_index,omitempty"` // set only for split tasks
	Priority   float64   `json:"priority" yaml:"priority"`
	Activity   string    `json:"activity,omitempty" yaml:"activity,omitempty"`
	Location   string    `json:"location,omitempty" yaml:"location,omitempty"`
}

// Duration returns the session length.
func (s ScheduledSession) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// GeneratedSchedule is the envelope produced by one generation run.
type GeneratedSchedule struct {
	UserID      string             `json:"user_id" yaml:"user_id"`
	WeekStart   Date               `json:"week_start" yaml:"week_start"`
	Sessions    []ScheduledSession `json:"sessions" yaml:"sessions"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Version     int                `json:"version" yaml:"version"`
}

// WeekEnd returns the first date after the schedule's week.
func (g GeneratedSchedule) WeekEnd() Date {
	return g.WeekStart.AddDays(DaysPerWeek)
}
