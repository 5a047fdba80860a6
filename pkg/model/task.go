package model

import (
	"errors"
	"fmt"
	"math"
)

// Task represents a study task from any source.
type Task struct {
	ID             string  `json:"id" yaml:"id"`
	Title          string  `json:"title" yaml:"title"`
	Notes          string  `json:"notes,omitempty" yaml:"notes,omitempty"`
	Due            *Date   `json:"due,omitempty" yaml:"due,omitempty"` // nil means undated
	EstimatedHours float64 `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	Completed      bool    `json:"completed,omitempty" yaml:"completed,omitempty"`
	Activity       string  `json:"activity,omitempty" yaml:"activity,omitempty"`
	Source         string  `json:"source,omitempty" yaml:"source,omitempty"` // "plan", "taskwarrior" or "orgmode"
}

const (
	// DefaultEffortHours is used when a task carries no estimate.
	DefaultEffortHours = 1.0
	// MaxEffortHours bounds a single estimate. Anything above it is a typo,
	// not study work, and would only produce chunks no week can hold.
	MaxEffortHours = 1000.0
)

// ErrInvalidEstimate is returned by sources for unusable effort estimates.
var ErrInvalidEstimate = errors.New("invalid estimate")

// ValidateEstimate rejects estimates that are not finite, negative or above
// MaxEffortHours. Zero means "no estimate".
func ValidateEstimate(hours float64) error {
	switch {
	case math.IsNaN(hours) || math.IsInf(hours, 0):
		return fmt.Errorf("%w: %v hours", ErrInvalidEstimate, hours)
	case hours < 0:
		return fmt.Errorf("%w: %v hours is negative", ErrInvalidEstimate, hours)
	case hours > MaxEffortHours:
		return fmt.Errorf("%w: %v hours exceeds %v", ErrInvalidEstimate, hours, MaxEffortHours)
	}
	return nil
}

// EffortHours returns the estimated effort, defaulting to one hour and
// clamped to MaxEffortHours.
func (t Task) EffortHours() float64 {
	switch {
	case math.IsNaN(t.EstimatedHours) || t.EstimatedHours <= 0:
		return DefaultEffortHours
	case t.EstimatedHours > MaxEffortHours:
		return MaxEffortHours
	}
	return t.EstimatedHours
}

// Undated reports whether the task has no due date.
func (t Task) Undated() bool {
	return t.Due == nil || t.Due.IsZero()
}

// TaskChunk is a bounded piece of a task's effort, scheduled as one session.
type TaskChunk struct {
	TaskID      string
	Title       string
	Notes       string
	Activity    string
	EffortHours float64
	Priority    float64
	Due         *Date
	Index       int // 1-based
	TotalChunks int
}

// PriorityResult explains how a task's priority score was derived.
type PriorityResult struct {
	TaskID             string
	Priority           float64
	UrgencyMultiplier  float64
	BasePriority       float64
	DaysUntilDue       float64 // +Inf for undated tasks
	AverageHoursPerDay float64
}
