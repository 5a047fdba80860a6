package taskwarrior

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/util"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
)

const sourceName = "taskwarrior"

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.Format(taskwarriorTimeLayout) + `"`), nil
}

type Annotation struct {
	Description string      `json:"description"`
	Entry       *CustomTime `json:"entry"`
}

// Task is one record of `task export`. Est is the estimate UDA
// (uda.estimate.label=est) as an ISO 8601 duration such as PT1H30M.
type Task struct {
	UUID        string       `json:"uuid"`
	Description string       `json:"description"`
	Due         *CustomTime  `json:"due,omitempty"`
	Status      string       `json:"status"`
	Project     string       `json:"project,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Est         string       `json:"est,omitempty"`
}

// ToModel converts the export record into a study task. The due date is the
// calendar date of the due timestamp in loc.
func (t Task) ToModel(loc *time.Location) (model.Task, error) {
	out := model.Task{
		ID:        t.UUID,
		Title:     t.Description,
		Completed: t.Status == COMPLETED || t.Status == DELETED,
		Activity:  t.Project,
		Source:    sourceName,
	}

	if t.Due != nil && !t.Due.IsZero() {
		if loc == nil {
			loc = time.UTC
		}
		d := model.NewDate(t.Due.In(loc))
		out.Due = &d
	}

	if t.Est != "" {
		est, err := util.ParseDuration(t.Est)
		if err != nil {
			return model.Task{}, fmt.Errorf("task %s: %w", t.UUID, err)
		}
		if err := model.ValidateEstimate(est.Hours()); err != nil {
			return model.Task{}, fmt.Errorf("task %s: %w", t.UUID, err)
		}
		out.EstimatedHours = est.Hours()
	}

	var notes []string
	for _, ann := range t.Annotations {
		notes = append(notes, ann.Description)
	}
	out.Notes = strings.Join(notes, "\n")
	return out, nil
}
