// Package planfile reads and writes the YAML plan file: a week's tasks and
// busy periods in one document.
package planfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"gopkg.in/yaml.v3"
)

// ErrNoWeekStart is returned by RequireWeek when neither the file nor the
// caller names the week.
var ErrNoWeekStart = errors.New("plan file has no week_start")

const sourceName = "plan"

// File is the on-disk plan document.
type File struct {
	User      string             `yaml:"user,omitempty"`
	WeekStart *model.Date        `yaml:"week_start,omitempty"`
	Tasks     []model.Task       `yaml:"tasks"`
	Busy      []model.BusyPeriod `yaml:"busy"`
}

// Load reads the plan file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pf, nil
}

// Decode parses a plan document. Busy periods without a type are treated as
// "busy"; tasks are tagged with the "plan" source.
func Decode(r io.Reader) (*File, error) {
	var pf File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		if errors.Is(err, io.EOF) {
			return &pf, nil
		}
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}

	for i := range pf.Busy {
		if pf.Busy[i].Type == "" {
			pf.Busy[i].Type = model.BusyTypeBusy
		}
	}
	for i := range pf.Tasks {
		if pf.Tasks[i].ID == "" {
			return nil, fmt.Errorf("task %d (%q) has no id", i+1, pf.Tasks[i].Title)
		}
		if err := model.ValidateEstimate(pf.Tasks[i].EstimatedHours); err != nil {
			return nil, fmt.Errorf("task %s: %w", pf.Tasks[i].ID, err)
		}
		if pf.Tasks[i].Source == "" {
			pf.Tasks[i].Source = sourceName
		}
	}
	return &pf, nil
}

// RequireWeek returns override when set, else the file's week_start.
func (pf *File) RequireWeek(override *model.Date) (model.Date, error) {
	if override != nil && !override.IsZero() {
		return *override, nil
	}
	if pf.WeekStart == nil || pf.WeekStart.IsZero() {
		return model.Date{}, ErrNoWeekStart
	}
	return *pf.WeekStart, nil
}

// Save writes pf to path as YAML.
func Save(path string, pf *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(pf); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return enc.Close()
}
