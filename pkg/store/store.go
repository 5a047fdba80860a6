// Package store keeps the latest generated schedule of each user in a JSON
// file. Writes are last-writer-wins; nothing guards against two generators
// racing for the same user.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// ErrNotFound is returned when a user has no stored schedule.
var ErrNotFound = errors.New("no stored schedule")

const storeFile = "schedules.json"

type Store struct {
	Schedules map[string]model.GeneratedSchedule `json:"schedules"`
	Path      string                             `json:"-"`
	dirty     bool
}

// DefaultPath returns the store file inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, storeFile)
}

// Open loads the store at path, or starts empty if it does not exist.
func Open(path string) (*Store, error) {
	s := &Store{
		Path:      path,
		Schedules: make(map[string]model.GeneratedSchedule),
	}
	if err := s.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return s, nil
}

func (s *Store) Load() error {
	f, err := os.Open(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(s); err != nil {
		return fmt.Errorf("failed to decode schedule store %s: %w", s.Path, err)
	}
	if s.Schedules == nil {
		s.Schedules = make(map[string]model.GeneratedSchedule)
	}
	return nil
}

func (s *Store) Save() error {
	if !s.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}

	tmp := s.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Get returns the stored schedule of user.
func (s *Store) Get(user string) (model.GeneratedSchedule, error) {
	sched, ok := s.Schedules[user]
	if !ok {
		return model.GeneratedSchedule{}, fmt.Errorf("%w for user %q", ErrNotFound, user)
	}
	return sched, nil
}

// Put replaces the stored schedule of sched.UserID.
func (s *Store) Put(sched model.GeneratedSchedule) {
	s.Schedules[sched.UserID] = sched
	s.dirty = true
}

func (s *Store) Remove(user string) {
	if _, exists := s.Schedules[user]; exists {
		delete(s.Schedules, user)
		s.dirty = true
	}
}

// Users returns the users with a stored schedule, sorted.
func (s *Store) Users() []string {
	users := make([]string, 0, len(s.Schedules))
	for u := range s.Schedules {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// Sweep removes schedules whose week ended before now and returns them.
func (s *Store) Sweep(now time.Time) []model.GeneratedSchedule {
	today := model.NewDate(now)
	var swept []model.GeneratedSchedule
	for _, user := range s.Users() {
		sched := s.Schedules[user]
		if !sched.WeekEnd().After(today.Time) {
			swept = append(swept, sched)
			delete(s.Schedules, user)
			s.dirty = true
		}
	}
	return swept
}
