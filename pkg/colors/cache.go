package colors

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Google Calendar event colour ids 1-11 are handed out to activities;
// sessions without an activity get DefaultColorID.
const (
	DefaultColorID = "8" // graphite
	maxColorID     = 11
	cacheFile      = "activity_colors.json"
)

type ActivityState struct {
	ColorID  string    `json:"color_id"`
	LastUsed time.Time `json:"last_used"`
}

// ColorCache assigns stable colours to activities, recycling the least
// recently used colour once all eleven are taken.
type ColorCache struct {
	Path       string
	Activities map[string]*ActivityState
	dirty      bool
	now        func() time.Time
}

// DefaultPath returns the cache file inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, cacheFile)
}

// NewColorCache loads the cache at path, or starts empty if it does not exist.
func NewColorCache(path string) (*ColorCache, error) {
	cache := &ColorCache{
		Path:       path,
		Activities: make(map[string]*ActivityState),
		now:        time.Now,
	}

	if err := cache.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&c.Activities); err != nil {
		return fmt.Errorf("failed to decode colour cache %s: %w", c.Path, err)
	}
	return nil
}

// Save writes the cache if anything changed since it was loaded.
func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0700); err != nil {
		return fmt.Errorf("failed to create colour cache directory: %w", err)
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("failed to create colour cache file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(c.Activities); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// GetColorID returns the colour for an activity, assigning one if needed.
func (c *ColorCache) GetColorID(activity string) string {
	if activity == "" {
		return DefaultColorID
	}

	if state, ok := c.Activities[activity]; ok {
		state.LastUsed = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(activity)
}

func (c *ColorCache) assignColor(activity string) string {
	used := make(map[string]bool)
	for _, s := range c.Activities {
		used[s.ColorID] = true
	}

	for i := 1; i <= maxColorID; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			c.set(activity, id)
			return id
		}
	}

	var oldest string
	var oldestTime time.Time
	for name, s := range c.Activities {
		if oldest == "" || s.LastUsed.Before(oldestTime) {
			oldest, oldestTime = name, s.LastUsed
		}
	}
	recycled := c.Activities[oldest].ColorID
	delete(c.Activities, oldest)
	c.set(activity, recycled)
	return recycled
}

func (c *ColorCache) set(activity, colorID string) {
	c.Activities[activity] = &ActivityState{ColorID: colorID, LastUsed: c.now()}
	c.dirty = true
}
