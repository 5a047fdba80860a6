package colors

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *ColorCache {
	t.Helper()
	c, err := NewColorCache(filepath.Join(t.TempDir(), "colors.json"))
	require.NoError(t, err)
	clock := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return c
}

func TestGetColorID_Stable(t *testing.T) {
	c := newTestCache(t)
	assert.Equal(t, DefaultColorID, c.GetColorID(""))

	maths := c.GetColorID("maths")
	history := c.GetColorID("history")
	assert.Equal(t, "1", maths)
	assert.Equal(t, "2", history)
	assert.Equal(t, maths, c.GetColorID("maths"))
}

func TestGetColorID_RecyclesLeastRecentlyUsed(t *testing.T) {
	c := newTestCache(t)
	for i := 0; i < maxColorID; i++ {
		c.GetColorID(fmt.Sprintf("a%d", i))
	}
	// touch a0 so a1 becomes the oldest
	c.GetColorID("a0")

	got := c.GetColorID("new")
	assert.Equal(t, "2", got)
	_, stillThere := c.Activities["a1"]
	assert.False(t, stillThere)
	assert.Len(t, c.Activities, maxColorID)
}

func TestSaveAndReload(t *testing.T) {
	c := newTestCache(t)
	c.GetColorID("maths")
	require.NoError(t, c.Save())

	reloaded, err := NewColorCache(c.Path)
	require.NoError(t, err)
	assert.Equal(t, "1", reloaded.GetColorID("maths"))
}
