package scheduler

import (
	"testing"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(day, start, end int) model.AvailableSlot {
	return model.AvailableSlot{Day: day, Start: start, End: end, Duration: end - start}
}

func chunk(task string, index int, hours, priority float64) model.TaskChunk {
	return model.TaskChunk{TaskID: task, Title: task, Index: index, TotalChunks: 1, EffortHours: hours, Priority: priority}
}

func TestAllocate_PriorityOrder(t *testing.T) {
	chunks := []model.TaskChunk{
		chunk("low", 1, 1, 0.5),
		chunk("high", 1, 1, 20),
		chunk("mid", 1, 1, 4),
	}
	slots := [][]model.AvailableSlot{
		{slot(0, 60, 120), slot(0, 600, 700)},
		{slot(1, 60, 120)},
	}

	placed, dropped := Allocate(chunks, slots)
	assert.Empty(t, dropped)
	require.Len(t, placed, 3)
	assert.Equal(t, "high", placed[0].Chunk.TaskID)
	assert.Equal(t, slot(0, 60, 120), placed[0].Slot)
	assert.Equal(t, "mid", placed[1].Chunk.TaskID)
	assert.Equal(t, slot(0, 600, 700), placed[1].Slot)
	assert.Equal(t, "low", placed[2].Chunk.TaskID)
	assert.Equal(t, slot(1, 60, 120), placed[2].Slot)
	assert.Equal(t, 60, placed[2].Minutes)
}

func TestAllocate_TiesKeepInputOrder(t *testing.T) {
	chunks := []model.TaskChunk{chunk("a", 1, 1, 3), chunk("b", 1, 1, 3), chunk("c", 1, 1, 3)}
	slots := [][]model.AvailableSlot{{slot(0, 0, 60), slot(0, 100, 160), slot(0, 200, 260)}}

	placed, _ := Allocate(chunks, slots)
	require.Len(t, placed, 3)
	assert.Equal(t, "a", placed[0].Chunk.TaskID)
	assert.Equal(t, 0, placed[0].Slot.Start)
	assert.Equal(t, "b", placed[1].Chunk.TaskID)
	assert.Equal(t, 100, placed[1].Slot.Start)
	assert.Equal(t, "c", placed[2].Chunk.TaskID)
	assert.Equal(t, 200, placed[2].Slot.Start)
}

func TestAllocate_SlotTieBreak(t *testing.T) {
	tests := []struct {
		name  string
		slots [][]model.AvailableSlot
		want  model.AvailableSlot
	}{
		{
			name:  "earliest day beats longer slot",
			slots: [][]model.AvailableSlot{{slot(0, 900, 960)}, {slot(1, 0, 600)}},
			want:  slot(0, 900, 960),
		},
		{
			name:  "earliest start within a day",
			slots: [][]model.AvailableSlot{{slot(2, 60, 600), slot(2, 30, 90)}},
			want:  slot(2, 30, 90),
		},
		{
			name:  "longest duration for equal start",
			slots: [][]model.AvailableSlot{{slot(4, 60, 120), slot(4, 60, 300)}},
			want:  slot(4, 60, 300),
		},
		{
			name:  "too short slots are skipped",
			slots: [][]model.AvailableSlot{{slot(0, 0, 59)}, {slot(5, 0, 60)}},
			want:  slot(5, 0, 60),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placed, dropped := Allocate([]model.TaskChunk{chunk("t", 1, 1, 1)}, tt.slots)
			assert.Empty(t, dropped)
			require.Len(t, placed, 1)
			assert.Equal(t, tt.want, placed[0].Slot)
		})
	}
}

func TestAllocate_WholeSlotIsClaimed(t *testing.T) {
	chunks := []model.TaskChunk{chunk("a", 1, 0.5, 2), chunk("b", 1, 0.5, 1)}
	slots := [][]model.AvailableSlot{{slot(0, 0, 600)}}

	placed, dropped := Allocate(chunks, slots)
	require.Len(t, placed, 1)
	assert.Equal(t, "a", placed[0].Chunk.TaskID)
	assert.Equal(t, 30, placed[0].Minutes)
	require.Len(t, dropped, 1)
	assert.Equal(t, "b", dropped[0].TaskID)
}

func TestAllocate_DropsWhenNothingFits(t *testing.T) {
	placed, dropped := Allocate([]model.TaskChunk{chunk("big", 1, 3, 9)}, [][]model.AvailableSlot{{slot(0, 0, 120)}})
	assert.Empty(t, placed)
	assert.Len(t, dropped, 1)
}

func TestAllocate_DoesNotReorderInput(t *testing.T) {
	chunks := []model.TaskChunk{chunk("low", 1, 1, 1), chunk("high", 1, 1, 5)}
	Allocate(chunks, nil)
	assert.Equal(t, "low", chunks[0].TaskID)
}

func TestSessionKey(t *testing.T) {
	a := Allocation{Chunk: model.TaskChunk{TaskID: "abc", Index: 3}}
	assert.Equal(t, "abc#3", a.SessionKey())
}
