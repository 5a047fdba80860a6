package scheduler

import (
	"math"
	"testing"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTask_EvenSplit(t *testing.T) {
	task := model.Task{ID: "essay", Title: "Essay", Notes: "draft", Activity: "english", Due: due("2026-10-21"), EstimatedHours: 4}
	chunks := ChunkTask(task, 60)
	require.Len(t, chunks, 4)

	for i, c := range chunks {
		assert.Equal(t, "essay", c.TaskID)
		assert.Equal(t, i+1, c.Index)
		assert.Equal(t, 4, c.TotalChunks)
		assert.Equal(t, 1.0, c.EffortHours)
		assert.Equal(t, "draft", c.Notes)
		assert.Equal(t, "english", c.Activity)
		assert.Same(t, task.Due, c.Due)
		assert.Zero(t, c.Priority)
	}
	assert.Equal(t, "Essay (Part 1 of 4)", chunks[0].Title)
	assert.Equal(t, "Essay (Part 4 of 4)", chunks[3].Title)
}

func TestChunkTask_RemainderGoesLast(t *testing.T) {
	chunks := ChunkTask(model.Task{ID: "t", Title: "Lab", EstimatedHours: 2.5}, 60)
	require.Len(t, chunks, 3)
	assert.Equal(t, []float64{1, 1, 0.5}, []float64{chunks[0].EffortHours, chunks[1].EffortHours, chunks[2].EffortHours})
	assert.Equal(t, 30, requiredMinutes(chunks[2]))
}

func TestChunkTask_SingleChunkKeepsTitle(t *testing.T) {
	chunks := ChunkTask(model.Task{ID: "t", Title: "Read chapter", EstimatedHours: 1.5}, 120)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Read chapter", chunks[0].Title)
	assert.Equal(t, 1, chunks[0].TotalChunks)
	assert.Equal(t, 90, requiredMinutes(chunks[0]))
}

func TestChunkTask_DefaultsToOneHour(t *testing.T) {
	chunks := ChunkTask(model.Task{ID: "t", Title: "Quiz"}, 30)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0.5, chunks[0].EffortHours)
	assert.Equal(t, 0.5, chunks[1].EffortHours)
}

func TestChunkTask_SumsToEffort(t *testing.T) {
	for _, hours := range []float64{0.25, 1, 1.1666666666666667, 3.3, 7.75, 20} {
		for _, maxMinutes := range []int{30, 45, 60, 90, 120} {
			chunks := ChunkTask(model.Task{ID: "t", Title: "x", EstimatedHours: hours}, maxMinutes)
			var sum float64
			for _, c := range chunks {
				assert.LessOrEqual(t, requiredMinutes(c), maxMinutes)
				sum += c.EffortHours
			}
			assert.InDelta(t, hours, sum, 1e-9, "hours=%v max=%d", hours, maxMinutes)
		}
	}
}

func TestRequiredMinutes_RoundsUp(t *testing.T) {
	assert.Equal(t, 70, requiredMinutes(model.TaskChunk{EffortHours: 70.0 / 60}))
	assert.Equal(t, 1, requiredMinutes(model.TaskChunk{EffortHours: 0.001}))
	assert.Equal(t, 61, requiredMinutes(model.TaskChunk{EffortHours: 1.01}))
}

func TestChunkTask_HugeEstimateIsBounded(t *testing.T) {
	for _, hours := range []float64{1e15, math.Inf(1)} {
		chunks := ChunkTask(model.Task{ID: "typo", Title: "Typo", EstimatedHours: hours}, 120)
		require.Len(t, chunks, int(model.MaxEffortHours/2))
		assert.Equal(t, 2.0, chunks[len(chunks)-1].EffortHours)
	}
}

func TestChunkTask_NaNEstimateUsesDefault(t *testing.T) {
	chunks := ChunkTask(model.Task{ID: "t", Title: "Lab", EstimatedHours: math.NaN()}, 120)
	require.Len(t, chunks, 1)
	assert.Equal(t, model.DefaultEffortHours, chunks[0].EffortHours)
}
