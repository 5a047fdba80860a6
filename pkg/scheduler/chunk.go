package scheduler

import (
	"fmt"
	"math"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// epsilon absorbs float noise before rounding up, so 70 minutes stored as
// 1.1666666666666667 hours still needs a 70 minute slot.
const epsilon = 1e-9

func ceilTolerant(x float64) float64 {
	return math.Ceil(x - epsilon)
}

// ChunkTask splits task into pieces no longer than maxSessionMinutes. Chunk
// priorities are left at zero for the caller to fill in. Effort is bounded by
// Task.EffortHours, so the chunk count is too.
func ChunkTask(task model.Task, maxSessionMinutes int) []model.TaskChunk {
	effort := task.EffortHours()
	total := 1
	maxChunkHours := effort
	if maxSessionMinutes > 0 {
		maxChunkHours = float64(maxSessionMinutes) / 60
		total = int(ceilTolerant(effort / maxChunkHours))
	}
	if total < 1 {
		total = 1
	}

	chunks := make([]model.TaskChunk, 0, total)
	remaining := effort
	for i := 1; i <= total; i++ {
		hours := math.Min(remaining, maxChunkHours)
		remaining -= hours

		title := task.Title
		if total > 1 {
			title = fmt.Sprintf("%s (Part %d of %d)", task.Title, i, total)
		}
		chunks = append(chunks, model.TaskChunk{
			TaskID:      task.ID,
			Title:       title,
			Notes:       task.Notes,
			Activity:    task.Activity,
			EffortHours: hours,
			Due:         task.Due,
			Index:       i,
			TotalChunks: total,
		})
	}
	return chunks
}

// requiredMinutes is the slot length a chunk needs.
func requiredMinutes(chunk model.TaskChunk) int {
	return int(ceilTolerant(chunk.EffortHours * 60))
}
