package scheduler

import (
	"fmt"
	"sort"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// Allocation is a chunk placed into a slot.
type Allocation struct {
	Chunk   model.TaskChunk
	Slot    model.AvailableSlot
	Minutes int
}

// SessionKey identifies the allocation independently of the generated session
// id, so repeated runs can be matched against each other.
func (a Allocation) SessionKey() string {
	return SessionKey(a.Chunk.TaskID, a.Chunk.Index)
}

// SessionKey builds the stable key of a task chunk.
func SessionKey(taskID string, chunkIndex int) string {
	return fmt.Sprintf("%s#%d", taskID, chunkIndex)
}

// Allocate assigns chunks to slots greedily.
//
// Chunks are taken in descending priority order (ties keep input order). Each
// one goes to the unclaimed slot that can hold it with the earliest day, then
// the earliest start, then the longest duration. A used slot is claimed whole.
// Chunks with no fitting slot are returned in dropped.
func Allocate(chunks []model.TaskChunk, slots [][]model.AvailableSlot) (placed []Allocation, dropped []model.TaskChunk) {
	queue := make([]model.TaskChunk, len(chunks))
	copy(queue, chunks)
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].Priority > queue[j].Priority
	})

	var free []model.AvailableSlot
	for _, day := range slots {
		free = append(free, day...)
	}
	claimed := make([]bool, len(free))

	for _, chunk := range queue {
		need := requiredMinutes(chunk)
		best := -1
		for i, slot := range free {
			if claimed[i] || slot.Duration < need {
				continue
			}
			if best < 0 || betterSlot(slot, free[best]) {
				best = i
			}
		}
		if best < 0 {
			dropped = append(dropped, chunk)
			continue
		}
		claimed[best] = true
		placed = append(placed, Allocation{Chunk: chunk, Slot: free[best], Minutes: need})
	}
	return placed, dropped
}

func betterSlot(a, b model.AvailableSlot) bool {
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.Duration > b.Duration
}
