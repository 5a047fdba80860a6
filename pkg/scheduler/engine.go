package scheduler

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harrisonrobin/studyplan/pkg/model"
)

// Engine generates weekly study schedules. It is immutable after New and may
// be shared between goroutines.
type Engine struct {
	cfg   Config
	newID func() string
}

// New builds an Engine from a validated config.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, newID: uuid.NewString}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Request holds everything one generation run reads.
type Request struct {
	UserID    string
	WeekStart model.Date
	Tasks     []model.Task
	Busy      []model.BusyPeriod
	// Now is the clock used for scoring and stamping the schedule. The zero
	// value means the wall clock at the time of the call.
	Now time.Time
	// Location anchors week dates and due dates. Nil means UTC.
	Location *time.Location
}

func (r Request) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r Request) now() time.Time {
	if r.Now.IsZero() {
		return time.Now()
	}
	return r.Now
}

// Plan holds the intermediate products of a run. Dropped lists chunks that
// found no slot; they never appear in the generated schedule.
type Plan struct {
	Week        []model.DaySchedule
	Slots       [][]model.AvailableSlot
	Priorities  []model.PriorityResult
	Chunks      []model.TaskChunk
	Allocations []Allocation
	Dropped     []model.TaskChunk
}

// Plan runs slot calculation, scoring, chunking and allocation.
func (e *Engine) Plan(req Request) Plan {
	req.Now = req.now()
	pending := incompleteTasks(req.Tasks)
	if len(pending) == 0 {
		return Plan{}
	}

	var plan Plan
	plan.Week = GroupBusyPeriods(req.Busy)
	plan.Slots = WeekSlots(plan.Week, e.cfg)

	for _, task := range pending {
		score := ScorePriority(task, req.Now, req.location())
		plan.Priorities = append(plan.Priorities, score)
		for _, chunk := range ChunkTask(task, e.cfg.MaxSessionMinutes) {
			chunk.Priority = score.Priority
			plan.Chunks = append(plan.Chunks, chunk)
		}
	}

	plan.Allocations, plan.Dropped = Allocate(plan.Chunks, plan.Slots)
	return plan
}

// Generate produces the schedule envelope for req. It always succeeds; with
// no incomplete tasks the schedule simply has no sessions.
func (e *Engine) Generate(req Request) model.GeneratedSchedule {
	req.Now = req.now()
	return e.Assemble(req, e.Plan(req))
}

// Assemble converts a plan's allocations into absolute-time sessions.
func (e *Engine) Assemble(req Request, plan Plan) model.GeneratedSchedule {
	loc := req.location()
	sessions := make([]model.ScheduledSession, 0, len(plan.Allocations))
	for _, a := range plan.Allocations {
		date := req.WeekStart.AddDays(a.Slot.Day).Midnight(loc)
		start := date.Add(time.Duration(a.Slot.Start) * time.Minute)

		session := model.ScheduledSession{
			ID:        e.newID(),
			TaskID:    a.Chunk.TaskID,
			Title:     a.Chunk.Title,
			Notes:     a.Chunk.Notes,
			Start:     start,
			End:       start.Add(time.Duration(a.Minutes) * time.Minute),
			DayOfWeek: a.Slot.Day,
			Priority:  a.Chunk.Priority,
			Activity:  a.Chunk.Activity,
		}
		if a.Chunk.TotalChunks > 1 {
			index := a.Chunk.Index
			session.ChunkIndex = &index
		}
		sessions = append(sessions, session)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Start.Before(sessions[j].Start)
	})

	return model.GeneratedSchedule{
		UserID:      req.UserID,
		WeekStart:   req.WeekStart,
		Sessions:    sessions,
		GeneratedAt: req.now(),
		Version:     model.ScheduleVersion,
	}
}

func incompleteTasks(tasks []model.Task) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}
