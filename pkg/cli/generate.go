package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/harrisonrobin/studyplan/pkg/google"
	"github.com/harrisonrobin/studyplan/pkg/ics"
	"github.com/harrisonrobin/studyplan/pkg/index"
	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/orgmode"
	"github.com/harrisonrobin/studyplan/pkg/planfile"
	"github.com/harrisonrobin/studyplan/pkg/render"
	"github.com/harrisonrobin/studyplan/pkg/scheduler"
	"github.com/harrisonrobin/studyplan/pkg/taskwarrior"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// generateOptions are the flags shared by generate and watch.
type generateOptions struct {
	planPath       string
	useTaskwarrior bool
	twFilter       []string
	orgFiles       []string
	busyFromGoogle bool
	week           string
	user           string
	buffer         int
	minSession     int
	maxSession     int
	icsPath        string
	asJSON         bool
	save           bool
}

func (o *generateOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.planPath, "plan", "", "YAML plan file with tasks and busy periods")
	f.BoolVar(&o.useTaskwarrior, "taskwarrior", false, "read tasks from taskwarrior")
	f.StringSliceVar(&o.twFilter, "tw-filter", []string{"status:pending"}, "taskwarrior filter")
	f.StringSliceVar(&o.orgFiles, "org", nil, "org-mode files to read TODO headlines from")
	f.BoolVar(&o.busyFromGoogle, "busy-from-google", false, "read busy periods from Google Calendar")
	f.StringVar(&o.week, "week", "", "week start YYYY-MM-DD (default: Monday of the current week)")
	f.StringVar(&o.user, "user", "", "user the schedule belongs to")
	f.IntVar(&o.buffer, "buffer", 0, "minutes kept free around busy periods")
	f.IntVar(&o.minSession, "min", 0, "shortest usable slot in minutes")
	f.IntVar(&o.maxSession, "max", 0, "longest session in minutes")
	f.StringVar(&o.icsPath, "ics", "", "also write the schedule as an iCalendar file")
	f.BoolVar(&o.asJSON, "json", false, "print the schedule as JSON")
	f.BoolVar(&o.save, "save", true, "store the schedule for show, export and sync")
}

func newGenerateCommand(app *App) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the study schedule for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.planPath == "" && !opts.useTaskwarrior && len(opts.orgFiles) == 0 {
				return fmt.Errorf("no task source: use --plan, --taskwarrior or --org")
			}
			_, err := app.generate(cmd, opts)
			return err
		},
	}
	opts.bind(cmd)
	return cmd
}

// sources is everything read from the task and busy-time inputs.
type sources struct {
	mu    sync.Mutex
	user  string
	week  *model.Date
	tasks []model.Task
	busy  []model.BusyPeriod
}

func (s *sources) add(tasks []model.Task, busy []model.BusyPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, tasks...)
	s.busy = append(s.busy, busy...)
}

func (a *App) schedulerConfig(cmd *cobra.Command, opts *generateOptions) scheduler.Config {
	cfg := a.cfg.Scheduler
	if cmd.Flags().Changed("buffer") {
		cfg.BufferMinutes = opts.buffer
	}
	if cmd.Flags().Changed("min") {
		cfg.MinSessionMinutes = opts.minSession
	}
	if cmd.Flags().Changed("max") {
		cfg.MaxSessionMinutes = opts.maxSession
	}
	return cfg
}

// resolveWeek picks --week, then the plan file's week_start, then the
// current week. Dates that are not Mondays move back to their week's Monday.
func (a *App) resolveWeek(opts *generateOptions, fromPlan *model.Date) (model.Date, error) {
	var week model.Date
	switch {
	case opts.week != "":
		d, err := model.ParseDate(opts.week)
		if err != nil {
			return model.Date{}, err
		}
		week = d
	case fromPlan != nil && !fromPlan.IsZero():
		week = *fromPlan
	default:
		return model.WeekStart(a.Now().In(a.location())), nil
	}

	monday := model.WeekStart(week.Time)
	if !monday.Equal(week.Time) {
		slog.Warn("week start is not a Monday, using the Monday of that week", "given", week.String(), "week", monday.String())
	}
	return monday, nil
}

// readSources loads the plan file, taskwarrior and org files concurrently.
// Google busy time is fetched afterwards because it needs the week.
func (a *App) readSources(ctx context.Context, opts *generateOptions) (*sources, error) {
	src := &sources{}
	loc := a.location()

	g, ctx := errgroup.WithContext(ctx)
	if opts.planPath != "" {
		g.Go(func() error {
			pf, err := planfile.Load(opts.planPath)
			if err != nil {
				return err
			}
			src.mu.Lock()
			src.user = pf.User
			src.week = pf.WeekStart
			src.mu.Unlock()
			src.add(pf.Tasks, pf.Busy)
			slog.Debug("plan file loaded", "path", opts.planPath, "tasks", len(pf.Tasks), "busy", len(pf.Busy))
			return nil
		})
	}
	if opts.useTaskwarrior {
		g.Go(func() error {
			tasks, err := taskwarrior.NewClient().LoadTasks(ctx, opts.twFilter, loc)
			if err != nil {
				return err
			}
			src.add(tasks, nil)
			slog.Debug("taskwarrior tasks loaded", "tasks", len(tasks))
			return nil
		})
	}
	if len(opts.orgFiles) > 0 {
		g.Go(func() error {
			tasks, err := orgmode.ParseFiles(opts.orgFiles)
			if err != nil {
				return err
			}
			src.add(tasks, nil)
			slog.Debug("org tasks loaded", "files", len(opts.orgFiles), "tasks", len(tasks))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return src, nil
}

func (a *App) googleBusy(ctx context.Context, week model.Date) ([]model.BusyPeriod, error) {
	idx, err := index.NewEventIndex(index.DefaultPath(a.configDir))
	if err != nil {
		return nil, err
	}
	client, err := google.NewClient(ctx, a.configDir, a.cfg.Calendar, idx)
	if err != nil {
		return nil, err
	}
	return client.BusyPeriods(ctx, a.cfg.BusyCalendars, week, a.location())
}

// generate runs one full generation and emits its outputs.
func (a *App) generate(cmd *cobra.Command, opts *generateOptions) (model.GeneratedSchedule, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	engine, err := scheduler.New(a.schedulerConfig(cmd, opts))
	if err != nil {
		return model.GeneratedSchedule{}, err
	}

	src, err := a.readSources(ctx, opts)
	if err != nil {
		return model.GeneratedSchedule{}, err
	}

	week, err := a.resolveWeek(opts, src.week)
	if err != nil {
		return model.GeneratedSchedule{}, err
	}

	if opts.busyFromGoogle {
		busy, err := a.googleBusy(ctx, week)
		if err != nil {
			return model.GeneratedSchedule{}, fmt.Errorf("failed to read busy time from Google Calendar: %w", err)
		}
		src.add(nil, busy)
	}

	user := opts.user
	if user == "" {
		user = src.user
	}
	req := scheduler.Request{
		UserID:    a.user(user),
		WeekStart: week,
		Tasks:     src.tasks,
		Busy:      src.busy,
		Now:       a.Now(),
		Location:  a.location(),
	}
	plan := engine.Plan(req)
	sched := engine.Assemble(req, plan)

	slog.Info("schedule generated",
		"user", sched.UserID,
		"week", sched.WeekStart.String(),
		"tasks", len(src.tasks),
		"chunks", len(plan.Chunks),
		"sessions", len(sched.Sessions),
		"dropped", len(plan.Dropped))
	for _, chunk := range plan.Dropped {
		slog.Warn("no free slot for session", "task", chunk.TaskID, "title", chunk.Title, "hours", chunk.EffortHours)
	}

	if opts.save {
		st, err := a.openStore()
		if err != nil {
			return sched, err
		}
		st.Put(sched)
		if err := st.Save(); err != nil {
			return sched, fmt.Errorf("failed to save schedule: %w", err)
		}
	}

	if opts.icsPath != "" {
		if err := writeICS(opts.icsPath, sched, a.cfg.Calendar); err != nil {
			return sched, err
		}
		slog.Info("calendar file written", "path", opts.icsPath)
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return sched, enc.Encode(sched)
	}
	fmt.Fprint(cmd.OutOrStdout(), render.Schedule(sched, a.location()))
	return sched, nil
}

func writeICS(path string, sched model.GeneratedSchedule, calendarName string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ics.Write(f, sched, ics.Options{CalendarName: calendarName}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
