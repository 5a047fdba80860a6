package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/harrisonrobin/studyplan/pkg/config"
	"github.com/harrisonrobin/studyplan/pkg/ics"
	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/render"
	"github.com/harrisonrobin/studyplan/pkg/store"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func (a *App) storedSchedule(user string) (model.GeneratedSchedule, error) {
	st, err := a.openStore()
	if err != nil {
		return model.GeneratedSchedule{}, err
	}
	sched, err := st.Get(a.user(user))
	if errors.Is(err, store.ErrNotFound) {
		return sched, fmt.Errorf("%w for %q: run generate first", err, a.user(user))
	}
	return sched, err
}

func newShowCommand(app *App) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sched, err := app.storedSchedule(user)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Schedule(sched, app.location()))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user whose schedule to show")
	return cmd
}

func newExportCommand(app *App) *cobra.Command {
	var user, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored schedule as iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sched, err := app.storedSchedule(user)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return ics.Write(cmd.OutOrStdout(), sched, ics.Options{CalendarName: app.cfg.Calendar})
			}
			if err := writeICS(out, sched, app.cfg.Calendar); err != nil {
				return err
			}
			slog.Info("calendar file written", "path", out, "sessions", len(sched.Sessions))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user whose schedule to export")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newSweepCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove stored schedules for weeks that have ended",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			removed := st.Sweep(app.Now())
			for _, sched := range removed {
				slog.Info("removed past schedule", "user", sched.UserID, "week", sched.WeekStart.String())
			}
			if err := st.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d schedule(s).\n", len(removed))
			return nil
		},
	}
}

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := toml.Marshal(app.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveFile(app.configPath, app.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	})
	return cmd
}
