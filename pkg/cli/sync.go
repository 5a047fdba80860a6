package cli

import (
	"fmt"
	"log/slog"

	"github.com/harrisonrobin/studyplan/pkg/auth"
	"github.com/harrisonrobin/studyplan/pkg/colors"
	"github.com/harrisonrobin/studyplan/pkg/google"
	"github.com/harrisonrobin/studyplan/pkg/index"
	"github.com/spf13/cobra"
)

func newSyncCommand(app *App) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Publish the stored schedule to Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sched, err := app.storedSchedule(user)
			if err != nil {
				return err
			}

			idx, err := index.NewEventIndex(index.DefaultPath(app.configDir))
			if err != nil {
				return err
			}
			palette, err := colors.NewColorCache(colors.DefaultPath(app.configDir))
			if err != nil {
				return err
			}

			client, err := google.NewClient(cmd.Context(), app.configDir, app.cfg.Calendar, idx)
			if err != nil {
				return err
			}

			result, syncErr := client.SyncSchedule(cmd.Context(), sched, palette)
			// Whatever was created before a failure is still indexed.
			if err := idx.Save(); err != nil {
				slog.Error("failed to save event index", "error", err)
			}
			if err := palette.Save(); err != nil {
				slog.Error("failed to save color cache", "error", err)
			}
			if syncErr != nil {
				return syncErr
			}

			slog.Info("calendar synced",
				"calendar", app.cfg.Calendar,
				"created", result.Created,
				"updated", result.Updated,
				"unchanged", result.Unchanged,
				"deleted", result.Deleted)
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d session(s) to %q: %d created, %d updated, %d deleted.\n",
				len(sched.Sessions), app.cfg.Calendar, result.Created, result.Updated, result.Deleted)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user whose schedule to publish")
	return cmd
}

func newAuthCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := auth.RemoveToken(app.configDir); err != nil {
				return err
			}
			if _, err := auth.GetClient(cmd.Context(), app.configDir, auth.Scopes); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Authorization complete.")
			return nil
		},
	}
}
