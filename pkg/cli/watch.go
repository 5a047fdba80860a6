package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/harrisonrobin/studyplan/pkg/watch"
	"github.com/spf13/cobra"
)

func newWatchCommand(app *App) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the schedule whenever the plan or org files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files := append([]string{}, opts.orgFiles...)
			if opts.planPath != "" {
				files = append(files, opts.planPath)
			}
			if len(files) == 0 {
				return errors.New("nothing to watch: use --plan or --org")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			if _, err := app.generate(cmd, opts); err != nil {
				slog.Error("generation failed", "error", err)
			}

			w, err := watch.New(files, watch.DefaultDebounce, func(path string) {
				slog.Info("input changed", "path", path)
				if _, err := app.generate(cmd, opts); err != nil {
					slog.Error("generation failed", "error", err)
				}
			})
			if err != nil {
				return err
			}
			slog.Info("watching for changes", "files", files)
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}
