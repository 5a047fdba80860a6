// Package cli provides the studyplan command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/config"
	"github.com/harrisonrobin/studyplan/pkg/logging"
	"github.com/harrisonrobin/studyplan/pkg/store"
	"github.com/spf13/cobra"
)

// App carries what every command needs once flags are parsed.
type App struct {
	Out io.Writer
	Err io.Writer
	// Now is the clock used for scoring and default week selection.
	Now func() time.Time

	configPath string
	configDir  string
	logLevel   string
	cfg        *config.Config
}

// NewApp returns an App writing to the process's stdout/stderr.
func NewApp() *App {
	return &App{Out: os.Stdout, Err: os.Stderr, Now: time.Now}
}

// NewRootCommand creates the root command.
func NewRootCommand(app *App, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "studyplan",
		Short: "Fit study tasks into the free time of your week",
		Long: `studyplan reads your tasks (plan file, taskwarrior or org-mode) and your
busy time (plan file or Google Calendar), scores tasks by urgency, splits
them into sessions and places the sessions into free slots of the week.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.load(cmd)
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/studyplan/config.toml)")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newGenerateCommand(app),
		newWatchCommand(app),
		newShowCommand(app),
		newExportCommand(app),
		newSyncCommand(app),
		newAuthCommand(app),
		newConfigCommand(app),
		newSweepCommand(app),
	)
	return root
}

func (a *App) load(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return fmt.Errorf("could not find path to configuration file: %w", err)
		}
		path = p
	}
	a.configPath = path

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	a.configDir = dir

	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = a.logLevel
	}
	logging.Setup(a.Err, level)
	slog.Debug("configuration loaded", "path", path)
	return nil
}

func (a *App) location() *time.Location {
	loc, err := a.cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

func (a *App) openStore() (*store.Store, error) {
	return store.Open(store.DefaultPath(a.configDir))
}

func (a *App) user(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return a.cfg.User
}
