// Package cli implements the doctree command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"doctree/internal/config"
	"doctree/internal/domain/services"
	docsysSvc "doctree/internal/domain/services/docsystem"
	"doctree/internal/metrics"
	"doctree/internal/repository"
	serviceDocsys "doctree/internal/service/docsystem"
)

// App is what every subcommand operates on
type App struct {
	Hierarchy docsysSvc.HierarchyService
	Analyzer  services.ContentAnalyzer
	Logger    *slog.Logger
	Workspace string

	close func()
}

// Close releases storage connections
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// NewApp wires a service over an already opened backend
func NewApp(backend *repository.Backend, cfg *config.Config, workspace string, logger *slog.Logger) *App {
	analyzer := serviceDocsys.NewContentAnalyzer()
	hierarchy := serviceDocsys.NewHierarchyService(
		backend.Nodes,
		backend.TxManager,
		analyzer,
		metrics.NewMetrics(prometheus.NewRegistry()),
		logger,
		serviceDocsys.HierarchyConfig{
			SnippetRadius:   cfg.SnippetRadius,
			CheckInvariants: true,
		},
	)
	return &App{
		Hierarchy: hierarchy,
		Analyzer:  analyzer,
		Logger:    logger,
		Workspace: workspace,
		close:     backend.Close,
	}
}

// settings holds the global flags
type settings struct {
	cfgFile   string
	workspace string
	verbose   bool
}

// initViper reads the config file and environment. Precedence is flag, then
// DOCTREE_* environment, then config file, then defaults.
func initViper(v *viper.Viper, s *settings) error {
	if s.cfgFile != "" {
		v.SetConfigFile(s.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "doctree"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DOCTREE")
	v.AutomaticEnv()

	base := config.Load()
	v.SetDefault("storage_driver", config.DriverSQLite)
	v.SetDefault("sqlite_path", base.SQLitePath)
	v.SetDefault("database_url", base.DatabaseURL)
	v.SetDefault("table_prefix", base.TablePrefix)
	v.SetDefault("environment", base.Environment)
	v.SetDefault("snippet_radius", base.SnippetRadius)
	v.SetDefault("workspace", "default")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if s.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// configFromViper maps viper keys onto the shared config struct
func configFromViper(v *viper.Viper) *config.Config {
	return &config.Config{
		Environment:   v.GetString("environment"),
		TablePrefix:   v.GetString("table_prefix"),
		StorageDriver: v.GetString("storage_driver"),
		DatabaseURL:   v.GetString("database_url"),
		SQLitePath:    v.GetString("sqlite_path"),
		SnippetRadius: v.GetInt("snippet_radius"),
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewRootCmd builds the command tree. When app is non-nil it is used as is,
// otherwise the app is opened from configuration before each command.
func NewRootCmd(app *App) *cobra.Command {
	s := &settings{}
	v := viper.New()
	opened := false

	root := &cobra.Command{
		Use:           "doctree",
		Short:         "Manage nested document workspaces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app != nil {
				if cmd.Flags().Changed("workspace") {
					app.Workspace = s.workspace
				}
				return nil
			}
			if err := initViper(v, s); err != nil {
				return err
			}
			if err := v.BindPFlag("workspace", cmd.Flags().Lookup("workspace")); err != nil {
				return err
			}

			cfg := configFromViper(v)
			logger := newLogger(cmd.ErrOrStderr(), s.verbose)
			backend, err := repository.Open(context.Background(), cfg, logger)
			if err != nil {
				return err
			}
			app = NewApp(backend, cfg, v.GetString("workspace"), logger)
			opened = true
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opened {
				app.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&s.cfgFile, "config", "", "config file (default is $HOME/.config/doctree/config.yaml)")
	root.PersistentFlags().StringVarP(&s.workspace, "workspace", "W", "default", "workspace to operate on")
	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "log debug output to stderr")

	get := func() *App { return app }
	root.AddCommand(
		NewTreeCmd(get),
		NewListCmd(get),
		NewNewCmd(get),
		NewMoveCmd(get),
		NewDuplicateCmd(get),
		NewRemoveCmd(get),
		NewEditCmd(get),
		NewSearchCmd(get),
		NewSeedCmd(get),
		NewCheckCmd(get),
		NewWorkspacesCmd(get),
	)
	return root
}
