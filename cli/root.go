// ABOUTME: Root cobra command and the per-invocation application context
// ABOUTME: Resolves config from file, .env, environment and flags, then opens the store
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bigmeta/config"
	"github.com/harperreed/bigmeta/metadata"
	"github.com/harperreed/bigmeta/repository"
	"github.com/harperreed/bigmeta/store"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	directory  string
	driver     string
	storePath  string
	verbose    bool
}

// app is built once per command invocation.
type app struct {
	version string
	flags   globalFlags

	cfg    *config.Config
	store  store.Store
	svc    *metadata.Service
	logger *log.Logger
}

// NewRootCommand builds the full command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:           "bigmeta",
		Short:         "Generate and update big object metadata files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/bigmeta/config.yaml)")
	pf.StringVar(&a.flags.envFile, "env-file", config.EnvFileName, "Project env file with BIGMETA_* overrides")
	pf.StringVar(&a.flags.directory, "directory", "", "Metadata root directory (default: force-app/main/default)")
	pf.StringVar(&a.flags.driver, "store", "", "Store driver: fs, badger or sqlite")
	pf.StringVar(&a.flags.storePath, "store-path", "", "Badger directory or sqlite file")
	pf.BoolVar(&a.flags.verbose, "verbose", false, "Debug logging on stderr")

	root.AddCommand(
		newObjectCmd(a),
		newPermsetCmd(a),
		newGithubCmd(a),
		newMCPCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(version string) int {
	root := NewRootCommand(version)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig resolves the configuration without opening the store.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	configPath := a.flags.configPath
	if configPath == "" {
		configPath = config.Path()
	}
	cfg, err := config.LoadFrom(configPath, a.flags.envFile)
	if err != nil {
		return nil, err
	}

	if a.flags.directory != "" {
		cfg.Directory = a.flags.directory
	}
	if a.flags.driver != "" {
		cfg.Store.Driver = a.flags.driver
	}
	if a.flags.storePath != "" {
		cfg.Store.Path = a.flags.storePath
	}
	if a.flags.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	a.logger.Debug("config resolved", "path", configPath, "directory", cfg.Directory, "store", cfg.Store.Driver)
	a.cfg = cfg
	return cfg, nil
}

// service opens the store and returns the metadata service.
func (a *app) service(cmd *cobra.Command) (*metadata.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(cfg.Store.Driver, "", cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	a.logger.Debug("store opened", "driver", cfg.Store.Driver, "path", cfg.StorePath())

	a.store = s
	a.svc = metadata.NewService(repository.NewObjectRepository(s, cfg.Directory), cfg)
	return a.svc, nil
}

// withService wraps a command body that needs the store, closing it after.
func (a *app) withService(fn func(cmd *cobra.Command, args []string, svc *metadata.Service) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		svc, err := a.service(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args, svc)
	}
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	a.svc = nil
	return err
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.New(w)
	logger.SetPrefix("bigmeta")
	logger.SetReportTimestamp(false)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bigmeta version %s\n", a.version)
		},
	}
}
