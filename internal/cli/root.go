package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/masterplan/internal/app"
	"github.com/alexanderramin/masterplan/internal/cli/formatter"
	"github.com/alexanderramin/masterplan/internal/config"
)

// EnvConfigPath names the config file when --config is not given.
const EnvConfigPath = "MASTERPLAN_CONFIG"

// Opener builds the App a command runs against.
type Opener func(ctx context.Context, cfg *config.Config) (*app.App, error)

type globalOptions struct {
	configPath string
	dbDriver   string
	dbDSN      string
	open       Opener
}

func addGlobalFlags(fs *pflag.FlagSet, o *globalOptions) {
	fs.StringVar(&o.configPath, "config", "", "path to a YAML config file (env "+EnvConfigPath+")")
	fs.StringVar(&o.dbDriver, "db-driver", "", "database driver: sqlite or postgres")
	fs.StringVar(&o.dbDSN, "db-dsn", "", "database DSN or SQLite file path")
}

// NewRootCmd creates the top-level "masterplan" command. A nil open uses
// app.New.
func NewRootCmd(open Opener) *cobra.Command {
	if open == nil {
		open = app.New
	}
	opts := &globalOptions{open: open}

	root := &cobra.Command{
		Use:           "masterplan",
		Short:         "Project master-plan service: projects, classification trees, schedules and progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			formatter.SetColorEnabled(isTerminal(cmd.OutOrStdout()))
		},
	}
	addGlobalFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTreeCmd(opts),
		newDashboardCmd(opts),
	)
	return root
}

// Execute runs the root command and reports errors on stderr.
func Execute(ctx context.Context) int {
	root := NewRootCmd(nil)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig resolves the config file, then applies flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.dbDriver != "" {
		cfg.Database.Driver = o.dbDriver
	}
	if o.dbDSN != "" {
		cfg.Database.DSN = o.dbDSN
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withApp opens the App for the duration of fn.
func (o *globalOptions) withApp(ctx context.Context, cfg *config.Config, fn func(a *app.App) error) (err error) {
	a, err := o.open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
