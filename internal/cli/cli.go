package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/specialistvlad/fxgraph/internal/app"
	"github.com/specialistvlad/fxgraph/internal/config"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	cacheRoot  string
	storePath  string
}

// Execute runs fxc with args. Results are written to outW, logs and help to
// errW and outW as cobra does.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, loader config.GraphLoader) error {
	root := NewRootCommand(outW, errW, loader)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the fxc command tree.
func NewRootCommand(outW, errW io.Writer, loader config.GraphLoader) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "fxc",
		Short: "Compile VFX node graphs into runtime expression sheets",
		Long: `fxc compiles effect graphs authored in HCL into the flat expression sheets,
spawner tables and generated shader sources a particle runtime consumes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.FileName, "Path to the project config file.")
	pf.StringVar(&flags.logLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&flags.cacheRoot, "cache-root", "", "Directory generated sources are written to.")
	pf.StringVar(&flags.storePath, "store", "", "Path to the sqlite sub-asset store.")

	newApp := func(cmd *cobra.Command) (*app.App, error) {
		cfg, err := flags.resolve(cmd)
		if err != nil {
			return nil, err
		}
		return app.NewApp(outW, errW, cfg, loader), nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "compile [paths...]",
			Short: "Compile graphs and write generated sources to the cache",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				_, err = a.Compile(cmd.Context(), args)
				return err
			},
		},
		&cobra.Command{
			Use:   "save [paths...]",
			Short: "Compile graphs, embed their sources and persist sub-assets",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				_, err = a.Save(cmd.Context(), args)
				return err
			},
		},
		&cobra.Command{
			Use:   "dump <path>",
			Short: "Print the compiled sheet of one graph as YAML",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				return a.Dump(cmd.Context(), args[0])
			},
		},
	)
	return root
}

// resolve loads the config file and applies flag overrides. A missing file
// is only an error when --config was given explicitly.
func (f *globalFlags) resolve(cmd *cobra.Command) (*config.Model, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, usageError("%v", err)
		}
		cfg = config.Default()
	}

	if f.logLevel != "" {
		cfg.Log.Level = strings.ToLower(f.logLevel)
	}
	if f.logFormat != "" {
		cfg.Log.Format = strings.ToLower(f.logFormat)
	}
	if f.cacheRoot != "" {
		cfg.CacheRoot = f.cacheRoot
	}
	if f.storePath != "" {
		cfg.StorePath = f.storePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}
